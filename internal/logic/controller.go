package logic

import "github.com/sweeney/occupancy-gate/internal/tick"

// button tracks debounce state for a single active-low input.
type button struct {
	debounce uint32 // ms
	pressed  bool
	released bool      // a release has been seen
	since    tick.Tick // time of the last release
}

// edge reports whether a press was recognized this cycle. A press is a
// released-to-pressed transition after the button has been released for at
// least debounce ms; shorter releases are contact bounce, whether they come
// right after a press or at the end of a long hold.
func (b *button) edge(pressed bool, now tick.Tick) bool {
	wasPressed := b.pressed
	b.pressed = pressed
	if !pressed {
		if wasPressed {
			b.released = true
			b.since = now
		}
		return false
	}
	if wasPressed {
		return false
	}
	return !b.released || tick.Since(now, b.since) >= b.debounce
}

// Controller is the occupancy/access state machine.
type Controller struct {
	cfg      Config
	cooldown uint32 // ms
	state    OccupancyState
	detected bool // an approach has been accepted at least once

	health button
	entry  button
	exit   button

	eventCounts EventCounts
}

// NewController creates a controller with an empty room.
func NewController(cfg Config) *Controller {
	def := DefaultConfig()
	if cfg.MaxCapacity == 0 {
		cfg.MaxCapacity = def.MaxCapacity
	}
	if cfg.ApproachCM <= 0 {
		cfg.ApproachCM = def.ApproachCM
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}
	if cfg.HealthDebounce <= 0 {
		cfg.HealthDebounce = def.HealthDebounce
	}
	if cfg.EntryDebounce <= 0 {
		cfg.EntryDebounce = def.EntryDebounce
	}
	if cfg.ExitDebounce <= 0 {
		cfg.ExitDebounce = def.ExitDebounce
	}
	return &Controller{
		cfg:      cfg,
		cooldown: tick.Millis(cfg.Cooldown),
		health:   button{debounce: tick.Millis(cfg.HealthDebounce)},
		entry:    button{debounce: tick.Millis(cfg.EntryDebounce)},
		exit:     button{debounce: tick.Millis(cfg.ExitDebounce)},
	}
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// ShouldSample reports whether the cooldown since the last accepted approach
// has elapsed, so a new distance measurement is worth taking.
func (c *Controller) ShouldSample(now tick.Tick) bool {
	if !c.detected {
		return true
	}
	return tick.Since(now, c.state.LastDetect) > c.cooldown
}

// Step runs one polling cycle and returns the events it produced.
// Inputs are evaluated in a fixed order: approach, health, entry, exit.
// While the room is full every recognized press yields a single capacity
// denial for the cycle and no other processing happens.
func (c *Controller) Step(in Input) []Event {
	var events []Event
	now := in.Time

	if in.Sample != nil && c.ShouldSample(now) {
		events = c.approach(now, *in.Sample, events)
	}

	// Debounce all three every cycle, full or not.
	health := c.health.edge(in.Buttons.Health, now)
	entry := c.entry.edge(in.Buttons.Entry, now)
	exit := c.exit.edge(in.Buttons.Exit, now)

	if c.full() {
		if health || entry || exit {
			events = append(events, c.event(now, EventCapacityDenied))
		}
		return c.count(events)
	}

	if health {
		c.state.HealthOK = true
		events = append(events, c.event(now, EventHealthPassed))
	}
	if entry {
		events = append(events, c.enter(now))
	}
	if exit {
		events = append(events, c.leave(now))
	}
	return c.count(events)
}

func (c *Controller) approach(now tick.Tick, s DistanceSample, events []Event) []Event {
	if !s.Valid || s.Centimeters <= 0 || s.Centimeters >= c.cfg.ApproachCM {
		return events
	}
	c.state.LastDetect = now
	c.detected = true

	ev := c.event(now, EventApproach)
	ev.DistanceCM = s.Centimeters
	events = append(events, ev)

	if c.full() {
		// Lock out the entry flow until someone leaves.
		c.state.CanEnter = false
		c.state.HealthOK = false
		return append(events, c.event(now, EventCapacityDenied))
	}
	c.state.CanEnter = true
	return events
}

func (c *Controller) enter(now tick.Tick) Event {
	if !c.state.CanEnter {
		return c.event(now, EventEntryIgnored)
	}
	c.state.CanEnter = false

	if !c.state.HealthOK {
		return c.event(now, EventHealthDenied)
	}
	c.state.HealthOK = false

	// Checked at approach time too; kept so the count can never pass capacity.
	if c.full() {
		return c.event(now, EventCapacityDenied)
	}
	c.state.PeopleCount++
	return c.event(now, EventAccessGranted)
}

func (c *Controller) leave(now tick.Tick) Event {
	if c.state.PeopleCount == 0 {
		return c.event(now, EventExitEmpty)
	}
	c.state.PeopleCount--
	return c.event(now, EventExit)
}

func (c *Controller) full() bool {
	return c.state.PeopleCount >= c.cfg.MaxCapacity
}

func (c *Controller) event(now tick.Tick, t EventType) Event {
	return Event{
		Time:  now,
		Type:  t,
		Count: c.state.PeopleCount,
		Level: LevelFor(c.state.PeopleCount, c.cfg.MaxCapacity),
	}
}

func (c *Controller) count(events []Event) []Event {
	for _, e := range events {
		switch e.Type {
		case EventApproach:
			c.eventCounts.Approaches++
		case EventCapacityDenied:
			c.eventCounts.CapacityDenied++
		case EventHealthPassed:
			c.eventCounts.HealthPassed++
		case EventAccessGranted:
			c.eventCounts.Granted++
		case EventHealthDenied:
			c.eventCounts.HealthDenied++
		case EventEntryIgnored:
			c.eventCounts.EntryIgnored++
		case EventExit:
			c.eventCounts.Exits++
		case EventExitEmpty:
			c.eventCounts.ExitEmpty++
		}
	}
	return events
}

// State returns a copy of the current occupancy state.
func (c *Controller) State() OccupancyState {
	return c.state
}

// Level returns the current occupancy band.
func (c *Controller) Level() Level {
	return LevelFor(c.state.PeopleCount, c.cfg.MaxCapacity)
}

// EventCountsSnapshot returns a copy of the event counters.
func (c *Controller) EventCountsSnapshot() EventCounts {
	return c.eventCounts
}
