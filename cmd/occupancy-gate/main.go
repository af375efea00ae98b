// Command occupancy-gate runs the ultrasonic entry gate: it watches for
// people approaching, walks them through the health check and entry
// buttons, and keeps the room under capacity.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/occupancy-gate/internal/display"
	"github.com/sweeney/occupancy-gate/internal/echo"
	"github.com/sweeney/occupancy-gate/internal/gpio"
	"github.com/sweeney/occupancy-gate/internal/logic"
	"github.com/sweeney/occupancy-gate/internal/ranging"
	"github.com/sweeney/occupancy-gate/internal/report"
	"github.com/sweeney/occupancy-gate/internal/status"
	"github.com/sweeney/occupancy-gate/internal/tick"
)

type config struct {
	poll       time.Duration
	chip       string
	pins       gpio.Pins
	serial     string
	baud       int
	i2c        string
	oledAddr   uint
	printState bool
}

func main() {
	var cfg config
	flag.DurationVar(&cfg.poll, "poll", 50*time.Millisecond, "Control loop interval")
	flag.StringVar(&cfg.chip, "chip", gpio.DefaultChip, "GPIO chip name")
	flag.IntVar(&cfg.pins.Trigger, "pin-trigger", gpio.DefaultPins.Trigger, "BCM pin for the sensor trigger")
	flag.IntVar(&cfg.pins.Echo, "pin-echo", gpio.DefaultPins.Echo, "BCM pin for the sensor echo")
	flag.IntVar(&cfg.pins.Red, "pin-red", gpio.DefaultPins.Red, "BCM pin for the deny LED")
	flag.IntVar(&cfg.pins.Green, "pin-green", gpio.DefaultPins.Green, "BCM pin for the grant LED")
	flag.IntVar(&cfg.pins.Health, "pin-health", gpio.DefaultPins.Health, "BCM pin for the health button")
	flag.IntVar(&cfg.pins.Entry, "pin-entry", gpio.DefaultPins.Entry, "BCM pin for the entry button")
	flag.IntVar(&cfg.pins.Exit, "pin-exit", gpio.DefaultPins.Exit, "BCM pin for the exit button")
	flag.StringVar(&cfg.serial, "serial", "", "Serial console device (empty for stdout)")
	flag.IntVar(&cfg.baud, "baud", report.DefaultBaud, "Serial console baud rate")
	flag.StringVar(&cfg.i2c, "i2c", display.DefaultDevice, "I2C adapter for the OLED (empty to disable)")
	flag.UintVar(&cfg.oledAddr, "oled-addr", display.DefaultAddress, "OLED I2C address")
	flag.BoolVar(&cfg.printState, "print-state", false, "Print buttons and one distance reading as JSON and exit")

	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config) error {
	board, err := gpio.Open(cfg.chip, cfg.pins)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer board.Close()

	engine := echo.NewEngine(board, echo.NewMonotonicTimer(), echo.Config{})
	if err := board.WatchEcho(engine.HandleEdge); err != nil {
		return fmt.Errorf("watch echo: %w", err)
	}
	sampler := ranging.NewSampler(engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctlCfg := logic.DefaultConfig()
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:   cfg.poll.Milliseconds(),
		Chip:     cfg.chip,
		Serial:   cfg.serial,
		Display:  cfg.i2c,
		Capacity: ctlCfg.MaxCapacity,
	})

	if cfg.printState {
		buttons, err := board.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		sample := sampler.Sample(ctx)
		tracker.SetInputs(buttons, &sample)
		tracker.SetCapture(engine.Stats())
		fmt.Printf("%s\n", status.FormatJSON(tracker.Snapshot()))
		return nil
	}

	var out io.Writer = os.Stdout
	if cfg.serial != "" {
		port, err := report.OpenSerial(report.SerialConfig{Device: cfg.serial, Baud: cfg.baud})
		if err != nil {
			return fmt.Errorf("init serial: %w", err)
		}
		defer port.Close()
		out = port
	}
	console := report.NewConsole(out, ctlCfg.MaxCapacity)
	sinks := report.Fanout{console}

	if cfg.i2c != "" {
		// The gate works without its panel; a missing OLED is not fatal.
		bus, err := display.OpenI2C(cfg.i2c)
		if err != nil {
			log.Printf("display disabled: %v", err)
		} else {
			defer bus.Close()
			fb := display.New(bus, uint16(cfg.oledAddr))
			sinks = append(sinks, report.NewPanel(fb, ctlCfg.MaxCapacity))
		}
	}

	console.Banner(0)
	sinks.RenderCount(0)

	log.Printf("started: poll=%v chip=%s capacity=%d cooldown=%v", cfg.poll, cfg.chip, ctlCfg.MaxCapacity, ctlCfg.Cooldown)

	ticker := time.NewTicker(cfg.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)

	deps := loopDeps{
		ctl:        logic.NewController(ctlCfg),
		reader:     board,
		indicators: board,
		sampler:    sampler,
		capture:    engine,
		sink:       sinks,
		tracker:    tracker,
	}
	return runLoop(ctx, deps, tick.NewClock(), ticker.C, sigCh)
}

// distanceSampler takes one distance reading.
type distanceSampler interface {
	Sample(ctx context.Context) logic.DistanceSample
}

// captureStats exposes the capture engine counters.
type captureStats interface {
	Stats() echo.Stats
}

type loopDeps struct {
	ctl        *logic.Controller
	reader     gpio.Reader
	indicators gpio.Indicators
	sampler    distanceSampler
	capture    captureStats // optional
	sink       report.Sink
	tracker    *status.Tracker // optional
}

func runLoop(ctx context.Context, d loopDeps, clock tick.Source, ticks <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			if s == syscall.SIGUSR1 {
				if d.tracker != nil {
					log.Printf("status:\n%s", status.FormatJSON(d.tracker.Snapshot()))
				}
				continue
			}

			log.Printf("received %v, shutting down", s)
			if err := d.indicators.Show(logic.SignalClear); err != nil {
				log.Printf("indicator error: %v", err)
			}
			if d.tracker != nil {
				log.Printf("%s", status.FormatStatusEvent(d.tracker.Snapshot(), "SHUTDOWN"))
			}
			return nil

		case <-ticks:
			step(ctx, d, clock.Now())
		}
	}
}

// step runs one control cycle at now.
func step(ctx context.Context, d loopDeps, now tick.Tick) {
	var sample *logic.DistanceSample
	if d.ctl.ShouldSample(now) {
		s := d.sampler.Sample(ctx)
		sample = &s
	}

	buttons, err := d.reader.Read()
	if err != nil {
		// Treat as released: a missed press is retried by the person, a
		// phantom one would change the count.
		log.Printf("gpio read error: %v", err)
		buttons = logic.Buttons{}
	}

	events := d.ctl.Step(logic.Input{Time: now, Sample: sample, Buttons: buttons})

	for _, e := range events {
		log.Printf("event: %s (people=%d level=%s)", e.Type, e.Count, e.Level)
		d.sink.ReportText(e)
		if e.Type.CountChanged() {
			d.sink.RenderCount(e.Count)
		}
		if err := d.indicators.Show(logic.SignalFor(e.Type)); err != nil {
			log.Printf("indicator error: %v", err)
		}
	}

	if d.tracker != nil {
		d.tracker.SetInputs(buttons, sample)
		d.tracker.Update(d.ctl.State(), d.ctl.Level(), d.ctl.EventCountsSnapshot())
		d.tracker.Record(events...)
		if d.capture != nil {
			d.tracker.SetCapture(d.capture.Stats())
		}
	}
}
