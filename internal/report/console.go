package report

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/sweeney/occupancy-gate/internal/logic"
)

// Console writes CRLF-terminated lines, the framing a serial terminal expects.
type Console struct {
	mu       sync.Mutex
	w        io.Writer
	capacity uint32
}

// NewConsole creates a console sink writing to w.
func NewConsole(w io.Writer, capacity uint32) *Console {
	return &Console{w: w, capacity: capacity}
}

// Banner prints the startup lines.
func (c *Console) Banner(count uint32) {
	c.lines("System Initialized", fmt.Sprintf("Current People Count: %d", count))
}

// ReportText prints the event message. Count changes are followed by the
// new count and occupancy level.
func (c *Console) ReportText(e logic.Event) {
	if !e.Type.CountChanged() {
		c.lines(e.Type.Message())
		return
	}
	level := e.Level
	if level == "" {
		level = logic.LevelFor(e.Count, c.capacity)
	}
	c.lines(
		e.Type.Message(),
		fmt.Sprintf("Current People Count: %d", e.Count),
		fmt.Sprintf("Occupancy: %s", level),
	)
}

// RenderCount is a no-op; the console already printed the count with the
// event that changed it.
func (c *Console) RenderCount(uint32) {}

func (c *Console) lines(lines ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range lines {
		if _, err := io.WriteString(c.w, l+"\r\n"); err != nil {
			log.Printf("report: console write failed: %v", err)
			return
		}
	}
}
