package report

import (
	"fmt"
	"image/color"
	"log"
	"sync"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/sweeney/occupancy-gate/internal/logic"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

// Panel draws the count on a pixel display.
type Panel struct {
	mu       sync.Mutex
	d        drivers.Displayer
	capacity uint32
}

// NewPanel creates a panel sink on d.
func NewPanel(d drivers.Displayer, capacity uint32) *Panel {
	return &Panel{d: d, capacity: capacity}
}

// ReportText shows nothing; the panel only tracks the count.
func (p *Panel) ReportText(logic.Event) {}

// RenderCount redraws the whole screen and flushes it.
func (p *Panel) RenderCount(count uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clear()
	tinyfont.WriteLine(p.d, &proggy.TinySZ8pt7b, 0, 10, "People", white)
	tinyfont.WriteLine(p.d, &freemono.Regular9pt7b, 0, 38, fmt.Sprintf("%d/%d", count, p.capacity), white)
	tinyfont.WriteLine(p.d, &proggy.TinySZ8pt7b, 0, 60, "Occupancy: "+string(logic.LevelFor(count, p.capacity)), white)

	if err := p.d.Display(); err != nil {
		log.Printf("report: display flush failed: %v", err)
	}
}

func (p *Panel) clear() {
	w, h := p.d.Size()
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			p.d.SetPixel(x, y, black)
		}
	}
}
