// Package display renders node state onto the OLED.
package display

import (
	"strconv"

	"envnode-go/errcode"
	"envnode-go/types"
)

// Surface is the text-level display contract. Coordinates are the top-left
// corner of the text in pixels.
type Surface interface {
	Clear()
	DrawText(x, y int16, s string)
	Flush() error
}

// Row positions on a 128x64 panel.
var rows = [4]int16{0, 12, 30, 48}

// Presenter redraws the full frame on every call; there is a single writer
// and the refresh rate is ~1 Hz, so no damage tracking is kept.
type Presenter struct {
	s Surface
}

func NewPresenter(s Surface) *Presenter { return &Presenter{s: s} }

// Render draws r, c and the optional press notice, then commits the frame.
func (p *Presenter) Render(r types.Reading, c types.RGB, pressed bool) error {
	p.s.Clear()
	for i, line := range Lines(r, c, pressed) {
		p.s.DrawText(0, rows[i], line)
	}
	if err := p.s.Flush(); err != nil {
		return &errcode.E{C: errcode.BusFault, Op: "display.render", Err: err}
	}
	return nil
}

// Lines returns the text rows for one frame.
func Lines(r types.Reading, c types.RGB, pressed bool) []string {
	t, h := "--", "--"
	if r.Valid() {
		t = strconv.Itoa(r.TemperatureC)
		h = strconv.Itoa(r.HumidityPct)
	}
	out := []string{
		"Temp: " + t + " C",
		"Humidity: " + h + "%",
		"RGB: R" + strconv.Itoa(int(c.R)) + " G" + strconv.Itoa(int(c.G)) + " B" + strconv.Itoa(int(c.B)),
	}
	if pressed {
		out = append(out, "Button pressed")
	}
	return out
}
