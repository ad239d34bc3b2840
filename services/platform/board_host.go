//go:build !rp2040

package platform

import (
	"image/color"
	"sync"

	"envnode-go/drivers/dht"
	"envnode-go/services/config"
	"envnode-go/services/display"
	"envnode-go/types"
)

// Sim exposes the simulated parts behind a host Board.
type Sim struct {
	Line   *dht.Sim
	Panel  *display.Framebuffer
	LED    *MemStrip
	Button *FakePin
}

// OpenSim builds a board whose sensor line, panel, LED and button are all
// in-process. The sensor decoder runs unchanged against the simulated line.
func OpenSim(cfg config.Config) (*Board, *Sim) {
	s := &Sim{
		Line:   dht.NewSim(cfg.SensorType, 22, 45),
		Panel:  display.NewFramebuffer(128, 64),
		LED:    &MemStrip{},
		Button: &FakePin{number: cfg.Pins.Button, level: true},
	}
	b := &Board{
		Sensor:  dht.New(s.Line, cfg.SensorType, s.Line),
		Surface: display.NewFontSurface(s.Panel),
		Strip:   s.LED,
		Button:  s.Button,
	}
	return b, s
}

// Open is OpenSim without access to the simulated parts.
func Open(cfg config.Config) (*Board, error) {
	b, _ := OpenSim(cfg)
	return b, nil
}

// ----------------------------- LED (host) ------------------------------------

// MemStrip records writes in place of a WS2812 chain.
type MemStrip struct {
	mu     sync.Mutex
	last   []color.RGBA
	writes int

	// Fail, if set, is returned by every write.
	Fail error
	// OnWrite, if set, observes each successful write.
	OnWrite func(c []color.RGBA)
}

func (m *MemStrip) WriteColors(buf []color.RGBA) error {
	m.mu.Lock()
	m.writes++
	if m.Fail != nil {
		err := m.Fail
		m.mu.Unlock()
		return err
	}
	m.last = append(m.last[:0], buf...)
	hook := m.OnWrite
	m.mu.Unlock()
	if hook != nil {
		hook(buf)
	}
	return nil
}

// Last returns the first pixel of the latest write.
func (m *MemStrip) Last() color.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.last) == 0 {
		return color.RGBA{}
	}
	return m.last[0]
}

func (m *MemStrip) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements types.IRQPin. Set drives the level and fires the
// handler on a matching edge, the way the pin interrupt would.
type FakePin struct {
	mu      sync.Mutex
	number  int
	level   bool
	pull    types.Pull
	irqEdge types.Edge
	irqFunc func()
}

func (p *FakePin) ConfigureInput(pull types.Pull) error {
	p.mu.Lock()
	p.pull = pull
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	edge := edgeFrom(p.level, level)
	p.level = level
	irq := p.irqFunc
	want := irqWanted(p.irqEdge, edge)
	p.mu.Unlock()
	if want && irq != nil {
		irq()
	}
}

// Press pulls an active-low button down and releases it.
func (p *FakePin) Press() {
	p.Set(false)
	p.Set(true)
}

func (p *FakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *FakePin) Number() int { return p.number }

func (p *FakePin) SetIRQ(edge types.Edge, handler func()) error {
	p.mu.Lock()
	p.irqEdge = edge
	p.irqFunc = handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge = types.EdgeNone
	p.irqFunc = nil
	p.mu.Unlock()
	return nil
}

func edgeFrom(old, new bool) types.Edge {
	switch {
	case !old && new:
		return types.EdgeRising
	case old && !new:
		return types.EdgeFalling
	default:
		return types.EdgeNone
	}
}

func irqWanted(cfg, seen types.Edge) bool {
	switch cfg {
	case types.EdgeBoth:
		return seen == types.EdgeRising || seen == types.EdgeFalling
	default:
		return cfg != types.EdgeNone && cfg == seen
	}
}
