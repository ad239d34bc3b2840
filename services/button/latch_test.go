package button

import (
	"sync"
	"testing"
	"time"

	"envnode-go/types"
)

// fakeIRQPin implements types.IRQPin with minimal behaviour for tests.
type fakeIRQPin struct {
	mu      sync.Mutex
	level   bool
	pull    types.Pull
	edge    types.Edge
	handler func()
}

func (p *fakeIRQPin) ConfigureInput(pull types.Pull) error { p.pull = pull; return nil }
func (p *fakeIRQPin) Get() bool                            { p.mu.Lock(); defer p.mu.Unlock(); return p.level }
func (p *fakeIRQPin) Number() int                          { return 14 }
func (p *fakeIRQPin) SetIRQ(e types.Edge, h func()) error  { p.edge, p.handler = e, h; return nil }
func (p *fakeIRQPin) ClearIRQ() error                      { p.handler = nil; return nil }
func (p *fakeIRQPin) fire(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
	if p.handler != nil {
		p.handler()
	}
}

func TestTakeCollapsesEdges(t *testing.T) {
	var l Latch
	if l.Take() {
		t.Fatal("fresh latch reported an event")
	}
	l.Signal()
	if !l.Take() {
		t.Fatal("expected true after Signal")
	}
	if l.Take() {
		t.Fatal("second Take without Signal must be false")
	}

	for i := 0; i < 5; i++ {
		l.Signal()
	}
	if !l.Take() || l.Take() {
		t.Fatal("repeated signals must collapse into one event")
	}
}

func TestConcurrentSignalNeverLost(t *testing.T) {
	var l Latch
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			l.Signal()
		}
	}()
	seen := false
	for i := 0; i < 1000; i++ {
		if l.Take() {
			seen = true
		}
	}
	wg.Wait()
	if l.Take() {
		seen = true
	}
	if !seen {
		t.Fatal("signals lost")
	}
}

func TestDebounceWindow(t *testing.T) {
	var l Latch
	d := Debounce{Latch: &l, Window: DefaultDebounce}
	t0 := time.Unix(100, 0)

	l.Signal()
	if !d.Take(t0) {
		t.Fatal("first press rejected")
	}
	l.Signal()
	if d.Take(t0.Add(20 * time.Millisecond)) {
		t.Fatal("bounce inside window accepted")
	}
	if l.Take() {
		t.Fatal("suppressed event must still be consumed")
	}
	l.Signal()
	if !d.Take(t0.Add(60 * time.Millisecond)) {
		t.Fatal("press after window rejected")
	}
}

func TestWatchRoutesIRQIntoLatch(t *testing.T) {
	var l Latch
	pin := &fakeIRQPin{level: true}
	detach, err := Watch(pin, types.EdgeFalling, types.PullUp, &l)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if pin.pull != types.PullUp || pin.edge != types.EdgeFalling {
		t.Fatalf("pin not configured: pull=%d edge=%s", pin.pull, pin.edge)
	}

	pin.fire(false)
	if !l.Take() {
		t.Fatal("edge not latched")
	}

	detach()
	pin.fire(true)
	if l.Take() {
		t.Fatal("edge latched after detach")
	}
}
