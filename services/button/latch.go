// Package button latches a push-button interrupt for the control loop.
package button

import (
	"sync/atomic"
	"time"

	"envnode-go/types"
)

// Latch is a single pending flag. Signal is the only code that runs in
// interrupt context: one atomic store, no allocation, no locks. Any number
// of edges between two Takes collapse into one event.
type Latch struct {
	pending uint32
}

// Signal marks an edge. Safe to call from an ISR.
func (l *Latch) Signal() { atomic.StoreUint32(&l.pending, 1) }

// Take reports whether an edge occurred since the last Take and clears it.
func (l *Latch) Take() bool { return atomic.SwapUint32(&l.pending, 0) == 1 }

// DefaultDebounce is the minimum spacing between accepted presses.
const DefaultDebounce = 50 * time.Millisecond

// Debounce filters Take in the main context. A pending event that arrives
// within Window of the previously accepted one is consumed and dropped, which
// covers contact bounce that straddles two drains of the latch.
type Debounce struct {
	Latch  *Latch
	Window time.Duration

	last time.Time
}

// Take drains the latch and applies the window at time now.
func (d *Debounce) Take(now time.Time) bool {
	if !d.Latch.Take() {
		return false
	}
	if !d.last.IsZero() && now.Sub(d.last) < d.Window {
		return false
	}
	d.last = now
	return true
}

// Watch routes edges from pin into l and returns a func that detaches it.
func Watch(pin types.IRQPin, edge types.Edge, pull types.Pull, l *Latch) (func(), error) {
	if err := pin.ConfigureInput(pull); err != nil {
		return nil, err
	}
	if err := pin.SetIRQ(edge, l.Signal); err != nil {
		return nil, err
	}
	return func() { _ = pin.ClearIRQ() }, nil
}
