package dht

import (
	"sync"
	"time"
)

// Fault selects a simulated line failure.
type Fault uint8

const (
	FaultNone     Fault = iota
	FaultTimeout        // sensor never answers the start pulse
	FaultChecksum       // checksum byte is corrupted
)

// Sim emulates a sensor on the data line. It is both the Pin and the Clock
// handed to New: every Get advances virtual time by Step, so the decoder sees
// the same pulse widths a real part would produce.
type Sim struct {
	Step time.Duration

	mu     sync.Mutex
	typ    Type
	deciC  int16
	deciRH uint16
	fault  Fault

	now      time.Duration
	driven   bool
	level    bool
	released time.Duration
	wave     []segment
}

type segment struct {
	level bool
	until time.Duration // offset from release
}

// NewSim returns a simulated sensor reporting c degrees and rh percent.
func NewSim(typ Type, c, rh int) *Sim {
	s := &Sim{Step: time.Microsecond, typ: typ, level: true}
	s.Set(c, rh)
	return s
}

// Set changes the values reported by the next transfer.
func (s *Sim) Set(c, rh int) {
	s.mu.Lock()
	s.deciC = int16(c * 10)
	s.deciRH = uint16(rh * 10)
	s.mu.Unlock()
}

// Values returns the whole degrees and percent currently reported.
func (s *Sim) Values() (c, rh int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.deciC) / 10, int(s.deciRH) / 10
}

// SetFault makes subsequent transfers fail in the given way.
func (s *Sim) SetFault(f Fault) {
	s.mu.Lock()
	s.fault = f
	s.mu.Unlock()
}

// Payload encodes the current values the way the sensor puts them on the wire.
func (s *Sim) Payload() [5]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payloadLocked()
}

func (s *Sim) payloadLocked() [5]byte {
	var b [5]byte
	switch s.typ {
	case DHT22:
		b[0], b[1] = byte(s.deciRH>>8), byte(s.deciRH)
		t := s.deciC
		if t < 0 {
			t = -t
			b[2] = 0x80
		}
		b[2] |= byte(uint16(t)>>8) & 0x7F
		b[3] = byte(t)
	default:
		b[0] = byte(s.deciRH / 10)
		t := s.deciC
		if t < 0 {
			t = -t
			b[3] = 0x80
		}
		b[2] = byte(t / 10)
		b[3] |= byte(t % 10)
	}
	b[4] = b[0] + b[1] + b[2] + b[3]
	if s.fault == FaultChecksum {
		b[4] ^= 0x5A
	}
	return b
}

// Output implements Pin.
func (s *Sim) Output(level bool) {
	s.mu.Lock()
	s.driven, s.level = true, level
	s.wave = nil
	s.mu.Unlock()
}

// Input implements Pin. Releasing the line starts the sensor's answer.
func (s *Sim) Input() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.driven = false
	s.released = s.now
	if s.fault == FaultTimeout {
		s.wave = nil
		return
	}
	s.wave = waveform(s.payloadLocked())
}

// Get implements Pin and advances virtual time.
func (s *Sim) Get() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now += s.Step
	if s.driven {
		return s.level
	}
	off := s.now - s.released
	for _, seg := range s.wave {
		if off < seg.until {
			return seg.level
		}
	}
	return true // idle pull-up
}

// Now implements Clock.
func (s *Sim) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Unix(0, 0).Add(s.now)
}

// Sleep implements Clock.
func (s *Sim) Sleep(d time.Duration) {
	s.mu.Lock()
	s.now += d
	s.mu.Unlock()
}

func waveform(b [5]byte) []segment {
	w := make([]segment, 0, 4+2*40+1)
	at := time.Duration(0)
	add := func(level bool, d time.Duration) {
		at += d
		w = append(w, segment{level: level, until: at})
	}
	add(true, 30*time.Microsecond)
	add(false, 80*time.Microsecond)
	add(true, 80*time.Microsecond)
	for i := 0; i < 40; i++ {
		add(false, 50*time.Microsecond)
		if b[i/8]&(0x80>>(i%8)) != 0 {
			add(true, 70*time.Microsecond)
		} else {
			add(true, 27*time.Microsecond)
		}
	}
	add(false, 50*time.Microsecond)
	return w
}
