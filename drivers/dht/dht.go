// Package dht provides a driver for the DHT11/DHT22 single-wire
// temperature/humidity sensors.
//
// The transfer is timing based. The host holds the line low for at least
// 18 ms, then releases it to the pull-up. The sensor answers with an 80 us low
// and an 80 us high, then sends 40 bits. Every bit starts with a ~50 us low;
// the length of the following high encodes the value (~26-28 us for 0,
// ~70 us for 1). The fifth byte is the low byte of the sum of the first four.
//
// The driver is written against a small Pin/Clock pair so that the same code
// path runs on the MCU (machine.Pin, time) and on the host (Sim).
package dht

import (
	"errors"
	"time"
)

// Errors returned by the driver.
var (
	ErrTimeout  = errors.New("dht: timeout")
	ErrChecksum = errors.New("dht: checksum mismatch")
)

// Protocol timings. These are the sensor's datasheet contract.
const (
	StartLow      = 18 * time.Millisecond
	ResponseWait  = 100 * time.Microsecond // release -> sensor pulls low
	ResponsePhase = 100 * time.Microsecond // each of the 80 us low/high
	BitLowMax     = 100 * time.Microsecond // nominal 50 us
	BitHighMax    = 100 * time.Microsecond // nominal 26-28 us or 70 us
	OneThreshold  = 40 * time.Microsecond  // a high longer than this is a 1

	// MinInterval is the shortest gap the parts tolerate between transfers.
	MinInterval = 1 * time.Second
)

// Type selects the payload layout.
type Type uint8

const (
	DHT11 Type = iota
	DHT22
)

// Pin is the single data line.
type Pin interface {
	// Output drives the line to level.
	Output(level bool)
	// Input releases the line to the external pull-up.
	Input()
	Get() bool
}

// Clock supplies monotonic time. Sleep is only used for the start pulse.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// Critical is optionally implemented by a Pin that can mask interrupts for
// the duration of a transfer. The returned func restores the previous state.
type Critical interface {
	EnterCritical() (restore func())
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Device wraps the data pin of one sensor.
type Device struct {
	pin  Pin
	clk  Clock
	typ  Type
	buf  [5]byte
	last Sample
}

// New creates a device. clk may be nil to use the wall clock.
func New(pin Pin, typ Type, clk Clock) *Device {
	if clk == nil {
		clk = realClock{}
	}
	return &Device{pin: pin, clk: clk, typ: typ}
}

// Sample holds one decoded transfer.
type Sample struct {
	Raw [5]byte
	// Tenths of a degree Celsius and of a percent RH.
	DeciC  int16
	DeciRH uint16
}

// Celsius returns whole degrees, truncated toward zero.
func (s Sample) Celsius() int { return int(s.DeciC) / 10 }

// Humidity returns whole percent RH, truncated.
func (s Sample) Humidity() int { return int(s.DeciRH) / 10 }

// Last returns the most recent successfully decoded sample.
func (d *Device) Last() Sample { return d.last }

// Read performs one complete transfer and decodes it. On any error the last
// good sample is left untouched.
func (d *Device) Read() (Sample, error) {
	if err := d.transfer(); err != nil {
		return Sample{}, err
	}
	s, err := Decode(d.buf, d.typ)
	if err != nil {
		return Sample{}, err
	}
	d.last = s
	return s, nil
}

func (d *Device) transfer() error {
	d.pin.Output(false)
	d.clk.Sleep(StartLow)

	if c, ok := d.pin.(Critical); ok {
		restore := c.EnterCritical()
		defer restore()
	}
	d.pin.Input()

	// Sensor acknowledges: pulls low, then high, then low for the first bit.
	if _, err := d.waitWhile(true, ResponseWait); err != nil {
		return err
	}
	if _, err := d.waitWhile(false, ResponsePhase); err != nil {
		return err
	}
	if _, err := d.waitWhile(true, ResponsePhase); err != nil {
		return err
	}

	d.buf = [5]byte{}
	for i := 0; i < 40; i++ {
		if _, err := d.waitWhile(false, BitLowMax); err != nil {
			return err
		}
		high, err := d.waitWhile(true, BitHighMax)
		if err != nil {
			return err
		}
		d.buf[i/8] <<= 1
		if high > OneThreshold {
			d.buf[i/8] |= 1
		}
	}
	return nil
}

// waitWhile spins while the line reads level and returns how long it stayed.
func (d *Device) waitWhile(level bool, max time.Duration) (time.Duration, error) {
	start := d.clk.Now()
	for d.pin.Get() == level {
		if d.clk.Now().Sub(start) > max {
			return 0, ErrTimeout
		}
	}
	return d.clk.Now().Sub(start), nil
}

// Decode validates the checksum and converts the five payload bytes.
func Decode(b [5]byte, typ Type) (Sample, error) {
	if b[0]+b[1]+b[2]+b[3] != b[4] {
		return Sample{}, ErrChecksum
	}
	s := Sample{Raw: b}
	switch typ {
	case DHT22:
		s.DeciRH = uint16(b[0])<<8 | uint16(b[1])
		t := int16(uint16(b[2]&0x7F)<<8 | uint16(b[3]))
		if b[2]&0x80 != 0 {
			t = -t
		}
		s.DeciC = t
	default:
		s.DeciRH = uint16(b[0])*10 + uint16(b[1]%10)
		t := int16(b[2])*10 + int16(b[3]&0x0F)
		if b[3]&0x80 != 0 {
			t = -t
		}
		s.DeciC = t
	}
	return s, nil
}
