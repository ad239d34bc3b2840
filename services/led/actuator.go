// Package led drives the single addressable RGB LED.
package led

import (
	"image/color"

	"envnode-go/errcode"
	"envnode-go/types"
)

// Strip is the subset of ws2812.Device the actuator needs.
type Strip interface {
	WriteColors(buf []color.RGBA) error
}

// Actuator is the only writer of the LED color.
type Actuator struct {
	strip Strip
	cur   types.RGB
	buf   [1]color.RGBA
}

func New(strip Strip) *Actuator { return &Actuator{strip: strip} }

// Set writes c to the LED on every call. The retained color changes only if
// the write succeeds; a failed write reports errcode.BusFault.
func (a *Actuator) Set(c types.RGB) error {
	a.buf[0] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
	if err := a.strip.WriteColors(a.buf[:]); err != nil {
		return &errcode.E{C: errcode.BusFault, Op: "led.set", Err: err}
	}
	a.cur = c
	return nil
}

// Current returns the last color successfully written.
func (a *Actuator) Current() types.RGB { return a.cur }
