//go:build rp2040

package platform

import (
	"image/color"
	"io"
	"machine"
	"os"
	"runtime/interrupt"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/drivers/ws2812"

	"envnode-go/drivers/dht"
	"envnode-go/errcode"
	"envnode-go/services/config"
	"envnode-go/services/display"
	"envnode-go/types"
	"envnode-go/x/logx"
)

// MirrorLog copies log lines to UART0 in addition to USB CDC.
func MirrorLog(baud uint32) {
	u := uartx.UART0
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	logx.SetOutput(io.MultiWriter(os.Stdout, u))
}

// Open configures the pins and buses named in cfg.
func Open(cfg config.Config) (*Board, error) {
	if !userPin(cfg.Pins.DHT) || !userPin(cfg.Pins.Button) || !userPin(cfg.Pins.LED) {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "platform.open", Msg: "pin out of range"}
	}

	line := &dhtPin{p: machine.Pin(cfg.Pins.DHT)}
	line.Input()

	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.Pin(cfg.Pins.SDA),
		SCL:       machine.Pin(cfg.Pins.SCL),
	}); err != nil {
		return nil, &errcode.E{C: errcode.BusFault, Op: "platform.i2c0", Err: err}
	}
	oled := ssd1306.NewI2C(i2c)
	oled.Configure(ssd1306.Config{
		Width:    128,
		Height:   64,
		Address:  cfg.DisplayAddr,
		VccState: ssd1306.SWITCHCAPVCC,
	})

	ledPin := machine.Pin(cfg.Pins.LED)
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	b := &Board{
		Sensor:  dht.New(line, cfg.SensorType, nil),
		Surface: display.NewFontSurface(oled),
		Strip:   &ledStrip{d: ws2812.New(ledPin)},
		Button:  &irqPin{p: machine.Pin(cfg.Pins.Button), n: cfg.Pins.Button},
	}
	if cfg.Online() {
		attachRadio(b)
	}
	return b, nil
}

// Constrain to RP2040 user GPIOs (GP0..GP28).
func userPin(n int) bool { return n >= 0 && n <= 28 }

// ---- single-wire data line ----

type dhtPin struct{ p machine.Pin }

func (d *dhtPin) Output(level bool) {
	d.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.p.Set(level)
}

func (d *dhtPin) Input()    { d.p.Configure(machine.PinConfig{Mode: machine.PinInputPullup}) }
func (d *dhtPin) Get() bool { return d.p.Get() }

// EnterCritical masks interrupts for the bit phase of a transfer.
func (d *dhtPin) EnterCritical() func() {
	state := interrupt.Disable()
	return func() { interrupt.Restore(state) }
}

// ---- WS2812 ----

// ledStrip keeps the bit-banged WS2812 timing free of interrupts.
type ledStrip struct{ d ws2812.Device }

func (s *ledStrip) WriteColors(buf []color.RGBA) error {
	state := interrupt.Disable()
	err := s.d.WriteColors(buf)
	interrupt.Restore(state)
	return err
}

// ---- button GPIO with IRQ ----

type irqPin struct {
	p machine.Pin
	n int
}

func (r *irqPin) ConfigureInput(pull types.Pull) error {
	var mode machine.PinMode
	switch pull {
	case types.PullUp:
		mode = machine.PinInputPullup
	case types.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *irqPin) Get() bool   { return r.p.Get() }
func (r *irqPin) Number() int { return r.n }

func (r *irqPin) SetIRQ(edge types.Edge, handler func()) error {
	return r.p.SetInterrupt(toPinChange(edge), func(machine.Pin) { handler() })
}

func (r *irqPin) ClearIRQ() error {
	var zero machine.PinChange
	return r.p.SetInterrupt(zero, nil)
}

func toPinChange(e types.Edge) machine.PinChange {
	switch e {
	case types.EdgeRising:
		return machine.PinRising
	case types.EdgeFalling:
		return machine.PinFalling
	case types.EdgeBoth:
		return machine.PinToggle
	default:
		var zero machine.PinChange
		return zero
	}
}
