//go:build !rp2040

package platform

import (
	"errors"
	"testing"
	"time"

	"envnode-go/drivers/dht"
	"envnode-go/services/button"
	"envnode-go/services/config"
	"envnode-go/services/display"
	"envnode-go/services/led"
	"envnode-go/types"
)

func TestSimSensorThroughDecoder(t *testing.T) {
	cfg := config.Default()
	cfg.SensorType = dht.DHT22
	b, sim := OpenSim(cfg)

	sim.Line.Set(-3, 71)
	s, err := b.Sensor.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.Celsius() != -3 || s.Humidity() != 71 {
		t.Fatalf("sample %+v", s)
	}

	sim.Line.SetFault(dht.FaultTimeout)
	if _, err := b.Sensor.Read(); !errors.Is(err, dht.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestButtonFallingEdge(t *testing.T) {
	b, sim := OpenSim(config.Default())
	var l button.Latch
	detach, err := button.Watch(b.Button, types.EdgeFalling, types.PullUp, &l)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	sim.Button.Press()
	sim.Button.Press()
	if !l.Take() || l.Take() {
		t.Fatal("two presses should collapse into one pending event")
	}

	detach()
	sim.Button.Press()
	if l.Take() {
		t.Fatal("edge delivered after detach")
	}
}

func TestPanelAndStrip(t *testing.T) {
	b, sim := OpenSim(config.Default())

	p := display.NewPresenter(b.Surface)
	if err := p.Render(types.Reading{TemperatureC: 20, HumidityPct: 50, At: time.Unix(1, 0)}, types.RGB{}, true); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if sim.Panel.LitIn(0, 10) == 0 || sim.Panel.LitIn(48, 64) == 0 {
		t.Fatal("expected text on first and press rows")
	}

	a := led.New(b.Strip)
	if err := a.Set(types.RGB{R: 1, G: 2, B: 3}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if c := sim.LED.Last(); c.R != 1 || c.G != 2 || c.B != 3 || sim.LED.Writes() != 1 {
		t.Fatalf("strip saw %+v after %d writes", c, sim.LED.Writes())
	}

	sim.LED.Fail = errors.New("stalled")
	if err := a.Set(types.RGB{R: 9}); err == nil {
		t.Fatal("expected failure")
	}
	if sim.LED.Last().R != 1 {
		t.Fatal("failed write changed the strip")
	}
}

func TestBoardWithoutRadioIsOffline(t *testing.T) {
	cfg := config.Default()
	cfg.WiFi.SSID = "lab"
	b, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if b.Link != nil || b.Addr != nil {
		t.Fatal("board without a radio backend must leave Link and Addr nil")
	}
}
