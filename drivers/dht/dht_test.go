package dht

import (
	"errors"
	"testing"
)

func TestReadDecodesDHT11(t *testing.T) {
	for _, c := range []struct{ temp, rh int }{
		{0, 0}, {23, 41}, {50, 95}, {-5, 20}, {12, 100},
	} {
		sim := NewSim(DHT11, c.temp, c.rh)
		d := New(sim, DHT11, sim)
		s, err := d.Read()
		if err != nil {
			t.Fatalf("%+v: Read: %v", c, err)
		}
		if s.Celsius() != c.temp || s.Humidity() != c.rh {
			t.Fatalf("%+v: got %d C %d %%", c, s.Celsius(), s.Humidity())
		}
	}
}

func TestReadDecodesDHT22(t *testing.T) {
	sim := NewSim(DHT22, -12, 65)
	d := New(sim, DHT22, sim)
	s, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.DeciC != -120 || s.DeciRH != 650 {
		t.Fatalf("unexpected sample: %+v", s)
	}
}

func TestChecksumMismatchKeepsLast(t *testing.T) {
	sim := NewSim(DHT11, 21, 30)
	d := New(sim, DHT11, sim)
	if _, err := d.Read(); err != nil {
		t.Fatalf("first Read: %v", err)
	}
	good := d.Last()

	sim.Set(35, 80)
	sim.SetFault(FaultChecksum)
	if _, err := d.Read(); !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}
	if d.Last() != good {
		t.Fatalf("last sample changed after failed read: %+v", d.Last())
	}
}

func TestTimeoutWhenSensorSilent(t *testing.T) {
	sim := NewSim(DHT11, 21, 30)
	sim.SetFault(FaultTimeout)
	d := New(sim, DHT11, sim)
	if _, err := d.Read(); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestDecodeEveryCorruptedChecksum(t *testing.T) {
	b := [5]byte{40, 0, 22, 0, 62}
	if _, err := Decode(b, DHT11); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	for delta := 1; delta < 256; delta++ {
		bad := b
		bad[4] += byte(delta)
		if _, err := Decode(bad, DHT11); !errors.Is(err, ErrChecksum) {
			t.Fatalf("delta %d: expected ErrChecksum, got %v", delta, err)
		}
	}
}

func TestStartPulseHoldsLineLow(t *testing.T) {
	sim := NewSim(DHT11, 20, 20)
	d := New(sim, DHT11, sim)
	before := sim.Now()
	if _, err := d.Read(); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := sim.Now().Sub(before); got < StartLow {
		t.Fatalf("transfer took %v, shorter than the %v start pulse", got, StartLow)
	}
}
