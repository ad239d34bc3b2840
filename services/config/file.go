//go:build !rp2040

package config

import (
	"time"

	"github.com/BurntSushi/toml"

	"envnode-go/errcode"
)

// file mirrors Config with durations as strings ("2s", "50ms").
type file struct {
	Sensor struct {
		Type     string `toml:"type"`
		Interval string `toml:"interval"`
	} `toml:"sensor"`
	Loop struct {
		Tick     string `toml:"tick"`
		Debounce string `toml:"debounce"`
	} `toml:"loop"`
	HTTP struct {
		Port        int    `toml:"port"`
		ReadBuffer  int    `toml:"read_buffer"`
		ReadTimeout string `toml:"read_timeout"`
	} `toml:"http"`
	WiFi struct {
		SSID       string `toml:"ssid"`
		Passphrase string `toml:"passphrase"`
		Timeout    string `toml:"timeout"`
	} `toml:"wifi"`
	// Pins starts from the defaults so a partial table keeps the other pins.
	Pins Pins `toml:"pins"`
}

// Load reads a TOML file over Default and normalises the result.
func Load(path string) (Config, error) {
	f := newFile()
	if _, err := toml.DecodeFile(path, f); err != nil {
		return Config{}, &errcode.E{C: errcode.InvalidParams, Op: "config.load", Err: err}
	}
	return f.apply(Default())
}

// Decode is Load for in-memory text.
func Decode(text string) (Config, error) {
	f := newFile()
	if _, err := toml.Decode(text, f); err != nil {
		return Config{}, &errcode.E{C: errcode.InvalidParams, Op: "config.decode", Err: err}
	}
	return f.apply(Default())
}

func newFile() *file {
	return &file{Pins: Default().Pins}
}

func (f *file) apply(c Config) (Config, error) {
	if typ, ok := ParseSensorType(f.Sensor.Type); ok {
		c.SensorType = typ
	} else {
		return Config{}, &errcode.E{C: errcode.InvalidParams, Op: "config.sensor", Msg: "unknown type " + f.Sensor.Type}
	}
	for _, d := range []struct {
		name string
		in   string
		out  *time.Duration
	}{
		{"sensor.interval", f.Sensor.Interval, &c.SensorInterval},
		{"loop.tick", f.Loop.Tick, &c.Tick},
		{"loop.debounce", f.Loop.Debounce, &c.Debounce},
		{"http.read_timeout", f.HTTP.ReadTimeout, &c.HTTP.ReadTimeout},
		{"wifi.timeout", f.WiFi.Timeout, &c.WiFi.Timeout},
	} {
		if d.in == "" {
			continue
		}
		v, err := time.ParseDuration(d.in)
		if err != nil {
			return Config{}, &errcode.E{C: errcode.InvalidParams, Op: "config." + d.name, Err: err}
		}
		*d.out = v
	}
	if f.HTTP.Port != 0 {
		c.HTTP.Port = f.HTTP.Port
	}
	if f.HTTP.ReadBuffer != 0 {
		c.HTTP.ReadBuffer = f.HTTP.ReadBuffer
	}
	if f.WiFi.SSID != "" {
		c.WiFi.SSID = f.WiFi.SSID
		c.WiFi.Passphrase = f.WiFi.Passphrase
	}
	c.Pins = f.Pins
	return c.Normalize(), nil
}
