// Package config holds the node's board wiring, credentials and cadences.
package config

import (
	"time"

	"envnode-go/drivers/dht"
	"envnode-go/x/mathx"
)

// Limits applied by Normalize.
const (
	MinSensorInterval = dht.MinInterval
	MaxDebounce       = time.Second
	MinReadBuffer     = 64
	MaxReadBuffer     = 4096
)

// Pins are GPIO numbers on the board.
type Pins struct {
	DHT    int
	Button int
	LED    int
	SDA    int
	SCL    int
}

type WiFi struct {
	SSID       string
	Passphrase string
	Timeout    time.Duration
	Retries    int
}

type HTTP struct {
	Port        int
	ReadBuffer  int
	ReadTimeout time.Duration
}

type Config struct {
	Pins       Pins
	SensorType dht.Type

	WiFi WiFi
	HTTP HTTP

	// Tick is the sensing/render cadence of the control loop.
	Tick           time.Duration
	SensorInterval time.Duration
	Debounce       time.Duration
	DisplayAddr    uint16
}

// Default returns the wiring of the reference board (Challenger RP2040 WiFi,
// DHT11 on GP15, button on GP14, WS2812 on GP16, OLED on I2C0 GP4/GP5).
func Default() Config {
	return Config{
		Pins:       Pins{DHT: 15, Button: 14, LED: 16, SDA: 4, SCL: 5},
		SensorType: dht.DHT11,
		WiFi:       WiFi{Timeout: 20 * time.Second, Retries: 3},
		HTTP: HTTP{
			Port:        80,
			ReadBuffer:  1024,
			ReadTimeout: 2 * time.Second,
		},
		Tick:           time.Second,
		SensorInterval: 2 * time.Second,
		Debounce:       50 * time.Millisecond,
		DisplayAddr:    0x3C,
	}
}

// Normalize clamps every field into its working range and fills zero values
// from Default.
func (c Config) Normalize() Config {
	d := Default()
	if c.Tick <= 0 {
		c.Tick = d.Tick
	}
	if c.SensorInterval < MinSensorInterval {
		c.SensorInterval = MinSensorInterval
	}
	c.Debounce = mathx.Clamp(c.Debounce, 0, MaxDebounce)
	if c.HTTP.ReadBuffer == 0 {
		c.HTTP.ReadBuffer = d.HTTP.ReadBuffer
	}
	c.HTTP.ReadBuffer = mathx.Clamp(c.HTTP.ReadBuffer, MinReadBuffer, MaxReadBuffer)
	if c.HTTP.ReadTimeout <= 0 {
		c.HTTP.ReadTimeout = d.HTTP.ReadTimeout
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = d.HTTP.Port
	}
	c.HTTP.Port = mathx.Clamp(c.HTTP.Port, 1, 65535)
	if c.WiFi.Timeout <= 0 {
		c.WiFi.Timeout = d.WiFi.Timeout
	}
	if c.WiFi.Retries <= 0 {
		c.WiFi.Retries = d.WiFi.Retries
	}
	if c.DisplayAddr == 0 {
		c.DisplayAddr = d.DisplayAddr
	}
	return c
}

// Online reports whether credentials are present.
func (c Config) Online() bool { return c.WiFi.SSID != "" }

// ParseSensorType maps "dht11"/"dht22" to a driver type.
func ParseSensorType(s string) (dht.Type, bool) {
	switch s {
	case "dht11", "DHT11", "":
		return dht.DHT11, true
	case "dht22", "DHT22", "am2302", "AM2302":
		return dht.DHT22, true
	}
	return dht.DHT11, false
}
