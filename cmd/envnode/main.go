//go:build rp2040

// Command envnode is the firmware for the sensor node.
//
//	tinygo flash -target=challenger-rp2040 -ldflags="-X main.wifiSSID=lab -X main.wifiPass=secret" ./cmd/envnode
package main

import (
	"context"
	"net/netip"
	"strconv"
	"time"

	"envnode-go/bus"
	"envnode-go/services/button"
	"envnode-go/services/config"
	"envnode-go/services/control"
	"envnode-go/services/display"
	"envnode-go/services/httpd"
	"envnode-go/services/led"
	"envnode-go/services/platform"
	"envnode-go/services/sensor"
	"envnode-go/services/wifi"
	"envnode-go/types"
	"envnode-go/x/logx"
)

// Set at link time.
var (
	wifiSSID   string
	wifiPass   string
	sensorType = "dht11"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	platform.MirrorLog(115200)
	logx.Println("main", "boot")

	cfg := config.Default()
	cfg.WiFi.SSID, cfg.WiFi.Passphrase = wifiSSID, wifiPass
	if t, ok := config.ParseSensorType(sensorType); ok {
		cfg.SensorType = t
	} else {
		logx.Println("main", "unknown sensor type", sensorType, "using dht11")
	}
	cfg = cfg.Normalize()

	board, err := platform.Open(cfg)
	if err != nil {
		logx.Println("main", "platform:", err.Error())
		halt()
	}

	latch := &button.Latch{}
	if _, err := button.Watch(board.Button, types.EdgeFalling, types.PullUp, latch); err != nil {
		logx.Println("main", "button irq:", err.Error())
	}

	act := led.New(board.Strip)
	if err := act.Set(types.RGB{}); err != nil {
		logx.Println("main", "led:", err.Error())
	}

	b := bus.NewBus(4)
	node := b.NewConnection("node")
	go monitor(b.NewConnection("uart"))

	var srv control.Server
	if ip, ok := connect(board, cfg); ok {
		node.Publish(node.NewMessage(bus.T("state", "link"), ip.String(), true))
		ln, err := platform.Listen(cfg.HTTP.Port)
		if err != nil {
			logx.Println("main", "listen:", err.Error())
		} else {
			logx.Println("main", "serving on http://"+ip.String()+":"+strconv.Itoa(cfg.HTTP.Port)+"/")
			srv = httpd.New(ln, cfg.HTTP.ReadBuffer, cfg.HTTP.ReadTimeout)
		}
	}

	loop := control.New(
		sensor.New(board.Sensor, cfg.SensorInterval, nil),
		display.NewPresenter(board.Surface),
		act,
		&button.Debounce{Latch: latch, Window: cfg.Debounce},
		srv,
		control.Options{Tick: cfg.Tick, Bus: node},
	)
	_ = loop.Run(context.Background())
}

// connect associates once; any failure leaves the node running offline.
func connect(board *platform.Board, cfg config.Config) (netip.Addr, bool) {
	if board.Link == nil || board.Addr == nil {
		logx.Println("main", "no wifi credentials, running offline")
		return netip.Addr{}, false
	}
	logx.Println("main", "connecting to", cfg.WiFi.SSID)
	ip, err := wifi.Connect(board.Link, board.Addr, cfg.WiFi)
	if err != nil {
		logx.Println("main", "wifi:", err.Error(), "- running offline")
		return netip.Addr{}, false
	}
	logx.Println("main", "connected, ip", ip.String())
	return ip, true
}

// monitor mirrors state changes to the log.
func monitor(c *bus.Connection) {
	sub := c.Subscribe(bus.T("state", "+"))
	for m := range sub.Channel() {
		switch v := m.Payload.(type) {
		case types.RGB:
			logx.Printf("state", "%s = %d,%d,%d", m.Topic, v.R, v.G, v.B)
		case types.Reading:
			logx.Printf("state", "%s = %d C %d%%", m.Topic, v.TemperatureC, v.HumidityPct)
		default:
			logx.Printf("state", "%s = %v", m.Topic, v)
		}
	}
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
