// Package control owns the node state and sequences sensing, the button
// latch, the LED and the display. Sensing and rendering run on their own
// ticker; HTTP requests arrive from the server goroutine over a channel and
// are applied between cycles, so the Reading and the LED color only ever have
// one writer.
package control

import (
	"context"
	"time"

	"envnode-go/bus"
	"envnode-go/errcode"
	"envnode-go/services/httpd"
	"envnode-go/types"
	"envnode-go/x/logx"
	"envnode-go/x/strx"
)

// Topics published on the optional state bus.
var (
	TopicReading = bus.T("state", "reading")
	TopicColor   = bus.T("state", "color")
	TopicButton  = bus.T("event", "button")
)

type Sensor interface {
	Ready(t time.Time) bool
	Measure() (types.Reading, error)
	Current() types.Reading
}

type Renderer interface {
	Render(r types.Reading, c types.RGB, pressed bool) error
}

type Actuator interface {
	Set(c types.RGB) error
	Current() types.RGB
}

// Presses yields at most one accepted button event per call.
type Presses interface {
	Take(now time.Time) bool
}

type Server interface {
	AcceptAndServe(h httpd.Handler) error
	Close() error
}

type Options struct {
	Tick time.Duration
	Now  func() time.Time
	// Bus, if set, receives retained state and button events.
	Bus *bus.Connection
	// AcceptBackoff is the pause after a failed accept.
	AcceptBackoff time.Duration
}

type job struct {
	req   httpd.Request
	reply chan []byte
}

type Loop struct {
	sensor  Sensor
	disp    Renderer
	led     Actuator
	presses Presses
	srv     Server
	conn    *bus.Connection

	tick    time.Duration
	backoff time.Duration
	now     func() time.Time

	jobs chan job
	done chan struct{}

	pressed bool
}

// New wires the collaborators. srv may be nil for an offline node.
func New(s Sensor, d Renderer, led Actuator, p Presses, srv Server, opt Options) *Loop {
	if opt.Tick <= 0 {
		opt.Tick = time.Second
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.AcceptBackoff <= 0 {
		opt.AcceptBackoff = 100 * time.Millisecond
	}
	return &Loop{
		sensor:  s,
		disp:    d,
		led:     led,
		presses: p,
		srv:     srv,
		conn:    opt.Bus,
		tick:    opt.Tick,
		backoff: opt.AcceptBackoff,
		now:     opt.Now,
		jobs:    make(chan job),
		done:    make(chan struct{}),
	}
}

// Cycle runs one sensing/render step at now: drain the latch, measure if the
// sensor interval has elapsed, redraw. Errors are logged and never returned.
func (l *Loop) Cycle(now time.Time) {
	l.pressed = l.presses.Take(now)
	if l.pressed {
		logx.Println("control", "button pressed")
		l.publish(TopicButton, types.ButtonEvent{At: now}, false)
	}

	if l.sensor.Ready(now) {
		r, err := l.sensor.Measure()
		if err != nil {
			logx.Printf("control", "sensor: %s", errcode.Of(err))
		} else {
			logx.Printf("control", "Temperature: %d C Humidity: %d%%", r.TemperatureC, r.HumidityPct)
			l.publish(TopicReading, r, true)
		}
	}

	l.render()
}

// Handle applies the r, g and b parameters of req over the current color and
// returns the page for the resulting state. A request without any of them
// leaves the LED alone.
func (l *Loop) Handle(req httpd.Request) []byte {
	c := l.led.Current()
	set := false
	if v, ok := req.Channel("r"); ok {
		c.R, set = v, true
	}
	if v, ok := req.Channel("g"); ok {
		c.G, set = v, true
	}
	if v, ok := req.Channel("b"); ok {
		c.B, set = v, true
	}
	if set {
		if err := l.led.Set(c); err != nil {
			logx.Printf("control", "led: %s", errcode.Of(err))
		} else {
			logx.Printf("control", "color set to %d,%d,%d from %s", c.R, c.G, c.B, strx.Coalesce(req.Peer, "unknown peer"))
			l.publish(TopicColor, c, true)
		}
		l.render()
	}
	return httpd.Page{Reading: l.sensor.Current(), Color: l.led.Current()}.HTML()
}

// Submit hands req to the running loop and waits for the page. It is the
// Handler given to the server goroutine.
func (l *Loop) Submit(req httpd.Request) []byte {
	j := job{req: req, reply: make(chan []byte, 1)}
	select {
	case l.jobs <- j:
	case <-l.done:
		return nil
	}
	select {
	case b := <-j.reply:
		return b
	case <-l.done:
		return nil
	}
}

// Run drives the loop until ctx is cancelled. The listener is closed on exit.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	if l.srv != nil {
		go l.serve(ctx)
		go func() {
			<-ctx.Done()
			_ = l.srv.Close()
		}()
	}

	l.Cycle(l.now())
	tick := time.NewTicker(l.tick)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			logx.Println("control", "stopping")
			return ctx.Err()
		case <-tick.C:
			l.Cycle(l.now())
		case j := <-l.jobs:
			j.reply <- l.Handle(j.req)
		}
	}
}

func (l *Loop) serve(ctx context.Context) {
	for {
		err := l.srv.AcceptAndServe(l.Submit)
		if err == nil {
			continue
		}
		if ctx.Err() != nil || httpd.Closed(err) {
			return
		}
		logx.Printf("httpd", "%s: %v", errcode.Of(err), err)
		if errcode.Of(err) == errcode.AcceptFailed {
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.backoff):
			}
		}
	}
}

func (l *Loop) render() {
	if err := l.disp.Render(l.sensor.Current(), l.led.Current(), l.pressed); err != nil {
		logx.Printf("control", "display: %s", errcode.Of(err))
	}
}

func (l *Loop) publish(t bus.Topic, payload any, retained bool) {
	if l.conn == nil {
		return
	}
	l.conn.Publish(l.conn.NewMessage(t, payload, retained))
}
