// Package sensor turns single-wire transfers into Readings and enforces the
// part's minimum gap between attempts.
package sensor

import (
	"time"

	"envnode-go/drivers/dht"
	"envnode-go/errcode"
	"envnode-go/types"
)

// Source performs one raw transfer (dht.Device in production).
type Source interface {
	Read() (dht.Sample, error)
}

type Reader struct {
	src Source
	now func() time.Time
	min time.Duration

	lastTry time.Time
	tried   bool
	cur     types.Reading
}

// New wraps src. minInterval is raised to dht.MinInterval; now may be nil.
func New(src Source, minInterval time.Duration, now func() time.Time) *Reader {
	if minInterval < dht.MinInterval {
		minInterval = dht.MinInterval
	}
	if now == nil {
		now = time.Now
	}
	return &Reader{src: src, now: now, min: minInterval}
}

// Ready reports whether Measure would attempt a transfer at t.
func (r *Reader) Ready(t time.Time) bool {
	return !r.tried || t.Sub(r.lastTry) >= r.min
}

// Measure attempts one transfer. Every attempt, failed or not, restarts the
// interval. On failure the current Reading is kept and the error carries one
// of errcode.Timeout, errcode.ChecksumMismatch or errcode.NotReady.
func (r *Reader) Measure() (types.Reading, error) {
	t := r.now()
	if !r.Ready(t) {
		return r.cur, &errcode.E{C: errcode.NotReady, Op: "sensor.measure"}
	}
	r.lastTry, r.tried = t, true

	s, err := r.src.Read()
	if err != nil {
		return r.cur, &errcode.E{C: errcode.MapDriverErr(err), Op: "sensor.measure", Err: err}
	}
	r.cur = types.Reading{TemperatureC: s.Celsius(), HumidityPct: s.Humidity(), At: t}
	return r.cur, nil
}

// Current returns the last good Reading (zero if none yet).
func (r *Reader) Current() types.Reading { return r.cur }

// Interval returns the enforced minimum gap.
func (r *Reader) Interval() time.Duration { return r.min }
