package errcode

import (
	"errors"

	"envnode-go/drivers/dht"
)

// Code is a stable, log-facing error kind.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Sensor
	Timeout          Code = "timeout"
	ChecksumMismatch Code = "checksum_mismatch"
	NotReady         Code = "not_ready"

	// Display / LED transports
	BusFault Code = "bus_fault"

	// Request server
	AcceptFailed     Code = "accept_failed"
	IOFailed         Code = "io_failed"
	MalformedRequest Code = "malformed_request"

	// Network link
	ConnectFailed Code = "connect_failed"

	InvalidParams Code = "invalid_params"

	Error Code = "error" // generic fallback
)

// E keeps the operation and the underlying cause next to a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	} else if e.Err != nil && e.Err != error(e.C) {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.Timeout) match a wrapped *E.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap returns nil for a nil cause, otherwise an *E carrying c.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}

// MapDriverErr maps low-level driver errors to a Code.
func MapDriverErr(err error) Code {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, dht.ErrTimeout):
		return Timeout
	case errors.Is(err, dht.ErrChecksum):
		return ChecksumMismatch
	}
	if c := Of(err); c != Error {
		return c
	}
	return BusFault
}
