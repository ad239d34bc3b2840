package errcode

import (
	"errors"
	"fmt"
	"testing"

	"envnode-go/drivers/dht"
)

func TestStableStrings(t *testing.T) {
	for c, want := range map[Code]string{
		Timeout:          "timeout",
		ChecksumMismatch: "checksum_mismatch",
		NotReady:         "not_ready",
		BusFault:         "bus_fault",
		AcceptFailed:     "accept_failed",
		IOFailed:         "io_failed",
		MalformedRequest: "malformed_request",
		ConnectFailed:    "connect_failed",
	} {
		if c.Error() != want {
			t.Fatalf("%q != %q", c.Error(), want)
		}
	}
}

func TestOfAndIs(t *testing.T) {
	cause := errors.New("nack")
	err := fmt.Errorf("render: %w", &E{C: BusFault, Op: "display.flush", Err: cause})

	if Of(err) != BusFault {
		t.Fatalf("Of = %q", Of(err))
	}
	if !errors.Is(err, BusFault) || errors.Is(err, Timeout) {
		t.Fatal("errors.Is does not follow the code")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if Of(nil) != OK || Of(cause) != Error || Of(NotReady) != NotReady {
		t.Fatal("unexpected fallback codes")
	}
}

func TestErrorText(t *testing.T) {
	e := &E{C: IOFailed, Op: "httpd.read", Err: errors.New("reset")}
	if e.Error() != "httpd.read: io_failed: reset" {
		t.Fatalf("got %q", e.Error())
	}
	e = &E{C: NotReady, Op: "sensor.measure"}
	if e.Error() != "sensor.measure: not_ready" {
		t.Fatalf("got %q", e.Error())
	}
}

func TestWrap(t *testing.T) {
	if Wrap(IOFailed, "op", nil) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
	if Of(Wrap(AcceptFailed, "op", errors.New("x"))) != AcceptFailed {
		t.Fatal("code not carried")
	}
}

func TestMapDriverErr(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{nil, OK},
		{dht.ErrTimeout, Timeout},
		{fmt.Errorf("read: %w", dht.ErrChecksum), ChecksumMismatch},
		{&E{C: NotReady}, NotReady},
		{errors.New("i2c nack"), BusFault},
	}
	for _, c := range cases {
		if got := MapDriverErr(c.err); got != c.want {
			t.Errorf("MapDriverErr(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}
