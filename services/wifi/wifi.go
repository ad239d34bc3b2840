// Package wifi associates the node with an access point and reports the
// address it was given. Failure is not fatal: the node keeps sensing and
// rendering offline.
package wifi

import (
	"errors"
	"net/netip"
	"time"

	"tinygo.org/x/drivers/netlink"

	"envnode-go/errcode"
	"envnode-go/services/config"
	"envnode-go/x/logx"
)

// Link is the subset of netlink.Netlinker used here.
type Link interface {
	NetConnect(params *netlink.ConnectParams) error
}

// AddrSource reports the interface address once associated.
type AddrSource interface {
	Addr() (netip.Addr, error)
}

var errNoAddr = errors.New("no address assigned")

// Connect tries up to cfg.Retries times and returns the assigned address.
func Connect(link Link, src AddrSource, cfg config.WiFi) (netip.Addr, error) {
	if cfg.SSID == "" {
		return netip.Addr{}, &errcode.E{C: errcode.ConnectFailed, Op: "wifi.connect", Msg: "no ssid"}
	}
	tries := cfg.Retries
	if tries <= 0 {
		tries = 1
	}
	params := &netlink.ConnectParams{
		ConnectMode:    netlink.ConnectModeSTA,
		Ssid:           cfg.SSID,
		Passphrase:     cfg.Passphrase,
		ConnectTimeout: cfg.Timeout,
	}

	var last error
	for i := 1; i <= tries; i++ {
		start := time.Now()
		if err := link.NetConnect(params); err != nil {
			last = err
			logx.Printf("wifi", "attempt %d/%d failed after %v: %v", i, tries, time.Since(start).Round(time.Millisecond), err)
			continue
		}
		ip, err := src.Addr()
		if err == nil && !ip.IsValid() {
			err = errNoAddr
		}
		if err != nil {
			last = err
			logx.Printf("wifi", "attempt %d/%d: %v", i, tries, err)
			continue
		}
		return ip, nil
	}
	return netip.Addr{}, &errcode.E{C: errcode.ConnectFailed, Op: "wifi.connect", Err: last}
}
