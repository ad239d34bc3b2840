//go:build rp2040 && (challenger_rp2040 || ninafw)

package platform

import (
	"tinygo.org/x/drivers/netdev"
	"tinygo.org/x/drivers/netlink/probe"
)

// attachRadio binds the board's network co-processor.
func attachRadio(b *Board) {
	link, dev := probe.Probe()
	netdev.UseNetdev(dev)
	b.Link, b.Addr = link, dev
}
