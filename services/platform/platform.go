// Package platform builds the node's devices for the target it is compiled
// for: machine pins and tinygo drivers on rp2040, simulated parts elsewhere.
package platform

import (
	"net"
	"strconv"

	"envnode-go/drivers/dht"
	"envnode-go/services/display"
	"envnode-go/services/led"
	"envnode-go/services/wifi"
	"envnode-go/types"
)

// Board bundles the collaborators the control loop is assembled from.
type Board struct {
	Sensor  *dht.Device
	Surface display.Surface
	Strip   led.Strip
	Button  types.IRQPin

	// Link and Addr are nil when the board has no radio or no credentials.
	Link wifi.Link
	Addr wifi.AddrSource
}

// Listen opens the TCP listener for the request server.
func Listen(port int) (net.Listener, error) {
	return net.Listen("tcp", ":"+strconv.Itoa(port))
}
