//go:build !rp2040

// Command envnode-sim runs the node's control loop on the host against
// simulated parts: a DHT data line driven through the real decoder, an
// in-memory OLED, a console LED and a push button fed from a small REPL.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
