//go:build rp2040 && !challenger_rp2040 && !ninafw

package platform

import "envnode-go/x/logx"

// attachRadio leaves Link and Addr nil; the node runs offline.
func attachRadio(*Board) {
	logx.Println("platform", "no supported radio on this target")
}
