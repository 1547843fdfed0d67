//go:build !unix

package discovery

import (
	"context"
	"net"
)

// openProbeSocket on non-unix platforms skips SO_REUSEADDR and the
// multicast TTL bump; the edge agent only ships for Linux/Darwin/BSD, this
// exists so the package still builds for local tooling elsewhere.
func openProbeSocket(ctx context.Context) (*net.UDPConn, error) {
	lc := net.ListenConfig{}
	pc, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return nil, err
	}
	return pc.(*net.UDPConn), nil
}
