//go:build unix

package discovery

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

// openProbeSocket binds an ephemeral UDPv4 socket with SO_REUSEADDR set (so a
// scan started while a previous one's socket is still draining doesn't fail
// to bind) and the outgoing multicast TTL raised to probeTTL so the probe can
// cross a router hop onto a camera's VLAN.
func openProbeSocket(ctx context.Context) (*net.UDPConn, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}

	pc, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return nil, err
	}
	conn := pc.(*net.UDPConn)

	if err := ipv4.NewPacketConn(conn).SetMulticastTTL(probeTTL); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
