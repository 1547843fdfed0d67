//go:build linux

package arp

import (
	"net"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// arpreq mirrors struct arpreq from <linux/if_arp.h>. sockaddr is 16 bytes:
// 2-byte family followed by 14 bytes of family-specific data.
type arpreq struct {
	arpPA      [16]byte
	arpHA      [16]byte
	arpFlags   int32
	arpNetmask [16]byte
	arpDev     [16]byte
}

// lookup issues an SIOCGARP ioctl against every up interface until one
// reports a complete ARP entry for ip; interfaces are not filtered by
// whether they carry an IPv4 address.
func lookup(ip string) (string, bool) {
	addr := net.ParseIP(ip)
	if addr == nil {
		return "", false
	}
	v4 := addr.To4()
	if v4 == nil {
		return "", false
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return "", false
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return "", false
	}
	defer unix.Close(fd)

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if mac, ok := queryInterface(fd, iface.Name, v4); ok {
			return mac, true
		}
	}
	return "", false
}

func queryInterface(fd int, ifname string, ipv4 net.IP) (string, bool) {
	var req arpreq

	// sockaddr_in: family(2) offset 0, port(2) offset 2, addr(4) offset 4
	req.arpPA[0] = unix.AF_INET
	copy(req.arpPA[4:8], ipv4)
	copy(req.arpDev[:], ifname)

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(unix.SIOCGARP), uintptr(unsafe.Pointer(&req)))
	if errno != 0 {
		return "", false
	}

	haFamily := uint16(req.arpHA[0]) | uint16(req.arpHA[1])<<8
	if haFamily != unix.ARPHRD_ETHER {
		return "", false
	}
	hw := req.arpHA[2:8]
	if hw[0] == 0 && hw[1] == 0 && hw[2] == 0 && hw[3] == 0 && hw[4] == 0 && hw[5] == 0 {
		return "", false
	}
	return strings.ToUpper(net.HardwareAddr(hw).String()), true
}
