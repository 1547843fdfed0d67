// Package discovery implements the ONVIF WS-Discovery probe/collect/parse
// pipeline used to find IP cameras on the local network segment.
package discovery

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/red-safe/platform/internal/arp"
)

// defaultDeviceName is assigned to a discovered device whose Scopes carry no
// name sub-key.
const defaultDeviceName = "IPC"

// DeviceInfo is one discovered camera, keyed by the source IP its probe
// reply arrived from.
type DeviceInfo struct {
	IP   string `json:"ip"`
	MAC  string `json:"mac"`
	Name string `json:"name"`
}

// Scanner runs ONVIF WS-Discovery scans. A single Scanner may be shared by
// concurrent callers; Scan serializes them so only one multicast probe is in
// flight at a time.
type Scanner struct {
	resolver arp.Resolver
	mu       sync.Mutex
}

// NewScanner builds a Scanner. resolver is used to enrich devices whose
// probe reply carried no MAC; pass nil to use the host's ARP table.
func NewScanner(resolver arp.Resolver) *Scanner {
	if resolver == nil {
		resolver = arp.System
	}
	return &Scanner{resolver: resolver}
}

// Scan multicasts a single ONVIF probe and collects ProbeMatch replies for
// timeout, deduplicating by source IP. Devices are returned in the order
// their first reply arrived.
func (s *Scanner) Scan(ctx context.Context, timeout time.Duration) ([]DeviceInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, err := openProbeSocket(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	dst, err := net.ResolveUDPAddr("udp4", MulticastAddr)
	if err != nil {
		return nil, err
	}

	probe := buildProbeMessage(uuid.New().String())
	if _, err := conn.WriteToUDP([]byte(probe), dst); err != nil {
		return nil, err
	}

	order := make([]string, 0, 8)
	devices := make(map[string]*DeviceInfo, 8)
	buf := make([]byte, MaxPacketSize)
	deadline := time.Now().Add(timeout)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		conn.SetReadDeadline(time.Now().Add(remaining))

		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			break
		}
		if n == 0 {
			continue
		}

		mac, name, ok := parseProbeResponse(buf[:n])
		if !ok {
			continue
		}

		ip := addr.IP.String()
		dev, seen := devices[ip]
		if !seen {
			dev = &DeviceInfo{IP: ip}
			devices[ip] = dev
			order = append(order, ip)
		}
		if dev.MAC == "" {
			dev.MAC = mac
		}
		if dev.Name == "" {
			dev.Name = name
		}
	}

	result := make([]DeviceInfo, 0, len(order))
	for _, ip := range order {
		dev := devices[ip]
		if dev.MAC == "" {
			if mac, ok := s.resolver.Lookup(dev.IP); ok {
				dev.MAC = mac
			}
		}
		if dev.Name == "" {
			dev.Name = defaultDeviceName
		}
		result = append(result, *dev)
	}
	return result, nil
}
