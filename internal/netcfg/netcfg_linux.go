//go:build linux

package netcfg

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
)

// defaultInterface parses /proc/net/route for the row whose destination is
// 0.0.0.0 (the default route) and returns the owning interface name.
func defaultInterface(ctx context.Context) (string, error) {
	f, err := os.Open("/proc/net/route")
	if err != nil {
		return "", fmt.Errorf("netcfg: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Scan() // header line
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 8 {
			continue
		}
		// fields[1] = Destination, fields[3] = Flags, fields[7] = Mask
		if fields[1] == "00000000" && fields[7] == "00000000" {
			return fields[0], nil
		}
	}
	return "", ErrNotFound
}

func getInterface(ctx context.Context, name string) (*Config, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, ErrNotFound
	}

	cfg := &Config{InterfaceName: name, MAC: iface.HardwareAddr.String()}

	addrs, err := iface.Addrs()
	if err == nil {
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok || ipnet.IP.To4() == nil {
				continue
			}
			cfg.IP = ipnet.IP.String()
			cfg.SubnetMask = net.IP(ipnet.Mask).String()
			break
		}
	}

	cfg.Gateway = routeGateway(name)
	cfg.DNS = resolvConfNameservers()
	return cfg, nil
}

func routeGateway(ifaceName string) string {
	f, err := os.Open("/proc/net/route")
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Scan()
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || fields[0] != ifaceName || fields[1] != "00000000" {
			continue
		}
		gw, err := hex.DecodeString(fields[2])
		if err != nil || len(gw) != 4 {
			return ""
		}
		// /proc/net/route stores addresses little-endian.
		return net.IPv4(gw[3], gw[2], gw[1], gw[0]).String()
	}
	return ""
}

func resolvConfNameservers() []string {
	f, err := os.Open("/etc/resolv.conf")
	if err != nil {
		return nil
	}
	defer f.Close()

	var ns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 2 && fields[0] == "nameserver" {
			ns = append(ns, fields[1])
		}
	}
	return ns
}

// updateInterface shells out to the "ip" tool; mutating kernel network
// state from Go directly would mean hand-rolling rtnetlink, and "ip addr"/
// "ip route" are the standard, already-present way to do this on any Linux
// host the edge agent targets.
func updateInterface(ctx context.Context, cfg Config) error {
	if _, err := net.InterfaceByName(cfg.InterfaceName); err != nil {
		return ErrNotFound
	}

	if cfg.IP != "" && cfg.SubnetMask != "" {
		prefix := maskToPrefixLen(cfg.SubnetMask)
		cidr := fmt.Sprintf("%s/%d", cfg.IP, prefix)
		if err := runIP(ctx, "addr", "replace", cidr, "dev", cfg.InterfaceName); err != nil {
			return fmt.Errorf("netcfg: %w", err)
		}
	}
	if cfg.Gateway != "" {
		if err := runIP(ctx, "route", "replace", "default", "via", cfg.Gateway, "dev", cfg.InterfaceName); err != nil {
			return fmt.Errorf("netcfg: %w", err)
		}
	}
	return nil
}

func runIP(ctx context.Context, args ...string) error {
	return exec.CommandContext(ctx, "ip", args...).Run()
}

func maskToPrefixLen(mask string) int {
	ip := net.ParseIP(mask).To4()
	if ip == nil {
		return 24
	}
	ones, _ := net.IPv4Mask(ip[0], ip[1], ip[2], ip[3]).Size()
	return ones
}
