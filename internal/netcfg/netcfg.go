// Package netcfg resolves and mutates the effective network configuration
// (IP, MAC, gateway, subnet mask, DNS) of a named interface, platform-split
// the same way internal/arp is: Linux parses kernel state directly, Darwin
// and the BSDs shell out to the platform's own tools.
package netcfg

import (
	"context"
	"errors"
)

// Config is one interface's effective network configuration.
type Config struct {
	InterfaceName string
	IP            string
	MAC           string
	Gateway       string
	SubnetMask    string
	DNS           []string
}

var (
	// ErrNotFound is returned when the named interface (or, for an empty
	// name, the interface owning the default route) doesn't exist.
	ErrNotFound = errors.New("netcfg: interface not found")
	// ErrUnsupported is returned on a platform with no netcfg backend.
	ErrUnsupported = errors.New("netcfg: unsupported platform")
)

// Get resolves ifaceName's current configuration. An empty ifaceName
// resolves to the interface owning the default route.
func Get(ctx context.Context, ifaceName string) (*Config, error) {
	if ifaceName == "" {
		name, err := defaultInterface(ctx)
		if err != nil {
			return nil, err
		}
		ifaceName = name
	}
	return getInterface(ctx, ifaceName)
}

// Update applies cfg to its named interface. cfg.InterfaceName must be set;
// callers resolve an empty interface name via Get first.
func Update(ctx context.Context, cfg Config) error {
	if cfg.InterfaceName == "" {
		return ErrNotFound
	}
	return updateInterface(ctx, cfg)
}
