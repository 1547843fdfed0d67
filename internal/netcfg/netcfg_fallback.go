//go:build !linux && !darwin && !freebsd

package netcfg

import "context"

func defaultInterface(ctx context.Context) (string, error) {
	return "", ErrUnsupported
}

func getInterface(ctx context.Context, name string) (*Config, error) {
	return nil, ErrUnsupported
}

func updateInterface(ctx context.Context, cfg Config) error {
	return ErrUnsupported
}
