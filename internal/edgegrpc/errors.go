package edgegrpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/red-safe/platform/internal/netcfg"
)

// ErrBadRequest is returned for a malformed request body.
var ErrBadRequest = status.Error(codes.InvalidArgument, "missing network config")

func translateNetcfgErr(err error) error {
	switch {
	case errors.Is(err, netcfg.ErrNotFound):
		return status.Error(codes.NotFound, "interface not found")
	case errors.Is(err, netcfg.ErrUnsupported):
		return status.Error(codes.Unimplemented, "unsupported platform")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
