package edgegrpc

import (
	"context"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	edgev1 "github.com/red-safe/platform/gen/go/edge/v1"
	"github.com/red-safe/platform/internal/discovery"
	"github.com/red-safe/platform/internal/netcfg"
)

type noResolver struct{}

func (noResolver) Lookup(string) (string, bool) { return "", false }

func TestScanServer_Scan_EmptyResultIsEmptyString(t *testing.T) {
	srv := &scanServer{scanner: discovery.NewScanner(noResolver{})}
	resp, err := srv.Scan(context.Background(), &edgev1.ScanRequest{TimeoutMs: 10})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if resp.Result != "" {
		t.Errorf("expected empty result, got %q", resp.Result)
	}
}

func TestTranslateNetcfgErr_NotFound(t *testing.T) {
	err := translateNetcfgErr(netcfg.ErrNotFound)
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound, got %v", status.Code(err))
	}
}

func TestTranslateNetcfgErr_Unsupported(t *testing.T) {
	err := translateNetcfgErr(netcfg.ErrUnsupported)
	if status.Code(err) != codes.Unimplemented {
		t.Errorf("expected Unimplemented, got %v", status.Code(err))
	}
}

func TestTranslateNetcfgErr_Other(t *testing.T) {
	err := translateNetcfgErr(context.DeadlineExceeded)
	if status.Code(err) != codes.Internal {
		t.Errorf("expected Internal, got %v", status.Code(err))
	}
}
