// Package edgegrpc is the edge's local gRPC façade (C3): it exposes the
// scan engine and network-config queries/mutations to peers on the LAN.
// Credentials are intentionally insecure; isolation is the LAN boundary.
package edgegrpc

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"google.golang.org/grpc"

	edgev1 "github.com/red-safe/platform/gen/go/edge/v1"
	"github.com/red-safe/platform/internal/discovery"
	"github.com/red-safe/platform/internal/netcfg"
	_ "github.com/red-safe/platform/internal/rpcjson" // registers the "json" codec
)

// Server owns a single grpc.Server value; there is no shared-pointer
// ownership, the application root that calls Start also calls Shutdown.
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	errc       chan error
}

type scanServer struct {
	scanner *discovery.Scanner
}

func (s *scanServer) Scan(ctx context.Context, req *edgev1.ScanRequest) (*edgev1.ScanResponse, error) {
	timeout := 3 * time.Second
	if req.TimeoutMs > 0 {
		timeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}

	devices, err := s.scanner.Scan(ctx, timeout)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return &edgev1.ScanResponse{Result: ""}, nil
	}

	raw, err := json.Marshal(devices)
	if err != nil {
		return nil, err
	}
	return &edgev1.ScanResponse{Result: string(raw)}, nil
}

type networkServer struct{}

func (networkServer) GetNetworkConfig(ctx context.Context, req *edgev1.GetNetworkConfigRequest) (*edgev1.NetworkConfig, error) {
	cfg, err := netcfg.Get(ctx, req.InterfaceName)
	if err != nil {
		return nil, translateNetcfgErr(err)
	}
	return toWireConfig(cfg), nil
}

func (networkServer) UpdateNetworkConfig(ctx context.Context, req *edgev1.NetworkConfig) (*edgev1.UpdateNetworkConfigResult, error) {
	if req == nil {
		return nil, ErrBadRequest
	}
	cfg := netcfg.Config{
		InterfaceName: req.InterfaceName,
		IP:            req.IP,
		MAC:           req.MAC,
		Gateway:       req.Gateway,
		SubnetMask:    req.SubnetMask,
		DNS:           req.DNS,
	}
	if err := netcfg.Update(ctx, cfg); err != nil {
		return &edgev1.UpdateNetworkConfigResult{Success: false, Message: err.Error()}, translateNetcfgErr(err)
	}
	return &edgev1.UpdateNetworkConfigResult{Success: true}, nil
}

func toWireConfig(cfg *netcfg.Config) *edgev1.NetworkConfig {
	return &edgev1.NetworkConfig{
		InterfaceName: cfg.InterfaceName,
		IP:            cfg.IP,
		MAC:           cfg.MAC,
		Gateway:       cfg.Gateway,
		SubnetMask:    cfg.SubnetMask,
		DNS:           cfg.DNS,
	}
}

// NewServer builds the gRPC server value; Start opens the listener and
// begins serving, Shutdown stops it, Wait blocks until it has stopped.
func NewServer(scanner *discovery.Scanner) *Server {
	grpcServer := grpc.NewServer()
	edgev1.RegisterIPCScanServiceServer(grpcServer, &scanServer{scanner: scanner})
	edgev1.RegisterNetworkServiceServer(grpcServer, networkServer{})
	return &Server{grpcServer: grpcServer, errc: make(chan error, 1)}
}

func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = lis
	go func() { s.errc <- s.grpcServer.Serve(lis) }()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.grpcServer.Stop()
	}
}

// Wait blocks until the server has stopped serving, returning the error
// grpc.Server.Serve exited with (nil on a clean Shutdown).
func (s *Server) Wait() error {
	err := <-s.errc
	if err == grpc.ErrServerStopped {
		return nil
	}
	return err
}
