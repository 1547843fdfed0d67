package fallinference

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	fallinferencev1 "github.com/red-safe/platform/gen/go/fallinference/v1"
	_ "github.com/red-safe/platform/internal/rpcjson" // registers the "json" codec
)

// Server owns the grpc.Server value for FallInferenceService; ownership is
// by the application root, same start()/shutdown()/wait() shape as
// internal/edgegrpc.Server.
type Server struct {
	grpcServer *grpc.Server
	errc       chan error
}

type predictServer struct{}

func (predictServer) InferFallProbability(ctx context.Context, req *fallinferencev1.InferFallProbabilityRequest) (*fallinferencev1.InferFallProbabilityResponse, error) {
	if len(req.Features) != FeatureCount {
		return nil, status.Errorf(codes.InvalidArgument, "expected exactly %d features, got %d", FeatureCount, len(req.Features))
	}
	probability, err := Predict(req.Features)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &fallinferencev1.InferFallProbabilityResponse{Probability: probability}, nil
}

func NewServer() *Server {
	grpcServer := grpc.NewServer()
	fallinferencev1.RegisterFallInferenceServiceServer(grpcServer, predictServer{})
	return &Server{grpcServer: grpcServer, errc: make(chan error, 1)}
}

func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
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

func (s *Server) Wait() error {
	err := <-s.errc
	if err == grpc.ErrServerStopped {
		return nil
	}
	return err
}
