// Package edgev1 holds the hand-written request/response types and service
// descriptors for the edge's local gRPC façade (scan engine + network
// config), in place of protoc-generated code.
package edgev1

import (
	"context"

	"google.golang.org/grpc"

	"github.com/red-safe/platform/internal/rpcjson"
)

type ScanRequest struct {
	TimeoutMs int64 `json:"timeout_ms"`
}

// ScanResponse carries its devices as a JSON array string (or empty) rather
// than a typed list, matching the wire contract IPCScanService.Scan shares
// with the MQTT `/data` reply for command 101.
type ScanResponse struct {
	Result string `json:"result"`
}

type IPCScanServiceServer interface {
	Scan(context.Context, *ScanRequest) (*ScanResponse, error)
}

type IPCScanServiceClient interface {
	Scan(ctx context.Context, in *ScanRequest, opts ...grpc.CallOption) (*ScanResponse, error)
}

const scanServiceName = "edge.v1.IPCScanService"

var IPCScanServiceDesc = grpc.ServiceDesc{
	ServiceName: scanServiceName,
	HandlerType: (*IPCScanServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Scan",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				in := new(ScanRequest)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(IPCScanServiceServer).Scan(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + scanServiceName + "/Scan"}
				handler := func(ctx context.Context, req interface{}) (interface{}, error) {
					return srv.(IPCScanServiceServer).Scan(ctx, req.(*ScanRequest))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterIPCScanServiceServer(s grpc.ServiceRegistrar, srv IPCScanServiceServer) {
	s.RegisterService(&IPCScanServiceDesc, srv)
}

type ipcScanServiceClient struct {
	cc *grpc.ClientConn
}

func NewIPCScanServiceClient(cc *grpc.ClientConn) IPCScanServiceClient {
	return &ipcScanServiceClient{cc: cc}
}

func (c *ipcScanServiceClient) Scan(ctx context.Context, in *ScanRequest, opts ...grpc.CallOption) (*ScanResponse, error) {
	opts = append(opts, grpc.CallContentSubtype(rpcjson.Name))
	out := new(ScanResponse)
	if err := c.cc.Invoke(ctx, "/"+scanServiceName+"/Scan", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
