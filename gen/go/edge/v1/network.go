package edgev1

import (
	"context"

	"google.golang.org/grpc"

	"github.com/red-safe/platform/internal/rpcjson"
)

type NetworkConfig struct {
	InterfaceName string   `json:"interface_name"`
	IP            string   `json:"ip"`
	MAC           string   `json:"mac"`
	Gateway       string   `json:"gateway"`
	SubnetMask    string   `json:"subnet_mask"`
	DNS           []string `json:"dns"`
}

type GetNetworkConfigRequest struct {
	InterfaceName string `json:"interface_name"`
}

type UpdateNetworkConfigResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type NetworkServiceServer interface {
	GetNetworkConfig(context.Context, *GetNetworkConfigRequest) (*NetworkConfig, error)
	UpdateNetworkConfig(context.Context, *NetworkConfig) (*UpdateNetworkConfigResult, error)
}

type NetworkServiceClient interface {
	GetNetworkConfig(ctx context.Context, in *GetNetworkConfigRequest, opts ...grpc.CallOption) (*NetworkConfig, error)
	UpdateNetworkConfig(ctx context.Context, in *NetworkConfig, opts ...grpc.CallOption) (*UpdateNetworkConfigResult, error)
}

const networkServiceName = "edge.v1.NetworkService"

var NetworkServiceDesc = grpc.ServiceDesc{
	ServiceName: networkServiceName,
	HandlerType: (*NetworkServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetNetworkConfig",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				in := new(GetNetworkConfigRequest)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(NetworkServiceServer).GetNetworkConfig(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + networkServiceName + "/GetNetworkConfig"}
				handler := func(ctx context.Context, req interface{}) (interface{}, error) {
					return srv.(NetworkServiceServer).GetNetworkConfig(ctx, req.(*GetNetworkConfigRequest))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
		{
			MethodName: "UpdateNetworkConfig",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				in := new(NetworkConfig)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(NetworkServiceServer).UpdateNetworkConfig(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + networkServiceName + "/UpdateNetworkConfig"}
				handler := func(ctx context.Context, req interface{}) (interface{}, error) {
					return srv.(NetworkServiceServer).UpdateNetworkConfig(ctx, req.(*NetworkConfig))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterNetworkServiceServer(s grpc.ServiceRegistrar, srv NetworkServiceServer) {
	s.RegisterService(&NetworkServiceDesc, srv)
}

type networkServiceClient struct {
	cc *grpc.ClientConn
}

func NewNetworkServiceClient(cc *grpc.ClientConn) NetworkServiceClient {
	return &networkServiceClient{cc: cc}
}

func (c *networkServiceClient) GetNetworkConfig(ctx context.Context, in *GetNetworkConfigRequest, opts ...grpc.CallOption) (*NetworkConfig, error) {
	opts = append(opts, grpc.CallContentSubtype(rpcjson.Name))
	out := new(NetworkConfig)
	if err := c.cc.Invoke(ctx, "/"+networkServiceName+"/GetNetworkConfig", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *networkServiceClient) UpdateNetworkConfig(ctx context.Context, in *NetworkConfig, opts ...grpc.CallOption) (*UpdateNetworkConfigResult, error) {
	opts = append(opts, grpc.CallContentSubtype(rpcjson.Name))
	out := new(UpdateNetworkConfigResult)
	if err := c.cc.Invoke(ctx, "/"+networkServiceName+"/UpdateNetworkConfig", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
