// Package fallinferencev1 is the gRPC contract for the fall-inference
// service: a 9-feature vector in, a fall-probability out.
package fallinferencev1

import (
	"context"

	"google.golang.org/grpc"

	"github.com/red-safe/platform/internal/rpcjson"
)

// FeatureCount is the exact feature-vector length InferFallProbability
// requires.
const FeatureCount = 9

type InferFallProbabilityRequest struct {
	Features []float64 `json:"features"`
}

type InferFallProbabilityResponse struct {
	Probability float64 `json:"probability"`
}

type FallInferenceServiceServer interface {
	InferFallProbability(context.Context, *InferFallProbabilityRequest) (*InferFallProbabilityResponse, error)
}

type FallInferenceServiceClient interface {
	InferFallProbability(ctx context.Context, in *InferFallProbabilityRequest, opts ...grpc.CallOption) (*InferFallProbabilityResponse, error)
}

const serviceName = "fallinference.v1.FallInferenceService"

var FallInferenceServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*FallInferenceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "InferFallProbability",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				in := new(InferFallProbabilityRequest)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(FallInferenceServiceServer).InferFallProbability(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/InferFallProbability"}
				handler := func(ctx context.Context, req interface{}) (interface{}, error) {
					return srv.(FallInferenceServiceServer).InferFallProbability(ctx, req.(*InferFallProbabilityRequest))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterFallInferenceServiceServer(s grpc.ServiceRegistrar, srv FallInferenceServiceServer) {
	s.RegisterService(&FallInferenceServiceDesc, srv)
}

type fallInferenceServiceClient struct {
	cc *grpc.ClientConn
}

func NewFallInferenceServiceClient(cc *grpc.ClientConn) FallInferenceServiceClient {
	return &fallInferenceServiceClient{cc: cc}
}

func (c *fallInferenceServiceClient) InferFallProbability(ctx context.Context, in *InferFallProbabilityRequest, opts ...grpc.CallOption) (*InferFallProbabilityResponse, error) {
	opts = append(opts, grpc.CallContentSubtype(rpcjson.Name))
	out := new(InferFallProbabilityResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/InferFallProbability", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
