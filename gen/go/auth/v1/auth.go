// Package authv1 is the gRPC contract for UserAuthService, which lets iOS
// and edge-facing services validate an access token without holding the
// signing key themselves.
package authv1

import (
	"context"

	"google.golang.org/grpc"

	"github.com/red-safe/platform/internal/rpcjson"
)

// Code mirrors tokens.DecodeStatus across the wire: 0 success, 1 expired,
// 2 invalid, 3 bad signature, 4 malformed, 5 internal.
type Code int32

const (
	CodeOK          Code = 0
	CodeExpired     Code = 1
	CodeInvalid     Code = 2
	CodeBadSig      Code = 3
	CodeMalformed   Code = 4
	CodeInternalErr Code = 5
)

type DecodeAccessTokenRequest struct {
	AccessToken string `json:"access_token"`
}

type DecodeAccessTokenResponse struct {
	Code         Code   `json:"code"`
	UserID       string `json:"user_id,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type UserAuthServiceServer interface {
	DecodeAccessToken(context.Context, *DecodeAccessTokenRequest) (*DecodeAccessTokenResponse, error)
}

type UserAuthServiceClient interface {
	DecodeAccessToken(ctx context.Context, in *DecodeAccessTokenRequest, opts ...grpc.CallOption) (*DecodeAccessTokenResponse, error)
}

const serviceName = "auth.v1.UserAuthService"

var UserAuthServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*UserAuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "DecodeAccessToken",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				in := new(DecodeAccessTokenRequest)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(UserAuthServiceServer).DecodeAccessToken(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/DecodeAccessToken"}
				handler := func(ctx context.Context, req interface{}) (interface{}, error) {
					return srv.(UserAuthServiceServer).DecodeAccessToken(ctx, req.(*DecodeAccessTokenRequest))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterUserAuthServiceServer(s grpc.ServiceRegistrar, srv UserAuthServiceServer) {
	s.RegisterService(&UserAuthServiceDesc, srv)
}

type userAuthServiceClient struct {
	cc *grpc.ClientConn
}

func NewUserAuthServiceClient(cc *grpc.ClientConn) UserAuthServiceClient {
	return &userAuthServiceClient{cc: cc}
}

func (c *userAuthServiceClient) DecodeAccessToken(ctx context.Context, in *DecodeAccessTokenRequest, opts ...grpc.CallOption) (*DecodeAccessTokenResponse, error) {
	opts = append(opts, grpc.CallContentSubtype(rpcjson.Name))
	out := new(DecodeAccessTokenResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/DecodeAccessToken", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
