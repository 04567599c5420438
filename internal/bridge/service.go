package bridge

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "employcd.bridge.v1.SecureStorage"

const (
	MethodSet    = "/" + ServiceName + "/Set"
	MethodGet    = "/" + ServiceName + "/Get"
	MethodDelete = "/" + ServiceName + "/Delete"

	methodHealthCheck = "/grpc.health.v1.Health/Check"
)

// Field names of the Set request struct.
const (
	fieldKey   = "key"
	fieldValue = "value"
)

// SecureStorageServer is the server side of the bridge service.
type SecureStorageServer interface {
	Set(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error)
	Get(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Value, error)
	Delete(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SecureStorageServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Set",
			Handler: unaryHandler(MethodSet, func() *structpb.Struct { return new(structpb.Struct) },
				func(s SecureStorageServer, ctx context.Context, in *structpb.Struct) (any, error) { return s.Set(ctx, in) }),
		},
		{
			MethodName: "Get",
			Handler: unaryHandler(MethodGet, func() *wrapperspb.StringValue { return new(wrapperspb.StringValue) },
				func(s SecureStorageServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) { return s.Get(ctx, in) }),
		},
		{
			MethodName: "Delete",
			Handler: unaryHandler(MethodDelete, func() *wrapperspb.StringValue { return new(wrapperspb.StringValue) },
				func(s SecureStorageServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) { return s.Delete(ctx, in) }),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "employcd/bridge/v1",
}

// RegisterSecureStorageServer attaches impl to srv.
func RegisterSecureStorageServer(srv grpc.ServiceRegistrar, impl SecureStorageServer) {
	srv.RegisterService(&serviceDesc, impl)
}

// unaryHandler builds the grpc.MethodHandler that protoc-gen-go-grpc would
// otherwise generate for one method.
func unaryHandler[R any](method string, newReq func() R, call func(SecureStorageServer, context.Context, R) (any, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		impl := srv.(SecureStorageServer)
		if interceptor == nil {
			return call(impl, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(impl, ctx, req.(R))
		})
	}
}
