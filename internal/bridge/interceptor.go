package bridge

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// allowedMethods is the store contract plus the unary health check.
var allowedMethods = map[string]struct{}{
	MethodSet:         {},
	MethodGet:         {},
	MethodDelete:      {},
	methodHealthCheck: {},
}

// whitelistInterceptor rejects every unary call outside the bridge contract.
func (s *Server) whitelistInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if _, ok := allowedMethods[info.FullMethod]; !ok {
		s.logger.Warn(ctx, "rejected bridge call", "method", info.FullMethod)
		return nil, status.Error(codes.PermissionDenied, "method not exposed")
	}
	return handler(ctx, req)
}

// rejectStreamInterceptor refuses every streaming call, health Watch
// included. The bridge contract is unary only.
func (s *Server) rejectStreamInterceptor(_ any, ss grpc.ServerStream, info *grpc.StreamServerInfo, _ grpc.StreamHandler) error {
	s.logger.Warn(ss.Context(), "rejected bridge stream", "method", info.FullMethod)
	return status.Error(codes.PermissionDenied, "method not exposed")
}

// loggingInterceptor records method and latency. Keys and values are
// never logged.
func (s *Server) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "bridge call", "method", info.FullMethod, "code", status.Code(err).String(), "took", time.Since(start))
	return resp, err
}
