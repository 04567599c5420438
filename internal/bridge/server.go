package bridge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/employcd/employcd/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// DefaultShutdownTimeout bounds how long in-flight calls may delay shutdown.
const DefaultShutdownTimeout = 5 * time.Second

// Server publishes a Store on a unix socket.
type Server struct {
	socketPath      string
	store           Store
	logger          logging.Logger
	shutdownTimeout time.Duration

	health *health.Server
}

var _ SecureStorageServer = (*Server)(nil)

// NewServer uses DefaultShutdownTimeout when shutdownTimeout is not positive.
func NewServer(socketPath string, store Store, l logging.Logger, shutdownTimeout time.Duration) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &Server{
		socketPath:      socketPath,
		store:           store,
		logger:          l.With("module", "bridge_server"),
		shutdownTimeout: shutdownTimeout,
		health:          health.NewServer(),
	}
}

// Run listens on the socket and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := s.Listen()
	if err != nil {
		return err
	}
	defer os.Remove(s.socketPath)

	return s.Serve(ctx, lis)
}

// Serve serves on an existing listener until ctx is cancelled. Calls still
// running after the shutdown timeout are cut off.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newGRPCServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping bridge...")
		s.health.Shutdown()
		s.stop(ctx, srv)
	}()

	s.logger.Info(ctx, "Starting bridge", "socket", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	<-stopped
	return nil
}

// stop drains in-flight calls and closes the connections once the shutdown
// timeout has passed. Neither grpc call is awaited after the timeout:
// GracefulStop holds the server lock until every handler returns.
func (s *Server) stop(ctx context.Context, srv *grpc.Server) {
	drained := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(drained)
	}()

	select {
	case <-drained:
	case <-time.After(s.shutdownTimeout):
		s.logger.Warn(ctx, "bridge drain timed out, closing connections", "timeout", s.shutdownTimeout)
		go srv.Stop()
	}
}

func (s *Server) newGRPCServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.whitelistInterceptor, s.loggingInterceptor),
		grpc.ChainStreamInterceptor(s.rejectStreamInterceptor),
	)
	RegisterSecureStorageServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return srv
}

// Listen binds the socket with owner-only permissions, replacing a stale
// socket file left by a previous run. The socket accepts connections as soon
// as Listen returns.
func (s *Server) Listen() (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o700); err != nil {
		return nil, fmt.Errorf("socket dir: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}

	lis, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		lis.Close()
		return nil, fmt.Errorf("chmod socket: %w", err)
	}
	return lis, nil
}
