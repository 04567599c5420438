package bridge

import (
	"context"
	"time"

	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const DefaultCallTimeout = 3 * time.Second

// Client is the UI-side view of the Credential Store.
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
	logger  logging.Logger
}

// Dial prepares a client for the shell listening on socketPath. The
// connection is established lazily on first use.
func Dial(socketPath string, timeout time.Duration, l logging.Logger, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient("unix:"+socketPath, opts...)
	if err != nil {
		return nil, err
	}
	return NewClient(conn, timeout, l), nil
}

// NewClient wraps an existing connection.
func NewClient(conn *grpc.ClientConn, timeout time.Duration, l logging.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Client{conn: conn, timeout: timeout, logger: l.With("module", "bridge_client")}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Ping reports whether the shell answers health checks.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return common.ErrStorageUnavailable
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return common.ErrStorageUnavailable
	}
	return nil
}

func (c *Client) Set(ctx context.Context, key, value string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := structpb.NewStruct(map[string]any{fieldKey: key, fieldValue: value})
	if err != nil {
		c.logger.Warn(ctx, "set: build request", "key", key, "error", err)
		return false
	}
	out := new(wrapperspb.BoolValue)
	if err := c.conn.Invoke(ctx, MethodSet, req, out); err != nil {
		c.logger.Warn(ctx, "set: bridge unavailable", "key", key, "error", err)
		return false
	}
	return out.GetValue()
}

func (c *Client) Get(ctx context.Context, key string) *string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out := new(structpb.Value)
	if err := c.conn.Invoke(ctx, MethodGet, wrapperspb.String(key), out); err != nil {
		c.logger.Warn(ctx, "get: bridge unavailable", "key", key, "error", err)
		return nil
	}
	sv, ok := out.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil
	}
	v := sv.StringValue
	return &v
}

func (c *Client) Delete(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out := new(wrapperspb.BoolValue)
	if err := c.conn.Invoke(ctx, MethodDelete, wrapperspb.String(key), out); err != nil {
		c.logger.Warn(ctx, "delete: bridge unavailable", "key", key, "error", err)
		return false
	}
	return out.GetValue()
}
