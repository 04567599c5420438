package bridge

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Store is what the shell exposes over the bridge.
type Store interface {
	Set(key, value string) bool
	Get(key string) *string
	Delete(key string) bool
}

// Set accepts {"key": string, "value": string}. Any other shape is a failed
// write, not an RPC error.
func (s *Server) Set(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error) {
	key, ok := stringField(req, fieldKey)
	if !ok {
		s.logger.Warn(ctx, "set: missing key")
		return wrapperspb.Bool(false), nil
	}
	value, ok := stringField(req, fieldValue)
	if !ok {
		s.logger.Warn(ctx, "set: missing value", "key", key)
		return wrapperspb.Bool(false), nil
	}
	return wrapperspb.Bool(s.store.Set(key, value)), nil
}

// Get answers with a string value, or a null value when nothing is stored.
func (s *Server) Get(_ context.Context, req *wrapperspb.StringValue) (*structpb.Value, error) {
	v := s.store.Get(req.GetValue())
	if v == nil {
		return structpb.NewNullValue(), nil
	}
	return structpb.NewStringValue(*v), nil
}

func (s *Server) Delete(_ context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(s.store.Delete(req.GetValue())), nil
}

func stringField(st *structpb.Struct, name string) (string, bool) {
	v, ok := st.GetFields()[name]
	if !ok {
		return "", false
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", false
	}
	return sv.StringValue, true
}
