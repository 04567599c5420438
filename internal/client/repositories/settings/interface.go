package settings

import "context"

// Repository is a flat key/value store for local preferences.
type Repository interface {
	// Get returns "" and false when the key is not set.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}
