package kv

import "context"

// Repository is a whole-value key-value store. Set replaces the value of a
// key in one step; there is no partial or field-level write.
type Repository interface {
	// Get returns the stored value, or (nil, nil) if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set inserts or overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error
}
