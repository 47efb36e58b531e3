// Package metadata implements the local key-value store backing the
// credential store. Values are opaque byte slices keyed by string.
package metadata

import (
	"context"
)

// Repository is the get/set/remove primitive the client persists through.
// Get returns (nil, nil) for absent keys; Delete of an absent key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
