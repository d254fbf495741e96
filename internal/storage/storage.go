// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
)

// DefaultKey is the key the visited list is stored under.
const DefaultKey = "visitedCountries"

// ErrUnknownBackend is returned for an unrecognised storage type.
var ErrUnknownBackend = errors.New("unknown storage type")

// Backend is a small key/value store for ordered string lists.
// A missing key is not an error: Load reports ok=false.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	Load(ctx context.Context, key string) (values []string, ok bool, err error)
	Save(ctx context.Context, key string, values []string) error
	Delete(ctx context.Context, key string) error
}
