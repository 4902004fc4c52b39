// Package credentials persists session credentials (access tokens and their
// cached expiry) as string values under fixed keys.
//
// Implementations:
//   - SQLiteRepository: durable local storage, one row per key.
//   - MemoryRepository: process-local map, used by tests and ":memory:" runs.
//   - SealedRepository: decorator that encrypts values at rest.
package credentials

import (
	"context"
	"errors"
)

// ErrUnsealable is returned when a sealed value cannot be decrypted, e.g.
// after the storage secret was changed.
var ErrUnsealable = errors.New("credential value cannot be unsealed")

// Repository is the credential store used by the token store.
//
// Get returns ("", nil) for a missing key. Apply removes every key in remove,
// then writes every pair in set, as one atomic change.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Apply(ctx context.Context, set map[string]string, remove []string) error
}
