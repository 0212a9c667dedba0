// Package kv provides the string-keyed blob storage the session and theme
// holders persist through.
package kv

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by stores that cannot reach their backend.
var ErrUnavailable = errors.New("kv store unavailable")

// Store is string-keyed blob storage.
//
// Get reports ok=false for an absent key and never treats absence as an error.
// Remove of an absent key succeeds.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
