// Package kvstore holds the persistence collaborators the form store writes
// its snapshot through. Each backend stores opaque string values under
// string keys.
package kvstore

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned when a key is blank.
var ErrEmptyKey = errors.New("kvstore: key is required")

// KV is the storage contract. Get reports ok=false for a missing key and
// never treats absence as an error. Remove of a missing key is a no-op.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

func checkKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
