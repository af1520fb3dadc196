// Package storage persists application data as JSON documents in a
// key-value store. Every collection lives under one key and is always read
// and written whole.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get for a key that was never written.
var ErrNotFound = errors.New("key not found")

// Entry is one key and value of a batch write.
type Entry struct {
	Key   string
	Value []byte
}

// KV is a minimal key-value store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetBatch writes every entry atomically.
	SetBatch(ctx context.Context, entries []Entry) error
	Delete(ctx context.Context, key string) error
	Close() error
}
