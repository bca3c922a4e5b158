// Package kv holds the string key-value stores the studio persists its ledger
// and credentials into. Every backend offers the same three operations so the
// ledger can move between a local directory, Postgres and Redis unchanged.
package kv

import (
	"context"
	"errors"
)

// Store is a durable string key-value store.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

var errEmptyKey = errors.New("kv: key is required")
