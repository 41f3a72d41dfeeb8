package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// KV is the local-storage style persistence the session store writes its
// single record through. Delete of a missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
