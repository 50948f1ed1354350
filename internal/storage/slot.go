// Package storage provides key-value slots that hold the serialized store.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when nothing has been saved under the key yet
var ErrNotFound = errors.New("storage: slot not found")

// Slot persists one opaque blob per key
type Slot interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}
