// Package objectstore reads the raw inputs and writes the processed outputs of
// the ranking pipeline through a key/value object store (local directory or S3).
package objectstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("object not found")

// Content types used for written objects.
const (
	ContentTypeCSV  = "text/csv"
	ContentTypeJSON = "application/json"
)

// Store is a flat key/value object store addressed by slash-separated keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}
