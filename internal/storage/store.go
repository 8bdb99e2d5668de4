// Package storage keeps uploaded blobs. Keys are slash separated paths such
// as documents/<uuid>.pdf; the returned reference is what gets persisted.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("stored object not found")

type FileStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}
