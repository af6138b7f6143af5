// Package storage holds the blob store adapters restaurant assets are written
// to. Implementations are constructed once at startup and injected.
package storage

import (
	"context"
	"errors"
	"strings"
)

var ErrForeignURL = errors.New("url does not belong to this store")

// BlobStore uploads and deletes blobs addressed by key.
type BlobStore interface {
	// Put uploads data under key and returns its public URL.
	Put(ctx context.Context, data []byte, key, contentType string) (string, error)
	// Delete removes the blob behind url. Missing blobs are not an error.
	Delete(ctx context.Context, url string) error
	// Owns reports whether url was issued by this store.
	Owns(url string) bool
}

// keyFromURL strips base from url. base has no trailing slash.
func keyFromURL(base, url string) (string, bool) {
	prefix := base + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}
