package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"restaurant-directory/models"
	"restaurant-directory/storage"

	"github.com/stretchr/testify/require"
)

// faultyStore wraps a MemoryStore and fails the operations it is told to.
type faultyStore struct {
	*storage.MemoryStore
	putErr    error
	deleteErr error

	mu      sync.Mutex
	puts    int
	deletes []string
	delay   func(data []byte) time.Duration
}

func newFaultyStore() *faultyStore {
	return &faultyStore{MemoryStore: storage.NewMemoryStore("test")}
}

func (f *faultyStore) Put(ctx context.Context, data []byte, key, contentType string) (string, error) {
	if f.delay != nil {
		time.Sleep(f.delay(data))
	}
	f.mu.Lock()
	f.puts++
	f.mu.Unlock()
	if f.putErr != nil {
		return "", &models.ErrorStorage{Op: "put " + key, Err: f.putErr}
	}
	return f.MemoryStore.Put(ctx, data, key, contentType)
}

func (f *faultyStore) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	f.deletes = append(f.deletes, url)
	f.mu.Unlock()
	if f.deleteErr != nil {
		return &models.ErrorStorage{Op: "delete " + url, Err: f.deleteErr}
	}
	return f.MemoryStore.Delete(ctx, url)
}

var errNetwork = errors.New("network unreachable")

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func textUpload(name, content string) models.NewUpload {
	return models.NewUpload{Filename: name, Content: []byte(content)}
}
