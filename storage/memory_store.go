package storage

import (
	"context"
	"sync"

	"restaurant-directory/models"
)

type MemoryObject struct {
	Data        []byte
	ContentType string
}

// MemoryStore keeps blobs in process memory. It backs local development and
// tests.
type MemoryStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]MemoryObject
}

func NewMemoryStore(bucket string) *MemoryStore {
	if bucket == "" {
		bucket = "local"
	}
	return &MemoryStore{
		baseURL: "memory://" + bucket,
		objects: make(map[string]MemoryObject),
	}
}

func (m *MemoryStore) Put(ctx context.Context, data []byte, key, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &models.ErrorStorage{Op: "put " + key, Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = MemoryObject{Data: append([]byte(nil), data...), ContentType: contentType}
	return m.baseURL + "/" + key, nil
}

func (m *MemoryStore) Delete(ctx context.Context, url string) error {
	key, ok := keyFromURL(m.baseURL, url)
	if !ok {
		return &models.ErrorStorage{Op: "delete " + url, Err: ErrForeignURL}
	}
	if err := ctx.Err(); err != nil {
		return &models.ErrorStorage{Op: "delete " + key, Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) Owns(url string) bool {
	_, ok := keyFromURL(m.baseURL, url)
	return ok
}

// Get returns the blob behind url.
func (m *MemoryStore) Get(url string) (MemoryObject, bool) {
	key, ok := keyFromURL(m.baseURL, url)
	if !ok {
		return MemoryObject{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
