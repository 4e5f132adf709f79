package filestore

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// InMemory keeps document bytes in a map. Used when no bucket is configured
// and in tests.
type InMemory struct {
	mu      sync.Mutex
	objects map[Handle][]byte
}

func NewInMemory() *InMemory {
	return &InMemory{objects: make(map[Handle][]byte)}
}

func (m *InMemory) Upload(_ context.Context, doc Document) (Handle, error) {
	if doc.Body == nil {
		return "", fmt.Errorf("document %s has no body", doc.Kind)
	}
	data, err := io.ReadAll(doc.Body)
	if err != nil {
		return "", fmt.Errorf("read document %s: %w", doc.Kind, err)
	}
	h := Handle(objectKey("mem", doc))
	m.mu.Lock()
	m.objects[h] = data
	m.mu.Unlock()
	return h, nil
}

// Delete is idempotent.
func (m *InMemory) Delete(_ context.Context, handle Handle) error {
	m.mu.Lock()
	delete(m.objects, handle)
	m.mu.Unlock()
	return nil
}

func (m *InMemory) Get(handle Handle) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[handle]
	return data, ok
}

func (m *InMemory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
