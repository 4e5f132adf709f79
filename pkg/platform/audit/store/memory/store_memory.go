package memory

import (
	"context"
	"sync"

	id "credverify/pkg/domain"
	audit "credverify/pkg/platform/audit"
)

// InMemoryStore is an append-only log. Reads filter it and preserve append
// order.
type InMemoryStore struct {
	mu  sync.RWMutex
	log []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, event)
	return nil
}

func (s *InMemoryStore) ListByOwner(_ context.Context, ownerID id.OwnerID) ([]audit.Event, error) {
	return s.filter(func(e audit.Event) bool { return e.OwnerID == ownerID }), nil
}

// ListBySubject returns the trail of one verification.
func (s *InMemoryStore) ListBySubject(_ context.Context, subject string) ([]audit.Event, error) {
	return s.filter(func(e audit.Event) bool { return e.Subject == subject }), nil
}

func (s *InMemoryStore) filter(keep func(audit.Event) bool) []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []audit.Event{}
	for _, e := range s.log {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
