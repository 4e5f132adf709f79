package store

import (
	"context"
	"sort"
	"sync"

	"credverify/internal/institution/models"
	id "credverify/pkg/domain"
	"credverify/pkg/platform/sentinel"
)

// InMemory keeps institutions in a map. Records are copied on the way in and
// out so callers cannot mutate stored state.
type InMemory struct {
	mu   sync.RWMutex
	data map[id.InstitutionID]*models.Institution
}

func NewInMemory() *InMemory {
	return &InMemory{data: make(map[id.InstitutionID]*models.Institution)}
}

func (s *InMemory) FindByID(_ context.Context, instID id.InstitutionID) (*models.Institution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.data[instID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(inst), nil
}

func (s *InMemory) Upsert(_ context.Context, inst *models.Institution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[inst.ID] = clone(inst)
	return nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Institution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Institution, 0, len(s.data))
	for _, inst := range s.data {
		out = append(out, clone(inst))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func clone(inst *models.Institution) *models.Institution {
	cp := *inst
	if inst.API != nil {
		api := *inst.API
		cp.API = &api
	}
	return &cp
}
