package store

import (
	"context"
	"sort"
	"sync"

	"credverify/internal/verification/models"
	id "credverify/pkg/domain"
	"credverify/pkg/platform/sentinel"
)

// InMemoryRequests stores verification requests. Records are copied on the
// way in and out so callers never share memory with the store.
type InMemoryRequests struct {
	mu          sync.RWMutex
	byID        map[id.VerificationID]*models.VerificationRequest
	byReference map[string]id.VerificationID
}

func NewInMemoryRequests() *InMemoryRequests {
	return &InMemoryRequests{
		byID:        make(map[id.VerificationID]*models.VerificationRequest),
		byReference: make(map[string]id.VerificationID),
	}
}

func (s *InMemoryRequests) Create(_ context.Context, vr *models.VerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[vr.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	if _, exists := s.byReference[vr.Reference]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.byID[vr.ID] = cloneRequest(vr)
	s.byReference[vr.Reference] = vr.ID
	return nil
}

func (s *InMemoryRequests) FindByID(_ context.Context, vid id.VerificationID) (*models.VerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vr, ok := s.byID[vid]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneRequest(vr), nil
}

func (s *InMemoryRequests) FindByReference(ctx context.Context, reference string) (*models.VerificationRequest, error) {
	s.mu.RLock()
	vid, ok := s.byReference[reference]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.FindByID(ctx, vid)
}

// ListByOwner returns the owner's requests, newest first.
func (s *InMemoryRequests) ListByOwner(_ context.Context, owner id.OwnerID) ([]*models.VerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.VerificationRequest{}
	for _, vr := range s.byID {
		if vr.OwnerID == owner {
			out = append(out, cloneRequest(vr))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryRequests) Update(_ context.Context, vr *models.VerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[vr.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.byID[vr.ID] = cloneRequest(vr)
	return nil
}

func cloneRequest(vr *models.VerificationRequest) *models.VerificationRequest {
	c := *vr
	if vr.AIResult != nil {
		ai := *vr.AIResult
		ai.Notes = append([]string(nil), vr.AIResult.Notes...)
		if vr.AIResult.Extracted != nil {
			ex := cloneData(*vr.AIResult.Extracted)
			ai.Extracted = &ex
		}
		c.AIResult = &ai
	}
	return &c
}

// InMemoryResponses keys institution responses by verification id, so a
// second response for the same request is rejected.
type InMemoryResponses struct {
	mu             sync.RWMutex
	byVerification map[id.VerificationID]*models.InstitutionResponse
}

func NewInMemoryResponses() *InMemoryResponses {
	return &InMemoryResponses{
		byVerification: make(map[id.VerificationID]*models.InstitutionResponse),
	}
}

func (s *InMemoryResponses) Create(_ context.Context, ir *models.InstitutionResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byVerification[ir.VerificationID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.byVerification[ir.VerificationID] = cloneResponse(ir)
	return nil
}

func (s *InMemoryResponses) FindByVerificationID(_ context.Context, vid id.VerificationID) (*models.InstitutionResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ir, ok := s.byVerification[vid]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneResponse(ir), nil
}

func (s *InMemoryResponses) Update(_ context.Context, ir *models.InstitutionResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byVerification[ir.VerificationID]
	if !ok || existing.ID != ir.ID {
		return sentinel.ErrNotFound
	}
	s.byVerification[ir.VerificationID] = cloneResponse(ir)
	return nil
}

// Count returns the number of stored responses.
func (s *InMemoryResponses) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byVerification)
}

func cloneResponse(ir *models.InstitutionResponse) *models.InstitutionResponse {
	c := *ir
	c.RawResponse = append([]byte(nil), ir.RawResponse...)
	if ir.ResponseData != nil {
		d := cloneData(*ir.ResponseData)
		c.ResponseData = &d
	}
	c.Flags = append([]models.Flag{}, ir.Flags...)
	c.Metadata = cloneMetadata(ir.Metadata)
	return &c
}

func cloneData(d models.ResponseData) models.ResponseData {
	if d.Extra != nil {
		extra := make(map[string]string, len(d.Extra))
		for k, v := range d.Extra {
			extra[k] = v
		}
		d.Extra = extra
	}
	return d
}

func cloneMetadata(m models.Metadata) models.Metadata {
	m.AINotes = append([]string(nil), m.AINotes...)
	if m.Extra != nil {
		extra := make(map[string]string, len(m.Extra))
		for k, v := range m.Extra {
			extra[k] = v
		}
		m.Extra = extra
	}
	if m.Reconciliation != nil {
		r := *m.Reconciliation
		r.Fields = append([]models.FieldResult(nil), m.Reconciliation.Fields...)
		m.Reconciliation = &r
	}
	if m.Risk != nil {
		r := *m.Risk
		r.Mitigations = append([]string(nil), m.Risk.Mitigations...)
		m.Risk = &r
	}
	return m
}
