package store

import (
	"context"
	"sync"

	"credverify/internal/wallet/models"
	id "credverify/pkg/domain"
	"credverify/pkg/platform/sentinel"
)

// numShards spreads owners over independent locks so concurrent debits for
// different owners never contend.
const numShards = 128

type shard struct {
	mu       sync.Mutex
	balances map[id.OwnerID]int64
	entries  map[id.OwnerID][]*models.Entry
}

type refKey struct {
	reference string
	kind      models.EntryKind
}

// InMemory is a ledger store guarded by per-owner sharded locks.
type InMemory struct {
	shards [numShards]*shard

	refMu sync.Mutex
	refs  map[refKey]*models.Entry
	byRef map[string][]*models.Entry
}

func NewInMemory() *InMemory {
	s := &InMemory{
		refs:  make(map[refKey]*models.Entry),
		byRef: make(map[string][]*models.Entry),
	}
	for i := range s.shards {
		s.shards[i] = &shard{
			balances: make(map[id.OwnerID]int64),
			entries:  make(map[id.OwnerID][]*models.Entry),
		}
	}
	return s
}

func (s *InMemory) shardFor(ownerID id.OwnerID) *shard {
	return s.shards[hashOwner(ownerID)%numShards]
}

// hashOwner is FNV-1a over the UUID bytes.
func hashOwner(ownerID id.OwnerID) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for _, b := range ownerID {
		h ^= uint32(b)
		h *= fnvPrime
	}
	return h
}

func (s *InMemory) Balance(_ context.Context, ownerID id.OwnerID) (int64, error) {
	sh := s.shardFor(ownerID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.balances[ownerID], nil
}

// Apply records entry and moves the balance in one critical section.
func (s *InMemory) Apply(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sh := s.shardFor(entry.OwnerID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	next := sh.balances[entry.OwnerID] + entry.Delta
	if next < 0 {
		return nil, models.ErrInsufficientFunds
	}

	key := refKey{reference: entry.Reference, kind: entry.Kind}
	s.refMu.Lock()
	if _, exists := s.refs[key]; exists {
		s.refMu.Unlock()
		return nil, sentinel.ErrAlreadyUsed
	}
	stored := *entry
	stored.BalanceAfter = next
	s.refs[key] = &stored
	s.byRef[entry.Reference] = append(s.byRef[entry.Reference], &stored)
	s.refMu.Unlock()

	sh.balances[entry.OwnerID] = next
	sh.entries[entry.OwnerID] = append(sh.entries[entry.OwnerID], &stored)

	out := stored
	return &out, nil
}

func (s *InMemory) ListByOwner(_ context.Context, ownerID id.OwnerID) ([]*models.Entry, error) {
	sh := s.shardFor(ownerID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return copyEntries(sh.entries[ownerID]), nil
}

func (s *InMemory) ListByReference(_ context.Context, reference string) ([]*models.Entry, error) {
	s.refMu.Lock()
	defer s.refMu.Unlock()
	return copyEntries(s.byRef[reference]), nil
}

func copyEntries(in []*models.Entry) []*models.Entry {
	out := make([]*models.Entry, 0, len(in))
	for _, e := range in {
		c := *e
		out = append(out, &c)
	}
	return out
}
