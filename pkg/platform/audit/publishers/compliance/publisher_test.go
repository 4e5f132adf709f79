package compliance

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "credverify/pkg/domain"
	audit "credverify/pkg/platform/audit"
	"credverify/pkg/platform/audit/store/memory"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("disk full")
}

func (failingStore) ListByOwner(context.Context, id.OwnerID) ([]audit.Event, error) {
	return nil, nil
}

func TestEmit(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := New(store)
	owner := id.OwnerID(uuid.New())

	err := pub.Emit(context.Background(), audit.Event{
		OwnerID:   owner,
		Action:    string(audit.EventFeeDebited),
		Reference: "VR-20260101-ABCDEFGH",
		Amount:    15,
	})
	require.NoError(t, err)

	events, err := store.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestEmitRejectsIncompleteEvents(t *testing.T) {
	owner := id.OwnerID(uuid.New())
	tests := []struct {
		name  string
		event audit.Event
	}{
		{"missing owner", audit.Event{Action: string(audit.EventVerificationCreated)}},
		{"missing action", audit.Event{OwnerID: owner}},
		{"debit without reference", audit.Event{OwnerID: owner, Action: string(audit.EventFeeDebited), Amount: 15}},
		{"refund without amount", audit.Event{OwnerID: owner, Action: string(audit.EventFeeRefunded), Reference: "refund:VR-20260101-ABCDEFGH"}},
		{"finalized without status", audit.Event{OwnerID: owner, Action: string(audit.EventVerificationFinalized)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewInMemoryStore()
			err := New(store).Emit(context.Background(), tt.event)
			assert.ErrorIs(t, err, ErrInvalidEvent)

			events, listErr := store.ListByOwner(context.Background(), owner)
			require.NoError(t, listErr)
			assert.Empty(t, events)
		})
	}
}

func TestEmitFailsClosed(t *testing.T) {
	pub := New(failingStore{})
	err := pub.Emit(context.Background(), audit.Event{
		OwnerID:   id.OwnerID(uuid.New()),
		Action:    string(audit.EventFeeRefunded),
		Reference: "refund:VR-20260101-ABCDEFGH",
		Amount:    15,
	})
	assert.ErrorContains(t, err, "disk full")
	assert.NotErrorIs(t, err, ErrInvalidEvent)
}

func TestUnknownActionIsOperations(t *testing.T) {
	assert.Equal(t, audit.CategoryOperations, audit.AuditEvent("something_else").Category())
	assert.Equal(t, audit.CategoryCompliance, audit.EventFeeRefunded.Category())
}
