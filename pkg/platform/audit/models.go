package audit

import (
	"context"
	"time"

	id "credverify/pkg/domain"
)

// EventCategory classifies audit events by retention and routing needs.
type EventCategory string

const (
	// CategoryCompliance covers events with financial or regulatory weight.
	// They are written synchronously and the calling operation fails with them.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine lifecycle activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	OwnerID   id.OwnerID
	// Subject is the verification id the event concerns.
	Subject   string
	Action    string
	Reference string
	Amount    int64
	Decision  string
	Reason    string
	RequestID string
	// ActorID records staff acting on an applicant's request.
	ActorID string
}

type AuditEvent string

const (
	EventVerificationCreated   AuditEvent = "verification_created"
	EventFeeDebited            AuditEvent = "fee_debited"
	EventFeeRefunded           AuditEvent = "fee_refunded"
	EventResponseStatusChanged AuditEvent = "response_status_changed"
	EventVerificationFinalized AuditEvent = "verification_finalized"
	EventResponseAssigned      AuditEvent = "response_assigned"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventFeeDebited:            CategoryCompliance,
	EventFeeRefunded:           CategoryCompliance,
	EventVerificationFinalized: CategoryCompliance,

	EventVerificationCreated:   CategoryOperations,
	EventResponseStatusChanged: CategoryOperations,
	EventResponseAssigned:      CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByOwner(ctx context.Context, ownerID id.OwnerID) ([]Event, error)
}
