// Package notify delivers fire-and-forget verification notifications to
// email, event stream, and log sinks without blocking the caller.
package notify

import (
	"context"
	"time"

	id "credverify/pkg/domain"
)

type EventType string

const (
	EventVerificationCreated        EventType = "verification_created"
	EventVerificationCompleted      EventType = "verification_completed"
	EventVerificationRequiresReview EventType = "verification_requires_review"
	EventVerificationFailed         EventType = "verification_failed"
)

// Notification is one outbound message about a verification.
type Notification struct {
	Type           EventType         `json:"type"`
	VerificationID id.VerificationID `json:"verification_id"`
	Reference      string            `json:"reference"`
	OwnerID        id.OwnerID        `json:"owner_id"`
	Recipient      string            `json:"-"`
	Status         string            `json:"status"`
	Institution    string            `json:"institution,omitempty"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

// Sink delivers a notification to one channel.
type Sink interface {
	Name() string
	Send(ctx context.Context, n Notification) error
}
