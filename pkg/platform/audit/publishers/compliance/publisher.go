// Package compliance writes audit events synchronously and fails closed.
//
// Fee movements and final verification outcomes are checked for the fields a
// reconciliation needs before they reach the store. Callers on the fee path
// treat a failed Emit as a failed operation.
package compliance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	audit "credverify/pkg/platform/audit"
)

// ErrInvalidEvent wraps every rejection made before the store is touched.
var ErrInvalidEvent = errors.New("invalid audit event")

type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if err := check(event); err != nil {
		return err
	}
	start := p.now()
	if event.Timestamp.IsZero() {
		event.Timestamp = start
	}
	event.Category = audit.AuditEvent(event.Action).Category()

	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.IncPersistFailures()
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "CRITICAL: audit persistence failed",
				"request_id", event.RequestID,
				"action", event.Action,
				"owner_id", event.OwnerID.String(),
				"reference", event.Reference,
				"error", err,
			)
		}
		return fmt.Errorf("persist %s event: %w", event.Action, err)
	}

	p.metrics.ObservePersistDuration(p.now().Sub(start).Seconds())
	p.metrics.IncEventsEmitted(string(event.Category))
	return nil
}

// check rejects events that could not be reconciled later.
func check(e audit.Event) error {
	if e.OwnerID.IsNil() {
		return fmt.Errorf("%w: owner is required", ErrInvalidEvent)
	}
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrInvalidEvent)
	}
	switch audit.AuditEvent(e.Action) {
	case audit.EventFeeDebited, audit.EventFeeRefunded:
		if e.Reference == "" {
			return fmt.Errorf("%w: %s needs the verification reference", ErrInvalidEvent, e.Action)
		}
		if e.Amount <= 0 {
			return fmt.Errorf("%w: %s needs a positive amount", ErrInvalidEvent, e.Action)
		}
	case audit.EventVerificationFinalized:
		if e.Decision == "" {
			return fmt.Errorf("%w: %s needs the final status", ErrInvalidEvent, e.Action)
		}
	}
	return nil
}
