// Package models holds rate limiting types shared by stores and middleware.
package models

import "time"

// EndpointClass groups routes that share a request budget.
type EndpointClass string

const (
	// ClassApplicant covers authenticated applicant traffic, keyed by owner.
	ClassApplicant EndpointClass = "applicant"
	// ClassWebhook covers institution callbacks, keyed by client IP.
	ClassWebhook EndpointClass = "webhook"
)

// Limit is a request budget over a sliding window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// RateLimitResult is the outcome of one bucket check.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds
}
