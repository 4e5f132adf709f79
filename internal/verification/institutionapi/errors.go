package institutionapi

import (
	"errors"
	"fmt"

	"credverify/internal/verification/models"
)

// CallError wraps an institution API failure with a normalized category.
type CallError struct {
	Category      models.ErrorCategory
	InstitutionID string
	Message       string
	StatusCode    int
	Underlying    error
	Retryable     bool
}

func (e *CallError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("institution %s [%s]: %s: %v", e.InstitutionID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("institution %s [%s]: %s", e.InstitutionID, e.Category, e.Message)
}

func (e *CallError) Unwrap() error {
	return e.Underlying
}

func newCallError(category models.ErrorCategory, institutionID, message string, underlying error) *CallError {
	retryable := category == models.ErrorCategoryTimeout ||
		category == models.ErrorCategoryOutage ||
		category == models.ErrorCategoryRateLimited ||
		category == models.ErrorCategoryCircuitOpen

	return &CallError{
		Category:      category,
		InstitutionID: institutionID,
		Message:       message,
		Underlying:    underlying,
		Retryable:     retryable,
	}
}

// IsRetryable reports whether another attempt could succeed.
func IsRetryable(err error) bool {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return false
}

// Category extracts the failure category, defaulting to internal.
func Category(err error) models.ErrorCategory {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return models.ErrorCategoryInternal
}

// countsAgainstBreaker reports whether a failure signals an unhealthy
// institution rather than a problem with this particular request.
func countsAgainstBreaker(category models.ErrorCategory) bool {
	switch category {
	case models.ErrorCategoryTimeout, models.ErrorCategoryOutage, models.ErrorCategoryRateLimited:
		return true
	}
	return false
}
