package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input the caller has to fix. Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrRuleNotFound is returned by admin operations that reference a missing rule id.
	ErrRuleNotFound = errors.New("shipping rule not found")

	// ErrRuleStoreUnavailable is an infrastructure fault while reading rules during fallback.
	ErrRuleStoreUnavailable = errors.New("shipping unavailable, try again")

	// ErrAggregatorUnavailable never leaves the rate resolver; it only triggers fallback.
	ErrAggregatorUnavailable = errors.New("carrier aggregator unavailable")

	ErrExportStorageDisabled = errors.New("export storage is not configured")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
