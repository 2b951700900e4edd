package service

import (
	"errors"
	"strings"
)

var (
	// ErrValidation marks a request that violates one or more input rules.
	ErrValidation = errors.New("validation failed")
	// ErrCatalogUnavailable is surfaced when the product store cannot
	// serve a cache miss. A stale entry is never substituted.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrOrderPersistence marks a failed transactional order write;
	// nothing is partially visible.
	ErrOrderPersistence = errors.New("order persistence failed")
	// ErrConfirmationNotQueued means the order was durably created but
	// its confirmation message could not be enqueued. The order stands.
	ErrConfirmationNotQueued = errors.New("confirmation message not queued")
)

// ValidationError carries every violated rule, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
