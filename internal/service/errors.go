package service

import "fmt"

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Resource, e.ID)
}

// ValidationError represents a malformed request. Surfaced before any
// resolution or dispatch begins; no log entry is created.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ResolutionError means the tenant store was unreachable while resolving
// recipients. The whole request fails fast, no log entry is created, and
// retrying the request is safe.
type ResolutionError struct {
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve recipients: %v", e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
