package service

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageFailure is returned when a score could not be persisted.
	// The session is left as it was, so the feedback can be retried.
	ErrStorageFailure = errors.New("failed to save card score")

	// ErrSessionNotFound is returned for an unknown or ended session id.
	ErrSessionNotFound = errors.New("study session not found")
)

// ServiceError carries the service and operation that failed.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
