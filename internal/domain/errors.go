package domain

import (
	"errors"
	"fmt"
)

// Error codes used across the service.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidState       = "INVALID_STATE"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeServiceTimeout     = "SERVICE_TIMEOUT"
	CodeRouteUnavailable   = "ROUTE_UNAVAILABLE"
	CodeIncompleteBooking  = "INCOMPLETE_BOOKING"
	CodeGeolocationDenied  = "GEOLOCATION_DENIED"
)

// DomainError is a coded error that handlers can map to an HTTP status and
// the UI can key messages off.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates a DomainError for invalid input.
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message}
}

// NewNotFoundError creates a DomainError for a missing entity.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// NewInvalidStateError creates a DomainError for an illegal stage transition.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{Code: CodeInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewServiceUnavailableError creates a DomainError for an upstream failure.
func NewServiceUnavailableError(service string, cause error) *DomainError {
	return &DomainError{Code: CodeServiceUnavailable, Message: fmt.Sprintf("%s unavailable: %v", service, cause)}
}

// NewServiceTimeoutError creates a DomainError for an upstream call that
// exceeded its deadline.
func NewServiceTimeoutError(service string) *DomainError {
	return &DomainError{Code: CodeServiceTimeout, Message: fmt.Sprintf("%s did not respond in time", service)}
}

// NewRouteUnavailableError creates a DomainError for an endpoint pair the
// routing service cannot connect.
func NewRouteUnavailableError() *DomainError {
	return &DomainError{Code: CodeRouteUnavailable, Message: "no route between pickup and drop"}
}

// NewIncompleteBookingError creates a DomainError for a confirmation attempt
// with required fields missing.
func NewIncompleteBookingError(missing string) *DomainError {
	return &DomainError{Code: CodeIncompleteBooking, Message: fmt.Sprintf("booking is incomplete: %s missing", missing)}
}

// NewGeolocationDeniedError creates a DomainError for an unavailable or denied
// device location.
func NewGeolocationDeniedError() *DomainError {
	return &DomainError{Code: CodeGeolocationDenied, Message: "device location unavailable or denied"}
}

// CodeOf extracts the domain error code from err, or "" if err is not a
// DomainError.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
