package types

import (
	"errors"
	"fmt"
)

var (
	ErrRequestNotFound = errors.New("request not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")

	ErrRequestNotOpen     = errors.New("request is not open")
	ErrRequestNotAccepted = errors.New("request is not accepted")
	ErrSelfAccept         = errors.New("cannot accept your own request")
	ErrNoDeliveryPhoto    = errors.New("delivery photo required before completing")
	ErrEmailTaken         = errors.New("email already registered")
)

// ValidationError marks a bad or missing field. Maps to HTTP 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldTooLongError marks a field exceeding its length cap. Maps to
// HTTP 422.
type FieldTooLongError struct {
	Field string
	Max   int
}

func (e *FieldTooLongError) Error() string {
	return fmt.Sprintf("%s exceeds %d characters", e.Field, e.Max)
}

// ActiveDeliveryError rejects an accept while the courier already holds
// an accepted request. The conflicting id is surfaced so the client can
// navigate to it.
type ActiveDeliveryError struct {
	ActiveRequestID string
}

func (e *ActiveDeliveryError) Error() string {
	return fmt.Sprintf("courier already has an active delivery %s", e.ActiveRequestID)
}
