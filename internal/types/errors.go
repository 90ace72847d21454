package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Request errors
	ErrValidation       ErrorCode = "VALIDATION_ERROR"
	ErrNotAuthenticated ErrorCode = "NOT_AUTHENTICATED"
	ErrSessionExpired   ErrorCode = "SESSION_EXPIRED"
	ErrRemoteFailure    ErrorCode = "REMOTE_FAILURE"

	// Game errors
	ErrGameNotFound  ErrorCode = "GAME_NOT_FOUND"
	ErrInvalidAction ErrorCode = "INVALID_ACTION"

	// System errors
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
	ErrStorageError  ErrorCode = "STORAGE_ERROR"
	ErrConfigError   ErrorCode = "CONFIG_ERROR"
)

// SessionExpiredMessage is shown whenever the backend rejects the stored credential.
const SessionExpiredMessage = "Session expired, please login again"

// ClientError represents a failure surfaced by the client
type ClientError struct {
	Code    ErrorCode
	Message string
	Status  int   // HTTP status of the response that produced the error, 0 if none
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError creates a new ClientError
func NewClientError(code ErrorCode, message string) *ClientError {
	return &ClientError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in a ClientError
func WrapError(code ErrorCode, message string, err error) *ClientError {
	return &ClientError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewRemoteFailure creates a REMOTE_FAILURE error carrying the response status
func NewRemoteFailure(status int, message string) *ClientError {
	return &ClientError{
		Code:    ErrRemoteFailure,
		Message: message,
		Status:  status,
	}
}

// NewSessionExpired creates the standard SESSION_EXPIRED error
func NewSessionExpired(status int) *ClientError {
	return &ClientError{
		Code:    ErrSessionExpired,
		Message: SessionExpiredMessage,
		Status:  status,
	}
}

// Is checks if an error is a ClientError and has a specific code
func Is(err error, code ErrorCode) bool {
	var clientErr *ClientError
	if err == nil {
		return false
	}
	if ok := As(err, &clientErr); !ok {
		return false
	}
	return clientErr.Code == code
}

// As finds the first ClientError in err's chain
func As(err error, target **ClientError) bool {
	if target == nil || err == nil {
		return false
	}
	return errors.As(err, target)
}

// MessageOf returns the human-readable message carried by err, or fallback
// when err carries none.
func MessageOf(err error, fallback string) string {
	var clientErr *ClientError
	if As(err, &clientErr) && clientErr.Message != "" {
		return clientErr.Message
	}
	return fallback
}
