package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeStartupConfig indicates invalid or incomplete startup configuration.
	// These errors are fatal and abort initialization.
	ErrCodeStartupConfig ErrorCode = "startup_config"
	// ErrCodeBackendUnavailable indicates the authorization backend could not be reached
	// or answered with a server-side failure.
	ErrCodeBackendUnavailable ErrorCode = "backend_unavailable"
	// ErrCodeBackendAuth indicates the authorization backend rejected the caller's
	// credentials. This is an expected per-request condition, not a server fault.
	ErrCodeBackendAuth ErrorCode = "backend_auth"
	// ErrCodeSessionDecode indicates a session cookie could not be decoded or verified.
	// Treated as "no session", never surfaced to the caller.
	ErrCodeSessionDecode ErrorCode = "session_decode"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Status carries the backend's HTTP status for backend_auth errors so the
	// authinfo endpoint can pass it through (optional)
	Status int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StartupConfig creates a new fatal configuration error.
func StartupConfig(message string) *AppError {
	return &AppError{
		Code:    ErrCodeStartupConfig,
		Message: message,
	}
}

// StartupConfigf creates a new fatal configuration error with formatted message.
func StartupConfigf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeStartupConfig,
		Message: fmt.Sprintf(format, args...),
	}
}

// BackendUnavailable creates a new BackendUnavailable error.
func BackendUnavailable(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBackendUnavailable,
		Message: message,
	}
}

// BackendAuth creates a new BackendAuth error carrying the backend's HTTP status.
func BackendAuth(status int, message string) *AppError {
	return &AppError{
		Code:    ErrCodeBackendAuth,
		Message: message,
		Status:  status,
	}
}

// SessionDecode creates a new SessionDecode error.
func SessionDecode(message string) *AppError {
	return &AppError{
		Code:    ErrCodeSessionDecode,
		Message: message,
	}
}

// Timeout creates a new Timeout error.
func Timeout(message string) *AppError {
	return &AppError{
		Code:    ErrCodeTimeout,
		Message: message,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsStartupConfig checks if an error is a StartupConfig error.
func IsStartupConfig(err error) bool {
	return isCode(err, ErrCodeStartupConfig)
}

// IsBackendUnavailable checks if an error is a BackendUnavailable error.
func IsBackendUnavailable(err error) bool {
	return isCode(err, ErrCodeBackendUnavailable)
}

// IsBackendAuth checks if an error is a BackendAuth error.
func IsBackendAuth(err error) bool {
	return isCode(err, ErrCodeBackendAuth)
}

// IsSessionDecode checks if an error is a SessionDecode error.
func IsSessionDecode(err error) bool {
	return isCode(err, ErrCodeSessionDecode)
}

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool {
	return isCode(err, ErrCodeTimeout)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetStatus returns the backend HTTP status from an error, or zero if not set.
func GetStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}
