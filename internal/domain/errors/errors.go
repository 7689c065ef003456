package errors

import (
	"net/http"

	"tiffin/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-facing message, safe to show in a toast
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-facing message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// WithMessage returns a copy carrying a different user-facing message
func (e *BaseError) WithMessage(message string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   message,
		details:   e.details,
	}
}

// Is matches any BaseError with the same error code, so copies made by
// WithDetails/WithMessage still satisfy errors.Is against the predefined value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == t.errorCode
}

// Predefined error types
var (
	// Session
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Login failed",
		"",
	)

	ErrSignUpFailed = NewBaseError(
		http.StatusBadRequest,
		"SIGNUP_FAILED",
		"Signup failed",
		"",
	)

	ErrSessionExpired = NewBaseError(
		http.StatusUnauthorized,
		"SESSION_EXPIRED",
		"Your session has expired, please sign in again",
		"",
	)

	ErrNotAuthenticated = NewBaseError(
		http.StatusUnauthorized,
		"NOT_AUTHENTICATED",
		"Please sign in first",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"You are not allowed to do that",
		"",
	)

	// Transport
	ErrNetwork = NewBaseError(
		http.StatusServiceUnavailable,
		"NETWORK_ERROR",
		"Unable to reach the server",
		"",
	)

	ErrServer = NewBaseError(
		http.StatusBadGateway,
		"SERVER_ERROR",
		"Something went wrong, please try again later",
		"",
	)

	ErrChannelClosed = NewBaseError(
		http.StatusServiceUnavailable,
		"CHANNEL_CLOSED",
		"Live updates are unavailable",
		"",
	)

	// Validation
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)

	// Cart
	ErrNoVendorSelected = NewBaseError(
		http.StatusBadRequest,
		"NO_VENDOR_SELECTED",
		"Please select a restaurant first",
		"",
	)

	ErrEmptyCart = NewBaseError(
		http.StatusBadRequest,
		"EMPTY_CART",
		"Your cart is empty",
		"",
	)

	ErrVendorMismatch = NewBaseError(
		http.StatusConflict,
		"VENDOR_MISMATCH",
		"This item belongs to a different restaurant",
		"",
	)

	ErrPlaceOrderFailed = NewBaseError(
		http.StatusBadGateway,
		"PLACE_ORDER_FAILED",
		"Failed to place order",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal error",
		"",
	)
)

// RemoteError is a non-2xx answer from the marketplace API
type RemoteError struct {
	status  int
	message string
	path    string
}

// NewRemoteError creates a RemoteError. An empty message falls back to a generic one.
func NewRemoteError(status int, message, path string) *RemoteError {
	return &RemoteError{status: status, message: message, path: path}
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	return "api " + e.path + ": " + http.StatusText(e.status) + ": " + e.Message()
}

// HTTPCode returns the status the server answered with
func (e *RemoteError) HTTPCode() int {
	return e.status
}

// ErrorCode returns the business error code
func (e *RemoteError) ErrorCode() string {
	switch {
	case e.status == http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case e.status == http.StatusForbidden:
		return "FORBIDDEN"
	case e.status == http.StatusNotFound:
		return "NOT_FOUND"
	case e.status >= http.StatusInternalServerError:
		return "SERVER_ERROR"
	default:
		return "REQUEST_REJECTED"
	}
}

// Message returns the server supplied message, if any
func (e *RemoteError) Message() string {
	if e.message != "" {
		return e.message
	}

	return http.StatusText(e.status)
}

// ServerMessage returns the message field of the error payload, possibly empty
func (e *RemoteError) ServerMessage() string {
	return e.message
}

// Details returns the request path
func (e *RemoteError) Details() string {
	return e.path
}

// IsUnauthorized reports whether err carries a 401 from the API.
func IsUnauthorized(err error) bool {
	remote, ok := errors.AsType[*RemoteError](err)

	return ok && remote.status == http.StatusUnauthorized
}

// UserMessage returns the message a toast should show for err. Server supplied
// messages win; anything else falls back to the given text.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	if remote, ok := errors.AsType[*RemoteError](err); ok {
		if remote.ServerMessage() != "" {
			return remote.ServerMessage()
		}

		return fallback
	}

	if appErr, ok := errors.AsType[AppError](err); ok && appErr.Message() != "" {
		return appErr.Message()
	}

	return fallback
}

// ServerMessageOr returns the API's own message for err, or fallback when the
// failure did not come with one (network errors included).
func ServerMessageOr(err error, fallback string) string {
	if remote, ok := errors.AsType[*RemoteError](err); ok && remote.ServerMessage() != "" {
		return remote.ServerMessage()
	}

	return fallback
}
