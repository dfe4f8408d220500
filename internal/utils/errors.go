package utils

import "fmt"

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrDuplicate    = "DUPLICATE"
	ErrInvalidInput = "INVALID_INPUT"

	// A required form field is missing; rejected before any store call
	ErrValidation = "VALIDATION_ERROR"

	// Authentication/Authorization errors
	ErrNotAuthenticated   = "NOT_AUTHENTICATED"
	ErrForbidden          = "FORBIDDEN"
	ErrInvalidToken       = "INVALID_TOKEN"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// User-specific errors
	ErrUserNotFound      = "USER_NOT_FOUND"
	ErrUserAlreadyExists = "USER_ALREADY_EXISTS"

	// Content errors
	ErrClipNotFound = "CLIP_NOT_FOUND"

	// Any failure from the identity/document/blob providers
	ErrProvider = "PROVIDER_ERROR"

	// Actor communication errors
	ErrActorTimeout = "ACTOR_TIMEOUT"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// Specific error creators for common cases
func NewUserNotFoundError(userID string) *AppError {
	return &AppError{
		Code:    ErrUserNotFound,
		Message: "User not found: " + userID,
	}
}

func NewNotAuthenticatedError(action string) *AppError {
	return &AppError{
		Code:    ErrNotAuthenticated,
		Message: fmt.Sprintf("You must be logged in to %s", action),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
	}
}

func NewProviderError(operation string, originalErr error) *AppError {
	return &AppError{
		Code:    ErrProvider,
		Message: "Provider operation failed: " + operation,
		Origin:  originalErr,
	}
}

func NewActorTimeoutError(actorName string) *AppError {
	return &AppError{
		Code:    ErrActorTimeout,
		Message: "Actor communication timeout: " + actorName,
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err means a document was absent. Profile
// documents treat absence as "all defaults", so several callers need this
// check rather than failing.
func IsNotFound(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrNotFound || appErr.Code == ErrUserNotFound || appErr.Code == ErrClipNotFound
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound, ErrUserNotFound, ErrClipNotFound:
		return 404 // http.StatusNotFound
	case ErrInvalidInput, ErrValidation:
		return 400 // http.StatusBadRequest
	case ErrNotAuthenticated, ErrInvalidToken, ErrInvalidCredentials:
		return 401 // http.StatusUnauthorized
	case ErrForbidden:
		return 403 // http.StatusForbidden
	case ErrDuplicate, ErrUserAlreadyExists:
		return 409 // http.StatusConflict
	case ErrProvider, ErrActorTimeout:
		return 500 // http.StatusInternalServerError
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
