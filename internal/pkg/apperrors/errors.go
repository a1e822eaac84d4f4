package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrAccountPending     = errors.New("account pending activation")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameAlreadyTaken = errors.New("username already taken")
)

// Scheduling errors
var (
	// ErrScheduleConflict marks any instructor double-booking rejection.
	// The structured report travels on scheduling.ConflictError, which
	// unwraps to this sentinel.
	ErrScheduleConflict = errors.New("schedule conflict")
	ErrEventNotFound    = errors.New("event not found")
	ErrInvalidInterval  = errors.New("event end must be after start")
	ErrEmptySelection   = errors.New("no valid events selected")
)

// Client / engagement errors
var (
	ErrClientNotFound     = errors.New("client not found")
	ErrEngagementNotFound = errors.New("engagement not found")
)

// Instructor errors
var (
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrCVNotFound         = errors.New("cv not available")
	ErrInvalidCV          = errors.New("cv must be a valid PDF file")
)

// Invite errors
var (
	ErrInviteNotFound    = errors.New("invite not valid")
	ErrInviteUsed        = errors.New("invite already used")
	ErrInviteExpired     = errors.New("invite expired")
	ErrInviteCodeWrong   = errors.New("invite code incorrect")
	ErrInviteRevokedUsed = errors.New("cannot revoke an invite that was already used")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a new custom error for input validation failures with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
