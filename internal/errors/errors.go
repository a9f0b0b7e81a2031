package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeInvalidCredentials indicates the directory rejected the supplied password.
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	// ErrCodeDirectoryUnavailable indicates the directory could not be reached or timed out.
	ErrCodeDirectoryUnavailable ErrorCode = "directory_unavailable"
	// ErrCodeNotFound indicates a resource (or directory entry) was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeExpired indicates a session token past its expiry instant.
	ErrCodeExpired ErrorCode = "expired"
	// ErrCodeInvalidSignature indicates a session token whose signature does not verify.
	ErrCodeInvalidSignature ErrorCode = "invalid_signature"
	// ErrCodeInvalidIssuerAudience indicates a token minted for a different issuer or audience.
	ErrCodeInvalidIssuerAudience ErrorCode = "invalid_issuer_audience"
	// ErrCodeForbiddenNetwork indicates a client outside the trusted network ranges.
	ErrCodeForbiddenNetwork ErrorCode = "forbidden_network"
	// ErrCodeUnsupportedClient indicates a browser that cannot perform integrated auth.
	ErrCodeUnsupportedClient ErrorCode = "unsupported_client"
	// ErrCodeParseFailure indicates a negotiation token that could not be decoded.
	ErrCodeParseFailure ErrorCode = "parse_failure"
	// ErrCodeUnknownUser indicates a negotiated identity with no directory entry.
	ErrCodeUnknownUser ErrorCode = "unknown_user"
	// ErrCodeNotImplemented indicates a mechanism the broker does not complete.
	ErrCodeNotImplemented ErrorCode = "not_implemented"
	// ErrCodeUnauthorized indicates a request with no usable session.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
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
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
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

// New creates an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates an AppError with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvalidCredentials creates an InvalidCredentials error.
func InvalidCredentials(message string) *AppError {
	return New(ErrCodeInvalidCredentials, message)
}

// DirectoryUnavailable creates a DirectoryUnavailable error.
func DirectoryUnavailable(message string) *AppError {
	return New(ErrCodeDirectoryUnavailable, message)
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return Newf(ErrCodeNotFound, format, args...)
}

// Expired creates an Expired error.
func Expired(message string) *AppError {
	return New(ErrCodeExpired, message)
}

// InvalidSignature creates an InvalidSignature error.
func InvalidSignature(message string) *AppError {
	return New(ErrCodeInvalidSignature, message)
}

// InvalidIssuerAudience creates an InvalidIssuerAudience error.
func InvalidIssuerAudience(message string) *AppError {
	return New(ErrCodeInvalidIssuerAudience, message)
}

// ForbiddenNetwork creates a ForbiddenNetwork error.
func ForbiddenNetwork(message string) *AppError {
	return New(ErrCodeForbiddenNetwork, message)
}

// UnsupportedClient creates an UnsupportedClient error.
func UnsupportedClient(message string) *AppError {
	return New(ErrCodeUnsupportedClient, message)
}

// ParseFailure creates a ParseFailure error.
func ParseFailure(message string) *AppError {
	return New(ErrCodeParseFailure, message)
}

// UnknownUser creates an UnknownUser error.
func UnknownUserf(format string, args ...any) *AppError {
	return Newf(ErrCodeUnknownUser, format, args...)
}

// NotImplemented creates a NotImplemented error.
func NotImplemented(message string) *AppError {
	return New(ErrCodeNotImplemented, message)
}

// Unauthorized creates an Unauthorized error.
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return Newf(ErrCodeValidation, format, args...)
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message)
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return Newf(ErrCodeInternal, format, args...)
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

// IsInvalidCredentials checks if an error is an InvalidCredentials error.
func IsInvalidCredentials(err error) bool {
	return isCode(err, ErrCodeInvalidCredentials)
}

// IsDirectoryUnavailable checks if an error is a DirectoryUnavailable error.
func IsDirectoryUnavailable(err error) bool {
	return isCode(err, ErrCodeDirectoryUnavailable)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsExpired checks if an error is an Expired error.
func IsExpired(err error) bool {
	return isCode(err, ErrCodeExpired)
}

// IsInvalidSignature checks if an error is an InvalidSignature error.
func IsInvalidSignature(err error) bool {
	return isCode(err, ErrCodeInvalidSignature)
}

// IsInvalidIssuerAudience checks if an error is an InvalidIssuerAudience error.
func IsInvalidIssuerAudience(err error) bool {
	return isCode(err, ErrCodeInvalidIssuerAudience)
}

// IsForbiddenNetwork checks if an error is a ForbiddenNetwork error.
func IsForbiddenNetwork(err error) bool {
	return isCode(err, ErrCodeForbiddenNetwork)
}

// IsUnsupportedClient checks if an error is an UnsupportedClient error.
func IsUnsupportedClient(err error) bool {
	return isCode(err, ErrCodeUnsupportedClient)
}

// IsParseFailure checks if an error is a ParseFailure error.
func IsParseFailure(err error) bool {
	return isCode(err, ErrCodeParseFailure)
}

// IsUnknownUser checks if an error is an UnknownUser error.
func IsUnknownUser(err error) bool {
	return isCode(err, ErrCodeUnknownUser)
}

// IsNotImplemented checks if an error is a NotImplemented error.
func IsNotImplemented(err error) bool {
	return isCode(err, ErrCodeNotImplemented)
}

// IsUnauthorized checks if an error is an Unauthorized error.
func IsUnauthorized(err error) bool {
	return isCode(err, ErrCodeUnauthorized)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool {
	return isCode(err, ErrCodeConflict)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool {
	return isCode(err, ErrCodeTimeout)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
