package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is lets wrapped copies of a sentinel match the sentinel itself
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Validation errors
	ErrFieldsRequired     = NewDomainError("VALIDATION_ERROR", "all fields are required")
	ErrEmailRequired      = NewDomainError("VALIDATION_ERROR", "email is required")
	ErrUsernameRequired   = NewDomainError("VALIDATION_ERROR", "username is missing")
	ErrAvatarRequired     = NewDomainError("AVATAR_REQUIRED", "avatar file is required")
	ErrCoverImageRequired = NewDomainError("COVER_IMAGE_REQUIRED", "cover image file is missing")
	ErrAvatarUpload       = NewDomainError("AVATAR_UPLOAD_FAILED", "avatar upload failed")
	ErrCoverImageUpload   = NewDomainError("COVER_IMAGE_UPLOAD_FAILED", "cover image upload failed")
	ErrIncorrectPassword  = NewDomainError("INCORRECT_PASSWORD", "old password is incorrect")
	ErrVideoFileRequired  = NewDomainError("VIDEO_FILE_REQUIRED", "video file is required")
	ErrThumbnailRequired  = NewDomainError("THUMBNAIL_REQUIRED", "thumbnail file is required")
	ErrVideoUpload        = NewDomainError("VIDEO_UPLOAD_FAILED", "video upload failed")

	// User errors
	ErrUserNotFound    = NewDomainError("USER_NOT_FOUND", "user does not exist")
	ErrChannelNotFound = NewDomainError("CHANNEL_NOT_FOUND", "channel does not exist")
	ErrVideoNotFound   = NewDomainError("VIDEO_NOT_FOUND", "video does not exist")
	ErrUserExists      = NewDomainError("USER_EXISTS", "user with email or username already exists")

	// Authentication errors
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "unauthorized request")
	ErrInvalidCredentials  = NewDomainError("INVALID_CREDENTIALS", "invalid user credentials")
	ErrInvalidToken        = NewDomainError("INVALID_TOKEN", "invalid access token")
	ErrInvalidRefreshToken = NewDomainError("INVALID_REFRESH_TOKEN", "invalid refresh token")
	ErrRefreshTokenExpired = NewDomainError("REFRESH_TOKEN_EXPIRED", "refresh token is expired or already used")

	// System errors
	ErrInternal = NewDomainError("INTERNAL_ERROR", "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

// domainErrorToHTTPStatus maps specific domain errors to HTTP status codes
func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "VALIDATION_ERROR", "AVATAR_REQUIRED", "COVER_IMAGE_REQUIRED",
		"AVATAR_UPLOAD_FAILED", "COVER_IMAGE_UPLOAD_FAILED", "INCORRECT_PASSWORD",
		"VIDEO_FILE_REQUIRED", "THUMBNAIL_REQUIRED", "VIDEO_UPLOAD_FAILED":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "INVALID_TOKEN",
		"INVALID_REFRESH_TOKEN", "REFRESH_TOKEN_EXPIRED":
		return http.StatusUnauthorized

	// 404 Not Found
	case "USER_NOT_FOUND", "CHANNEL_NOT_FOUND", "VIDEO_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "USER_EXISTS":
		return http.StatusConflict

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message without leaking internals
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return "internal server error"
}
