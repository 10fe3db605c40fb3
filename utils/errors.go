package utils

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// AppError carries an HTTP status plus a human-readable message. There is no
// machine error-code field; the status and the message are the whole contract.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// ErrAuthRequired: missing or malformed credential.
func ErrAuthRequired(msg string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: msg}
}

// ErrAuthInvalid: bad/expired token or unknown subject.
func ErrAuthInvalid(msg string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: msg}
}

// ErrForbidden: role or ownership mismatch, distinct from authentication failure.
func ErrForbidden(msg string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: msg}
}

// ErrNotFound: referenced entity absent.
func ErrNotFound(msg string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: msg}
}

// ErrConflict: uniqueness violation, or a delete blocked by dependent records.
func ErrConflict(msg string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: msg}
}

// ErrValidation: missing or malformed request fields.
func ErrValidation(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

// ErrInternal: unexpected store failure, surfaced with the underlying message.
func ErrInternal(op string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: fmt.Sprintf("%s: %v", op, err)}
}

// StatusOf maps an error to its HTTP status, defaulting to 500 for anything
// that is not an *AppError. Unique-index violations that slip past the
// application-level pre-checks surface as 409.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
