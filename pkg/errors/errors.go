package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure; the HTTP responder maps it to a status code.
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindDuplicateKey       Kind = "DUPLICATE_KEY"
	KindNotFound           Kind = "NOT_FOUND"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindNotAuthorized      Kind = "NOT_AUTHORIZED"
	KindForbidden          Kind = "FORBIDDEN"
	KindDelivery           Kind = "DELIVERY_ERROR"
	KindUpstream           Kind = "UPSTREAM_ERROR"
)

var (
	ErrInvalidCredentials = NewAppError(KindInvalidCredentials, "Invalid credentials", nil)
	ErrNotAuthenticated   = NewAppError(KindNotAuthorized, "Not authorized to access this route", nil)
	ErrIncorrectPassword  = NewAppError(KindNotAuthorized, "Password is incorrect", nil)
	ErrInvalidResetToken  = NewAppError(KindValidation, "Invalid or expired token", nil)
	ErrDuplicateField     = NewAppError(KindDuplicateKey, "Duplicate field value entered", nil)
	ErrEmailDelivery      = NewAppError(KindDelivery, "Email could not be sent", nil)
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on kind and message so that wrapped sentinels compare equal.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NewAppError(kind Kind, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func Validation(message string, err error) *AppError {
	return NewAppError(KindValidation, message, err)
}

func NotFound(resource, id string) *AppError {
	return NewAppError(KindNotFound, fmt.Sprintf("%s not found with id of %s", resource, id), nil)
}

func NotAuthorized(userID, action string) *AppError {
	return NewAppError(KindNotAuthorized, fmt.Sprintf("User %s is not authorized to %s", userID, action), nil)
}

func Forbidden(message string) *AppError {
	return NewAppError(KindForbidden, message, nil)
}

func Upstream(message string, err error) *AppError {
	return NewAppError(KindUpstream, message, err)
}

// KindOf returns the kind of the first AppError in err's chain, or
// KindUpstream for anything unclassified.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstream
}

func StatusOf(kind Kind) int {
	switch kind {
	case KindValidation, KindDuplicateKey:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidCredentials, KindNotAuthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
