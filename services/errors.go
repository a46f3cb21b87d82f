package services

import (
	"errors"
	"fmt"
)

// NotFoundError is raised at the point a referenced row fails to load, so the
// missing entity kind travels with the error instead of being reconstructed
// from the driver's message later.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func notFound(entity string, id uint) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError carries a field -> message map. It is always returned
// before a transaction opens, so a failed validation writes nothing.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AuthorizationError means the acting user failed a permission or credential
// re-entry check. Always pre-write.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	if e.Reason == "" {
		return "not authorized"
	}
	return e.Reason
}

// AsNotFound, AsValidation, AsAuthorization are errors.As shorthands for
// controllers mapping service failures onto HTTP responses.
func AsNotFound(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	ok := errors.As(err, &nf)
	return nf, ok
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

func AsAuthorization(err error) (*AuthorizationError, bool) {
	var ae *AuthorizationError
	ok := errors.As(err, &ae)
	return ae, ok
}
