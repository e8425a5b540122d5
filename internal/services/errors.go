package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/validation"
)

// Error kinds. Every error a service returns on purpose wraps exactly one of
// these; anything else is an infrastructure failure.
var (
	ErrValidation         = errors.New("validation failed")
	ErrAuthentication     = errors.New("authentication required")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidState       = errors.New("invalid state")
	ErrConflict           = errors.New("conflict")
	ErrInvariantViolation = errors.New("invariant violation")
)

// Error carries a client-safe message alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var validate = validation.New()

// validateInput runs struct validation and reports failures as ErrValidation.
func validateInput(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		var fields validation.FieldErrors
		if errors.As(err, &fields) {
			return newError(ErrValidation, "%s", fields.Error())
		}
		return err
	}
	return nil
}
