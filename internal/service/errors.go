package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidDueDate     = errors.New("due_at is in the past")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrVoucherUnavailable = errors.New("voucher already redeemed or void")
	ErrVoucherExpired     = errors.New("voucher expired")
	ErrAlreadyRegistered  = errors.New("email already registered for this session")
	ErrNotDispatchable    = errors.New("campaign cannot be dispatched in its current status")
	ErrUnavailable        = errors.New("dependency not configured")
)

// ValidationError is an input problem the caller can fix.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// RenderError is a template execution failure (e.g. a missing variable).
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "render: " + e.Err.Error() }
func (e *RenderError) Unwrap() error { return e.Err }

// mapNoRows turns pgx.ErrNoRows into ErrNotFound and passes other errors through.
func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
