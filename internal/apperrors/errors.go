package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidAmount indicates a payment amount that is not a positive monetary value.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrAmountExceedsBalance indicates a payment larger than the outstanding balance of its target.
var ErrAmountExceedsBalance = errors.New("amount exceeds balance")

// ErrMissingSaleReference indicates a payment against an itemized account without a sale ID.
var ErrMissingSaleReference = errors.New("missing sale reference")

// ErrConflict indicates that a concurrent update committed first; re-read and retry.
var ErrConflict = errors.New("concurrent update conflict")

// ErrNetworkFailure indicates that the persistence collaborator was unreachable
// or did not confirm the operation.
var ErrNetworkFailure = errors.New("persistence collaborator unavailable")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns a stable machine-readable code for the error taxonomy,
// or "INTERNAL" when err matches none of the known sentinels.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "INVALID_AMOUNT"
	case errors.Is(err, ErrAmountExceedsBalance):
		return "AMOUNT_EXCEEDS_BALANCE"
	case errors.Is(err, ErrMissingSaleReference):
		return "MISSING_SALE_REFERENCE"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrNetworkFailure):
		return "NETWORK_FAILURE"
	case errors.Is(err, ErrValidation):
		return "VALIDATION"
	case errors.Is(err, ErrDuplicate):
		return "DUPLICATE"
	default:
		return "INTERNAL"
	}
}
