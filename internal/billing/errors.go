package billing

import "errors"

// Sentinel errors of the billing ledger. The HTTP layer maps these to status
// codes; everything else is treated as an internal error and not leaked.
var (
	// ErrValidation marks malformed or missing user input.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks a failed role or ownership check.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict marks a uniqueness violation, e.g. a duplicate contract or
	// a payment reported twice with the same reference.
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition protects the invoice state machine: transitions
	// only move pending->paid, pending->overdue, overdue->paid.
	ErrInvalidTransition = errors.New("invalid invoice state transition")

	// ErrExternalService marks an exchange-rate fetch failure that could not
	// be recovered from the last-known-good cache.
	ErrExternalService = errors.New("external service failure")
)
