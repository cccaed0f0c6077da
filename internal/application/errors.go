package application

import "errors"

// Failure kinds surfaced across the service boundary. Handlers map these to
// HTTP statuses with errors.Is, so distinct kinds stay distinct all the way
// to the client instead of collapsing into one generic message.
var (
	// ErrValidation covers missing required fields and duplicate
	// username/email at registration.
	ErrValidation = errors.New("validation failed")

	// ErrAuthFailure covers OTP and Aadhaar mismatches.
	ErrAuthFailure = errors.New("verification failed")

	// ErrTooManyAttempts is returned once a verification channel exceeds
	// its retry budget; the workflow is locked from then on.
	ErrTooManyAttempts = errors.New("too many verification attempts")

	// ErrUnauthorized is returned when a mutation is attempted by a user
	// without the required role.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition rejects status changes outside the allowed
	// lifecycle table and out-of-order registration steps.
	ErrInvalidTransition = errors.New("invalid transition")

	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotVerified blocks login for accounts that never completed the
	// registration workflow.
	ErrNotVerified = errors.New("account not verified")
)
