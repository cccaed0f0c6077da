package handlers

import (
	"errors"
	"net/http"

	app "github.com/civicresolve/backend/internal/application"
	repo "github.com/civicresolve/backend/internal/domain/repository"
)

// statusFor maps service failure kinds onto HTTP statuses. Anything not in
// the table is treated as an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, app.ErrAuthFailure), errors.Is(err, app.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, app.ErrNotVerified), errors.Is(err, app.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, app.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, app.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
