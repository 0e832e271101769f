// Package server provides the HTTP API for the feedback survey.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/feedback-survey/internal/sessions"
	"github.com/jonathan/feedback-survey/internal/survey"
)

// ErrStoreNotConfigured is returned by submissions and reads when no database is configured.
var ErrStoreNotConfigured = errors.New("survey store is not configured")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation    *ErrValidation
		submission    *survey.SubmissionError
		unknownField  *survey.UnknownFieldError
		invalidOption *survey.InvalidOptionError
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.Is(err, sessions.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, survey.ErrNotSubmittable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, survey.ErrNotOnLastSection), errors.Is(err, survey.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.As(err, &submission):
		return http.StatusBadGateway
	case errors.Is(err, ErrStoreNotConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &unknownField):
		return http.StatusNotFound
	case errors.As(err, &invalidOption), errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
