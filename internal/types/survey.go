// Package types provides request and response types for the survey HTTP API.
package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/jonathan/feedback-survey/internal/survey"
)

// MaxFreeTextLength bounds a single answer.
const MaxFreeTextLength = 5000

// FieldPath identifies the field addressed by PUT /sessions/{id}/fields/{field_id}.
type FieldPath struct {
	SessionID string `validate:"required,uuid"`
	FieldID   string `validate:"required,surveyfield"`
}

// SetFieldRequest is the body of PUT /sessions/{id}/fields/{field_id}. An empty
// value clears the field; a missing value is rejected.
type SetFieldRequest struct {
	Value *string `json:"value" validate:"required,max=5000"`
}

// ListResponsesQuery holds query parameters of GET /responses.
type ListResponsesQuery struct {
	Limit int `validate:"gte=0,lte=500"`
}

// SurveyDefinition is the static survey layout served by GET /survey.
type SurveyDefinition struct {
	Title    string                     `json:"title" yaml:"title"`
	Intro    string                     `json:"intro" yaml:"intro"`
	Sections []survey.SectionDefinition `json:"sections" yaml:"sections"`
}

// NewSurveyDefinition returns the definition of the survey.
func NewSurveyDefinition() SurveyDefinition {
	return SurveyDefinition{
		Title:    survey.Title,
		Intro:    survey.Intro,
		Sections: survey.Sections(),
	}
}

// SessionResponse is the render view of one session.
type SessionResponse struct {
	SessionID string                    `json:"session_id"`
	Section   *survey.SectionDefinition `json:"section,omitempty"`
	survey.Snapshot
}

// SubmitResponse reports the outcome of POST /sessions/{id}/submit.
type SubmitResponse struct {
	Status       string               `json:"status"`
	Message      string               `json:"message,omitempty"`
	Notification *survey.Notification `json:"notification,omitempty"`
	Errors       []survey.FieldError  `json:"errors,omitempty"`
	Session      *SessionResponse     `json:"session,omitempty"`
}

// Submit statuses.
const (
	SubmitStatusSucceeded = "succeeded"
	SubmitStatusFailed    = "failed"
	SubmitStatusRejected  = "rejected"
)

// NewValidator returns a validator with the survey-specific tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	//nolint:errcheck // registration only fails for an empty tag
	v.RegisterValidation("surveyfield", func(fl validator.FieldLevel) bool {
		_, ok := survey.Field(fl.Field().String())
		return ok
	})
	return v
}

var validate = NewValidator()

// Validate validates the SetFieldRequest using the validator.
func (r *SetFieldRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the FieldPath using the validator.
func (p *FieldPath) Validate() error {
	return validate.Struct(p)
}

// Validate validates the ListResponsesQuery using the validator.
func (q *ListResponsesQuery) Validate() error {
	return validate.Struct(q)
}
