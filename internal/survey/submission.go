package survey

import (
	"context"
	"errors"
	"fmt"
)

// State is the phase of the submission state machine.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// SubmissionState is a state plus, for StateFailed, the reason reported by the store.
type SubmissionState struct {
	State  State  `json:"state"`
	Reason string `json:"reason,omitempty"`
}

// Submitter persists a completed record. Implementations may fail for network or
// storage reasons; the session never retries on its own.
type Submitter interface {
	Submit(ctx context.Context, rec Record) error
}

// SubmitFunc adapts a function to the Submitter interface.
type SubmitFunc func(ctx context.Context, rec Record) error

// Submit calls f(ctx, rec).
func (f SubmitFunc) Submit(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}

// NotificationKind distinguishes success and error notifications.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification is a one-off user-visible message.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
}

// Notifier delivers notifications. Delivery is fire-and-forget.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

var discard = NotifierFunc(func(Notification) {})

// Messages shown after a submission attempt.
var (
	SuccessNotification = Notification{
		Kind:    NotifySuccess,
		Title:   "Thank you for your feedback!",
		Message: "Your responses have been saved and will help us improve future events.",
	}
	FailureNotification = Notification{
		Kind:    NotifyError,
		Title:   "Submission failed",
		Message: "We couldn't save your responses. Please try again later.",
	}
)

var (
	// ErrNotOnLastSection is returned when a submit is requested before the final section.
	ErrNotOnLastSection = errors.New("submission is only available on the last section")
	// ErrNotSubmittable wraps the *ValidationError returned when required fields are blank.
	ErrNotSubmittable = errors.New("survey is not ready to submit")
	// ErrSubmissionInFlight is returned while a previous submission has not resolved.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
)

// SubmissionError reports that the Submitter rejected the record.
type SubmissionError struct {
	Cause error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("failed to submit survey: %v", e.Cause)
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

// UnknownFieldError reports a field id that is not part of the survey.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field: %s", e.Field)
}

// InvalidOptionError reports a single-choice value outside the field's options.
type InvalidOptionError struct {
	Field string
	Value string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid option %q for field %s", e.Value, e.Field)
}
