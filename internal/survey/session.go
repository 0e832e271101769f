package survey

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// FieldState is the render view of one field.
type FieldState struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Snapshot is a read-only view of a session, derived from its current state.
type Snapshot struct {
	CurrentSection int              `json:"current_section"`
	TotalSections  int              `json:"total_sections"`
	Progress       int              `json:"progress"`
	State          State            `json:"state"`
	LastOutcome    *SubmissionState `json:"last_outcome,omitempty"`
	Dirty          bool             `json:"dirty"`
	Submittable    bool             `json:"submittable"`
	CanSubmit      bool             `json:"can_submit"`
	Fields         []FieldState     `json:"fields"`
}

// Field returns the state of id from the snapshot.
func (s Snapshot) Field(id string) (FieldState, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldState{}, false
}

// Session is one participant's pass through the survey. It owns the response, the
// section navigator and the submission state; every mutation goes through its mutex.
type Session struct {
	mu         sync.Mutex
	response   Response
	nav        *Navigator
	state      State
	last       *SubmissionState
	showErrors bool

	submitter Submitter
	notifier  Notifier
	now       func() time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithNotifier sets the notifier that receives submission outcomes.
func WithNotifier(n Notifier) SessionOption {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock overrides the time source used for submission timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession starts a session with an empty response on the first section.
func NewSession(submitter Submitter, opts ...SessionOption) *Session {
	if submitter == nil {
		submitter = SubmitFunc(func(context.Context, Record) error {
			return errors.New("no submitter configured")
		})
	}

	s := &Session{
		response:  NewResponse(),
		nav:       NewNavigator(TotalSections()),
		state:     StateIdle,
		submitter: submitter,
		notifier:  discard,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetField records an answer. Empty values clear the field. Single-choice fields
// only accept one of their option values.
func (s *Session) SetField(id, value string) error {
	f, ok := fieldIndex[id]
	if !ok {
		return &UnknownFieldError{Field: id}
	}
	if value != "" && f.Kind == KindSingleChoice && !f.HasOption(value) {
		return &InvalidOptionError{Field: id, Value: value}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		return ErrSubmissionInFlight
	}
	s.response[id] = value
	return nil
}

// Advance moves to the next section. Validity of the current section is not checked.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		return ErrSubmissionInFlight
	}
	s.nav.Advance()
	return nil
}

// Retreat moves to the previous section.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		return ErrSubmissionInFlight
	}
	s.nav.Retreat()
	return nil
}

// CurrentSection returns the active 1-based section index.
func (s *Session) CurrentSection() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Current()
}

// State returns the current submission state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Response returns a copy of the current answers.
func (s *Session) Response() Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.response.Clone()
}

// Progress returns the completion percentage of the current answers.
func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeProgress(s.response)
}

// Snapshot returns the render view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	submittable := IsSubmittable(s.response)
	snap := Snapshot{
		CurrentSection: s.nav.Current(),
		TotalSections:  s.nav.Total(),
		Progress:       ComputeProgress(s.response),
		State:          s.state,
		Dirty:          !s.response.IsEmpty(),
		Submittable:    submittable,
		CanSubmit:      submittable && s.nav.OnLastSection() && s.state == StateIdle,
	}
	if s.last != nil {
		last := *s.last
		snap.LastOutcome = &last
	}

	for _, id := range FieldIDs() {
		value := s.response[id]
		fs := FieldState{ID: id, Value: value, Valid: IsFieldValid(id, value)}
		if s.showErrors {
			fs.Error = FieldMessage(id, value)
		}
		snap.Fields = append(snap.Fields, fs)
	}
	return snap
}

// RequestSubmit validates the session and hands the record to the Submitter. It
// blocks until the Submitter resolves. A submission that has started runs to
// completion even if ctx is cancelled.
//
// Guard failures leave the session idle and return ErrSubmissionInFlight,
// ErrNotOnLastSection, or an error wrapping ErrNotSubmittable and *ValidationError.
// A Submitter failure returns *SubmissionError with the answers preserved.
func (s *Session) RequestSubmit(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if !s.nav.OnLastSection() {
		s.mu.Unlock()
		return ErrNotOnLastSection
	}
	if err := Validate(s.response); err != nil {
		s.showErrors = true
		s.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrNotSubmittable, err)
	}
	s.state = StateSubmitting
	resp := s.response.Clone()
	s.mu.Unlock()

	rec := Record{Response: resp, SubmittedAt: s.now().UTC().Truncate(time.Millisecond)}
	err := s.submit(context.WithoutCancel(ctx), rec)

	s.mu.Lock()
	if err != nil {
		s.last = &SubmissionState{State: StateFailed, Reason: err.Error()}
		s.state = StateIdle
		s.mu.Unlock()

		log.Printf("[survey] Submission failed: %v", err)
		s.notifier.Notify(FailureNotification)
		return &SubmissionError{Cause: err}
	}

	s.response = NewResponse()
	s.nav.Reset()
	s.showErrors = false
	s.last = &SubmissionState{State: StateSucceeded}
	s.state = StateIdle
	s.mu.Unlock()

	s.notifier.Notify(SuccessNotification)
	return nil
}

// submit calls the Submitter, turning a panic into an ordinary failure so the
// session always leaves StateSubmitting.
func (s *Session) submit(ctx context.Context, rec Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submitter panicked: %v", r)
		}
	}()
	return s.submitter.Submit(ctx, rec)
}
