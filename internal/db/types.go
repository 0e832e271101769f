package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/feedback-survey/internal/survey"
)

// DefaultListLimit caps list queries when no limit is given.
const DefaultListLimit = 50

// StoredResponse is a survey record as persisted, with its database identity.
type StoredResponse struct {
	ID        uuid.UUID     `json:"id"`
	Record    survey.Record `json:"record"`
	CreatedAt time.Time     `json:"created_at"`
}
