package survey

import (
	"encoding/json"
	"fmt"
	"time"
)

// Response holds the current answer for every survey field. A fresh Response has every
// field id present with an empty value.
type Response map[string]string

// NewResponse returns a Response with all fields empty.
func NewResponse() Response {
	r := make(Response, len(fieldIndex))
	for id := range fieldIndex {
		r[id] = ""
	}
	return r
}

// Value returns the answer for id. A missing key reads as empty.
func (r Response) Value(id string) string {
	return r[id]
}

// Answered reports whether id holds a non-empty value.
func (r Response) Answered(id string) bool {
	return r[id] != ""
}

// Clone returns an independent copy normalized to exactly the known field ids.
func (r Response) Clone() Response {
	out := NewResponse()
	for id := range out {
		out[id] = r[id]
	}
	return out
}

// IsEmpty reports whether no field holds a value.
func (r Response) IsEmpty() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}

// TimestampLayout renders submission times as ISO-8601 UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Record is the payload handed to a Submitter: the answers plus the moment of submission.
type Record struct {
	Response    Response
	SubmittedAt time.Time
}

// Timestamp returns SubmittedAt formatted with TimestampLayout.
func (r Record) Timestamp() string {
	return r.SubmittedAt.UTC().Format(TimestampLayout)
}

// Fields returns the flat key/value view of the record, including submitted_at.
func (r Record) Fields() map[string]string {
	out := make(map[string]string, len(fieldIndex)+1)
	for _, id := range FieldIDs() {
		out[id] = r.Response[id]
	}
	out["submitted_at"] = r.Timestamp()
	return out
}

// MarshalJSON flattens the record into a single object keyed by field id.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields())
}

// UnmarshalJSON reads the flat representation produced by MarshalJSON.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	resp := NewResponse()
	for id := range resp {
		if v := raw[id]; v != nil {
			resp[id] = *v
		}
	}

	var submittedAt time.Time
	if ts := raw["submitted_at"]; ts != nil && *ts != "" {
		t, err := time.Parse(time.RFC3339Nano, *ts)
		if err != nil {
			return fmt.Errorf("invalid submitted_at: %w", err)
		}
		submittedAt = t
	}

	r.Response = resp
	r.SubmittedAt = submittedAt
	return nil
}
