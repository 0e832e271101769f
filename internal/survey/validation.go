package survey

import (
	"fmt"
	"strings"
)

// RequiredMessage is shown next to a required question left blank.
const RequiredMessage = "Please select an option"

// IsFieldValid reports whether value satisfies the field's rule. Optional and unknown
// fields never fail; required fields need a non-empty value.
func IsFieldValid(fieldID, value string) bool {
	f, ok := fieldIndex[fieldID]
	if !ok || !f.Required {
		return true
	}
	return value != ""
}

// FieldMessage returns the inline error for a field, or "" when the field is valid.
func FieldMessage(fieldID, value string) string {
	if IsFieldValid(fieldID, value) {
		return ""
	}
	return RequiredMessage
}

// IsSubmittable reports whether every required field in resp is valid.
func IsSubmittable(resp Response) bool {
	for _, id := range RequiredFieldIDs() {
		if !IsFieldValid(id, resp[id]) {
			return false
		}
	}
	return true
}

// FieldError is a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every required field that blocks submission.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, fe := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, fe.Field, fe.Message))
	}
	return sb.String()
}

// Validate returns a *ValidationError naming each blank required field, or nil.
func Validate(resp Response) error {
	var errs []FieldError
	for _, id := range RequiredFieldIDs() {
		if msg := FieldMessage(id, resp[id]); msg != "" {
			errs = append(errs, FieldError{Field: id, Message: msg})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}
