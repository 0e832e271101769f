//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/feedback-survey/internal/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestSetFieldRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request SetFieldRequest
		wantErr bool
	}{
		{"value present", SetFieldRequest{Value: strPtr("5")}, false},
		{"empty clears", SetFieldRequest{Value: strPtr("")}, false},
		{"missing value", SetFieldRequest{}, true},
		{"too long", SetFieldRequest{Value: strPtr(strings.Repeat("a", MaxFreeTextLength+1))}, true},
		{"at limit", SetFieldRequest{Value: strPtr(strings.Repeat("a", MaxFreeTextLength))}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetFieldRequest_DecodesNull(t *testing.T) {
	var req SetFieldRequest
	require.NoError(t, json.Unmarshal([]byte(`{"value": null}`), &req))
	assert.Error(t, req.Validate())

	require.NoError(t, json.Unmarshal([]byte(`{"value": ""}`), &req))
	assert.NoError(t, req.Validate())
}

func TestFieldPath_Validation(t *testing.T) {
	valid := FieldPath{SessionID: "550e8400-e29b-41d4-a716-446655440000", FieldID: survey.FieldVenueSetup}
	assert.NoError(t, valid.Validate())

	badField := valid
	badField.FieldID = "favoriteColor"
	err := badField.Validate()
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "FieldID", verrs[0].Field())
	assert.Equal(t, "surveyfield", verrs[0].Tag())

	badSession := valid
	badSession.SessionID = "not-a-uuid"
	assert.Error(t, badSession.Validate())
}

func TestListResponsesQuery_Validation(t *testing.T) {
	assert.NoError(t, (&ListResponsesQuery{}).Validate())
	assert.NoError(t, (&ListResponsesQuery{Limit: 500}).Validate())
	assert.Error(t, (&ListResponsesQuery{Limit: 501}).Validate())
	assert.Error(t, (&ListResponsesQuery{Limit: -1}).Validate())
}

func TestSessionResponse_FlattensSnapshot(t *testing.T) {
	section, _ := survey.Section(1)
	resp := SessionResponse{
		SessionID: "abc",
		Section:   &section,
		Snapshot:  survey.NewSession(nil).Snapshot(),
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "abc", raw["session_id"])
	assert.Equal(t, float64(1), raw["current_section"])
	assert.Equal(t, float64(0), raw["progress"])
	assert.Equal(t, "idle", raw["state"])
	assert.Len(t, raw["fields"], 13)
}

func TestNewSurveyDefinition(t *testing.T) {
	def := NewSurveyDefinition()
	assert.Equal(t, survey.Title, def.Title)
	assert.Len(t, def.Sections, 3)
}
