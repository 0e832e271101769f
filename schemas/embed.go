// Package schemas holds the JSON Schema documents describing stored survey data.
package schemas

import _ "embed"

// SurveyResponse is the JSON Schema for a submitted survey record.
//
//go:embed survey_response.schema.json
var SurveyResponse string
