// Package survey implements the event feedback survey: its fixed field schema, the
// validation and progress rules, section navigation, and the submission state machine.
package survey

// Title is the heading shown above the survey.
const Title = "US Kids Local Tour Feedback Survey"

// Intro is the introductory text shown under the title.
const Intro = "Thank you for participating in the US Kids Local Tour! Your feedback is essential for us to improve future events. Please take a few minutes to complete this survey."

// Kind describes how a field is answered.
type Kind string

const (
	KindSingleChoice Kind = "single-choice"
	KindFreeText     Kind = "free-text"
)

// Option is one selectable answer of a single-choice field.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// FieldDefinition describes a single survey question.
type FieldDefinition struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Kind     Kind     `json:"kind" yaml:"kind"`
	Required bool     `json:"required" yaml:"required"`
	Options  []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// HasOption reports whether value is one of the field's option values.
func (f FieldDefinition) HasOption(value string) bool {
	for _, o := range f.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// SectionDefinition groups fields shown together as one page.
type SectionDefinition struct {
	Title  string            `json:"title" yaml:"title"`
	Fields []FieldDefinition `json:"fields" yaml:"fields"`
}

// Field identifiers.
const (
	FieldOverallEnjoyment    = "overallEnjoyment"
	FieldOrganizationQuality = "organizationQuality"
	FieldSupportSatisfaction = "supportSatisfaction"
	FieldScheduleTimeliness  = "scheduleTimeliness"
	FieldDelaysComment       = "delaysComment"
	FieldCommunication       = "communication"
	FieldTroubleshooting     = "troubleshooting"
	FieldIssuesComment       = "issuesComment"
	FieldVenueSetup          = "venueSetup"
	FieldLayoutComment       = "layoutComment"
	FieldBackupStrategies    = "backupStrategies"
	FieldBackupComment       = "backupComment"
	FieldGeneralFeedback     = "generalFeedback"
)

var (
	poorToExcellent = []Option{
		{Value: "1", Label: "Very Poor"},
		{Value: "2", Label: "Poor"},
		{Value: "3", Label: "Average"},
		{Value: "4", Label: "Good"},
		{Value: "5", Label: "Excellent"},
	}

	sections = []SectionDefinition{
		{
			Title: "Participant Satisfaction",
			Fields: []FieldDefinition{
				{
					ID:       FieldOverallEnjoyment,
					Label:    "How would you rate your overall enjoyment of the event?",
					Kind:     KindSingleChoice,
					Required: true,
					Options:  poorToExcellent,
				},
				{
					ID:       FieldOrganizationQuality,
					Label:    "How satisfied were you with the organization of the tournament?",
					Kind:     KindSingleChoice,
					Required: true,
					Options: []Option{
						{Value: "1", Label: "Very Unsatisfied"},
						{Value: "2", Label: "Unsatisfied"},
						{Value: "3", Label: "Neutral"},
						{Value: "4", Label: "Satisfied"},
						{Value: "5", Label: "Very Satisfied"},
					},
				},
				{
					ID:       FieldSupportSatisfaction,
					Label:    "How would you rate your satisfaction with the registration, check-in process, and on-site support?",
					Kind:     KindSingleChoice,
					Required: true,
					Options:  poorToExcellent,
				},
			},
		},
		{
			Title: "Logistical Efficiency",
			Fields: []FieldDefinition{
				{
					ID:       FieldScheduleTimeliness,
					Label:    "Was the event schedule followed as planned?",
					Kind:     KindSingleChoice,
					Required: true,
					Options: []Option{
						{Value: "yes", Label: "Yes"},
						{Value: "somewhat", Label: "Somewhat"},
						{Value: "no", Label: "No"},
					},
				},
				{
					ID:    FieldDelaysComment,
					Label: "Please elaborate on any delays or issues experienced (optional):",
					Kind:  KindFreeText,
				},
				{
					ID:       FieldCommunication,
					Label:    "How clear and effective were the communications during the event?",
					Kind:     KindSingleChoice,
					Required: true,
					Options: []Option{
						{Value: "1", Label: "Very Ineffective"},
						{Value: "2", Label: "Ineffective"},
						{Value: "3", Label: "Neutral"},
						{Value: "4", Label: "Effective"},
						{Value: "5", Label: "Very Effective"},
					},
				},
				{
					ID:       FieldTroubleshooting,
					Label:    "How would you rate the handling of any issues or troubleshooting during the event?",
					Kind:     KindSingleChoice,
					Required: true,
					Options:  poorToExcellent,
				},
				{
					ID:    FieldIssuesComment,
					Label: "If you experienced any issues, please describe them and how they were resolved (optional):",
					Kind:  KindFreeText,
				},
			},
		},
		{
			Title: "Overall Event Execution",
			Fields: []FieldDefinition{
				{
					ID:       FieldVenueSetup,
					Label:    "How would you rate the event layout and overall venue setup?",
					Kind:     KindSingleChoice,
					Required: true,
					Options:  poorToExcellent,
				},
				{
					ID:    FieldLayoutComment,
					Label: "What improvements would you suggest for the layout or venue (optional):",
					Kind:  KindFreeText,
				},
				{
					ID:       FieldBackupStrategies,
					Label:    "How effective were the backup strategies and contingency plans during the event?",
					Kind:     KindSingleChoice,
					Required: true,
					Options: []Option{
						{Value: "1", Label: "Not Effective"},
						{Value: "2", Label: "Somewhat Ineffective"},
						{Value: "3", Label: "Neutral"},
						{Value: "4", Label: "Effective"},
						{Value: "5", Label: "Very Effective"},
					},
				},
				{
					ID:    FieldBackupComment,
					Label: "Please provide any suggestions for enhancing our backup plans (optional):",
					Kind:  KindFreeText,
				},
				{
					ID:    FieldGeneralFeedback,
					Label: "Please share any additional comments, suggestions, or areas where you feel we could improve:",
					Kind:  KindFreeText,
				},
			},
		},
	}

	fieldIndex = buildFieldIndex()
)

func buildFieldIndex() map[string]FieldDefinition {
	index := make(map[string]FieldDefinition)
	for _, s := range sections {
		for _, f := range s.Fields {
			index[f.ID] = f
		}
	}
	return index
}

func copyField(f FieldDefinition) FieldDefinition {
	if f.Options != nil {
		f.Options = append([]Option(nil), f.Options...)
	}
	return f
}

// Sections returns a copy of the survey's sections in display order.
func Sections() []SectionDefinition {
	out := make([]SectionDefinition, len(sections))
	for i, s := range sections {
		fields := make([]FieldDefinition, len(s.Fields))
		for j, f := range s.Fields {
			fields[j] = copyField(f)
		}
		out[i] = SectionDefinition{Title: s.Title, Fields: fields}
	}
	return out
}

// Section returns the section at the 1-based index.
func Section(index int) (SectionDefinition, bool) {
	if index < 1 || index > len(sections) {
		return SectionDefinition{}, false
	}
	return Sections()[index-1], true
}

// TotalSections returns the number of sections in the survey.
func TotalSections() int {
	return len(sections)
}

// Fields returns every field definition in display order.
func Fields() []FieldDefinition {
	var out []FieldDefinition
	for _, s := range sections {
		for _, f := range s.Fields {
			out = append(out, copyField(f))
		}
	}
	return out
}

// Field looks up a field definition by id.
func Field(id string) (FieldDefinition, bool) {
	f, ok := fieldIndex[id]
	if !ok {
		return FieldDefinition{}, false
	}
	return copyField(f), true
}

// FieldIDs returns every field id in display order.
func FieldIDs() []string {
	var ids []string
	for _, s := range sections {
		for _, f := range s.Fields {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// RequiredFieldIDs returns the ids of required fields in display order.
func RequiredFieldIDs() []string {
	var ids []string
	for _, s := range sections {
		for _, f := range s.Fields {
			if f.Required {
				ids = append(ids, f.ID)
			}
		}
	}
	return ids
}
