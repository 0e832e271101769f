// Package observability provides formatted text output for the survey CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/feedback-survey/internal/db"
	"github.com/jonathan/feedback-survey/internal/survey"
	"github.com/jonathan/feedback-survey/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// wrap breaks s into lines no wider than width runes, splitting on spaces.
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, raw := range strings.Split(content, "\n") {
		indent := len(raw) - len(strings.TrimLeft(raw, " "))
		for i, line := range wrap(raw, inner-indent) {
			if i > 0 || indent > 0 {
				line = strings.Repeat(" ", indent) + line
			}
			fmt.Fprintf(p.out, "│ %s │\n", pad(line, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// PrintSurvey outputs every section of the survey with its questions and options.
func (p *Printer) PrintSurvey(def types.SurveyDefinition) {
	p.printBox(strings.ToUpper(def.Title), def.Intro)

	for i, section := range def.Sections {
		var sb strings.Builder
		for j, f := range section.Fields {
			marker := ""
			if f.Required {
				marker = " *"
			}
			sb.WriteString(fmt.Sprintf("%d. %s%s\n", j+1, f.Label, marker))
			for _, o := range f.Options {
				sb.WriteString(fmt.Sprintf("    (%s) %s\n", o.Value, o.Label))
			}
			if f.Kind == survey.KindFreeText {
				sb.WriteString("    [free text]\n")
			}
		}
		p.printBox(fmt.Sprintf("SECTION %d OF %d: %s", i+1, len(def.Sections), section.Title),
			strings.TrimSuffix(sb.String(), "\n"))
	}
}

// PrintResponses outputs the most recent stored responses.
func (p *Printer) PrintResponses(responses []db.StoredResponse) {
	if len(responses) == 0 {
		fmt.Fprintln(p.out, "No survey responses stored yet.") //nolint:errcheck
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total responses shown: %d\n\n", len(responses)))

	count := min(len(responses), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := responses[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, r.ID))
		sb.WriteString(fmt.Sprintf("    Submitted: %s\n", r.Record.Timestamp()))
		sb.WriteString(fmt.Sprintf("    Enjoyment: %s  Organization: %s  Venue: %s\n",
			r.Record.Response.Value(survey.FieldOverallEnjoyment),
			r.Record.Response.Value(survey.FieldOrganizationQuality),
			r.Record.Response.Value(survey.FieldVenueSetup)))
		if fb := r.Record.Response.Value(survey.FieldGeneralFeedback); fb != "" {
			sb.WriteString(fmt.Sprintf("    Feedback: %s\n", fb))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(responses) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more responses", len(responses)-maxItemsToShow))
	}

	p.printBox("RECENT SURVEY RESPONSES", strings.TrimSuffix(sb.String(), "\n"))
}

// QuestionSummary aggregates the answers to one single-choice question.
type QuestionSummary struct {
	FieldID string
	Label   string
	Counts  map[string]int // option value -> answers
	Average float64        // mean of numeric option values; 0 when none are numeric
}

// Summarize tallies the single-choice answers across responses.
func Summarize(responses []db.StoredResponse) []QuestionSummary {
	var summaries []QuestionSummary
	for _, f := range survey.Fields() {
		if f.Kind != survey.KindSingleChoice {
			continue
		}

		s := QuestionSummary{FieldID: f.ID, Label: f.Label, Counts: make(map[string]int)}
		var total float64
		var numeric int
		for _, r := range responses {
			v := r.Record.Response.Value(f.ID)
			if v == "" {
				continue
			}
			s.Counts[v]++
			if n, err := strconv.Atoi(v); err == nil {
				total += float64(n)
				numeric++
			}
		}
		if numeric > 0 {
			s.Average = total / float64(numeric)
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// PrintSummary outputs per-question answer distributions of responses, out of
// total stored responses.
func (p *Printer) PrintSummary(responses []db.StoredResponse, total int) {
	if len(responses) == 0 {
		return
	}

	var sb strings.Builder
	if total > len(responses) {
		sb.WriteString(fmt.Sprintf("Based on the latest %d of %d stored responses\n\n", len(responses), total))
	} else {
		sb.WriteString(fmt.Sprintf("Based on %d responses\n\n", len(responses)))
	}
	for _, s := range Summarize(responses) {
		sb.WriteString(s.Label + "\n")

		values := make([]string, 0, len(s.Counts))
		for v := range s.Counts {
			values = append(values, v)
		}
		sort.Strings(values)

		parts := make([]string, 0, len(values))
		for _, v := range values {
			parts = append(parts, fmt.Sprintf("%s=%d", v, s.Counts[v]))
		}
		line := "    " + strings.Join(parts, "  ")
		if s.Average > 0 {
			line += fmt.Sprintf("  (avg %.2f)", s.Average)
		}
		sb.WriteString(line + "\n")
	}

	p.printBox("RESPONSE SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}
