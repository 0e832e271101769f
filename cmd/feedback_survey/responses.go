package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/feedback-survey/internal/db"
	"github.com/jonathan/feedback-survey/internal/observability"
	"github.com/spf13/cobra"
)

var (
	responsesConfig  string
	responsesLimit   int
	responsesSummary bool
	responsesJSON    bool
)

var responsesCmd = &cobra.Command{
	Use:   "responses",
	Short: "Show stored survey responses",
	Long:  `List the most recent stored responses, optionally with per-question answer counts and averages.`,
	RunE:  runResponses,
}

func init() {
	responsesCmd.Flags().StringVar(&responsesConfig, "config", "", "Path to a JSON config file")
	responsesCmd.Flags().IntVar(&responsesLimit, "limit", db.DefaultListLimit, "Maximum number of responses to load")
	responsesCmd.Flags().BoolVar(&responsesSummary, "summary", false, "Also print per-question answer counts")
	responsesCmd.Flags().BoolVar(&responsesJSON, "json", false, "Print raw JSON instead of text")
	rootCmd.AddCommand(responsesCmd)
}

func runResponses(cmd *cobra.Command, _ []string) error {
	if responsesLimit < 0 {
		return fmt.Errorf("--limit must be non-negative")
	}
	databaseURL, err := requireDatabaseURL(responsesConfig)
	if err != nil {
		return err
	}

	database, err := db.Connect(cmd.Context(), databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	rows, err := database.ListSurveyResponses(cmd.Context(), responsesLimit)
	if err != nil {
		return err
	}

	total := len(rows)
	if responsesSummary && !responsesJSON {
		if total, err = database.CountSurveyResponses(cmd.Context()); err != nil {
			return err
		}
	}
	return writeResponses(cmd.OutOrStdout(), rows, total, responsesSummary, responsesJSON)
}

// writeResponses prints rows as JSON or text. total is the number of stored
// responses and only appears in the summary.
func writeResponses(out io.Writer, rows []db.StoredResponse, total int, summary, asJSON bool) error {
	if asJSON {
		if rows == nil {
			rows = []db.StoredResponse{}
		}
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal responses: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	printer := observability.NewPrinter(out)
	printer.PrintResponses(rows)
	if summary {
		printer.PrintSummary(rows, total)
	}
	return nil
}
