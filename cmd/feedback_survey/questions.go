package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/feedback-survey/internal/observability"
	"github.com/jonathan/feedback-survey/internal/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var questionsFormat string

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the survey questions",
	Long:  `Print every section of the survey with its questions and answer options, as boxed text, JSON or YAML.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeQuestions(cmd.OutOrStdout(), questionsFormat)
	},
}

func init() {
	questionsCmd.Flags().StringVar(&questionsFormat, "format", "text", "Output format: text, json or yaml")
	rootCmd.AddCommand(questionsCmd)
}

func writeQuestions(out io.Writer, format string) error {
	def := types.NewSurveyDefinition()

	switch format {
	case "text":
		observability.NewPrinter(out).PrintSurvey(def)
		return nil
	case "json":
		data, err := json.MarshalIndent(def, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal survey: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(def); err != nil {
			return fmt.Errorf("failed to marshal survey: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
