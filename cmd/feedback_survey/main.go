// Package main provides the entry point for the feedback survey service and its CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "feedback_survey",
	Short: "US Kids Local Tour feedback survey",
	Long: "feedback_survey serves the three-section post-event feedback survey over HTTP, " +
		"stores completed responses in PostgreSQL and reports on them from the command line.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
