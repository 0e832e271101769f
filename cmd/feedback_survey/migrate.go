package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateConfig string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the survey_responses table",
	Long: `Create the survey_responses table and its indexes in the configured database.
The database URL comes from --config or DATABASE_URL. Safe to run repeatedly.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateConfig, "config", "", "Path to a JSON config file")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	databaseURL, err := requireDatabaseURL(migrateConfig)
	if err != nil {
		return err
	}

	if err := migrate(cmd.Context(), databaseURL); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "survey_responses table is ready") //nolint:errcheck
	return nil
}
