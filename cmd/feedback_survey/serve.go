package main

import (
	"context"
	"fmt"

	"github.com/jonathan/feedback-survey/internal/config"
	"github.com/jonathan/feedback-survey/internal/db"
	"github.com/jonathan/feedback-survey/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveConfig  string
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the survey HTTP server",
	Long: `Start an HTTP server that hands out survey sessions, records answers and
stores completed responses. Settings come from --config, then the environment,
then built-in defaults.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to a JSON config file")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Create the survey_responses table before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Resolve(serveConfig)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	cfg.WarnIfIncomplete()

	if serveMigrate && cfg.DatabaseURL != "" {
		if err := migrate(cmd.Context(), cfg.DatabaseURL); err != nil {
			return err
		}
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(cmd.Context())
}

// requireDatabaseURL resolves configuration the same way serve does and
// returns the database URL, failing when none is configured.
func requireDatabaseURL(configPath string) (string, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return "", err
	}
	if cfg.DatabaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL environment variable or database_url config setting is required")
	}
	return cfg.DatabaseURL, nil
}

func migrate(ctx context.Context, databaseURL string) error {
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
