package cmd

import (
	"fmt"
	"os"

	"github.com/campus-events/api/config"
	"github.com/campus-events/api/database"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	logLevel  string
	logFormat string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "campusctl",
		Short: "Maintenance commands for the campus events API",
		Long: `campusctl runs one-off maintenance tasks against the campus events database.
It reads the same environment variables (and .env file) as the API server.`,
		SilenceUsage: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (json, console)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(cleanupTokensCmd)
}

// openStore loads configuration, installs the logger and opens the database
func openStore() (*config.EnvironmentVariable, *database.GORMStore, error) {
	if err := config.LoadENV(); err != nil {
		return nil, nil, err
	}

	env, err := config.Get()
	if err != nil {
		return nil, nil, err
	}

	level := env.LOG_LEVEL
	if logLevel != "" {
		level = logLevel
	}
	config.NewLogger(level, logFormat)

	store, err := database.StartGORM(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return env, store, nil
}
