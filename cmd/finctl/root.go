package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"smartfinance/internal/cli"
)

var (
	flagEnvFile  string
	flagJSON     bool
	flagLogLevel string
)

// app is opened before every subcommand and closed after it.
var app *cli.App

var rootCmd = &cobra.Command{
	Use:           "finctl",
	Short:         "Personal finance operator CLI",
	Long:          "Import expense spreadsheets, manage the budget, list receipts and ask the advisor.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := cli.LoadEnvFile(flagEnvFile); err != nil {
			return err
		}
		logger := cli.SetupLogger(flagLogLevel, os.Stderr)
		cfg, err := cli.LoadConfig()
		if err != nil {
			return err
		}
		app, err = cli.NewApp(cmd.Context(), logger, cfg)
		return err
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		if app == nil {
			return nil
		}
		return app.Close()
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Environment file to load before reading configuration")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print raw JSON instead of tables")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level written to stderr")
}

// output writes v as indented JSON with --json, otherwise the rendered text.
func output(w io.Writer, v any, render func() string) error {
	if flagJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprint(w, render())
	return err
}
