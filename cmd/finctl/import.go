package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"smartfinance/internal/cli"
	"smartfinance/internal/services"
)

var flagSheet bool

var importCmd = &cobra.Command{
	Use:   "import <file | range>",
	Short: "Break down an expense spreadsheet by category",
	Long: "Reads an .xlsx or .csv file (or, with --sheet, a range of the configured Google spreadsheet)\n" +
		"and prints the total, the distribution per category and the top categories.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagSheet, "sheet", false, "Treat the argument as a Google Sheets range such as Gastos!A1:C200")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	var (
		res services.ImportResult
		err error
	)
	if flagSheet {
		res, err = app.Imports.ImportSheet(cmd.Context(), args[0])
	} else {
		var data []byte
		data, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		res, err = app.Imports.Import(cmd.Context(), filepath.Base(args[0]), data)
	}
	if err != nil {
		return err
	}

	if err := output(cmd.OutOrStdout(), res, func() string {
		return cli.RenderBreakdown(res.Filename, res.Result)
	}); err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("import %s: %s", res.Filename, res.Status)
	}
	return nil
}
