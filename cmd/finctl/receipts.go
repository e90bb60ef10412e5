package main

import (
	"github.com/spf13/cobra"

	"smartfinance/internal/cli"
)

var flagLimit int

var receiptsCmd = &cobra.Command{
	Use:   "receipts",
	Short: "Inspect stored receipts",
}

var receiptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List receipts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := app.Receipts.List(cmd.Context(), flagLimit)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), list, func() string { return cli.RenderReceipts(list) })
	},
}

var receiptsCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Break down stored receipts by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := app.Receipts.Breakdown(cmd.Context())
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), res, func() string { return cli.RenderBreakdown("RECIBOS", res) })
	},
}

func init() {
	receiptsListCmd.Flags().IntVarP(&flagLimit, "limit", "l", 20, "Maximum receipts to show (0 for all)")
	receiptsCmd.AddCommand(receiptsListCmd, receiptsCategoriesCmd)
	rootCmd.AddCommand(receiptsCmd)
}
