package main

import (
	"strings"

	"github.com/spf13/cobra"

	"smartfinance/internal/advisor"
)

var adviseCmd = &cobra.Command{
	Use:   "advise <question>",
	Short: "Ask the financial advisor",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		reply, err := app.Advisor.Ask(cmd.Context(), []advisor.Message{{Role: "user", Content: question}})
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), reply, func() string {
			if reply.Fallback {
				return reply.Reply + "\n\n(respuesta local: el asesor remoto no está disponible)\n"
			}
			return reply.Reply + "\n"
		})
	},
}

func init() {
	rootCmd.AddCommand(adviseCmd)
}
