package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"smartfinance/internal/cli"
	"smartfinance/internal/core"
)

var flagMonths int

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show or change the monthly budget",
}

var budgetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the budget and the suggested allocation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := app.Budgets.Get(cmd.Context())
		if err != nil {
			return err
		}
		rec := core.Recommend(b)
		return output(cmd.OutOrStdout(), map[string]any{"budget": b, "recommendation": rec}, func() string { return cli.RenderBudget(b, rec) })
	},
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <income> <fixed-expenses>",
	Short: "Replace the budget",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		income, err := core.ParseAmount(args[0])
		if err != nil {
			return fmt.Errorf("income: %w", err)
		}
		fixed, err := core.ParseAmount(args[1])
		if err != nil {
			return fmt.Errorf("fixed expenses: %w", err)
		}
		b, err := app.Budgets.Save(cmd.Context(), income, fixed)
		if err != nil {
			return err
		}
		rec := core.Recommend(b)
		return output(cmd.OutOrStdout(), map[string]any{"budget": b, "recommendation": rec}, func() string { return cli.RenderBudget(b, rec) })
	},
}

var budgetPlanCmd = &cobra.Command{
	Use:   "plan <goal>",
	Short: "Plan how to reach a savings goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		goal, err := core.ParseAmount(args[0])
		if err != nil {
			return fmt.Errorf("goal: %w", err)
		}
		plan, err := app.Budgets.Plan(cmd.Context(), goal, flagMonths)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), plan, func() string { return cli.RenderPlan(plan) })
	},
}

func init() {
	budgetPlanCmd.Flags().IntVarP(&flagMonths, "months", "m", 0, "Deadline in months")
	budgetCmd.AddCommand(budgetShowCmd, budgetSetCmd, budgetPlanCmd)
	rootCmd.AddCommand(budgetCmd)
}
