package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReportCommand() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports",
	}
	reportCmd.AddCommand(newTrialBalanceCommand())
	reportCmd.AddCommand(newNetIncomeCommand())
	reportCmd.AddCommand(newSummaryCommand())
	return reportCmd
}

func newTrialBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "trial-balance",
		Short: "List every active account with its balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			renderTrialBalance(cmd.OutOrStdout(), e.svc.TrialBalance())
			return nil
		},
	}
}

func newNetIncomeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "net-income",
		Short: "Revenue minus expenses across active accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", e.svc.NetIncome().StringFixed(2))
			return nil
		},
	}
}

func newSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Dashboard metrics and recent transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			renderSummary(cmd.OutOrStdout(), e.svc.Summarize())
			return nil
		},
	}
}
