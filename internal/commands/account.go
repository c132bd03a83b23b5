package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/aibos-dev/aibos/internal/auditlog"
	"github.com/aibos-dev/aibos/internal/ledger"
	"github.com/aibos-dev/aibos/internal/model"
)

func newAccountCommand() *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the chart of accounts",
	}
	accountCmd.AddCommand(newAccountListCommand())
	accountCmd.AddCommand(newAccountAddCommand())
	accountCmd.AddCommand(newAccountUpdateCommand())
	accountCmd.AddCommand(newAccountDeactivateCommand())
	return accountCmd
}

func newAccountListCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			accounts := e.svc.Accounts()
			if !all {
				active := accounts[:0]
				for _, a := range accounts {
					if a.Active {
						active = append(active, a)
					}
				}
				accounts = active
			}
			renderAccounts(cmd.OutOrStdout(), accounts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include deactivated accounts")
	return cmd
}

func newAccountAddCommand() *cobra.Command {
	var number, name, accountType, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account to the chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			a, err := e.svc.AddAccount(cmd.Context(), number, name, model.AccountType(accountType), description)
			if err != nil {
				return err
			}

			e.audit(auditlog.Entry{
				Timestamp: time.Now(),
				Action:    "add_account",
				Details:   fmt.Sprintf("%s %s (%s)", a.Number, a.Name, a.Type),
			})
			e.commit(fmt.Sprintf("account: add %s %s", a.Number, a.Name))

			fmt.Fprintf(cmd.OutOrStdout(), "Added account %d: %s %s\n", a.ID, a.Number, a.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "account number (required)")
	_ = cmd.MarkFlagRequired("number")
	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&accountType, "type", "", "asset, liability, equity, revenue or expense (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&description, "description", "", "account description")

	return cmd
}

func newAccountUpdateCommand() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account's name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid account id %q", args[0])
			}

			dir, _ := cmd.Flags().GetString("dir")
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			patch := ledger.AccountPatch{}
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if err := e.svc.UpdateAccount(cmd.Context(), id, patch); err != nil {
				return err
			}

			e.audit(auditlog.Entry{
				Timestamp: time.Now(),
				Action:    "update_account",
				Details:   fmt.Sprintf("account %d", id),
			})
			e.commit(fmt.Sprintf("account: update %d", id))

			fmt.Fprintf(cmd.OutOrStdout(), "Updated account %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new account name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	return cmd
}

func newAccountDeactivateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Soft-delete an account, preserving its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid account id %q", args[0])
			}

			dir, _ := cmd.Flags().GetString("dir")
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.svc.DeactivateAccount(cmd.Context(), id); err != nil {
				return err
			}

			e.audit(auditlog.Entry{
				Timestamp: time.Now(),
				Action:    "deactivate_account",
				Details:   fmt.Sprintf("account %d", id),
			})
			e.commit(fmt.Sprintf("account: deactivate %d", id))

			fmt.Fprintf(cmd.OutOrStdout(), "Deactivated account %d\n", id)
			return nil
		},
	}
	return cmd
}
