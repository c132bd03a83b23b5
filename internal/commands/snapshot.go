package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aibos-dev/aibos/internal/auditlog"
	"github.com/aibos-dev/aibos/internal/model"
	"github.com/aibos-dev/aibos/internal/store"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a full snapshot of the ledger to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			snap, err := store.Export(cmd.Context(), e.st)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding snapshot: %w", err)
			}

			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return fmt.Errorf("writing snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d accounts, %d transactions, %d users to %s\n",
				len(snap.Accounts), len(snap.Transactions), len(snap.Users), args[0])
			return nil
		},
	}
	return cmd
}

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore the ledger from a snapshot, replacing all data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading snapshot: %w", err)
			}
			var snap model.Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("parsing snapshot: %w", err)
			}

			dir, _ := cmd.Flags().GetString("dir")
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			if err := store.Import(cmd.Context(), e.st, snap); err != nil {
				return err
			}

			e.audit(auditlog.Entry{
				Timestamp: time.Now(),
				Action:    "restore",
				Details:   fmt.Sprintf("restored snapshot from %s", args[0]),
			})
			e.commit("restore: import snapshot")

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d accounts, %d transactions, %d users\n",
				len(snap.Accounts), len(snap.Transactions), len(snap.Users))
			return nil
		},
	}
	return cmd
}
