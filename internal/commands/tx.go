package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/aibos-dev/aibos/internal/auditlog"
	"github.com/aibos-dev/aibos/internal/importer"
	"github.com/aibos-dev/aibos/internal/ledger"
)

const dateFormat = "2006-01-02"

func newTxCommand() *cobra.Command {
	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and inspect journal transactions",
	}
	txCmd.AddCommand(newTxPostCommand())
	txCmd.AddCommand(newTxListCommand())
	txCmd.AddCommand(newTxImportCommand())
	return txCmd
}

func newTxPostCommand() *cobra.Command {
	var date, description, amount string
	var debit, credit int

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Record a double-entry posting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			var day time.Time
			if date != "" {
				day, err = time.Parse(dateFormat, date)
				if err != nil {
					return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
				}
			}
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}

			txn, err := e.svc.Post(cmd.Context(), ledger.PostParams{
				Date:            day,
				Description:     description,
				DebitAccountID:  debit,
				CreditAccountID: credit,
				Amount:          amt,
				UserID:          1,
			})
			if err != nil {
				return err
			}

			e.audit(auditlog.Entry{
				Timestamp: time.Now(),
				Action:    "post",
				Details:   description,
				Ref:       txn.Ref,
			})
			e.commit("tx: post " + txn.Ref)

			fmt.Fprintf(cmd.OutOrStdout(), "Posted %s: %s (%s)\n", txn.Ref, txn.Description, txn.Amount.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "posting date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&description, "description", "", "posting description (required)")
	_ = cmd.MarkFlagRequired("description")
	cmd.Flags().IntVar(&debit, "debit", 0, "debit account id (required)")
	_ = cmd.MarkFlagRequired("debit")
	cmd.Flags().IntVar(&credit, "credit", 0, "credit account id (required)")
	_ = cmd.MarkFlagRequired("credit")
	cmd.Flags().StringVar(&amount, "amount", "", "posting amount (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newTxListCommand() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			txns := e.svc.Transactions()
			if start != "" || end != "" {
				from, err := time.Parse(dateFormat, start)
				if err != nil {
					return fmt.Errorf("invalid start date %q, want YYYY-MM-DD", start)
				}
				to, err := time.Parse(dateFormat, end)
				if err != nil {
					return fmt.Errorf("invalid end date %q, want YYYY-MM-DD", end)
				}
				txns, err = e.svc.TransactionsByDateRange(cmd.Context(), from, to)
				if err != nil {
					return err
				}
			}

			renderTransactions(cmd.OutOrStdout(), txns)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "end date YYYY-MM-DD")
	return cmd
}

func newTxImportCommand() *cobra.Command {
	var format string
	var cash, expense, revenue int

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement CSV as postings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown statement format %q", format)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening statement: %w", err)
			}
			defer f.Close()

			lines, err := parser.Parse(f)
			if err != nil {
				return fmt.Errorf("parsing statement: %w", err)
			}

			postings, err := importer.ToPostings(lines, importer.Accounts{
				Cash:    cash,
				Expense: expense,
				Revenue: revenue,
			})
			if err != nil {
				return err
			}

			dir, _ := cmd.Flags().GetString("dir")
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			for _, p := range postings {
				txn, err := e.svc.Post(cmd.Context(), ledger.PostParams{
					Date:            p.Date,
					Description:     p.Description,
					DebitAccountID:  p.DebitAccountID,
					CreditAccountID: p.CreditAccountID,
					Amount:          p.Amount,
					UserID:          1,
				})
				if err != nil {
					return fmt.Errorf("posting %q: %w", p.Description, err)
				}
				e.audit(auditlog.Entry{
					Timestamp: time.Now(),
					Action:    "import_statement",
					Details:   p.Description,
					Ref:       txn.Ref,
				})
			}
			e.commit(fmt.Sprintf("tx: import %d statement lines", len(postings)))

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d postings from %s\n", len(postings), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "chase", "statement format")
	cmd.Flags().IntVar(&cash, "cash", 1, "ledger account id of the bank account")
	cmd.Flags().IntVar(&expense, "expense", 13, "suspense account id for money out")
	cmd.Flags().IntVar(&revenue, "revenue", 10, "suspense account id for money in")
	return cmd
}
