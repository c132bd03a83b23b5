package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aibos-dev/aibos/internal/ledger"
	"github.com/aibos-dev/aibos/internal/model"
)

func renderAccounts(w io.Writer, accounts []model.Account) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tNAME\tTYPE\tBALANCE\tACTIVE")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%t\n",
			a.ID, a.Number, a.Name, a.Type, a.Balance.StringFixed(2), a.Active)
	}
	tw.Flush()
}

func renderTransactions(w io.Writer, txns []model.Transaction) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REF\tDATE\tDESCRIPTION\tDEBIT\tCREDIT\tAMOUNT")
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			t.Ref, t.Date.Format(dateFormat), t.Description,
			t.DebitAccountID, t.CreditAccountID, t.Amount.StringFixed(2))
	}
	tw.Flush()
}

func renderTrialBalance(w io.Writer, rows []ledger.TrialBalanceRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tNAME\tTYPE\tBALANCE")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			row.Account.Number, row.Account.Name, row.Type, row.Balance.StringFixed(2))
	}
	tw.Flush()
}

func renderSummary(w io.Writer, sum ledger.Summary) {
	fmt.Fprintf(w, "Total assets:      %s\n", sum.TotalAssets.StringFixed(2))
	fmt.Fprintf(w, "Total liabilities: %s\n", sum.TotalLiabilities.StringFixed(2))
	fmt.Fprintf(w, "Net income:        %s\n", sum.NetIncome.StringFixed(2))
	fmt.Fprintf(w, "Cash balance:      %s\n", sum.CashBalance.StringFixed(2))
	if len(sum.Recent) > 0 {
		fmt.Fprintln(w, "\nRecent transactions:")
		renderTransactions(w, sum.Recent)
	}
}
