package accounting

import (
	"github.com/SscSPs/arap_ledger/internal/core/domain"
)

// ComputeTotals aggregates a snapshot in a single pass. OutstandingTotal sums
// every balance; OverdueTotal sums balances of OVERDUE accounts only, so it can
// never exceed OutstandingTotal. The snapshot is only read.
func ComputeTotals(kind domain.AccountKind, snapshot []domain.Account) domain.LedgerTotals {
	totals := domain.LedgerTotals{Kind: kind}
	for i := range snapshot {
		acc := &snapshot[i]
		totals.OutstandingTotal = totals.OutstandingTotal.Add(acc.Balance)
		if acc.Status == domain.StatusOverdue {
			totals.OverdueTotal = totals.OverdueTotal.Add(acc.Balance)
		}
		totals.Count++
	}
	return totals
}
