package domain

// LedgerTotals aggregates a snapshot of accounts of one kind.
type LedgerTotals struct {
	Kind             AccountKind `json:"kind"`
	OutstandingTotal Money       `json:"outstandingTotal"`
	OverdueTotal     Money       `json:"overdueTotal"`
	Count            int         `json:"count"`
}

// AccountPage is one zero-based page of a kind's accounts plus the total count.
type AccountPage struct {
	Items      []Account `json:"items"`
	TotalCount int       `json:"totalCount"`
	Page       int       `json:"page"`
	Size       int       `json:"size"`
}
