package models

import "time"

// AuditFields holds the common timestamp columns.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

// LedgerAccount is one row of ledger_accounts. Amounts are stored in minor units.
type LedgerAccount struct {
	AccountID        string     `db:"account_id"`
	Kind             string     `db:"kind"`
	Name             string     `db:"name"`
	ContactInfo      string     `db:"contact_info"`
	CurrencyCode     string     `db:"currency_code"`
	CreditTerms      string     `db:"credit_terms"`
	BalanceMinor     int64      `db:"balance_minor"`
	DueDate          *time.Time `db:"due_date"` // Nullable, creditors only
	Status           string     `db:"status"`
	LastPaymentDate  *time.Time `db:"last_payment_date"`
	LastPaymentMinor *int64     `db:"last_payment_minor"`
	Version          int64      `db:"version"`
	AuditFields
}

// LedgerSale is one row of ledger_sales.
type LedgerSale struct {
	SaleID     string     `db:"sale_id"`
	AccountID  string     `db:"account_id"`
	SaleDate   time.Time  `db:"sale_date"`
	DueDate    *time.Time `db:"due_date"` // Nullable, falls back to sale_date
	TotalMinor int64      `db:"total_minor"`
	PaidMinor  int64      `db:"paid_minor"`
}

// LedgerPayment is one row of the append-only ledger_payments table.
type LedgerPayment struct {
	EntryID               string    `db:"entry_id"`
	AccountID             string    `db:"account_id"`
	Kind                  string    `db:"kind"`
	SaleID                *string   `db:"sale_id"`
	AmountMinor           int64     `db:"amount_minor"`
	BalanceAfterMinor     int64     `db:"balance_after_minor"`
	SaleBalanceAfterMinor *int64    `db:"sale_balance_after_minor"`
	IdempotencyKey        string    `db:"idempotency_key"`
	PaidAt                time.Time `db:"paid_at"`
}
