package services

import (
	"context"

	"github.com/SscSPs/arap_ledger/internal/core/domain"
)

// LedgerReaderSvc defines read operations for ledger accounts
type LedgerReaderSvc interface {
	// GetAccount retrieves an account with derived fields classified as of now.
	GetAccount(ctx context.Context, kind domain.AccountKind, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a zero-based page of accounts of a kind.
	ListAccounts(ctx context.Context, kind domain.AccountKind, page int, size int) (*domain.AccountPage, error)

	// GetSaleLedger retrieves the sale-itemized debtor view.
	GetSaleLedger(ctx context.Context, debtorsOnly bool) ([]domain.Account, error)

	// ListPayments retrieves the payment history of an account.
	ListPayments(ctx context.Context, kind domain.AccountKind, accountID string) ([]domain.PaymentEntry, error)
}

// LedgerPaymentSvc defines the single mutating ledger operation
type LedgerPaymentSvc interface {
	// RecordPayment validates and applies a payment, returning the committed account.
	RecordPayment(ctx context.Context, cmd domain.PaymentCommand) (*domain.Account, error)
}

// LedgerReportingSvc defines snapshot-based reporting operations
type LedgerReportingSvc interface {
	// GetTotals aggregates outstanding and overdue amounts over a snapshot.
	GetTotals(ctx context.Context, kind domain.AccountKind) (*domain.LedgerTotals, error)

	// Search filters a snapshot by a case-insensitive substring term.
	Search(ctx context.Context, kind domain.AccountKind, term string) ([]domain.Account, error)
}

// LedgerSvcFacade combines all ledger service interfaces
// This is a facade for clients that need access to all operations
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerPaymentSvc
	LedgerReportingSvc
}

// LedgerProvisionerSvc creates accounts on behalf of the upstream sales and
// purchasing processes. It is not exposed over HTTP.
type LedgerProvisionerSvc interface {
	Create(ctx context.Context, account domain.Account) (*domain.Account, error)
}
