package repositories

import (
	"context"

	"github.com/SscSPs/arap_ledger/internal/core/domain"
)

// LedgerReader defines read operations over debtor and creditor accounts.
type LedgerReader interface {
	// FindAccount retrieves a single account with its sales. Returns apperrors.ErrNotFound when absent.
	FindAccount(ctx context.Context, kind domain.AccountKind, accountID string) (*domain.Account, error)

	// ListAccounts retrieves one page of accounts of a kind ordered by name, along with the total count.
	ListAccounts(ctx context.Context, kind domain.AccountKind, limit int, offset int) ([]domain.Account, int, error)

	// SnapshotAccounts retrieves every account of a kind as of a single point in time.
	SnapshotAccounts(ctx context.Context, kind domain.AccountKind) ([]domain.Account, error)

	// ListSaleLedger retrieves the sale-itemized debtor view. When debtorsOnly is set
	// only accounts that still owe something are returned.
	ListSaleLedger(ctx context.Context, debtorsOnly bool) ([]domain.Account, error)
}

// PaymentLedgerReader defines read operations over the append-only payment ledger.
type PaymentLedgerReader interface {
	// FindPaymentByIdempotencyKey returns the entry recorded under key, or apperrors.ErrNotFound.
	FindPaymentByIdempotencyKey(ctx context.Context, key string) (*domain.PaymentEntry, error)

	// ListPayments returns an account's entries, oldest first.
	ListPayments(ctx context.Context, kind domain.AccountKind, accountID string) ([]domain.PaymentEntry, error)
}

// LedgerWriter defines write operations.
type LedgerWriter interface {
	// SaveAccount persists a new account created by the upstream sales/purchasing process.
	SaveAccount(ctx context.Context, account domain.Account) error

	// CommitPayment atomically replaces the account's balance, status, payment fields and
	// sale lines, and appends entry, provided the stored version still equals expectedVersion.
	// It returns apperrors.ErrConflict when the version moved and apperrors.ErrDuplicate when
	// entry's idempotency key was already recorded. The returned account carries the new version.
	CommitPayment(ctx context.Context, account domain.Account, expectedVersion int64, entry domain.PaymentEntry) (*domain.Account, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	PaymentLedgerReader
	LedgerWriter
}
