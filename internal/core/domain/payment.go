package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/arap_ledger/internal/apperrors"
)

// MaxIdempotencyKeyLength matches the width of the payments ledger key column.
const MaxIdempotencyKeyLength = 128

// ValidateIdempotencyKey rejects keys the payment ledger cannot store.
// An empty key is allowed; one is generated at commit.
func ValidateIdempotencyKey(key string) error {
	if len(key) > MaxIdempotencyKeyLength {
		return fmt.Errorf("%w: idempotency key is %d bytes, at most %d allowed", apperrors.ErrValidation, len(key), MaxIdempotencyKeyLength)
	}
	return nil
}

// PaymentEntry is one append-only record in the payment ledger. Both debtor
// and creditor payments produce entries, so an account's payment history can
// be audited regardless of kind.
type PaymentEntry struct {
	EntryID          string      `json:"entryID"`
	AccountID        string      `json:"accountID"`
	Kind             AccountKind `json:"kind"`
	SaleID           string      `json:"saleID,omitempty"`
	Amount           Money       `json:"amount"`
	BalanceAfter     Money       `json:"balanceAfter"`     // account balance after the payment
	SaleBalanceAfter Money       `json:"saleBalanceAfter"` // only meaningful when SaleID is set
	IdempotencyKey   string      `json:"idempotencyKey"`
	PaidAt           time.Time   `json:"paidAt"`
}

// PaymentCommand is a request to apply a payment to an account or one of its sales.
type PaymentCommand struct {
	Kind           AccountKind
	AccountID      string
	SaleID         string
	Amount         Money
	IdempotencyKey string
}

// PaymentRecordedEvent is emitted after a payment has been committed.
type PaymentRecordedEvent struct {
	EntryID        string        `json:"entryID"`
	AccountID      string        `json:"accountID"`
	Kind           AccountKind   `json:"kind"`
	SaleID         string        `json:"saleID,omitempty"`
	AmountMinor    int64         `json:"amountMinor"`
	BalanceMinor   int64         `json:"balanceMinor"`
	CurrencyCode   string        `json:"currencyCode"`
	Status         PaymentStatus `json:"status"`
	Version        int64         `json:"version"`
	IdempotencyKey string        `json:"idempotencyKey"`
	OccurredAt     time.Time     `json:"occurredAt"`
}

// NewPaymentRecordedEvent builds the event for a committed account and its entry.
func NewPaymentRecordedEvent(acc Account, entry PaymentEntry) PaymentRecordedEvent {
	return PaymentRecordedEvent{
		EntryID:        entry.EntryID,
		AccountID:      acc.AccountID,
		Kind:           acc.Kind,
		SaleID:         entry.SaleID,
		AmountMinor:    entry.Amount.Minor(),
		BalanceMinor:   acc.Balance.Minor(),
		CurrencyCode:   acc.Currency(),
		Status:         acc.Status,
		Version:        acc.Version,
		IdempotencyKey: entry.IdempotencyKey,
		OccurredAt:     entry.PaidAt,
	}
}
