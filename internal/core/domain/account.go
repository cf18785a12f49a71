package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/arap_ledger/internal/apperrors"
)

// AccountKind distinguishes receivable accounts from payable accounts.
type AccountKind string

const (
	// KindDebtor is a receivable: money owed to the business, itemized by sale.
	KindDebtor AccountKind = "DEBTOR"
	// KindCreditor is a payable: money owed by the business, one flat balance.
	KindCreditor AccountKind = "CREDITOR"
)

// ParseAccountKind accepts the canonical kind or its plural path form
// ("debtors", "creditors"), case-insensitively.
func ParseAccountKind(s string) (AccountKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBTOR", "DEBTORS":
		return KindDebtor, nil
	case "CREDITOR", "CREDITORS":
		return KindCreditor, nil
	default:
		return "", fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, s)
	}
}

// Valid reports whether k is a known kind.
func (k AccountKind) Valid() bool {
	return k == KindDebtor || k == KindCreditor
}

// IsItemized reports whether accounts of this kind track balances per sale.
func (k AccountKind) IsItemized() bool {
	return k == KindDebtor
}

// Sale is one receivable line of a debtor account.
type Sale struct {
	SaleID        string        `json:"saleID"`
	AccountID     string        `json:"accountID"`
	SaleDate      time.Time     `json:"saleDate"`
	DueDate       time.Time     `json:"dueDate"` // zero means due on the sale date
	TotalAmount   Money         `json:"totalAmount"`
	PaidAmount    Money         `json:"paidAmount"`
	BalanceDue    Money         `json:"balanceDue"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

// EffectiveDueDate is DueDate, falling back to SaleDate.
func (s Sale) EffectiveDueDate() time.Time {
	if s.DueDate.IsZero() {
		return s.SaleDate
	}
	return s.DueDate
}

// Reclassify recomputes BalanceDue and PaymentStatus from the amounts.
func (s *Sale) Reclassify(now time.Time) {
	s.BalanceDue = s.TotalAmount.Sub(s.PaidAmount)
	s.PaymentStatus = Classify(s.BalanceDue, s.EffectiveDueDate(), now)
}

// Account is a debtor or creditor ledger account.
//
// For debtors Balance is the total debt (sum of sale balances) and Status is
// the most severe sale status. For creditors Balance and DueDate are stored
// directly and Status is classified from them.
type Account struct {
	AccountID         string        `json:"accountID"`
	Kind              AccountKind   `json:"kind"`
	Name              string        `json:"name"` // customer name or supplier name
	ContactInfo       string        `json:"contactInfo"`
	CurrencyCode      string        `json:"currencyCode"`
	Sales             []Sale        `json:"sales,omitempty"`
	Balance           Money         `json:"balance"`
	DueDate           time.Time     `json:"dueDate"`
	Status            PaymentStatus `json:"status"`
	CreditTerms       string        `json:"creditTerms"`
	LastPaymentDate   *time.Time    `json:"lastPaymentDate,omitempty"`
	LastPaymentAmount *Money        `json:"lastPaymentAmount,omitempty"`
	Version           int64         `json:"version"`
	AuditFields
}

// Clone returns a deep copy so callers can mutate it without touching the original.
func (a Account) Clone() Account {
	c := a
	if a.Sales != nil {
		c.Sales = make([]Sale, len(a.Sales))
		copy(c.Sales, a.Sales)
	}
	if a.LastPaymentDate != nil {
		t := *a.LastPaymentDate
		c.LastPaymentDate = &t
	}
	if a.LastPaymentAmount != nil {
		m := *a.LastPaymentAmount
		c.LastPaymentAmount = &m
	}
	return c
}

// Currency returns CurrencyCode or the default currency.
func (a Account) Currency() string {
	if a.CurrencyCode == "" {
		return DefaultCurrencyCode
	}
	return a.CurrencyCode
}

// FindSale returns the index of saleID in Sales, or -1.
func (a Account) FindSale(saleID string) int {
	for i := range a.Sales {
		if a.Sales[i].SaleID == saleID {
			return i
		}
	}
	return -1
}

// Reclassify re-derives every computed field (sale balances, debtor total,
// statuses) as of now.
func (a *Account) Reclassify(now time.Time) {
	if !a.Kind.IsItemized() {
		a.Status = Classify(a.Balance, a.DueDate, now)
		return
	}
	var total Money
	statuses := make([]PaymentStatus, 0, len(a.Sales))
	for i := range a.Sales {
		a.Sales[i].Reclassify(now)
		total = total.Add(a.Sales[i].BalanceDue)
		statuses = append(statuses, a.Sales[i].PaymentStatus)
	}
	a.Balance = total
	a.Status = MostSevere(statuses...)
}

// Validate checks the structural invariants of the account.
func (a Account) Validate() error {
	if a.AccountID == "" {
		return fmt.Errorf("%w: account ID is required", apperrors.ErrValidation)
	}
	if !a.Kind.Valid() {
		return fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, a.Kind)
	}
	if a.Balance.IsNegative() {
		return fmt.Errorf("%w: account %s has a negative balance", apperrors.ErrValidation, a.AccountID)
	}
	if !a.Kind.IsItemized() && len(a.Sales) > 0 {
		return fmt.Errorf("%w: %s accounts do not carry sales", apperrors.ErrValidation, a.Kind)
	}
	seen := make(map[string]struct{}, len(a.Sales))
	for _, s := range a.Sales {
		if s.SaleID == "" {
			return fmt.Errorf("%w: sale ID is required", apperrors.ErrValidation)
		}
		if _, dup := seen[s.SaleID]; dup {
			return fmt.Errorf("%w: duplicate sale %s", apperrors.ErrValidation, s.SaleID)
		}
		seen[s.SaleID] = struct{}{}
		if s.TotalAmount.IsNegative() || s.PaidAmount.IsNegative() || s.PaidAmount > s.TotalAmount {
			return fmt.Errorf("%w: sale %s paid amount must be within [0, total]", apperrors.ErrValidation, s.SaleID)
		}
	}
	return nil
}

// ApplyPayment validates and applies a payment in place, returning the ledger
// entry describing it. On error the account is left unchanged.
//
// Checks run in order: the amount must be positive; an itemized account with
// sales needs a saleID that belongs to it; the amount may not exceed the
// target's outstanding balance.
func (a *Account) ApplyPayment(saleID string, amount Money, now time.Time) (PaymentEntry, error) {
	if !amount.IsPositive() {
		return PaymentEntry{}, fmt.Errorf("%w: amount must be positive, got %d minor units", apperrors.ErrInvalidAmount, amount)
	}

	saleIdx := -1
	outstanding := a.Balance
	switch {
	case a.Kind.IsItemized() && len(a.Sales) > 0:
		if saleID == "" {
			return PaymentEntry{}, fmt.Errorf("%w: account %s has %d sales", apperrors.ErrMissingSaleReference, a.AccountID, len(a.Sales))
		}
		saleIdx = a.FindSale(saleID)
		if saleIdx < 0 {
			return PaymentEntry{}, fmt.Errorf("%w: sale %s on account %s", apperrors.ErrNotFound, saleID, a.AccountID)
		}
		s := a.Sales[saleIdx]
		outstanding = s.TotalAmount.Sub(s.PaidAmount)
	case saleID != "":
		return PaymentEntry{}, fmt.Errorf("%w: sale %s on account %s", apperrors.ErrNotFound, saleID, a.AccountID)
	}

	if amount > outstanding {
		return PaymentEntry{}, fmt.Errorf("%w: amount %d exceeds outstanding %d", apperrors.ErrAmountExceedsBalance, amount, outstanding)
	}

	if saleIdx >= 0 {
		a.Sales[saleIdx].PaidAmount = a.Sales[saleIdx].PaidAmount.Add(amount)
	} else {
		a.Balance = a.Balance.Sub(amount)
	}
	paidAt := now
	paid := amount
	a.LastPaymentDate = &paidAt
	a.LastPaymentAmount = &paid
	a.LastUpdatedAt = now
	a.Reclassify(now)

	entry := PaymentEntry{
		AccountID:    a.AccountID,
		Kind:         a.Kind,
		SaleID:       saleID,
		Amount:       amount,
		BalanceAfter: a.Balance,
		PaidAt:       now,
	}
	if saleIdx >= 0 {
		entry.SaleBalanceAfter = a.Sales[saleIdx].BalanceDue
	}
	return entry, nil
}
