package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/arap_ledger/internal/apperrors"
	"github.com/SscSPs/arap_ledger/internal/core/domain"
	"github.com/SscSPs/arap_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

// LedgerPathParams binds the account kind and ID from the URL.
type LedgerPathParams struct {
	Kind      string `uri:"kind" binding:"required,ledgerkind"`
	AccountID string `uri:"accountID"`
}

// RecordPaymentRequest defines the data needed to record a payment.
// Exactly one of AmountMinorUnits and Amount must be supplied.
type RecordPaymentRequest struct {
	SaleID           string          `json:"saleID"`                     // Required for debtors with sales
	AmountMinorUnits json.RawMessage `json:"amountMinorUnits,omitempty"` // Integer, e.g. 75050 for 750.50 USD
	Amount           string          `json:"amount,omitempty"`           // Decimal text in major units, e.g. "750.50"
}

func (r RecordPaymentRequest) hasMinorUnits() bool {
	raw := bytes.TrimSpace(r.AmountMinorUnits)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// minorUnits parses AmountMinorUnits as a JSON integer. Strings, fractions and
// exponents are rejected.
func (r RecordPaymentRequest) minorUnits() (domain.Money, error) {
	raw := string(bytes.TrimSpace(r.AmountMinorUnits))
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amountMinorUnits must be an integer, got %s", apperrors.ErrInvalidAmount, raw)
	}
	return domain.NewMoneyFromMinor(n), nil
}

// Validate checks the amount fields without knowing the account currency, so
// a malformed amount is reported before the account is looked up.
func (r RecordPaymentRequest) Validate() error {
	switch {
	case r.hasMinorUnits() && r.Amount != "":
		return fmt.Errorf("%w: supply either amountMinorUnits or amount, not both", apperrors.ErrValidation)
	case r.hasMinorUnits():
		m, err := r.minorUnits()
		if err != nil {
			return err
		}
		if !m.IsPositive() {
			return fmt.Errorf("%w: amount must be positive, got %d minor units", apperrors.ErrInvalidAmount, m)
		}
	case r.Amount != "":
		d, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", apperrors.ErrInvalidAmount, r.Amount)
		}
		if !d.IsPositive() {
			return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidAmount, r.Amount)
		}
	default:
		return fmt.Errorf("%w: amount is required", apperrors.ErrInvalidAmount)
	}
	return nil
}

// ToCommand resolves the amount against the account currency and builds a payment command.
func (r RecordPaymentRequest) ToCommand(kind domain.AccountKind, accountID, currencyCode, idempotencyKey string) (domain.PaymentCommand, error) {
	if err := r.Validate(); err != nil {
		return domain.PaymentCommand{}, err
	}

	var amount domain.Money
	if r.hasMinorUnits() {
		m, err := r.minorUnits()
		if err != nil {
			return domain.PaymentCommand{}, err
		}
		amount = m
	} else {
		parsed, err := utils.ParseWithCurrencyPrecision(r.Amount, currencyCode)
		if err != nil {
			return domain.PaymentCommand{}, err
		}
		amount = parsed
	}

	return domain.PaymentCommand{
		Kind:           kind,
		AccountID:      accountID,
		SaleID:         r.SaleID,
		Amount:         amount,
		IdempotencyKey: idempotencyKey,
	}, nil
}

// MoneyResponse carries an amount both as exact minor units and as display text.
type MoneyResponse struct {
	MinorUnits int64  `json:"minorUnits"`
	Value      string `json:"value"`
}

// ToMoneyResponse renders m in the precision of currencyCode.
func ToMoneyResponse(m domain.Money, currencyCode string) MoneyResponse {
	return MoneyResponse{
		MinorUnits: m.Minor(),
		Value:      utils.FormatWithCurrencyPrecision(m, currencyCode),
	}
}

// SaleResponse defines the data returned for one sale line.
type SaleResponse struct {
	SaleID        string               `json:"saleID"`
	SaleDate      time.Time            `json:"saleDate"`
	DueDate       time.Time            `json:"dueDate"`
	TotalAmount   MoneyResponse        `json:"totalAmount"`
	PaidAmount    MoneyResponse        `json:"paidAmount"`
	BalanceDue    MoneyResponse        `json:"balanceDue"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
}

// AccountResponse defines the data returned for a debtor or creditor.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID         string               `json:"accountID"`
	Kind              domain.AccountKind   `json:"kind"`
	Name              string               `json:"name"`
	ContactInfo       string               `json:"contactInfo"`
	CurrencyCode      string               `json:"currencyCode"`
	Balance           MoneyResponse        `json:"balance"`
	DueDate           *time.Time           `json:"dueDate,omitempty"` // Creditors only
	Status            domain.PaymentStatus `json:"status"`
	CreditTerms       string               `json:"creditTerms,omitempty"`
	LastPaymentDate   *time.Time           `json:"lastPaymentDate,omitempty"`
	LastPaymentAmount *MoneyResponse       `json:"lastPaymentAmount,omitempty"`
	Sales             []SaleResponse       `json:"sales,omitempty"` // Debtors only
	Version           int64                `json:"version"`
	CreatedAt         time.Time            `json:"createdAt"`
	LastUpdatedAt     time.Time            `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	currency := acc.Currency()
	res := AccountResponse{
		AccountID:       acc.AccountID,
		Kind:            acc.Kind,
		Name:            acc.Name,
		ContactInfo:     acc.ContactInfo,
		CurrencyCode:    currency,
		Balance:         ToMoneyResponse(acc.Balance, currency),
		Status:          acc.Status,
		CreditTerms:     acc.CreditTerms,
		LastPaymentDate: acc.LastPaymentDate,
		Version:         acc.Version,
		CreatedAt:       acc.CreatedAt,
		LastUpdatedAt:   acc.LastUpdatedAt,
	}
	if !acc.Kind.IsItemized() && !acc.DueDate.IsZero() {
		due := acc.DueDate
		res.DueDate = &due
	}
	if acc.LastPaymentAmount != nil {
		last := ToMoneyResponse(*acc.LastPaymentAmount, currency)
		res.LastPaymentAmount = &last
	}
	if len(acc.Sales) > 0 {
		res.Sales = make([]SaleResponse, len(acc.Sales))
		for i, s := range acc.Sales {
			res.Sales[i] = SaleResponse{
				SaleID:        s.SaleID,
				SaleDate:      s.SaleDate,
				DueDate:       s.EffectiveDueDate(),
				TotalAmount:   ToMoneyResponse(s.TotalAmount, currency),
				PaidAmount:    ToMoneyResponse(s.PaidAmount, currency),
				BalanceDue:    ToMoneyResponse(s.BalanceDue, currency),
				PaymentStatus: s.PaymentStatus,
			}
		}
	}
	return res
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
// Page is zero-based; a zero Size selects the server default.
type ListAccountsParams struct {
	Page int `form:"page,default=0" binding:"min=0"`
	Size int `form:"size,default=0" binding:"min=0"`
}

// ListAccountsResponse wraps one page of accounts with pagination metadata.
type ListAccountsResponse struct {
	Accounts   []AccountResponse `json:"accounts"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	TotalCount int               `json:"totalCount"`
	TotalPages int               `json:"totalPages"`
}

// ToListAccountsResponse converts a domain page into its response DTO.
func ToListAccountsResponse(page *domain.AccountPage) ListAccountsResponse {
	totalPages := 0
	if page.Size > 0 {
		totalPages = (page.TotalCount + page.Size - 1) / page.Size
	}
	return ListAccountsResponse{
		Accounts:   ToListAccountResponse(page.Items),
		Page:       page.Page,
		Size:       page.Size,
		TotalCount: page.TotalCount,
		TotalPages: totalPages,
	}
}

// SaleLedgerParams defines query parameters for the sale ledger.
type SaleLedgerParams struct {
	DebtorsOnly bool `form:"debtorsOnly,default=false"`
}

// SearchParams defines query parameters for searching accounts.
type SearchParams struct {
	Query string `form:"q"`
}

// TotalsResponse defines the aggregated figures for one kind.
type TotalsResponse struct {
	Kind             domain.AccountKind `json:"kind"`
	CurrencyCode     string             `json:"currencyCode"`
	OutstandingTotal MoneyResponse      `json:"outstandingTotal"`
	OverdueTotal     MoneyResponse      `json:"overdueTotal"`
	Count            int                `json:"count"`
}

// ToTotalsResponse converts domain totals. Amounts are rendered in the
// default currency since totals span accounts.
func ToTotalsResponse(t *domain.LedgerTotals) TotalsResponse {
	return TotalsResponse{
		Kind:             t.Kind,
		CurrencyCode:     domain.DefaultCurrencyCode,
		OutstandingTotal: ToMoneyResponse(t.OutstandingTotal, domain.DefaultCurrencyCode),
		OverdueTotal:     ToMoneyResponse(t.OverdueTotal, domain.DefaultCurrencyCode),
		Count:            t.Count,
	}
}

// PaymentEntryResponse defines one payment ledger entry.
type PaymentEntryResponse struct {
	EntryID          string         `json:"entryID"`
	SaleID           string         `json:"saleID,omitempty"`
	Amount           MoneyResponse  `json:"amount"`
	BalanceAfter     MoneyResponse  `json:"balanceAfter"`
	SaleBalanceAfter *MoneyResponse `json:"saleBalanceAfter,omitempty"`
	IdempotencyKey   string         `json:"idempotencyKey"`
	PaidAt           time.Time      `json:"paidAt"`
}

// ToPaymentEntryResponses converts entries rendered in currencyCode.
func ToPaymentEntryResponses(entries []domain.PaymentEntry, currencyCode string) []PaymentEntryResponse {
	res := make([]PaymentEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = PaymentEntryResponse{
			EntryID:        e.EntryID,
			SaleID:         e.SaleID,
			Amount:         ToMoneyResponse(e.Amount, currencyCode),
			BalanceAfter:   ToMoneyResponse(e.BalanceAfter, currencyCode),
			IdempotencyKey: e.IdempotencyKey,
			PaidAt:         e.PaidAt,
		}
		if e.SaleID != "" {
			sb := ToMoneyResponse(e.SaleBalanceAfter, currencyCode)
			res[i].SaleBalanceAfter = &sb
		}
	}
	return res
}

// ErrorResponse is the body of every non-2xx ledger response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
