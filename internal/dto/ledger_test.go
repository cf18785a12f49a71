package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/arap_ledger/internal/apperrors"
	"github.com/SscSPs/arap_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPaymentRequest_ToCommand(t *testing.T) {
	cmd, err := RecordPaymentRequest{SaleID: "s1", AmountMinorUnits: json.RawMessage("75050")}.ToCommand(domain.KindDebtor, "d1", "USD", "k")
	require.NoError(t, err)
	assert.Equal(t, domain.Money(75050), cmd.Amount)
	assert.Equal(t, "k", cmd.IdempotencyKey)

	cmd, err = RecordPaymentRequest{Amount: "750.50"}.ToCommand(domain.KindCreditor, "c1", "USD", "")
	require.NoError(t, err)
	assert.Equal(t, domain.Money(75050), cmd.Amount)

	cmd, err = RecordPaymentRequest{Amount: "1500"}.ToCommand(domain.KindCreditor, "c1", "JPY", "")
	require.NoError(t, err)
	assert.Equal(t, domain.Money(1500), cmd.Amount)

	_, err = RecordPaymentRequest{Amount: "1.005"}.ToCommand(domain.KindCreditor, "c1", "USD", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	_, err = RecordPaymentRequest{}.ToCommand(domain.KindCreditor, "c1", "USD", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	_, err = RecordPaymentRequest{Amount: "1", AmountMinorUnits: json.RawMessage("100")}.ToCommand(domain.KindCreditor, "c1", "USD", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRecordPaymentRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     RecordPaymentRequest
		wantErr error
	}{
		{"minor units", RecordPaymentRequest{AmountMinorUnits: json.RawMessage(" 100 ")}, nil},
		{"decimal", RecordPaymentRequest{Amount: "1.005"}, nil}, // precision is checked once the currency is known
		{"minor units string", RecordPaymentRequest{AmountMinorUnits: json.RawMessage(`"100"`)}, apperrors.ErrInvalidAmount},
		{"minor units fraction", RecordPaymentRequest{AmountMinorUnits: json.RawMessage("12.5")}, apperrors.ErrInvalidAmount},
		{"minor units zero", RecordPaymentRequest{AmountMinorUnits: json.RawMessage("0")}, apperrors.ErrInvalidAmount},
		{"minor units null", RecordPaymentRequest{AmountMinorUnits: json.RawMessage("null")}, apperrors.ErrInvalidAmount},
		{"decimal not a number", RecordPaymentRequest{Amount: "abc"}, apperrors.ErrInvalidAmount},
		{"decimal negative", RecordPaymentRequest{Amount: "-5"}, apperrors.ErrInvalidAmount},
		{"both", RecordPaymentRequest{Amount: "1", AmountMinorUnits: json.RawMessage("1")}, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestToAccountResponse_Debtor(t *testing.T) {
	saleDate := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	acc := &domain.Account{
		AccountID: "d1",
		Kind:      domain.KindDebtor,
		Balance:   90000,
		Status:    domain.StatusOverdue,
		Sales: []domain.Sale{
			{SaleID: "s1", SaleDate: saleDate, TotalAmount: 120000, PaidAmount: 30000, BalanceDue: 90000, PaymentStatus: domain.StatusOverdue},
		},
	}

	res := ToAccountResponse(acc)

	assert.Equal(t, "USD", res.CurrencyCode)
	assert.Nil(t, res.DueDate)
	require.Len(t, res.Sales, 1)
	assert.Equal(t, saleDate, res.Sales[0].DueDate)
	assert.Equal(t, "900.00", res.Sales[0].BalanceDue.Value)
	assert.Equal(t, "1200.00", res.Sales[0].TotalAmount.Value)
}

func TestToListAccountsResponse_TotalPages(t *testing.T) {
	assert.Equal(t, 0, ToListAccountsResponse(&domain.AccountPage{Size: 20}).TotalPages)
	assert.Equal(t, 1, ToListAccountsResponse(&domain.AccountPage{Size: 20, TotalCount: 20}).TotalPages)
	assert.Equal(t, 2, ToListAccountsResponse(&domain.AccountPage{Size: 20, TotalCount: 21}).TotalPages)
}
