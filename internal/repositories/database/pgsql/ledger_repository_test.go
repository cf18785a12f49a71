package pgsql

import (
	"testing"
	"time"

	"github.com/SscSPs/arap_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToModelAccount_NullableColumns(t *testing.T) {
	debtor := domain.Account{AccountID: "d1", Kind: domain.KindDebtor, Name: "Acme"}
	m := toModelAccount(debtor)

	assert.Nil(t, m.DueDate)
	assert.Nil(t, m.LastPaymentDate)
	assert.Nil(t, m.LastPaymentMinor)
	assert.Equal(t, domain.DefaultCurrencyCode, m.CurrencyCode)

	paidAt := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	amount := domain.Money(4200)
	creditor := domain.Account{
		AccountID:         "c1",
		Kind:              domain.KindCreditor,
		Balance:           10000,
		DueDate:           paidAt.AddDate(0, 1, 0),
		LastPaymentDate:   &paidAt,
		LastPaymentAmount: &amount,
	}
	m = toModelAccount(creditor)
	require.NotNil(t, m.DueDate)
	require.NotNil(t, m.LastPaymentMinor)
	assert.Equal(t, int64(4200), *m.LastPaymentMinor)

	back := toDomainAccount(m)
	assert.Equal(t, creditor.DueDate, back.DueDate)
	require.NotNil(t, back.LastPaymentAmount)
	assert.Equal(t, amount, *back.LastPaymentAmount)
}

func TestToModelPayment_SaleColumnsOnlyForSalePayments(t *testing.T) {
	flat := toModelPayment(domain.PaymentEntry{EntryID: "e1", Amount: 100})
	assert.Nil(t, flat.SaleID)
	assert.Nil(t, flat.SaleBalanceAfterMinor)

	itemized := toModelPayment(domain.PaymentEntry{EntryID: "e2", SaleID: "s1", Amount: 100, SaleBalanceAfter: 0})
	require.NotNil(t, itemized.SaleID)
	require.NotNil(t, itemized.SaleBalanceAfterMinor)
	assert.Equal(t, int64(0), *itemized.SaleBalanceAfterMinor)

	assert.Equal(t, "s1", toDomainPayment(itemized).SaleID)
}
