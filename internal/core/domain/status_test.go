package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/arap_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name    string
		balance domain.Money
		dueDate time.Time
		want    domain.PaymentStatus
	}{
		{name: "zero balance past due is paid", balance: 0, dueDate: past, want: domain.StatusPaid},
		{name: "zero balance future due is paid", balance: 0, dueDate: future, want: domain.StatusPaid},
		{name: "owing past due is overdue", balance: 100, dueDate: past, want: domain.StatusOverdue},
		{name: "owing future due is pending", balance: 100, dueDate: future, want: domain.StatusPending},
		{name: "owing due exactly now is pending", balance: 100, dueDate: now, want: domain.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Classify(tt.balance, tt.dueDate, now))
		})
	}
}

func TestClassify_Property(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	for _, balance := range []domain.Money{0, 1, 99, 120000} {
		for _, offset := range []time.Duration{-48 * time.Hour, -time.Nanosecond, 0, time.Nanosecond, 48 * time.Hour} {
			due := now.Add(offset)
			got := domain.Classify(balance, due, now)

			assert.Equal(t, balance == 0, got == domain.StatusPaid)
			assert.Equal(t, balance > 0 && due.Before(now), got == domain.StatusOverdue)
		}
	}
}

func TestMostSevere(t *testing.T) {
	assert.Equal(t, domain.StatusPaid, domain.MostSevere())
	assert.Equal(t, domain.StatusPaid, domain.MostSevere(domain.StatusPaid, domain.StatusPaid))
	assert.Equal(t, domain.StatusPending, domain.MostSevere(domain.StatusPaid, domain.StatusPending))
	assert.Equal(t, domain.StatusOverdue, domain.MostSevere(domain.StatusPending, domain.StatusOverdue, domain.StatusPaid))
}
