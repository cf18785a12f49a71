package services_test

import (
	"context"

	"github.com/SscSPs/arap_ledger/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindAccount(ctx context.Context, kind domain.AccountKind, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, kind, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerRepository) ListAccounts(ctx context.Context, kind domain.AccountKind, limit int, offset int) ([]domain.Account, int, error) {
	args := m.Called(ctx, kind, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Account), args.Int(1), args.Error(2)
}

func (m *MockLedgerRepository) SnapshotAccounts(ctx context.Context, kind domain.AccountKind) ([]domain.Account, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockLedgerRepository) ListSaleLedger(ctx context.Context, debtorsOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, debtorsOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockLedgerRepository) FindPaymentByIdempotencyKey(ctx context.Context, key string) (*domain.PaymentEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListPayments(ctx context.Context, kind domain.AccountKind, accountID string) ([]domain.PaymentEntry, error) {
	args := m.Called(ctx, kind, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentEntry), args.Error(1)
}

func (m *MockLedgerRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockLedgerRepository) CommitPayment(ctx context.Context, account domain.Account, expectedVersion int64, entry domain.PaymentEntry) (*domain.Account, error) {
	args := m.Called(ctx, account, expectedVersion, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// MockPaymentEventPublisher is a mock type for the PaymentEventPublisher interface
type MockPaymentEventPublisher struct {
	mock.Mock
}

func (m *MockPaymentEventPublisher) PublishPaymentRecorded(ctx context.Context, event domain.PaymentRecordedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
