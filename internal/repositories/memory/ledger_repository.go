// Package memory provides an in-process ledger repository used by tests, the
// CLI and STORE_DRIVER=memory deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/arap_ledger/internal/apperrors"
	"github.com/SscSPs/arap_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/arap_ledger/internal/core/ports/repositories"
)

type accountKey struct {
	kind domain.AccountKind
	id   string
}

// LedgerRepository keeps accounts and the payment ledger in maps guarded by a
// single RWMutex. Values go in and come out as deep copies.
type LedgerRepository struct {
	mu       sync.RWMutex
	accounts map[accountKey]domain.Account
	payments []domain.PaymentEntry
	byKey    map[string]int // idempotency key -> index into payments
}

// NewLedgerRepository creates an empty repository.
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		accounts: make(map[accountKey]domain.Account),
		byKey:    make(map[string]int),
	}
}

// NewRepositoryProvider wires an empty in-memory repository into a provider.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo: NewLedgerRepository(),
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*LedgerRepository)(nil)

func (r *LedgerRepository) FindAccount(ctx context.Context, kind domain.AccountKind, accountID string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[accountKey{kind, accountID}]
	if !ok {
		return nil, fmt.Errorf("%w: %s account %s", apperrors.ErrNotFound, kind, accountID)
	}
	out := acc.Clone()
	return &out, nil
}

func (r *LedgerRepository) ListAccounts(ctx context.Context, kind domain.AccountKind, limit int, offset int) ([]domain.Account, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if offset < 0 || limit < 0 {
		return nil, 0, fmt.Errorf("%w: negative limit %d or offset %d", apperrors.ErrValidation, limit, offset)
	}

	all := r.sortedLocked(kind, false)
	total := len(all)
	if offset >= total {
		return []domain.Account{}, total, nil
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *LedgerRepository) SnapshotAccounts(ctx context.Context, kind domain.AccountKind) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(kind, false), nil
}

func (r *LedgerRepository) ListSaleLedger(ctx context.Context, debtorsOnly bool) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(domain.KindDebtor, debtorsOnly), nil
}

// sortedLocked returns copies of a kind's accounts ordered by name then ID.
// Callers must hold r.mu.
func (r *LedgerRepository) sortedLocked(kind domain.AccountKind, owingOnly bool) []domain.Account {
	out := []domain.Account{}
	for key, acc := range r.accounts {
		if key.kind != kind {
			continue
		}
		if owingOnly && !acc.Balance.IsPositive() {
			continue
		}
		out = append(out, acc.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out
}

func (r *LedgerRepository) FindPaymentByIdempotencyKey(ctx context.Context, key string) (*domain.PaymentEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: no payment with idempotency key %q", apperrors.ErrNotFound, key)
	}
	entry := r.payments[idx]
	return &entry, nil
}

func (r *LedgerRepository) ListPayments(ctx context.Context, kind domain.AccountKind, accountID string) ([]domain.PaymentEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.PaymentEntry{}
	for _, p := range r.payments {
		if p.Kind == kind && p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *LedgerRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := accountKey{account.Kind, account.AccountID}
	if _, exists := r.accounts[key]; exists {
		return fmt.Errorf("%w: %s account %s already exists", apperrors.ErrDuplicate, account.Kind, account.AccountID)
	}
	r.accounts[key] = account.Clone()
	return nil
}

func (r *LedgerRepository) CommitPayment(ctx context.Context, account domain.Account, expectedVersion int64, entry domain.PaymentEntry) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := accountKey{account.Kind, account.AccountID}
	stored, ok := r.accounts[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s account %s", apperrors.ErrNotFound, account.Kind, account.AccountID)
	}
	if stored.Version != expectedVersion {
		return nil, fmt.Errorf("%w: account %s is at version %d, expected %d", apperrors.ErrConflict, account.AccountID, stored.Version, expectedVersion)
	}
	if _, dup := r.byKey[entry.IdempotencyKey]; dup {
		return nil, fmt.Errorf("%w: idempotency key %q already recorded", apperrors.ErrDuplicate, entry.IdempotencyKey)
	}

	committed := account.Clone()
	committed.Version = expectedVersion + 1
	committed.CreatedAt = stored.CreatedAt
	r.accounts[key] = committed

	r.payments = append(r.payments, entry)
	r.byKey[entry.IdempotencyKey] = len(r.payments) - 1

	out := committed.Clone()
	return &out, nil
}
