package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/SscSPs/arap_ledger/internal/apperrors"
	"github.com/SscSPs/arap_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/arap_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/arap_ledger/internal/core/ports/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// EntityStore is the authoritative, versioned view of ledger accounts. It wraps
// the persistence collaborator, re-derives status fields as of the store clock
// on every read, and normalizes collaborator failures into the ledger error
// taxonomy. Everything it returns is a private copy.
type EntityStore struct {
	BaseService
	repo            portsrepo.LedgerRepositoryFacade
	now             func() time.Time
	defaultPageSize int
	maxPageSize     int
}

// EntityStoreOption is a functional option for configuring the entity store
type EntityStoreOption func(*EntityStore)

// WithStoreClock overrides the clock used for status derivation.
func WithStoreClock(now func() time.Time) EntityStoreOption {
	return func(s *EntityStore) {
		s.now = now
	}
}

// WithPageSizes overrides the default and maximum page sizes for List.
func WithPageSizes(defaultSize, maxSize int) EntityStoreOption {
	return func(s *EntityStore) {
		if defaultSize > 0 {
			s.defaultPageSize = defaultSize
		}
		if maxSize > 0 {
			s.maxPageSize = maxSize
		}
	}
}

// NewEntityStore creates an entity store over repo.
func NewEntityStore(repo portsrepo.LedgerRepositoryFacade, options ...EntityStoreOption) *EntityStore {
	s := &EntityStore{
		repo:            repo,
		now:             time.Now,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
	for _, option := range options {
		option(s)
	}
	if s.defaultPageSize > s.maxPageSize {
		s.defaultPageSize = s.maxPageSize
	}
	return s
}

// Now returns the store clock's current time.
func (s *EntityStore) Now() time.Time {
	return s.now()
}

// Get retrieves one account.
func (s *EntityStore) Get(ctx context.Context, kind domain.AccountKind, accountID string) (*domain.Account, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, kind)
	}
	acc, err := s.repo.FindAccount(ctx, kind, accountID)
	if err != nil {
		return nil, storeError(err, "find account %s", accountID)
	}
	out := s.classified(*acc)
	return &out, nil
}

// List retrieves a zero-based page. A non-positive size selects the default
// page size and sizes above the maximum are clamped.
func (s *EntityStore) List(ctx context.Context, kind domain.AccountKind, page int, size int) (*domain.AccountPage, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, kind)
	}
	if page < 0 {
		return nil, fmt.Errorf("%w: page must be zero or greater, got %d", apperrors.ErrValidation, page)
	}
	if size <= 0 {
		size = s.defaultPageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}
	if page > math.MaxInt/size {
		return nil, fmt.Errorf("%w: page %d is out of range for size %d", apperrors.ErrValidation, page, size)
	}

	items, total, err := s.repo.ListAccounts(ctx, kind, size, page*size)
	if err != nil {
		return nil, storeError(err, "list %s accounts", kind)
	}

	return &domain.AccountPage{
		Items:      s.classifiedAll(items),
		TotalCount: total,
		Page:       page,
		Size:       size,
	}, nil
}

// Snapshot retrieves every account of a kind as of a single point in time.
func (s *EntityStore) Snapshot(ctx context.Context, kind domain.AccountKind) ([]domain.Account, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, kind)
	}
	items, err := s.repo.SnapshotAccounts(ctx, kind)
	if err != nil {
		return nil, storeError(err, "snapshot %s accounts", kind)
	}
	return s.classifiedAll(items), nil
}

// SaleLedger retrieves the sale-itemized debtor view.
func (s *EntityStore) SaleLedger(ctx context.Context, debtorsOnly bool) ([]domain.Account, error) {
	items, err := s.repo.ListSaleLedger(ctx, debtorsOnly)
	if err != nil {
		return nil, storeError(err, "list sale ledger")
	}
	return s.classifiedAll(items), nil
}

// Payments retrieves the payment ledger of one account.
func (s *EntityStore) Payments(ctx context.Context, kind domain.AccountKind, accountID string) ([]domain.PaymentEntry, error) {
	if _, err := s.Get(ctx, kind, accountID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListPayments(ctx, kind, accountID)
	if err != nil {
		return nil, storeError(err, "list payments for %s", accountID)
	}
	if entries == nil {
		return []domain.PaymentEntry{}, nil
	}
	return entries, nil
}

// PaymentByIdempotencyKey returns the entry committed under key, or ErrNotFound.
func (s *EntityStore) PaymentByIdempotencyKey(ctx context.Context, key string) (*domain.PaymentEntry, error) {
	entry, err := s.repo.FindPaymentByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, storeError(err, "find payment by idempotency key")
	}
	return entry, nil
}

// Commit writes account and entry if the stored version still equals
// expectedVersion; otherwise it fails with ErrConflict and nothing changes.
func (s *EntityStore) Commit(ctx context.Context, account domain.Account, expectedVersion int64, entry domain.PaymentEntry) (*domain.Account, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	committed, err := s.repo.CommitPayment(ctx, account.Clone(), expectedVersion, entry)
	if err != nil {
		return nil, storeError(err, "commit account %s", account.AccountID)
	}
	out := committed.Clone()
	return &out, nil
}

// Create persists a new account produced by the upstream sales or purchasing
// process. Derived fields are computed here; the version starts at 1.
func (s *EntityStore) Create(ctx context.Context, account domain.Account) (*domain.Account, error) {
	now := s.now()
	acc := account.Clone()
	for i := range acc.Sales {
		acc.Sales[i].AccountID = acc.AccountID
	}
	acc.Reclassify(now)
	if err := acc.Validate(); err != nil {
		return nil, err
	}
	if acc.CurrencyCode == "" {
		acc.CurrencyCode = domain.DefaultCurrencyCode
	}
	acc.Version = 1
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = now
	}
	acc.LastUpdatedAt = now

	if err := s.repo.SaveAccount(ctx, acc); err != nil {
		return nil, storeError(err, "save account %s", acc.AccountID)
	}
	s.LogDebug(ctx, "Account created",
		slog.String("account_id", acc.AccountID),
		slog.String("kind", string(acc.Kind)))
	return &acc, nil
}

func (s *EntityStore) classified(acc domain.Account) domain.Account {
	out := acc.Clone()
	out.Reclassify(s.now())
	return out
}

func (s *EntityStore) classifiedAll(items []domain.Account) []domain.Account {
	now := s.now()
	out := make([]domain.Account, len(items))
	for i := range items {
		out[i] = items[i].Clone()
		out[i].Reclassify(now)
	}
	return out
}

// storeError keeps ledger sentinels intact and maps everything else the
// collaborator returns (I/O errors, timeouts, cancellations) to ErrNetworkFailure.
func storeError(err error, format string, args ...any) error {
	for _, known := range []error{
		apperrors.ErrNotFound,
		apperrors.ErrConflict,
		apperrors.ErrDuplicate,
		apperrors.ErrValidation,
		apperrors.ErrNetworkFailure,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %w", apperrors.ErrNetworkFailure, fmt.Sprintf(format, args...), err)
}

var _ portssvc.LedgerProvisionerSvc = (*EntityStore)(nil)
