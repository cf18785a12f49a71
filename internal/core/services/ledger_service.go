package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/arap_ledger/internal/apperrors"
	"github.com/SscSPs/arap_ledger/internal/core/domain"
	"github.com/SscSPs/arap_ledger/internal/core/ports/events"
	portssvc "github.com/SscSPs/arap_ledger/internal/core/ports/services"
	"github.com/SscSPs/arap_ledger/internal/utils/accounting"
	"github.com/SscSPs/arap_ledger/internal/utils/filter"
	"github.com/google/uuid"
)

const defaultCommitTimeout = 5 * time.Second

// ledgerService implements the LedgerSvcFacade interface
type ledgerService struct {
	BaseService
	store         *EntityStore
	publisher     events.PaymentEventPublisher
	commitTimeout time.Duration
	searchFields  []filter.Field
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithEventPublisher announces committed payments through publisher.
func WithEventPublisher(publisher events.PaymentEventPublisher) LedgerServiceOption {
	return func(s *ledgerService) {
		s.publisher = publisher
	}
}

// WithCommitTimeout bounds how long a commit may run once it has been handed
// to the store. The bound applies even if the caller's context is cancelled.
func WithCommitTimeout(d time.Duration) LedgerServiceOption {
	return func(s *ledgerService) {
		if d > 0 {
			s.commitTimeout = d
		}
	}
}

// WithSearchFields sets the account fields Search matches against.
func WithSearchFields(fields ...filter.Field) LedgerServiceOption {
	return func(s *ledgerService) {
		if len(fields) > 0 {
			s.searchFields = fields
		}
	}
}

// NewLedgerService creates a new ledger service over store
func NewLedgerService(store *EntityStore, options ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		store:         store,
		commitTimeout: defaultCommitTimeout,
		searchFields:  filter.DefaultFields,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetAccount(ctx context.Context, kind domain.AccountKind, accountID string) (*domain.Account, error) {
	acc, err := s.store.Get(ctx, kind, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get ledger account",
				slog.String("kind", string(kind)),
				slog.String("account_id", accountID))
		}
		return nil, err
	}
	return acc, nil
}

func (s *ledgerService) ListAccounts(ctx context.Context, kind domain.AccountKind, page int, size int) (*domain.AccountPage, error) {
	result, err := s.store.List(ctx, kind, page, size)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger accounts",
			slog.String("kind", string(kind)),
			slog.Int("page", page),
			slog.Int("size", size))
		return nil, err
	}
	s.LogDebug(ctx, "Ledger accounts listed",
		slog.String("kind", string(kind)),
		slog.Int("count", len(result.Items)),
		slog.Int("total", result.TotalCount))
	return result, nil
}

func (s *ledgerService) GetSaleLedger(ctx context.Context, debtorsOnly bool) ([]domain.Account, error) {
	accounts, err := s.store.SaleLedger(ctx, debtorsOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sale ledger", slog.Bool("debtors_only", debtorsOnly))
		return nil, err
	}
	return accounts, nil
}

func (s *ledgerService) ListPayments(ctx context.Context, kind domain.AccountKind, accountID string) ([]domain.PaymentEntry, error) {
	entries, err := s.store.Payments(ctx, kind, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to list payments", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return entries, nil
}

// RecordPayment validates cmd against the current account, applies it to a
// private copy and commits the copy with a compare-and-swap on the version that
// was read. A failed check or commit leaves the stored account untouched.
// Replaying an idempotency key that already committed returns the account
// without applying the payment again.
func (s *ledgerService) RecordPayment(ctx context.Context, cmd domain.PaymentCommand) (*domain.Account, error) {
	if !cmd.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, cmd.Kind)
	}
	if !cmd.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %d minor units", apperrors.ErrInvalidAmount, cmd.Amount)
	}
	if err := domain.ValidateIdempotencyKey(cmd.IdempotencyKey); err != nil {
		return nil, err
	}

	if cmd.IdempotencyKey != "" {
		acc, replayed, err := s.replay(ctx, cmd)
		if err != nil || replayed {
			return acc, err
		}
	}

	current, err := s.store.Get(ctx, cmd.Kind, cmd.AccountID)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	entry, err := updated.ApplyPayment(cmd.SaleID, cmd.Amount, s.store.Now())
	if err != nil {
		s.LogDebug(ctx, "Payment rejected",
			slog.String("account_id", cmd.AccountID),
			slog.String("code", apperrors.Code(err)))
		return nil, err
	}
	entry.EntryID = uuid.NewString()
	entry.IdempotencyKey = cmd.IdempotencyKey
	if entry.IdempotencyKey == "" {
		entry.IdempotencyKey = entry.EntryID
	}

	// Once handed to the store the commit either lands or reports failure;
	// it is not abandoned half way because the caller went away.
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.commitTimeout)
	defer cancel()

	committed, err := s.store.Commit(commitCtx, updated, current.Version, entry)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate) && cmd.IdempotencyKey != "":
			acc, _, replayErr := s.replay(ctx, cmd)
			return acc, replayErr
		case errors.Is(err, apperrors.ErrConflict):
			s.LogWarn(ctx, err, "Payment lost a concurrent update race",
				slog.String("account_id", cmd.AccountID),
				slog.Int64("expected_version", current.Version))
		default:
			s.LogError(ctx, err, "Failed to commit payment",
				slog.String("account_id", cmd.AccountID),
				slog.String("entry_id", entry.EntryID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Payment recorded",
		slog.String("kind", string(committed.Kind)),
		slog.String("account_id", committed.AccountID),
		slog.String("sale_id", cmd.SaleID),
		slog.Int64("amount_minor", cmd.Amount.Minor()),
		slog.Int64("balance_minor", committed.Balance.Minor()),
		slog.String("status", string(committed.Status)),
		slog.Int64("version", committed.Version))

	s.publish(ctx, *committed, entry)
	return committed, nil
}

// replay looks up a previously committed payment with the same idempotency key.
// It reports replayed=false when the key is unused.
func (s *ledgerService) replay(ctx context.Context, cmd domain.PaymentCommand) (*domain.Account, bool, error) {
	prior, err := s.store.PaymentByIdempotencyKey(ctx, cmd.IdempotencyKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if prior.AccountID != cmd.AccountID || prior.Kind != cmd.Kind {
		return nil, false, fmt.Errorf("%w: idempotency key %q was used for another account", apperrors.ErrValidation, cmd.IdempotencyKey)
	}

	acc, err := s.store.Get(ctx, cmd.Kind, cmd.AccountID)
	if err != nil {
		return nil, false, err
	}
	s.LogInfo(ctx, "Payment replayed from idempotency key",
		slog.String("account_id", cmd.AccountID),
		slog.String("entry_id", prior.EntryID))
	return acc, true, nil
}

func (s *ledgerService) publish(ctx context.Context, acc domain.Account, entry domain.PaymentEntry) {
	if s.publisher == nil {
		return
	}
	event := domain.NewPaymentRecordedEvent(acc, entry)
	if err := s.publisher.PublishPaymentRecorded(context.WithoutCancel(ctx), event); err != nil {
		s.LogWarn(ctx, err, "Failed to publish payment event",
			slog.String("account_id", acc.AccountID),
			slog.String("entry_id", entry.EntryID))
	}
}

func (s *ledgerService) GetTotals(ctx context.Context, kind domain.AccountKind) (*domain.LedgerTotals, error) {
	snapshot, err := s.store.Snapshot(ctx, kind)
	if err != nil {
		s.LogError(ctx, err, "Failed to snapshot accounts for totals", slog.String("kind", string(kind)))
		return nil, err
	}
	totals := accounting.ComputeTotals(kind, snapshot)
	return &totals, nil
}

func (s *ledgerService) Search(ctx context.Context, kind domain.AccountKind, term string) ([]domain.Account, error) {
	snapshot, err := s.store.Snapshot(ctx, kind)
	if err != nil {
		s.LogError(ctx, err, "Failed to snapshot accounts for search", slog.String("kind", string(kind)))
		return nil, err
	}
	return filter.Search(snapshot, term, s.searchFields...), nil
}
