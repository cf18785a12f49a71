package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/arap_ledger/internal/apperrors"
	"github.com/SscSPs/arap_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/arap_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/arap_ledger/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, kind, name, contact_info, currency_code, credit_terms, balance_minor,
	due_date, status, last_payment_date, last_payment_minor, version, created_at, last_updated_at`

const paymentColumns = `entry_id, account_id, kind, sale_id, amount_minor, balance_after_minor,
	sale_balance_after_minor, idempotency_key, paid_at`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for debtor, creditor and payment data.
func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func toModelAccount(d domain.Account) models.LedgerAccount {
	m := models.LedgerAccount{
		AccountID:    d.AccountID,
		Kind:         string(d.Kind),
		Name:         d.Name,
		ContactInfo:  d.ContactInfo,
		CurrencyCode: d.Currency(),
		CreditTerms:  d.CreditTerms,
		BalanceMinor: d.Balance.Minor(),
		Status:       string(d.Status),
		Version:      d.Version,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
	if !d.DueDate.IsZero() {
		due := d.DueDate
		m.DueDate = &due
	}
	if d.LastPaymentDate != nil {
		ts := *d.LastPaymentDate
		m.LastPaymentDate = &ts
	}
	if d.LastPaymentAmount != nil {
		amt := d.LastPaymentAmount.Minor()
		m.LastPaymentMinor = &amt
	}
	return m
}

func toDomainAccount(m models.LedgerAccount) domain.Account {
	d := domain.Account{
		AccountID:    m.AccountID,
		Kind:         domain.AccountKind(m.Kind),
		Name:         m.Name,
		ContactInfo:  m.ContactInfo,
		CurrencyCode: m.CurrencyCode,
		CreditTerms:  m.CreditTerms,
		Balance:      domain.NewMoneyFromMinor(m.BalanceMinor),
		Status:       domain.PaymentStatus(m.Status),
		Version:      m.Version,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
	if m.DueDate != nil {
		d.DueDate = *m.DueDate
	}
	if m.LastPaymentDate != nil {
		ts := *m.LastPaymentDate
		d.LastPaymentDate = &ts
	}
	if m.LastPaymentMinor != nil {
		amt := domain.NewMoneyFromMinor(*m.LastPaymentMinor)
		d.LastPaymentAmount = &amt
	}
	return d
}

func toDomainSale(m models.LedgerSale) domain.Sale {
	s := domain.Sale{
		SaleID:      m.SaleID,
		AccountID:   m.AccountID,
		SaleDate:    m.SaleDate,
		TotalAmount: domain.NewMoneyFromMinor(m.TotalMinor),
		PaidAmount:  domain.NewMoneyFromMinor(m.PaidMinor),
	}
	if m.DueDate != nil {
		s.DueDate = *m.DueDate
	}
	return s
}

func toModelPayment(d domain.PaymentEntry) models.LedgerPayment {
	m := models.LedgerPayment{
		EntryID:           d.EntryID,
		AccountID:         d.AccountID,
		Kind:              string(d.Kind),
		AmountMinor:       d.Amount.Minor(),
		BalanceAfterMinor: d.BalanceAfter.Minor(),
		IdempotencyKey:    d.IdempotencyKey,
		PaidAt:            d.PaidAt,
	}
	if d.SaleID != "" {
		saleID := d.SaleID
		saleBalance := d.SaleBalanceAfter.Minor()
		m.SaleID = &saleID
		m.SaleBalanceAfterMinor = &saleBalance
	}
	return m
}

func toDomainPayment(m models.LedgerPayment) domain.PaymentEntry {
	d := domain.PaymentEntry{
		EntryID:        m.EntryID,
		AccountID:      m.AccountID,
		Kind:           domain.AccountKind(m.Kind),
		Amount:         domain.NewMoneyFromMinor(m.AmountMinor),
		BalanceAfter:   domain.NewMoneyFromMinor(m.BalanceAfterMinor),
		IdempotencyKey: m.IdempotencyKey,
		PaidAt:         m.PaidAt,
	}
	if m.SaleID != nil {
		d.SaleID = *m.SaleID
	}
	if m.SaleBalanceAfterMinor != nil {
		d.SaleBalanceAfter = domain.NewMoneyFromMinor(*m.SaleBalanceAfterMinor)
	}
	return d
}

func scanAccount(row pgx.Row) (models.LedgerAccount, error) {
	var m models.LedgerAccount
	err := row.Scan(
		&m.AccountID,
		&m.Kind,
		&m.Name,
		&m.ContactInfo,
		&m.CurrencyCode,
		&m.CreditTerms,
		&m.BalanceMinor,
		&m.DueDate,
		&m.Status,
		&m.LastPaymentDate,
		&m.LastPaymentMinor,
		&m.Version,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func scanPayment(row pgx.Row) (models.LedgerPayment, error) {
	var m models.LedgerPayment
	err := row.Scan(
		&m.EntryID,
		&m.AccountID,
		&m.Kind,
		&m.SaleID,
		&m.AmountMinor,
		&m.BalanceAfterMinor,
		&m.SaleBalanceAfterMinor,
		&m.IdempotencyKey,
		&m.PaidAt,
	)
	return m, err
}

// queryAccounts runs an account query and attaches the sale lines of any debtors.
func (r *PgxLedgerRepository) queryAccounts(ctx context.Context, q querier, query string, args ...any) ([]domain.Account, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	debtorIDs := []string{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger account row: %w", err)
		}
		acc := toDomainAccount(m)
		if acc.Kind.IsItemized() {
			debtorIDs = append(debtorIDs, acc.AccountID)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger account rows: %w", err)
	}
	rows.Close()

	if len(debtorIDs) == 0 {
		return accounts, nil
	}
	sales, err := r.loadSales(ctx, q, debtorIDs)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].Kind.IsItemized() {
			accounts[i].Sales = sales[accounts[i].AccountID]
		}
	}
	return accounts, nil
}

func (r *PgxLedgerRepository) loadSales(ctx context.Context, q querier, accountIDs []string) (map[string][]domain.Sale, error) {
	query := `
		SELECT sale_id, account_id, sale_date, due_date, total_minor, paid_minor
		FROM ledger_sales
		WHERE account_id = ANY($1)
		ORDER BY account_id, sale_date, sale_id;
	`
	rows, err := q.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	sales := make(map[string][]domain.Sale, len(accountIDs))
	for rows.Next() {
		var m models.LedgerSale
		if err := rows.Scan(&m.SaleID, &m.AccountID, &m.SaleDate, &m.DueDate, &m.TotalMinor, &m.PaidMinor); err != nil {
			return nil, fmt.Errorf("failed to scan sale row: %w", err)
		}
		sales[m.AccountID] = append(sales[m.AccountID], toDomainSale(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale rows: %w", err)
	}
	return sales, nil
}

// FindAccount retrieves an account and, for debtors, its sales.
func (r *PgxLedgerRepository) FindAccount(ctx context.Context, kind domain.AccountKind, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM ledger_accounts WHERE kind = $1 AND account_id = $2;`
	accounts, err := r.queryAccounts(ctx, r.Pool, query, string(kind), accountID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: %s account %s", apperrors.ErrNotFound, kind, accountID)
	}
	return &accounts[0], nil
}

// ListAccounts retrieves a page of accounts ordered by name and the total count.
func (r *PgxLedgerRepository) ListAccounts(ctx context.Context, kind domain.AccountKind, limit int, offset int) ([]domain.Account, int, error) {
	if offset < 0 || limit < 0 {
		return nil, 0, fmt.Errorf("%w: negative limit %d or offset %d", apperrors.ErrValidation, limit, offset)
	}
	var total int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_accounts WHERE kind = $1;`, string(kind)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count %s accounts: %w", kind, err)
	}

	query := `SELECT ` + accountColumns + `
		FROM ledger_accounts
		WHERE kind = $1
		ORDER BY name, account_id
		LIMIT $2 OFFSET $3;`
	accounts, err := r.queryAccounts(ctx, r.Pool, query, string(kind), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// SnapshotAccounts reads every account of a kind and their sales inside one
// repeatable-read transaction.
func (r *PgxLedgerRepository) SnapshotAccounts(ctx context.Context, kind domain.AccountKind) ([]domain.Account, error) {
	tx, err := r.BeginSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `SELECT ` + accountColumns + ` FROM ledger_accounts WHERE kind = $1 ORDER BY name, account_id;`
	accounts, err := r.queryAccounts(ctx, tx, query, string(kind))
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return accounts, nil
}

// ListSaleLedger retrieves debtor accounts with their sales.
func (r *PgxLedgerRepository) ListSaleLedger(ctx context.Context, debtorsOnly bool) ([]domain.Account, error) {
	tx, err := r.BeginSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `SELECT ` + accountColumns + `
		FROM ledger_accounts
		WHERE kind = $1 AND ($2 = FALSE OR balance_minor > 0)
		ORDER BY name, account_id;`
	accounts, err := r.queryAccounts(ctx, tx, query, string(domain.KindDebtor), debtorsOnly)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindPaymentByIdempotencyKey returns the entry recorded under key.
func (r *PgxLedgerRepository) FindPaymentByIdempotencyKey(ctx context.Context, key string) (*domain.PaymentEntry, error) {
	query := `SELECT ` + paymentColumns + ` FROM ledger_payments WHERE idempotency_key = $1;`
	m, err := scanPayment(r.Pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no payment with idempotency key %q", apperrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to find payment by idempotency key: %w", err)
	}
	entry := toDomainPayment(m)
	return &entry, nil
}

// ListPayments returns an account's payment entries, oldest first.
func (r *PgxLedgerRepository) ListPayments(ctx context.Context, kind domain.AccountKind, accountID string) ([]domain.PaymentEntry, error) {
	query := `SELECT ` + paymentColumns + `
		FROM ledger_payments
		WHERE kind = $1 AND account_id = $2
		ORDER BY paid_at, entry_id;`
	rows, err := r.Pool.Query(ctx, query, string(kind), accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for %s: %w", accountID, err)
	}
	defer rows.Close()

	entries := []domain.PaymentEntry{}
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		entries = append(entries, toDomainPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return entries, nil
}

// SaveAccount inserts a new account and its sale lines.
func (r *PgxLedgerRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := toModelAccount(account)
	query := `
		INSERT INTO ledger_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, query,
		m.AccountID,
		m.Kind,
		m.Name,
		m.ContactInfo,
		m.CurrencyCode,
		m.CreditTerms,
		m.BalanceMinor,
		m.DueDate,
		m.Status,
		m.LastPaymentDate,
		m.LastPaymentMinor,
		m.Version,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return fmt.Errorf("%w: %s account %s already exists", apperrors.ErrDuplicate, m.Kind, m.AccountID)
		}
		if isPgError(err, pgCheckViolation) {
			return fmt.Errorf("%w: account %s violates a ledger constraint", apperrors.ErrValidation, m.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}

	if len(account.Sales) > 0 {
		batch := &pgx.Batch{}
		saleQuery := `
			INSERT INTO ledger_sales (sale_id, account_id, sale_date, due_date, total_minor, paid_minor)
			VALUES ($1, $2, $3, $4, $5, $6);
		`
		for _, s := range account.Sales {
			var due any
			if !s.DueDate.IsZero() {
				due = s.DueDate
			}
			batch.Queue(saleQuery, s.SaleID, account.AccountID, s.SaleDate, due, s.TotalAmount.Minor(), s.PaidAmount.Minor())
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if isPgError(err, pgUniqueViolation) {
				return fmt.Errorf("%w: duplicate sale on account %s", apperrors.ErrDuplicate, account.AccountID)
			}
			return fmt.Errorf("failed to save sales for account %s: %w", account.AccountID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// CommitPayment applies the compare-and-swap write described by the port.
// The account row, its sale lines and the payment entry land in one transaction.
func (r *PgxLedgerRepository) CommitPayment(ctx context.Context, account domain.Account, expectedVersion int64, entry domain.PaymentEntry) (*domain.Account, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m := toModelAccount(account)
	updateQuery := `
		UPDATE ledger_accounts
		SET balance_minor = $1, status = $2, last_payment_date = $3, last_payment_minor = $4,
			last_updated_at = $5, version = version + 1
		WHERE kind = $6 AND account_id = $7 AND version = $8
		RETURNING version;
	`
	var newVersion int64
	err = tx.QueryRow(ctx, updateQuery,
		m.BalanceMinor,
		m.Status,
		m.LastPaymentDate,
		m.LastPaymentMinor,
		m.LastUpdatedAt,
		m.Kind,
		m.AccountID,
		expectedVersion,
	).Scan(&newVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.versionMissError(ctx, tx, account.Kind, account.AccountID, expectedVersion)
		}
		if isPgError(err, pgCheckViolation) {
			return nil, fmt.Errorf("%w: account %s violates a ledger constraint", apperrors.ErrValidation, m.AccountID)
		}
		return nil, fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}

	if len(account.Sales) > 0 {
		batch := &pgx.Batch{}
		saleQuery := `UPDATE ledger_sales SET paid_minor = $1 WHERE account_id = $2 AND sale_id = $3;`
		for _, s := range account.Sales {
			batch.Queue(saleQuery, s.PaidAmount.Minor(), account.AccountID, s.SaleID)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, fmt.Errorf("failed to update sales for account %s: %w", account.AccountID, err)
		}
	}

	p := toModelPayment(entry)
	paymentQuery := `
		INSERT INTO ledger_payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, paymentQuery,
		p.EntryID,
		p.AccountID,
		p.Kind,
		p.SaleID,
		p.AmountMinor,
		p.BalanceAfterMinor,
		p.SaleBalanceAfterMinor,
		p.IdempotencyKey,
		p.PaidAt,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return nil, fmt.Errorf("%w: idempotency key %q already recorded", apperrors.ErrDuplicate, p.IdempotencyKey)
		}
		return nil, fmt.Errorf("failed to insert payment %s: %w", p.EntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	committed := account.Clone()
	committed.Version = newVersion
	return &committed, nil
}

// versionMissError distinguishes a vanished account from a lost CAS race.
func (r *PgxLedgerRepository) versionMissError(ctx context.Context, q querier, kind domain.AccountKind, accountID string, expectedVersion int64) error {
	var current int64
	err := q.QueryRow(ctx, `SELECT version FROM ledger_accounts WHERE kind = $1 AND account_id = $2;`, string(kind), accountID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s account %s", apperrors.ErrNotFound, kind, accountID)
		}
		return fmt.Errorf("failed to read version of account %s: %w", accountID, err)
	}
	return fmt.Errorf("%w: account %s is at version %d, expected %d", apperrors.ErrConflict, accountID, current, expectedVersion)
}
