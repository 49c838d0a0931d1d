package postgres

import (
	"context"
	"errors"

	"github.com/KevalMGajjar/ExpenseTrackerBackend/internal/store"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/pkg/valueobjects"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the stores rely on. pgxmock satisfies it,
// which lets store tests run against an expectation-driven pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolation = "23505"

// LedgerStore implements store.LedgerStore using PostgreSQL. Both directed
// rows of a relationship are always written inside one transaction; the
// per-row `balance = balance +/- $n` updates take row locks, so concurrent
// mutations of the same pair serialize instead of overwriting one another.
type LedgerStore struct {
	db DB
}

// NewLedgerStore creates a new LedgerStore instance
func NewLedgerStore(db DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// GetEntry retrieves the directed balance row owned by ownerID for counterpartID.
func (s *LedgerStore) GetEntry(ctx context.Context, ownerID, counterpartID string) (*types.LedgerEntry, error) {
	query := `
		SELECT owner_id, counterpart_id, balance::text, currency_code, created_at, updated_at
		FROM ledger_entries
		WHERE owner_id = $1 AND counterpart_id = $2`

	return scanEntry(s.db.QueryRow(ctx, query, ownerID, counterpartID))
}

// ListEntries retrieves all balance rows owned by ownerID.
func (s *LedgerStore) ListEntries(ctx context.Context, ownerID string) ([]*types.LedgerEntry, error) {
	query := `
		SELECT owner_id, counterpart_id, balance::text, currency_code, created_at, updated_at
		FROM ledger_entries
		WHERE owner_id = $1
		ORDER BY counterpart_id`

	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*types.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// CreateRelationship inserts the two complementary zero-balance rows linking
// userA and userB. A single multi-row INSERT keeps the pair atomic.
func (s *LedgerStore) CreateRelationship(ctx context.Context, userA, userB string) error {
	query := `
		INSERT INTO ledger_entries (owner_id, counterpart_id)
		VALUES ($1, $2), ($2, $1)`

	_, err := s.db.Exec(ctx, query, userA, userB)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return store.ErrConflict
		}
		return err
	}

	return nil
}

// ApplyShifts applies every balance shift inside one transaction. Rows that
// do not exist are skipped: split propagation may legitimately touch
// relationships that are not materialized in both directions.
func (s *LedgerStore) ApplyShifts(ctx context.Context, shifts []store.BalanceShift) error {
	if len(shifts) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, shift := range shifts {
		if _, err := applyShiftTx(ctx, tx, shift); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// SettleBalance applies a direct payment. Both rows must exist; otherwise the
// transaction rolls back with store.ErrNotFound and nothing is written.
func (s *LedgerStore) SettleBalance(ctx context.Context, payerID, receiverID string, amount valueobjects.Money) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// A payment plays out as the inverse of a debt shift: the payer's balance
	// with the receiver rises, the receiver's falls.
	updated, err := applyShiftTx(ctx, tx, store.BalanceShift{
		DebtorID:   payerID,
		CreditorID: receiverID,
		Amount:     amount.Negate(),
	})
	if err != nil {
		return err
	}
	if updated != 2 {
		return store.ErrNotFound
	}

	return tx.Commit(ctx)
}

// applyShiftTx updates both directed rows of one relationship and reports how
// many rows existed. The debtor's row with the creditor decreases by the
// shift amount, the creditor's row with the debtor increases by it.
func applyShiftTx(ctx context.Context, tx pgx.Tx, shift store.BalanceShift) (int64, error) {
	debtorUpdate := `
		UPDATE ledger_entries
		SET balance = balance - $3::numeric, updated_at = NOW()
		WHERE owner_id = $1 AND counterpart_id = $2`

	creditorUpdate := `
		UPDATE ledger_entries
		SET balance = balance + $3::numeric, updated_at = NOW()
		WHERE owner_id = $1 AND counterpart_id = $2`

	amount := shift.Amount.Amount().String()

	debtorTag, err := tx.Exec(ctx, debtorUpdate, shift.DebtorID, shift.CreditorID, amount)
	if err != nil {
		return 0, err
	}

	creditorTag, err := tx.Exec(ctx, creditorUpdate, shift.CreditorID, shift.DebtorID, amount)
	if err != nil {
		return 0, err
	}

	return debtorTag.RowsAffected() + creditorTag.RowsAffected(), nil
}

// scanEntry builds a LedgerEntry from a row, converting the numeric balance
// through its exact text form.
func scanEntry(row pgx.Row) (*types.LedgerEntry, error) {
	entry := &types.LedgerEntry{}
	var balance, currency string

	err := row.Scan(
		&entry.OwnerID,
		&entry.CounterpartID,
		&balance,
		&currency,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	money, err := valueobjects.NewMoneyFromString(balance, currency)
	if err != nil {
		return nil, err
	}
	entry.Balance = *money

	return entry, nil
}
