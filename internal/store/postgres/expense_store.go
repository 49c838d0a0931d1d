package postgres

import (
	"context"
	"errors"

	"github.com/KevalMGajjar/ExpenseTrackerBackend/internal/store"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/pkg/valueobjects"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/types"
	"github.com/jackc/pgx/v5"
)

// ExpenseStore implements store.ExpenseStore using PostgreSQL. An expense and
// its splits are always written together in one transaction.
type ExpenseStore struct {
	db DB
}

// NewExpenseStore creates a new ExpenseStore instance
func NewExpenseStore(db DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

const expenseColumns = `
	id, COALESCE(group_id, ''), created_by, description, total_amount::text,
	currency_code, split_type, paid_by_user_ids, participants, is_deleted,
	expense_date, created_at, updated_at`

// CreateExpense inserts the expense and all its splits in one transaction.
func (s *ExpenseStore) CreateExpense(ctx context.Context, expense *types.Expense) (string, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO expenses (id, group_id, created_by, description, total_amount,
			currency_code, split_type, paid_by_user_ids, participants, expense_date)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5::numeric, $6, $7, $8, $9, $10)`

	_, err = tx.Exec(ctx, query,
		expense.ID,
		expense.GroupID,
		expense.CreatedBy,
		expense.Description,
		expense.TotalAmount.Amount().String(),
		string(expense.TotalAmount.Currency()),
		expense.SplitType,
		expense.PaidByUserIDs,
		expense.Participants,
		expense.ExpenseDate,
	)
	if err != nil {
		return "", err
	}

	if err := insertSplitsTx(ctx, tx, expense.ID, expense.Splits); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}

	return expense.ID, nil
}

// GetExpense retrieves a non-deleted expense with its splits.
func (s *ExpenseStore) GetExpense(ctx context.Context, id string) (*types.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE id = $1 AND is_deleted = FALSE`

	expense, err := scanExpense(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	splits, err := s.loadSplits(ctx, id)
	if err != nil {
		return nil, err
	}
	expense.Splits = splits

	return expense, nil
}

// ListGroupExpenses retrieves all non-deleted expenses of a group, newest first.
func (s *ExpenseStore) ListGroupExpenses(ctx context.Context, groupID string) ([]*types.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE group_id = $1 AND is_deleted = FALSE
		ORDER BY created_at DESC`

	return s.listExpenses(ctx, query, groupID)
}

// ListUserExpenses retrieves all non-deleted expenses a user participates in,
// newest first.
func (s *ExpenseStore) ListUserExpenses(ctx context.Context, userID string) ([]*types.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE $1 = ANY(participants) AND is_deleted = FALSE
		ORDER BY created_at DESC`

	return s.listExpenses(ctx, query, userID)
}

// UpdateExpense replaces the stored expense and its split set in one
// transaction.
func (s *ExpenseStore) UpdateExpense(ctx context.Context, expense *types.Expense) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE expenses
		SET group_id = NULLIF($2, ''),
			description = $3,
			total_amount = $4::numeric,
			currency_code = $5,
			split_type = $6,
			paid_by_user_ids = $7,
			participants = $8,
			updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`

	tag, err := tx.Exec(ctx, query,
		expense.ID,
		expense.GroupID,
		expense.Description,
		expense.TotalAmount.Amount().String(),
		string(expense.TotalAmount.Currency()),
		expense.SplitType,
		expense.PaidByUserIDs,
		expense.Participants,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM expense_splits WHERE expense_id = $1`, expense.ID); err != nil {
		return err
	}

	if err := insertSplitsTx(ctx, tx, expense.ID, expense.Splits); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeleteExpense soft-deletes an expense. Its splits stay in place so an edit
// history remains reconstructible.
func (s *ExpenseStore) DeleteExpense(ctx context.Context, id string) error {
	query := `
		UPDATE expenses
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`

	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (s *ExpenseStore) listExpenses(ctx context.Context, query string, arg any) ([]*types.Expense, error) {
	rows, err := s.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*types.Expense
	byID := make(map[string]*types.Expense)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(expenses) == 0 {
		return expenses, nil
	}

	ids := make([]string, 0, len(expenses))
	for _, expense := range expenses {
		ids = append(ids, expense.ID)
	}

	splitQuery := `
		SELECT id, expense_id, owed_by_user_id, owed_to_user_id, owed_amount::text, currency_code
		FROM expense_splits
		WHERE expense_id = ANY($1)
		ORDER BY id`

	splitRows, err := s.db.Query(ctx, splitQuery, ids)
	if err != nil {
		return nil, err
	}
	defer splitRows.Close()

	for splitRows.Next() {
		split, err := scanSplit(splitRows)
		if err != nil {
			return nil, err
		}
		if expense, ok := byID[split.ExpenseID]; ok {
			expense.Splits = append(expense.Splits, *split)
		}
	}
	if err = splitRows.Err(); err != nil {
		return nil, err
	}

	return expenses, nil
}

func (s *ExpenseStore) loadSplits(ctx context.Context, expenseID string) ([]types.Split, error) {
	query := `
		SELECT id, expense_id, owed_by_user_id, owed_to_user_id, owed_amount::text, currency_code
		FROM expense_splits
		WHERE expense_id = $1
		ORDER BY id`

	rows, err := s.db.Query(ctx, query, expenseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var splits []types.Split
	for rows.Next() {
		split, err := scanSplit(rows)
		if err != nil {
			return nil, err
		}
		splits = append(splits, *split)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return splits, nil
}

func insertSplitsTx(ctx context.Context, tx pgx.Tx, expenseID string, splits []types.Split) error {
	query := `
		INSERT INTO expense_splits (id, expense_id, owed_by_user_id, owed_to_user_id, owed_amount, currency_code)
		VALUES ($1, $2, $3, $4, $5::numeric, $6)`

	for _, split := range splits {
		_, err := tx.Exec(ctx, query,
			split.ID,
			expenseID,
			split.OwedByUserID,
			split.OwedToUserID,
			split.OwedAmount.Amount().String(),
			string(split.OwedAmount.Currency()),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func scanExpense(row pgx.Row) (*types.Expense, error) {
	expense := &types.Expense{}
	var total, currency string

	err := row.Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.CreatedBy,
		&expense.Description,
		&total,
		&currency,
		&expense.SplitType,
		&expense.PaidByUserIDs,
		&expense.Participants,
		&expense.Deleted,
		&expense.ExpenseDate,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	money, err := valueobjects.NewMoneyFromString(total, currency)
	if err != nil {
		return nil, err
	}
	expense.TotalAmount = *money

	return expense, nil
}

func scanSplit(row pgx.Row) (*types.Split, error) {
	split := &types.Split{}
	var amount, currency string

	err := row.Scan(
		&split.ID,
		&split.ExpenseID,
		&split.OwedByUserID,
		&split.OwedToUserID,
		&amount,
		&currency,
	)
	if err != nil {
		return nil, err
	}

	money, err := valueobjects.NewMoneyFromString(amount, currency)
	if err != nil {
		return nil, err
	}
	split.OwedAmount = *money

	return split, nil
}
