// Package service implements the expense lifecycle on top of the expense
// store and the balance ledger: recording an expense propagates its splits to
// the ledger, editing reverses the old splits before applying the new ones,
// and deleting reverses them entirely.
package service

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/KevalMGajjar/ExpenseTrackerBackend/errors"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/internal/store"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/logger"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/pkg/valueobjects"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BalanceLedger applies split-driven and settlement-driven mutations to the
// balance ledger.
type BalanceLedger interface {
	ProcessSplits(ctx context.Context, splits []types.Split) error
	ReverseSplits(ctx context.Context, splits []types.Split) error
	SettleUp(ctx context.Context, payerID, receiverID string, amount valueobjects.Money) error
}

// DebtSimplifier produces an advisory settlement plan from an expense set.
type DebtSimplifier interface {
	SimplifyDebts(expenses []*types.Expense) ([]types.Transaction, error)
}

// ExpenseService manages expense aggregates and keeps the balance ledger in
// step with them.
type ExpenseService struct {
	expenseStore store.ExpenseStore
	ledger       BalanceLedger
	simplifier   DebtSimplifier
	log          *zap.SugaredLogger
}

// NewExpenseService creates a new ExpenseService instance
func NewExpenseService(expenseStore store.ExpenseStore, ledger BalanceLedger, simplifier DebtSimplifier) *ExpenseService {
	return &ExpenseService{
		expenseStore: expenseStore,
		ledger:       ledger,
		simplifier:   simplifier,
		log:          logger.GetLogger(),
	}
}

// CreateExpense validates and persists a new expense, then propagates its
// splits to the balance ledger. Missing IDs and timestamps are filled in.
func (s *ExpenseService) CreateExpense(ctx context.Context, expense *types.Expense) (*types.Expense, error) {
	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	if expense.ExpenseDate.IsZero() {
		expense.ExpenseDate = now
	}
	expense.CreatedAt = now
	expense.UpdatedAt = now
	assignSplitIDs(expense)

	if _, err := s.expenseStore.CreateExpense(ctx, expense); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	if err := s.ledger.ProcessSplits(ctx, expense.Splits); err != nil {
		// The expense row exists but the ledger was not updated; surface the
		// failure instead of hiding a half-applied expense.
		s.log.Errorw("Expense persisted but splits not applied to ledger",
			"expenseId", expense.ID, "error", err)
		return nil, err
	}

	s.log.Infow("Created expense",
		"expenseId", expense.ID,
		"groupId", expense.GroupID,
		"total", expense.TotalAmount.String(),
		"splits", len(expense.Splits))
	return expense, nil
}

// UpdateExpense replaces an expense with its edited form. The previous splits
// are reversed on the ledger before the replacement set is applied, so the
// ledger only ever reflects the latest edit. An edit must always carry the
// full replacement split set.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id string, params *types.UpdateExpenseParams) (*types.Expense, error) {
	if params == nil || params.Splits == nil {
		return nil, apperrors.ValidationFailed(
			"invalid expense update",
			"an edit must supply the replacement split set",
		)
	}

	expense, err := s.getExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.ReverseSplits(ctx, expense.Splits); err != nil {
		return nil, err
	}

	applyUpdate(expense, params)
	if err := validateExpense(expense); err != nil {
		return nil, err
	}
	assignSplitIDs(expense)
	expense.UpdatedAt = time.Now().UTC()

	if err := s.expenseStore.UpdateExpense(ctx, expense); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ExpenseNotFound(id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	if err := s.ledger.ProcessSplits(ctx, expense.Splits); err != nil {
		return nil, err
	}

	s.log.Infow("Updated expense", "expenseId", id, "splits", len(expense.Splits))
	return expense, nil
}

// DeleteExpense reverses the expense's splits on the ledger and soft-deletes
// the expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	expense, err := s.getExpense(ctx, id)
	if err != nil {
		return err
	}

	if err := s.ledger.ReverseSplits(ctx, expense.Splits); err != nil {
		return err
	}

	if err := s.expenseStore.DeleteExpense(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.ExpenseNotFound(id)
		}
		return apperrors.NewDatabaseError(err)
	}

	s.log.Infow("Deleted expense", "expenseId", id)
	return nil
}

// GetExpense returns a single non-deleted expense with its splits.
func (s *ExpenseService) GetExpense(ctx context.Context, id string) (*types.Expense, error) {
	return s.getExpense(ctx, id)
}

// ListGroupExpenses returns all non-deleted expenses of a group.
func (s *ExpenseService) ListGroupExpenses(ctx context.Context, groupID string) ([]*types.Expense, error) {
	expenses, err := s.expenseStore.ListGroupExpenses(ctx, groupID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return expenses, nil
}

// ListUserExpenses returns all non-deleted expenses a user participates in.
func (s *ExpenseService) ListUserExpenses(ctx context.Context, userID string) ([]*types.Expense, error) {
	expenses, err := s.expenseStore.ListUserExpenses(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return expenses, nil
}

// SimplifyGroupDebts loads the group's expense history and returns the
// advisory settlement plan for it. No ledger row is mutated: the caller
// decides whether and how to act on the plan.
func (s *ExpenseService) SimplifyGroupDebts(ctx context.Context, groupID string) ([]types.Transaction, error) {
	expenses, err := s.expenseStore.ListGroupExpenses(ctx, groupID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	return s.simplifier.SimplifyDebts(expenses)
}

func (s *ExpenseService) getExpense(ctx context.Context, id string) (*types.Expense, error) {
	expense, err := s.expenseStore.GetExpense(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ExpenseNotFound(id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return expense, nil
}

func validateExpense(expense *types.Expense) error {
	if expense == nil {
		return apperrors.ValidationFailed("invalid expense", "expense is required")
	}
	if expense.CreatedBy == "" {
		return apperrors.ValidationFailed("invalid expense", "createdByUserId is required")
	}
	if result := expense.TotalAmount.Validate(); !result.Valid {
		return apperrors.ValidationFailed("invalid expense total", result.Message)
	}
	if !expense.TotalAmount.IsPositive() {
		return apperrors.ValidationFailed("invalid expense total", "total must be greater than zero")
	}
	if len(expense.Splits) == 0 {
		return apperrors.ValidationFailed("invalid expense", "at least one split is required")
	}

	for _, split := range expense.Splits {
		if split.OwedByUserID == split.OwedToUserID {
			return apperrors.ValidationFailed(
				"invalid split",
				"debtor and creditor must be different users",
			)
		}
		if result := split.OwedAmount.Validate(); !result.Valid {
			return apperrors.ValidationFailed("invalid split amount", result.Message)
		}
	}

	return nil
}

func applyUpdate(expense *types.Expense, params *types.UpdateExpenseParams) {
	if params.Description != nil {
		expense.Description = *params.Description
	}
	if params.TotalAmount != nil {
		expense.TotalAmount = *params.TotalAmount
	}
	if params.SplitType != nil {
		expense.SplitType = *params.SplitType
	}
	if params.GroupID != nil {
		expense.GroupID = *params.GroupID
	}
	if params.PaidByUserIDs != nil {
		expense.PaidByUserIDs = params.PaidByUserIDs
	}
	if params.Participants != nil {
		expense.Participants = params.Participants
	}
	expense.Splits = params.Splits
}

func assignSplitIDs(expense *types.Expense) {
	for i := range expense.Splits {
		if expense.Splits[i].ID == "" {
			expense.Splits[i].ID = uuid.NewString()
		}
		expense.Splits[i].ExpenseID = expense.ID
	}
}
