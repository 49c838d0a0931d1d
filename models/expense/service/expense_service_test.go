package service

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/KevalMGajjar/ExpenseTrackerBackend/errors"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/internal/store"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/internal/store/mocks"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/pkg/valueobjects"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recordingLedger captures the split batches the service forwards to the
// balance ledger.
type recordingLedger struct {
	processed  [][]types.Split
	reversed   [][]types.Split
	processErr error
	reverseErr error
}

func (l *recordingLedger) ProcessSplits(_ context.Context, splits []types.Split) error {
	if l.processErr != nil {
		return l.processErr
	}
	l.processed = append(l.processed, splits)
	return nil
}

func (l *recordingLedger) ReverseSplits(_ context.Context, splits []types.Split) error {
	if l.reverseErr != nil {
		return l.reverseErr
	}
	l.reversed = append(l.reversed, splits)
	return nil
}

func (l *recordingLedger) SettleUp(context.Context, string, string, valueobjects.Money) error {
	return nil
}

type stubSimplifier struct {
	plan []types.Transaction
	err  error
}

func (s *stubSimplifier) SimplifyDebts([]*types.Expense) ([]types.Transaction, error) {
	return s.plan, s.err
}

func usd(t *testing.T, amount string) valueobjects.Money {
	t.Helper()
	m, err := valueobjects.NewMoneyFromString(amount, "USD")
	require.NoError(t, err)
	return *m
}

func sampleExpense(t *testing.T) *types.Expense {
	t.Helper()
	return &types.Expense{
		GroupID:       "group-1",
		CreatedBy:     "alice",
		Description:   "Dinner",
		TotalAmount:   usd(t, "60.00"),
		SplitType:     "EQUAL",
		PaidByUserIDs: []string{"alice"},
		Participants:  []string{"alice", "bob", "carol"},
		Splits: []types.Split{
			{OwedByUserID: "bob", OwedToUserID: "alice", OwedAmount: usd(t, "20.00")},
			{OwedByUserID: "carol", OwedToUserID: "alice", OwedAmount: usd(t, "20.00")},
		},
	}
}

func TestCreateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("persists then propagates splits", func(t *testing.T) {
		expenseStore := new(mocks.ExpenseStore)
		ledger := &recordingLedger{}
		svc := NewExpenseService(expenseStore, ledger, &stubSimplifier{})

		expenseStore.On("CreateExpense", ctx, mock.AnythingOfType("*types.Expense")).
			Return("expense-1", nil)

		created, err := svc.CreateExpense(ctx, sampleExpense(t))
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.False(t, created.ExpenseDate.IsZero())
		for _, split := range created.Splits {
			assert.NotEmpty(t, split.ID)
			assert.Equal(t, created.ID, split.ExpenseID)
		}

		require.Len(t, ledger.processed, 1)
		assert.Equal(t, created.Splits, ledger.processed[0])
		expenseStore.AssertExpectations(t)
	})

	t.Run("validation failures never reach the store", func(t *testing.T) {
		expenseStore := new(mocks.ExpenseStore)
		svc := NewExpenseService(expenseStore, &recordingLedger{}, &stubSimplifier{})

		tests := []struct {
			name   string
			mutate func(*types.Expense)
		}{
			{"missing creator", func(e *types.Expense) { e.CreatedBy = "" }},
			{"zero total", func(e *types.Expense) { e.TotalAmount = valueobjects.Zero(valueobjects.USD) }},
			{"no splits", func(e *types.Expense) { e.Splits = nil }},
			{"self split", func(e *types.Expense) { e.Splits[0].OwedToUserID = e.Splits[0].OwedByUserID }},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				expense := sampleExpense(t)
				tc.mutate(expense)

				_, err := svc.CreateExpense(ctx, expense)
				var appErr *apperrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, apperrors.ValidationError, appErr.Type)
			})
		}

		expenseStore.AssertNotCalled(t, "CreateExpense", mock.Anything, mock.Anything)
	})

	t.Run("ledger failure after persist is surfaced", func(t *testing.T) {
		expenseStore := new(mocks.ExpenseStore)
		ledger := &recordingLedger{processErr: apperrors.NewDatabaseError(errors.New("boom"))}
		svc := NewExpenseService(expenseStore, ledger, &stubSimplifier{})

		expenseStore.On("CreateExpense", ctx, mock.AnythingOfType("*types.Expense")).
			Return("expense-1", nil)

		_, err := svc.CreateExpense(ctx, sampleExpense(t))
		assert.Error(t, err)
	})
}

func TestUpdateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("reverses old splits before applying new ones", func(t *testing.T) {
		stored := sampleExpense(t)
		stored.ID = "expense-1"
		oldSplits := append([]types.Split(nil), stored.Splits...)

		expenseStore := new(mocks.ExpenseStore)
		ledger := &recordingLedger{}
		svc := NewExpenseService(expenseStore, ledger, &stubSimplifier{})

		expenseStore.On("GetExpense", ctx, "expense-1").Return(stored, nil)
		expenseStore.On("UpdateExpense", ctx, mock.AnythingOfType("*types.Expense")).Return(nil)

		newSplits := []types.Split{
			{OwedByUserID: "bob", OwedToUserID: "alice", OwedAmount: usd(t, "30.00")},
		}
		updated, err := svc.UpdateExpense(ctx, "expense-1", &types.UpdateExpenseParams{Splits: newSplits})
		require.NoError(t, err)

		require.Len(t, ledger.reversed, 1)
		assert.Equal(t, oldSplits, ledger.reversed[0])
		require.Len(t, ledger.processed, 1)
		assert.Equal(t, updated.Splits, ledger.processed[0])
		assert.Equal(t, "expense-1", updated.Splits[0].ExpenseID)
		expenseStore.AssertExpectations(t)
	})

	t.Run("edit without a split set is rejected", func(t *testing.T) {
		svc := NewExpenseService(new(mocks.ExpenseStore), &recordingLedger{}, &stubSimplifier{})

		_, err := svc.UpdateExpense(ctx, "expense-1", &types.UpdateExpenseParams{})
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ValidationError, appErr.Type)
	})

	t.Run("unknown expense reports expense not found", func(t *testing.T) {
		expenseStore := new(mocks.ExpenseStore)
		expenseStore.On("GetExpense", ctx, "nope").Return(nil, store.ErrNotFound)
		svc := NewExpenseService(expenseStore, &recordingLedger{}, &stubSimplifier{})

		_, err := svc.UpdateExpense(ctx, "nope", &types.UpdateExpenseParams{Splits: []types.Split{}})
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ExpenseNotFoundError, appErr.Type)
	})

	t.Run("reverse failure leaves the stored expense untouched", func(t *testing.T) {
		stored := sampleExpense(t)
		stored.ID = "expense-1"

		expenseStore := new(mocks.ExpenseStore)
		expenseStore.On("GetExpense", ctx, "expense-1").Return(stored, nil)
		ledger := &recordingLedger{reverseErr: apperrors.NewDatabaseError(errors.New("boom"))}
		svc := NewExpenseService(expenseStore, ledger, &stubSimplifier{})

		_, err := svc.UpdateExpense(ctx, "expense-1", &types.UpdateExpenseParams{
			Splits: []types.Split{
				{OwedByUserID: "bob", OwedToUserID: "alice", OwedAmount: usd(t, "30.00")},
			},
		})
		assert.Error(t, err)
		expenseStore.AssertNotCalled(t, "UpdateExpense", mock.Anything, mock.Anything)
	})
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("reverses splits then soft-deletes", func(t *testing.T) {
		stored := sampleExpense(t)
		stored.ID = "expense-1"

		expenseStore := new(mocks.ExpenseStore)
		expenseStore.On("GetExpense", ctx, "expense-1").Return(stored, nil)
		expenseStore.On("DeleteExpense", ctx, "expense-1").Return(nil)
		ledger := &recordingLedger{}
		svc := NewExpenseService(expenseStore, ledger, &stubSimplifier{})

		require.NoError(t, svc.DeleteExpense(ctx, "expense-1"))

		require.Len(t, ledger.reversed, 1)
		assert.Equal(t, stored.Splits, ledger.reversed[0])
		expenseStore.AssertExpectations(t)
	})

	t.Run("unknown expense reports expense not found", func(t *testing.T) {
		expenseStore := new(mocks.ExpenseStore)
		expenseStore.On("GetExpense", ctx, "nope").Return(nil, store.ErrNotFound)
		svc := NewExpenseService(expenseStore, &recordingLedger{}, &stubSimplifier{})

		err := svc.DeleteExpense(ctx, "nope")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ExpenseNotFoundError, appErr.Type)
	})
}

func TestSimplifyGroupDebts(t *testing.T) {
	ctx := context.Background()

	expenses := []*types.Expense{sampleExpense(t)}
	plan := []types.Transaction{
		{FromUserID: "bob", ToUserID: "alice", Amount: usd(t, "20.00")},
	}

	expenseStore := new(mocks.ExpenseStore)
	expenseStore.On("ListGroupExpenses", ctx, "group-1").Return(expenses, nil)
	svc := NewExpenseService(expenseStore, &recordingLedger{}, &stubSimplifier{plan: plan})

	got, err := svc.SimplifyGroupDebts(ctx, "group-1")
	require.NoError(t, err)
	assert.Equal(t, plan, got)
	expenseStore.AssertExpectations(t)
}

func TestListExpenses(t *testing.T) {
	ctx := context.Background()
	expenses := []*types.Expense{sampleExpense(t)}

	t.Run("by group", func(t *testing.T) {
		expenseStore := new(mocks.ExpenseStore)
		expenseStore.On("ListGroupExpenses", ctx, "group-1").Return(expenses, nil)
		svc := NewExpenseService(expenseStore, &recordingLedger{}, &stubSimplifier{})

		got, err := svc.ListGroupExpenses(ctx, "group-1")
		require.NoError(t, err)
		assert.Equal(t, expenses, got)
	})

	t.Run("by user", func(t *testing.T) {
		expenseStore := new(mocks.ExpenseStore)
		expenseStore.On("ListUserExpenses", ctx, "bob").Return(expenses, nil)
		svc := NewExpenseService(expenseStore, &recordingLedger{}, &stubSimplifier{})

		got, err := svc.ListUserExpenses(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, expenses, got)
	})
}
