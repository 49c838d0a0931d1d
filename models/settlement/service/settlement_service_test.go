package service

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/KevalMGajjar/ExpenseTrackerBackend/errors"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/internal/store/mocks"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/pkg/valueobjects"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubLedger struct {
	err   error
	calls int
}

func (l *stubLedger) SettleUp(context.Context, string, string, valueobjects.Money) error {
	l.calls++
	return l.err
}

func usd(t *testing.T, amount string) valueobjects.Money {
	t.Helper()
	m, err := valueobjects.NewMoneyFromString(amount, "USD")
	require.NoError(t, err)
	return *m
}

func sampleSettlement(t *testing.T) *types.Settlement {
	t.Helper()
	return &types.Settlement{
		GroupID:    "group-1",
		PayerID:    "alice",
		ReceiverID: "bob",
		Amount:     usd(t, "25.50"),
		CreatedBy:  "alice",
	}
}

func TestRecordSettlement(t *testing.T) {
	ctx := context.Background()

	t.Run("settles the ledger then persists the record", func(t *testing.T) {
		settlementStore := new(mocks.SettlementStore)
		ledger := &stubLedger{}
		svc := NewSettlementService(settlementStore, ledger)

		settlementStore.On("CreateSettlement", ctx, mock.AnythingOfType("*types.Settlement")).
			Return("settlement-1", nil)

		recorded, err := svc.RecordSettlement(ctx, sampleSettlement(t))
		require.NoError(t, err)

		assert.Equal(t, 1, ledger.calls)
		assert.NotEmpty(t, recorded.ID)
		assert.False(t, recorded.SettledAt.IsZero())
		assert.False(t, recorded.CreatedAt.IsZero())
		settlementStore.AssertExpectations(t)
	})

	t.Run("ledger failure persists nothing", func(t *testing.T) {
		settlementStore := new(mocks.SettlementStore)
		ledger := &stubLedger{err: apperrors.NoRelationship("alice", "bob")}
		svc := NewSettlementService(settlementStore, ledger)

		_, err := svc.RecordSettlement(ctx, sampleSettlement(t))
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.RelationshipNotFound, appErr.Type)
		settlementStore.AssertNotCalled(t, "CreateSettlement", mock.Anything, mock.Anything)
	})

	t.Run("store failure after ledger move is surfaced", func(t *testing.T) {
		settlementStore := new(mocks.SettlementStore)
		settlementStore.On("CreateSettlement", ctx, mock.AnythingOfType("*types.Settlement")).
			Return("", errors.New("insert failed"))
		svc := NewSettlementService(settlementStore, &stubLedger{})

		_, err := svc.RecordSettlement(ctx, sampleSettlement(t))
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.DatabaseError, appErr.Type)
	})

	t.Run("missing participants rejected before the ledger", func(t *testing.T) {
		ledger := &stubLedger{}
		svc := NewSettlementService(new(mocks.SettlementStore), ledger)

		settlement := sampleSettlement(t)
		settlement.ReceiverID = ""

		_, err := svc.RecordSettlement(ctx, settlement)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ValidationError, appErr.Type)
		assert.Zero(t, ledger.calls)
	})

	t.Run("nil settlement rejected", func(t *testing.T) {
		svc := NewSettlementService(new(mocks.SettlementStore), &stubLedger{})

		_, err := svc.RecordSettlement(ctx, nil)
		assert.Error(t, err)
	})
}

func TestListSettlements(t *testing.T) {
	ctx := context.Background()
	history := []*types.Settlement{sampleSettlement(t)}

	t.Run("by group", func(t *testing.T) {
		settlementStore := new(mocks.SettlementStore)
		settlementStore.On("ListGroupSettlements", ctx, "group-1").Return(history, nil)
		svc := NewSettlementService(settlementStore, &stubLedger{})

		got, err := svc.ListGroupSettlements(ctx, "group-1")
		require.NoError(t, err)
		assert.Equal(t, history, got)
	})

	t.Run("by pair", func(t *testing.T) {
		settlementStore := new(mocks.SettlementStore)
		settlementStore.On("ListPairSettlements", ctx, "alice", "bob").Return(history, nil)
		svc := NewSettlementService(settlementStore, &stubLedger{})

		got, err := svc.ListPairSettlements(ctx, "alice", "bob")
		require.NoError(t, err)
		assert.Equal(t, history, got)
	})
}
