package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/KevalMGajjar/ExpenseTrackerBackend/types"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettlementMock(t *testing.T) (pgxmock.PgxPoolIface, *SettlementStore) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewSettlementStore(mock)
}

func settlementRowColumns() []string {
	return []string{
		"id", "group_id", "payer_id", "receiver_id", "amount",
		"currency_code", "created_by", "settled_at", "created_at",
	}
}

func TestSettlementStoreCreateSettlement(t *testing.T) {
	mock, s := newSettlementMock(t)
	settledAt := time.Now()

	mock.ExpectExec(`INSERT INTO settlements`).
		WithArgs("settlement-1", "group-1", "alice", "bob", "25.5", "USD", "alice", settledAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := s.CreateSettlement(context.Background(), &types.Settlement{
		ID:         "settlement-1",
		GroupID:    "group-1",
		PayerID:    "alice",
		ReceiverID: "bob",
		Amount:     usd(t, "25.50"),
		CreatedBy:  "alice",
		SettledAt:  settledAt,
	})
	require.NoError(t, err)
	assert.Equal(t, "settlement-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettlementStoreListGroupSettlements(t *testing.T) {
	mock, s := newSettlementMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT(.|\s)+FROM settlements`).
		WithArgs("group-1").
		WillReturnRows(pgxmock.NewRows(settlementRowColumns()).
			AddRow("settlement-2", "group-1", "bob", "alice", "5", "USD", "bob", now, now).
			AddRow("settlement-1", "group-1", "alice", "bob", "25.5", "USD", "alice", now, now))

	settlements, err := s.ListGroupSettlements(context.Background(), "group-1")
	require.NoError(t, err)
	require.Len(t, settlements, 2)
	assert.Equal(t, "settlement-2", settlements[0].ID)
	assert.Equal(t, "5 USD", settlements[0].Amount.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettlementStoreListPairSettlements(t *testing.T) {
	mock, s := newSettlementMock(t)
	now := time.Now()

	// Payments in both directions between the pair come back together.
	mock.ExpectQuery(`SELECT(.|\s)+FROM settlements`).
		WithArgs("alice", "bob").
		WillReturnRows(pgxmock.NewRows(settlementRowColumns()).
			AddRow("settlement-1", "", "alice", "bob", "10", "USD", "alice", now, now).
			AddRow("settlement-2", "", "bob", "alice", "4.25", "USD", "bob", now, now))

	settlements, err := s.ListPairSettlements(context.Background(), "alice", "bob")
	require.NoError(t, err)
	require.Len(t, settlements, 2)
	assert.Equal(t, "alice", settlements[0].PayerID)
	assert.Equal(t, "bob", settlements[1].PayerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
