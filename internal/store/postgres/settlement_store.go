package postgres

import (
	"context"

	"github.com/KevalMGajjar/ExpenseTrackerBackend/pkg/valueobjects"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/types"
	"github.com/jackc/pgx/v5"
)

// SettlementStore implements store.SettlementStore using PostgreSQL.
type SettlementStore struct {
	db DB
}

// NewSettlementStore creates a new SettlementStore instance
func NewSettlementStore(db DB) *SettlementStore {
	return &SettlementStore{db: db}
}

const settlementColumns = `
	id, COALESCE(group_id, ''), payer_id, receiver_id, amount::text,
	currency_code, created_by, settled_at, created_at`

// CreateSettlement inserts a settlement record and returns its ID.
func (s *SettlementStore) CreateSettlement(ctx context.Context, settlement *types.Settlement) (string, error) {
	query := `
		INSERT INTO settlements (id, group_id, payer_id, receiver_id, amount, currency_code, created_by, settled_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5::numeric, $6, $7, $8)`

	_, err := s.db.Exec(ctx, query,
		settlement.ID,
		settlement.GroupID,
		settlement.PayerID,
		settlement.ReceiverID,
		settlement.Amount.Amount().String(),
		string(settlement.Amount.Currency()),
		settlement.CreatedBy,
		settlement.SettledAt,
	)
	if err != nil {
		return "", err
	}

	return settlement.ID, nil
}

// ListGroupSettlements retrieves all settlements recorded in a group, newest first.
func (s *SettlementStore) ListGroupSettlements(ctx context.Context, groupID string) ([]*types.Settlement, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM settlements
		WHERE group_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSettlements(rows)
}

// ListPairSettlements retrieves all settlements between two users in either
// direction, newest first.
func (s *SettlementStore) ListPairSettlements(ctx context.Context, userA, userB string) ([]*types.Settlement, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM settlements
		WHERE (payer_id = $1 AND receiver_id = $2) OR (payer_id = $2 AND receiver_id = $1)
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSettlements(rows)
}

func scanSettlements(rows pgx.Rows) ([]*types.Settlement, error) {
	var settlements []*types.Settlement
	for rows.Next() {
		settlement := &types.Settlement{}
		var amount, currency string

		err := rows.Scan(
			&settlement.ID,
			&settlement.GroupID,
			&settlement.PayerID,
			&settlement.ReceiverID,
			&amount,
			&currency,
			&settlement.CreatedBy,
			&settlement.SettledAt,
			&settlement.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		money, err := valueobjects.NewMoneyFromString(amount, currency)
		if err != nil {
			return nil, err
		}
		settlement.Amount = *money

		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return settlements, nil
}
