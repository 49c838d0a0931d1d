// Package service records direct settlements: the ledger mutation and the
// settlement history row belong to one logical operation.
package service

import (
	"context"
	"time"

	apperrors "github.com/KevalMGajjar/ExpenseTrackerBackend/errors"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/internal/store"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/logger"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/pkg/valueobjects"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BalanceLedger is the slice of the balance service needed to apply a
// settlement to the ledger.
type BalanceLedger interface {
	SettleUp(ctx context.Context, payerID, receiverID string, amount valueobjects.Money) error
}

// SettlementService validates and records direct payments between users.
type SettlementService struct {
	settlementStore store.SettlementStore
	ledger          BalanceLedger
	log             *zap.SugaredLogger
}

// NewSettlementService creates a new SettlementService instance
func NewSettlementService(settlementStore store.SettlementStore, ledger BalanceLedger) *SettlementService {
	return &SettlementService{
		settlementStore: settlementStore,
		ledger:          ledger,
		log:             logger.GetLogger(),
	}
}

// RecordSettlement applies the payment to the balance ledger and persists the
// settlement record. The ledger mutation is strict: if the two users are not
// linked it fails with a relationship-not-found error and no record is
// written.
func (s *SettlementService) RecordSettlement(ctx context.Context, settlement *types.Settlement) (*types.Settlement, error) {
	if settlement == nil {
		return nil, apperrors.ValidationFailed("invalid settlement", "settlement is required")
	}
	if settlement.PayerID == "" || settlement.ReceiverID == "" {
		return nil, apperrors.ValidationFailed("invalid settlement", "payerId and receiverId are required")
	}

	// SettleUp revalidates the pair and the amount; it must succeed before
	// anything is persisted.
	if err := s.ledger.SettleUp(ctx, settlement.PayerID, settlement.ReceiverID, settlement.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if settlement.ID == "" {
		settlement.ID = uuid.NewString()
	}
	if settlement.SettledAt.IsZero() {
		settlement.SettledAt = now
	}
	settlement.CreatedAt = now

	if _, err := s.settlementStore.CreateSettlement(ctx, settlement); err != nil {
		// The ledger already moved; losing the history row is an error the
		// caller must see, not a condition to roll back silently.
		s.log.Errorw("Ledger settled but settlement record not persisted",
			"settlementId", settlement.ID, "error", err)
		return nil, apperrors.NewDatabaseError(err)
	}

	s.log.Infow("Recorded settlement",
		"settlementId", settlement.ID,
		"payerId", settlement.PayerID,
		"receiverId", settlement.ReceiverID,
		"amount", settlement.Amount.String())
	return settlement, nil
}

// ListGroupSettlements returns the settlement history of a group.
func (s *SettlementService) ListGroupSettlements(ctx context.Context, groupID string) ([]*types.Settlement, error) {
	settlements, err := s.settlementStore.ListGroupSettlements(ctx, groupID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return settlements, nil
}

// ListPairSettlements returns the settlement history between two users in
// either direction.
func (s *SettlementService) ListPairSettlements(ctx context.Context, userA, userB string) ([]*types.Settlement, error) {
	settlements, err := s.settlementStore.ListPairSettlements(ctx, userA, userB)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return settlements, nil
}
