// Package service implements the balance ledger and debt simplification
// logic on top of the store layer.
package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/KevalMGajjar/ExpenseTrackerBackend/errors"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/internal/store"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/logger"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/pkg/valueobjects"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/types"
	"go.uber.org/zap"
)

// BalanceService applies split-driven and settlement-driven mutations to the
// directed balance rows of the ledger, preserving the zero-sum invariant:
// after every mutation the two rows of a relationship sum to zero.
//
// Split propagation is best-effort: rows that are not materialized in both
// directions are skipped. Direct settlements are strict and fail the whole
// call when either row is missing. Settlements are explicit user actions,
// split propagation is not; do not unify the two behaviors.
type BalanceService struct {
	ledgerStore store.LedgerStore
	log         *zap.SugaredLogger
}

// NewBalanceService creates a new BalanceService instance
func NewBalanceService(ledgerStore store.LedgerStore) *BalanceService {
	return &BalanceService{
		ledgerStore: ledgerStore,
		log:         logger.GetLogger(),
	}
}

// ProcessSplits records every split as new debt: the debtor's balance with
// the creditor decreases by the owed amount and the creditor's balance with
// the debtor increases by it. All row updates of the list commit together.
func (s *BalanceService) ProcessSplits(ctx context.Context, splits []types.Split) error {
	return s.applySplits(ctx, splits, false)
}

// ReverseSplits applies the exact inverse of ProcessSplits, so processing a
// split list and immediately reversing it is a no-op on every touched row.
// Used when an expense is deleted or its splits are superseded by an edit.
func (s *BalanceService) ReverseSplits(ctx context.Context, splits []types.Split) error {
	return s.applySplits(ctx, splits, true)
}

func (s *BalanceService) applySplits(ctx context.Context, splits []types.Split, reverse bool) error {
	shifts := make([]store.BalanceShift, 0, len(splits))
	for _, split := range splits {
		if err := validateSplit(split); err != nil {
			return err
		}

		amount := split.OwedAmount
		if reverse {
			amount = amount.Negate()
		}
		shifts = append(shifts, store.BalanceShift{
			DebtorID:   split.OwedByUserID,
			CreditorID: split.OwedToUserID,
			Amount:     amount,
		})
	}

	if err := s.ledgerStore.ApplyShifts(ctx, shifts); err != nil {
		return apperrors.NewDatabaseError(err)
	}

	s.log.Debugw("Applied splits to ledger", "count", len(splits), "reversed", reverse)
	return nil
}

// SettleUp records a direct payment from payerID to receiverID outside any
// expense. The payer's balance with the receiver increases by amount and the
// receiver's balance with the payer decreases by it. The two users must
// already be linked: if either row is missing the whole operation fails with
// a relationship-not-found error and nothing is written.
func (s *BalanceService) SettleUp(ctx context.Context, payerID, receiverID string, amount valueobjects.Money) error {
	if payerID == receiverID {
		return apperrors.ValidationFailed(
			"invalid settlement",
			"payer and receiver must be different users",
		)
	}
	if result := amount.Validate(); !result.Valid {
		return apperrors.ValidationFailed("invalid settlement amount", result.Message)
	}
	if !amount.IsPositive() {
		return apperrors.ValidationFailed(
			"invalid settlement amount",
			"amount must be greater than zero",
		)
	}

	if err := s.ledgerStore.SettleBalance(ctx, payerID, receiverID, amount); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NoRelationship(payerID, receiverID)
		}
		return apperrors.NewDatabaseError(err)
	}

	s.log.Infow("Recorded settlement",
		"payerId", payerID,
		"receiverId", receiverID,
		"amount", amount.String())
	return nil
}

// ListBalances returns all of a user's directed balance rows, one per linked
// counterpart.
func (s *BalanceService) ListBalances(ctx context.Context, userID string) ([]*types.LedgerEntry, error) {
	entries, err := s.ledgerStore.ListEntries(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return entries, nil
}

// LinkUsers creates the two complementary zero-balance rows for a new
// relationship.
func (s *BalanceService) LinkUsers(ctx context.Context, userA, userB string) error {
	if userA == userB {
		return apperrors.ValidationFailed(
			"invalid relationship",
			"cannot link a user to themselves",
		)
	}

	if err := s.ledgerStore.CreateRelationship(ctx, userA, userB); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return apperrors.NewConflictError(
				"Users are already linked",
				fmt.Sprintf("user %s and user %s", userA, userB),
			)
		}
		return apperrors.NewDatabaseError(err)
	}

	return nil
}

// VerifyRelationship re-reads both rows of a relationship and surfaces an
// inconsistent-state error if they do not sum to zero. A failure here
// indicates a storage race; it is reported, never silently repaired.
func (s *BalanceService) VerifyRelationship(ctx context.Context, userA, userB string) error {
	forward, err := s.ledgerStore.GetEntry(ctx, userA, userB)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NoRelationship(userA, userB)
		}
		return apperrors.NewDatabaseError(err)
	}

	backward, err := s.ledgerStore.GetEntry(ctx, userB, userA)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NoRelationship(userB, userA)
		}
		return apperrors.NewDatabaseError(err)
	}

	sum, err := forward.Balance.Add(backward.Balance)
	if err != nil {
		return apperrors.InconsistentBalance(userA, userB, err.Error())
	}
	if !sum.IsZero() {
		return apperrors.InconsistentBalance(userA, userB,
			fmt.Sprintf("%s + %s", forward.Balance.String(), backward.Balance.String()))
	}

	return nil
}

func validateSplit(split types.Split) error {
	if split.OwedByUserID == split.OwedToUserID {
		return apperrors.ValidationFailed(
			"invalid split",
			"debtor and creditor must be different users",
		)
	}
	if result := split.OwedAmount.Validate(); !result.Valid {
		return apperrors.ValidationFailed("invalid split amount", result.Message)
	}
	return nil
}
