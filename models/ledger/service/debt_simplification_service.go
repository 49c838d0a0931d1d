package service

import (
	"sort"

	apperrors "github.com/KevalMGajjar/ExpenseTrackerBackend/errors"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/logger"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/pkg/valueobjects"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// defaultTolerance is the magnitude below which a balance counts as settled.
// It absorbs the rounding slack introduced by emitting half-up rounded
// transaction amounts.
var defaultTolerance = decimal.RequireFromString("0.01")

// DebtSimplificationService collapses a mesh of pairwise expense splits into
// a small set of settling payments. It performs no ledger writes and no I/O:
// the returned plan is advisory, computed from the snapshot of expenses the
// caller supplies.
//
// The engine uses greedy extreme-value matching: each round pairs the
// largest-magnitude debtor with the largest creditor, ties broken by
// lexicographically smaller user ID. This keeps the output deterministic for
// a given expense set. The result is a heuristic, not a provably minimal
// plan; true minimum-transaction settlement is NP-hard.
type DebtSimplificationService struct {
	tolerance decimal.Decimal
	log       *zap.SugaredLogger
}

// NewDebtSimplificationService creates an engine with the default 0.01
// settlement tolerance.
func NewDebtSimplificationService() *DebtSimplificationService {
	return NewDebtSimplificationServiceWithTolerance(defaultTolerance)
}

// NewDebtSimplificationServiceWithTolerance creates an engine with a custom
// settlement tolerance. Non-positive tolerances fall back to the default.
func NewDebtSimplificationServiceWithTolerance(tolerance decimal.Decimal) *DebtSimplificationService {
	if !tolerance.IsPositive() {
		tolerance = defaultTolerance
	}
	return &DebtSimplificationService{
		tolerance: tolerance,
		log:       logger.GetLogger(),
	}
}

// NetBalances derives one signed net balance per user across the whole
// expense set: every split subtracts its amount from the debtor and adds it
// to the creditor. Soft-deleted expenses are skipped. The result is sorted by
// user ID. All expenses must share one currency; mixing currencies is the
// caller's error and is rejected.
func (s *DebtSimplificationService) NetBalances(expenses []*types.Expense) ([]types.NetBalance, error) {
	balances := make(map[string]decimal.Decimal)
	var currency valueobjects.Currency

	for _, expense := range expenses {
		if expense == nil || expense.Deleted {
			continue
		}
		for _, split := range expense.Splits {
			if split.OwedByUserID == split.OwedToUserID {
				return nil, apperrors.ValidationFailed(
					"invalid split",
					"debtor and creditor must be different users",
				)
			}
			if result := split.OwedAmount.Validate(); !result.Valid {
				return nil, apperrors.ValidationFailed("invalid split amount", result.Message)
			}

			cur := split.OwedAmount.Currency()
			if currency == "" {
				currency = cur
			} else if cur != currency {
				return nil, apperrors.ValidationFailed(
					"mixed currencies",
					"all expenses in a simplification must share one currency",
				)
			}

			amount := split.OwedAmount.Amount()
			balances[split.OwedByUserID] = balances[split.OwedByUserID].Sub(amount)
			balances[split.OwedToUserID] = balances[split.OwedToUserID].Add(amount)
		}
	}

	userIDs := make([]string, 0, len(balances))
	for userID := range balances {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	result := make([]types.NetBalance, 0, len(userIDs))
	for _, userID := range userIDs {
		money, err := valueobjects.NewMoney(balances[userID], currency)
		if err != nil {
			return nil, err
		}
		result = append(result, types.NetBalance{UserID: userID, Amount: *money})
	}

	return result, nil
}

// SimplifyDebts computes the settling payment plan for an expense set.
// Applying the returned transactions in order brings every participant's net
// balance to zero within the tolerance. Users whose net balance is already
// within the tolerance owe nothing overall and are dropped, even if
// individual splits netted them to zero. The plan contains at most
// debtors+creditors-1 transactions.
func (s *DebtSimplificationService) SimplifyDebts(expenses []*types.Expense) ([]types.Transaction, error) {
	netBalances, err := s.NetBalances(expenses)
	if err != nil {
		return nil, err
	}
	if len(netBalances) == 0 {
		return nil, nil
	}

	currency := netBalances[0].Amount.Currency()

	type party struct {
		userID string
		amount decimal.Decimal
	}

	var debtors, creditors []party
	for _, net := range netBalances {
		amount := net.Amount.Amount()
		switch {
		case amount.Abs().LessThan(s.tolerance):
			// Settled overall; nothing to plan for this user.
		case amount.IsNegative():
			debtors = append(debtors, party{userID: net.UserID, amount: amount})
		default:
			creditors = append(creditors, party{userID: net.UserID, amount: amount})
		}
	}

	// Largest magnitude first, lexicographically smaller user ID on ties.
	pick := func(parties []party) int {
		best := 0
		for i := 1; i < len(parties); i++ {
			cmp := parties[i].amount.Abs().Cmp(parties[best].amount.Abs())
			if cmp > 0 || (cmp == 0 && parties[i].userID < parties[best].userID) {
				best = i
			}
		}
		return best
	}
	remove := func(parties []party, i int) []party {
		return append(parties[:i], parties[i+1:]...)
	}

	var transactions []types.Transaction

	// Each round fully settles at least one party, so the loop runs at most
	// len(debtors)+len(creditors) times.
	for len(debtors) > 0 && len(creditors) > 0 {
		di := pick(debtors)
		ci := pick(creditors)

		settlement := decimal.Min(debtors[di].amount.Abs(), creditors[ci].amount)

		amount, err := valueobjects.NewMoney(settlement.Round(2), currency)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, types.Transaction{
			FromUserID: debtors[di].userID,
			ToUserID:   creditors[ci].userID,
			Amount:     *amount,
		})

		debtors[di].amount = debtors[di].amount.Add(settlement)
		creditors[ci].amount = creditors[ci].amount.Sub(settlement)

		if debtors[di].amount.Abs().LessThan(s.tolerance) {
			debtors = remove(debtors, di)
		}
		if creditors[ci].amount.LessThan(s.tolerance) {
			creditors = remove(creditors, ci)
		}
	}

	s.log.Debugw("Simplified debts",
		"expenses", len(expenses),
		"participants", len(netBalances),
		"transactions", len(transactions))

	return transactions, nil
}
