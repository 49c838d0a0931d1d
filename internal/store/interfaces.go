package store

import (
	"context"

	"github.com/KevalMGajjar/ExpenseTrackerBackend/pkg/valueobjects"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/types"
)

// Transaction represents a storage-level transaction boundary.
type Transaction interface {
	Commit() error
	Rollback() error
}

// BalanceShift describes one movement of debt from a debtor toward a
// creditor. A positive amount increases what the debtor owes the creditor; a
// negative amount reverses a previous shift of the same magnitude.
type BalanceShift struct {
	DebtorID   string
	CreditorID string
	Amount     valueobjects.Money
}

// LedgerStore persists directed balance rows keyed by (ownerId,
// counterpartId). The two complementary rows of a relationship are hidden
// behind relationship-level mutations so a partial write can never leave them
// out of sum: both rows of a pair are always updated inside one storage
// transaction.
type LedgerStore interface {
	// GetEntry returns the directed balance row owned by ownerID for
	// counterpartID, or ErrNotFound.
	GetEntry(ctx context.Context, ownerID, counterpartID string) (*types.LedgerEntry, error)

	// ListEntries returns all balance rows owned by ownerID.
	ListEntries(ctx context.Context, ownerID string) ([]*types.LedgerEntry, error)

	// CreateRelationship inserts the two complementary zero-balance rows
	// linking userA and userB in one transaction. Returns ErrConflict if the
	// users are already linked.
	CreateRelationship(ctx context.Context, userA, userB string) error

	// ApplyShifts applies every shift atomically: all row updates commit
	// together or not at all. Rows that do not exist are skipped (split
	// propagation is best-effort by design; see SettleBalance for the strict
	// variant).
	ApplyShifts(ctx context.Context, shifts []BalanceShift) error

	// SettleBalance records a direct payment from payerID to receiverID:
	// the payer's balance with the receiver increases by amount and the
	// receiver's balance with the payer decreases by amount. Unlike
	// ApplyShifts both rows must exist; otherwise the transaction rolls back
	// and ErrNotFound is returned.
	SettleBalance(ctx context.Context, payerID, receiverID string, amount valueobjects.Money) error
}

// ExpenseStore persists expense aggregates together with their splits.
type ExpenseStore interface {
	// CreateExpense inserts the expense and all its splits in one
	// transaction and returns the expense ID.
	CreateExpense(ctx context.Context, expense *types.Expense) (string, error)

	// GetExpense returns the expense with its splits, or ErrNotFound.
	// Soft-deleted expenses are not returned.
	GetExpense(ctx context.Context, id string) (*types.Expense, error)

	// ListGroupExpenses returns all non-deleted expenses of a group, newest
	// first, each with its splits.
	ListGroupExpenses(ctx context.Context, groupID string) ([]*types.Expense, error)

	// ListUserExpenses returns all non-deleted expenses a user participates
	// in, newest first.
	ListUserExpenses(ctx context.Context, userID string) ([]*types.Expense, error)

	// UpdateExpense replaces the stored expense and its split set in one
	// transaction. Returns ErrNotFound if the expense does not exist.
	UpdateExpense(ctx context.Context, expense *types.Expense) error

	// DeleteExpense soft-deletes the expense. Returns ErrNotFound if the
	// expense does not exist or is already deleted.
	DeleteExpense(ctx context.Context, id string) error
}

// SettlementStore persists direct-payment records.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, settlement *types.Settlement) (string, error)
	ListGroupSettlements(ctx context.Context, groupID string) ([]*types.Settlement, error)
	ListPairSettlements(ctx context.Context, userA, userB string) ([]*types.Settlement, error)
}
