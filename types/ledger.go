package types

import (
	"time"

	"github.com/KevalMGajjar/ExpenseTrackerBackend/pkg/valueobjects"
)

// LedgerEntry is one directed balance row between two linked users.
// Balance is positive when the counterpart owes the owner, negative when the
// owner owes the counterpart. Every relationship has exactly two
// complementary rows, one owned by each side, and their balances must always
// sum to zero.
type LedgerEntry struct {
	OwnerID       string             `json:"ownerId"`
	CounterpartID string             `json:"counterpartId"`
	Balance       valueobjects.Money `json:"balance"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// NetBalance is a user's signed sum across all splits in a given expense set.
// Negative means net debtor, positive means net creditor.
type NetBalance struct {
	UserID string             `json:"userId"`
	Amount valueobjects.Money `json:"amount"`
}

// Transaction is one recommended payment in a simplification plan: FromUserID
// must pay Amount to ToUserID. Transactions are computed on demand and never
// persisted.
type Transaction struct {
	FromUserID string             `json:"fromUserId"`
	ToUserID   string             `json:"toUserId"`
	Amount     valueobjects.Money `json:"amount"`
}
