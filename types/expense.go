package types

import (
	"time"

	"github.com/KevalMGajjar/ExpenseTrackerBackend/pkg/valueobjects"
)

// Split is one debtor-to-creditor amount owed, generated from an expense.
// Splits are immutable once created; editing an expense replaces its splits
// wholesale.
type Split struct {
	ID           string             `json:"id"`
	ExpenseID    string             `json:"expenseId"`
	OwedByUserID string             `json:"owedByUserId"`
	OwedToUserID string             `json:"owedToUserId"`
	OwedAmount   valueobjects.Money `json:"owedAmount"`
}

// Expense represents a shared expense, carrying the splits that describe who
// owes whom. GroupID is empty for expenses outside any group.
type Expense struct {
	ID            string             `json:"id"`
	GroupID       string             `json:"groupId,omitempty"`
	CreatedBy     string             `json:"createdByUserId"`
	Description   string             `json:"description"`
	TotalAmount   valueobjects.Money `json:"totalAmount"`
	SplitType     string             `json:"splitType"`
	Splits        []Split            `json:"splits"`
	PaidByUserIDs []string           `json:"paidByUserIds"`
	Participants  []string           `json:"participants"`
	Deleted       bool               `json:"deleted"`
	ExpenseDate   time.Time          `json:"expenseDate"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// UpdateExpenseParams carries the replacement state for an expense edit.
// Splits always replace the previous split set in full.
type UpdateExpenseParams struct {
	Description   *string             `json:"description,omitempty"`
	TotalAmount   *valueobjects.Money `json:"totalAmount,omitempty"`
	SplitType     *string             `json:"splitType,omitempty"`
	Splits        []Split             `json:"splits"`
	PaidByUserIDs []string            `json:"paidByUserIds,omitempty"`
	Participants  []string            `json:"participants,omitempty"`
	GroupID       *string             `json:"groupId,omitempty"`
}

// Settlement records a direct payment between two users outside any expense.
type Settlement struct {
	ID         string             `json:"id"`
	GroupID    string             `json:"groupId,omitempty"`
	PayerID    string             `json:"payerId"`
	ReceiverID string             `json:"receiverId"`
	Amount     valueobjects.Money `json:"amount"`
	CreatedBy  string             `json:"createdBy"`
	SettledAt  time.Time          `json:"settledAt"`
	CreatedAt  time.Time          `json:"createdAt"`
}
