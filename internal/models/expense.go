package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is used when an expense is created without a category.
const DefaultCategory = "others"

// Expense represents money spent by its owner, optionally split with friends.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// OwnerID is the identity the expense belongs to.
	OwnerID string

	// Title is the human-readable description (e.g., "Dinner", "Cab").
	Title string

	// Amount is what is still outstanding to the owner.
	// Settling a share decrements it by the settled amount.
	Amount decimal.Decimal

	// Category groups expenses for reporting. Defaults to DefaultCategory.
	Category string

	// Date is when the money was spent, in UTC with second precision.
	Date time.Time

	// CreatedBy is the identity that authored or split the expense.
	CreatedBy string

	// SettledFrom is the ID of the shared expense this one was minted from
	// when a share was settled. Empty for expenses created directly.
	SettledFrom string

	// SharedWith holds one Share per friend, in creation order.
	SharedWith []Share

	// CreatedAt is the Unix timestamp when the expense was stored.
	CreatedAt int64
}

// Share is one friend's portion of a shared expense.
type Share struct {
	// Friend is the identity that owes this portion.
	Friend string

	// Amount is the friend's portion.
	Amount decimal.Decimal

	// Paid flips to true once the share is settled. It never flips back.
	Paid bool
}

// Clone returns a deep copy of the expense.
func (e *Expense) Clone() *Expense {
	if e == nil {
		return nil
	}
	c := *e
	c.SharedWith = slices.Clone(e.SharedWith)
	return &c
}

// ShareIndex returns the index of friendID's share, or -1.
func (e *Expense) ShareIndex(friendID string) int {
	return slices.IndexFunc(e.SharedWith, func(s Share) bool { return s.Friend == friendID })
}

// InboxEntry is a pending payment request shown to the paying friend.
type InboxEntry struct {
	// ExpenseID is the shared expense the request refers to.
	ExpenseID string

	// Friend is the identity that requested the payment.
	Friend string

	// Name is the requester's display name at the time of the request.
	Name string

	// CreatedAt is the Unix timestamp when the entry was appended.
	CreatedAt int64
}
