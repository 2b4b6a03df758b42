package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spendwise-app/SpendWise/internal/models"
)

// Errors returned by the ledger.
var (
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrNotAParticipant  = errors.New("not a participant in this expense")
	ErrShareAlreadyPaid = errors.New("share already paid")
	ErrDuplicateFriend  = errors.New("friend appears more than once")
	ErrNotFriends       = errors.New("can only share with friends")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrSelfShare        = errors.New("cannot share an expense with yourself")
)

// ValidateShares checks a new shared expense before anything is written.
// Friendship is checked separately because it needs the friend graph.
func ValidateShares(ownerID string, amount decimal.Decimal, shares []models.Share) error {
	if strings.TrimSpace(ownerID) == "" {
		return fmt.Errorf("%w: missing owner", ErrIdentityNotFound)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: expense amount must be positive", ErrInvalidAmount)
	}

	seen := make(map[string]struct{}, len(shares))
	total := decimal.Zero
	for _, s := range shares {
		if s.Friend == ownerID {
			return ErrSelfShare
		}
		if _, ok := seen[s.Friend]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateFriend, s.Friend)
		}
		seen[s.Friend] = struct{}{}

		if !s.Amount.IsPositive() {
			return fmt.Errorf("%w: share for %s must be positive", ErrInvalidAmount, s.Friend)
		}
		total = total.Add(s.Amount)
	}

	if total.GreaterThan(amount) {
		return fmt.Errorf("%w: shares add up to %s, more than %s", ErrInvalidAmount, total, amount)
	}
	return nil
}

// Settle applies payerID's settlement of amount to expense.
// It returns the updated expense and the new expense recording the payer's
// own spend. The input is not modified.
func Settle(expense *models.Expense, payerID string, amount decimal.Decimal) (*models.Expense, *models.Expense, error) {
	if !amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: settled amount must be positive", ErrInvalidAmount)
	}

	idx := expense.ShareIndex(payerID)
	if idx < 0 {
		return nil, nil, ErrNotAParticipant
	}
	if expense.SharedWith[idx].Paid {
		return nil, nil, ErrShareAlreadyPaid
	}

	updated := expense.Clone()
	updated.SharedWith[idx].Paid = true
	updated.Amount = updated.Amount.Sub(amount)

	minted := &models.Expense{
		OwnerID:     payerID,
		Title:       expense.Title,
		Amount:      amount,
		Category:    expense.Category,
		Date:        expense.Date,
		CreatedBy:   payerID,
		SettledFrom: expense.ID,
	}

	return updated, minted, nil
}

// ProjectFor returns a copy of expense holding only identityID's shares.
func ProjectFor(expense *models.Expense, identityID string) *models.Expense {
	p := expense.Clone()
	p.SharedWith = nil
	for _, s := range expense.SharedWith {
		if s.Friend == identityID {
			p.SharedWith = append(p.SharedWith, s)
		}
	}
	return p
}
