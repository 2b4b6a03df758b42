package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise-app/SpendWise/internal/calculator"
	"github.com/spendwise-app/SpendWise/internal/models"
	"github.com/spendwise-app/SpendWise/pkg/api"
)

func toUser(identity *models.Identity) *api.User {
	return &api.User{
		ID:          identity.ID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		CreatedAt:   identity.CreatedAt,
	}
}

func toFriends(summaries []models.FriendSummary) []*api.Friend {
	out := make([]*api.Friend, len(summaries))
	for i, s := range summaries {
		out[i] = &api.Friend{ID: s.ID, Email: s.Email, Name: s.DisplayName}
	}
	return out
}

func toExpense(e *models.Expense) *api.Expense {
	shares := make([]*api.Share, len(e.SharedWith))
	for i, s := range e.SharedWith {
		shares[i] = &api.Share{FriendID: s.Friend, Amount: s.Amount.StringFixed(2), Paid: s.Paid}
	}
	return &api.Expense{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		Title:       e.Title,
		Amount:      e.Amount.StringFixed(2),
		Category:    e.Category,
		Date:        e.Date.UTC().Format(api.DateLayout),
		CreatedBy:   e.CreatedBy,
		SettledFrom: e.SettledFrom,
		SharedWith:  shares,
		CreatedAt:   e.CreatedAt,
	}
}

func toExpenses(expenses []*models.Expense) []*api.Expense {
	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toExpense(e)
	}
	return out
}

func toInbox(entries []models.InboxEntry) []*api.InboxEntry {
	out := make([]*api.InboxEntry, len(entries))
	for i, e := range entries {
		out[i] = &api.InboxEntry{ExpenseID: e.ExpenseID, FriendID: e.Friend, Name: e.Name, CreatedAt: e.CreatedAt}
	}
	return out
}

func toBalances(balances []calculator.FriendBalance) []*api.Balance {
	out := make([]*api.Balance, len(balances))
	for i, b := range balances {
		out[i] = &api.Balance{
			FriendID: b.FriendID,
			OwedToMe: b.OwedToMe.StringFixed(2),
			IOwe:     b.IOwe.StringFixed(2),
			Net:      b.Net.StringFixed(2),
		}
	}
	return out
}

// parseAmount parses a decimal string from the wire.
func parseAmount(field, s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", field, s)
	}
	return amount, nil
}

// parseDate parses a DateLayout date. An empty string means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	date, err := time.Parse(api.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return date, nil
}

func fromShares(shares []*api.Share) ([]models.Share, error) {
	out := make([]models.Share, 0, len(shares))
	for _, s := range shares {
		if s == nil {
			continue
		}
		amount, err := parseAmount("share amount", s.Amount)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Share{Friend: s.FriendID, Amount: amount, Paid: s.Paid})
	}
	return out, nil
}
