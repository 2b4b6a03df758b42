// Package ledger owns shared expenses: creating them with per-friend shares,
// settling shares and the payment-request inbox that goes with them.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise-app/SpendWise/internal/calculator"
	"github.com/spendwise-app/SpendWise/internal/metrics"
	"github.com/spendwise-app/SpendWise/internal/models"
	"github.com/spendwise-app/SpendWise/internal/storage"
)

// Settlement outcomes recorded in metrics.
const (
	outcomeAccepted    = "accepted"
	outcomeRejected    = "rejected"
	outcomeAlreadyPaid = "already_paid"
	outcomeNoop        = "noop"
	outcomeOverSettled = "over_settled"
)

// FriendChecker answers whether two identities are friends.
type FriendChecker interface {
	AreFriends(ctx context.Context, a, b string) (bool, error)
}

// Notifier delivers a best-effort push to an identity.
type Notifier interface {
	Notify(ctx context.Context, identityID, title, body, link string)
}

// NewSharedExpense is the input to CreateSharedExpense.
type NewSharedExpense struct {
	OwnerID  string
	Title    string
	Amount   decimal.Decimal
	Category string
	Date     time.Time
	Shares   []models.Share
}

// Settlement is the result of an accepted settlement.
type Settlement struct {
	// Expense is the original expense after the share was marked paid.
	Expense *models.Expense
	// Minted is the new expense recording the payer's spend.
	Minted *models.Expense
}

// Ledger runs settlement operations against the store.
type Ledger struct {
	store             storage.Store
	friends           FriendChecker
	notifier          Notifier
	metrics           *metrics.Metrics
	requireFriendship bool
}

// NewLedger creates a Ledger. When requireFriendship is set, every share
// friend must be a friend of the owner.
func NewLedger(store storage.Store, friends FriendChecker, notifier Notifier, m *metrics.Metrics, requireFriendship bool) *Ledger {
	return &Ledger{
		store:             store,
		friends:           friends,
		notifier:          notifier,
		metrics:           m,
		requireFriendship: requireFriendship,
	}
}

// CreateSharedExpense stores a new expense split with friends and drops a
// payment request in each unpaid friend's inbox.
func (l *Ledger) CreateSharedExpense(ctx context.Context, in NewSharedExpense) (*models.Expense, error) {
	if err := ValidateShares(in.OwnerID, in.Amount, in.Shares); err != nil {
		return nil, err
	}

	if l.requireFriendship {
		for _, s := range in.Shares {
			ok, err := l.friends.AreFriends(ctx, in.OwnerID, s.Friend)
			if err != nil {
				return nil, fmt.Errorf("failed to check friendship: %w", err)
			}
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNotFriends, s.Friend)
			}
		}
	}

	expense := &models.Expense{
		OwnerID:    in.OwnerID,
		Title:      in.Title,
		Amount:     in.Amount,
		Category:   in.Category,
		Date:       in.Date,
		CreatedBy:  in.OwnerID,
		SharedWith: in.Shares,
	}

	var owner *models.Identity
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		if owner, err = getIdentity(ctx, tx, in.OwnerID); err != nil {
			return err
		}

		ids := make([]string, len(in.Shares))
		for i, s := range in.Shares {
			ids[i] = s.Friend
		}
		found, err := tx.GetIdentitiesByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to load share friends: %w", err)
		}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				return fmt.Errorf("%w: %s", ErrIdentityNotFound, id)
			}
		}

		if err := tx.CreateExpense(ctx, expense); err != nil {
			return err
		}

		for _, s := range expense.SharedWith {
			if s.Paid {
				continue
			}
			entry := models.InboxEntry{ExpenseID: expense.ID, Friend: owner.ID, Name: owner.DisplayName}
			if err := tx.AppendInboxEntry(ctx, s.Friend, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.metrics.SharedExpensesCreated.Inc()
	slog.Info("Shared expense created", "expense_id", expense.ID, "owner_id", expense.OwnerID, "shares", len(expense.SharedWith))

	for _, s := range expense.SharedWith {
		if s.Paid {
			continue
		}
		l.notifier.Notify(ctx, s.Friend, "New shared expense",
			fmt.Sprintf("%s split %q with you: your share is %s", owner.DisplayName, expense.Title, s.Amount.StringFixed(2)),
			"/inbox")
	}

	return expense, nil
}

// SplitEqually builds shares splitting amount equally between the owner and
// friendIDs. The owner keeps any rounding remainder and gets no share.
func SplitEqually(ownerID string, amount decimal.Decimal, friendIDs []string) ([]models.Share, error) {
	participants := append([]string{ownerID}, friendIDs...)
	portions, err := calculator.SplitEqually(amount, participants)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}

	shares := make([]models.Share, 0, len(friendIDs))
	for _, p := range portions[1:] {
		shares = append(shares, models.Share{Friend: p.Participant, Amount: p.Amount})
	}
	return shares, nil
}

// ListSharedWithMe returns every expense shared with identityID, newest first,
// each carrying only identityID's own share.
func (l *Ledger) ListSharedWithMe(ctx context.Context, identityID string) ([]*models.Expense, error) {
	expenses, err := l.store.ListExpensesSharedWith(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared expenses: %w", err)
	}

	result := make([]*models.Expense, len(expenses))
	for i, e := range expenses {
		result[i] = ProjectFor(e, identityID)
	}
	return result, nil
}

// AcceptSettlement records payerID paying amount towards their share of expenseID.
// The share is marked paid, the expense decremented, a new expense minted for
// the payer and the payer's inbox entry removed, all in one transaction.
func (l *Ledger) AcceptSettlement(ctx context.Context, expenseID, payerID string, amount decimal.Decimal) (*Settlement, error) {
	var (
		result  Settlement
		share   models.Share
		payer   *models.Identity
		request *models.InboxEntry
	)

	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		expense, err := tx.GetExpense(ctx, expenseID)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrExpenseNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load expense: %w", err)
		}

		updated, minted, err := Settle(expense, payerID, amount)
		if err != nil {
			return err
		}
		share = expense.SharedWith[expense.ShareIndex(payerID)]

		if payer, err = getIdentity(ctx, tx, payerID); err != nil {
			return err
		}
		if err := tx.SaveExpense(ctx, updated); err != nil {
			return err
		}
		if err := tx.CreateExpense(ctx, minted); err != nil {
			return err
		}
		if request, err = tx.RemoveInboxEntry(ctx, payerID, expenseID); err != nil {
			return err
		}

		result = Settlement{Expense: updated, Minted: minted}
		return nil
	})
	if errors.Is(err, ErrShareAlreadyPaid) {
		l.metrics.Settlements.WithLabelValues(outcomeAlreadyPaid).Inc()
	}
	if err != nil {
		return nil, err
	}

	if amount.GreaterThan(share.Amount) {
		l.metrics.Settlements.WithLabelValues(outcomeOverSettled).Inc()
		slog.Warn("Settlement exceeds share amount",
			"expense_id", expenseID, "payer_id", payerID,
			"share_amount", share.Amount.String(), "settled_amount", amount.String())
	}

	l.metrics.Settlements.WithLabelValues(outcomeAccepted).Inc()
	slog.Info("Settlement accepted", "expense_id", expenseID, "payer_id", payerID,
		"amount", amount.String(), "minted_id", result.Minted.ID)

	recipient := result.Expense.OwnerID
	if request != nil {
		recipient = request.Friend
	}
	l.notifier.Notify(ctx, recipient, "Payment settled",
		fmt.Sprintf("%s paid %s for %q", payer.DisplayName, amount.StringFixed(2), result.Expense.Title),
		"/expenses")

	return &result, nil
}

// RejectSettlement declines the payment request for expenseID in identityID's
// inbox. It succeeds without changes when there is no such request.
func (l *Ledger) RejectSettlement(ctx context.Context, expenseID, identityID string) error {
	var (
		entry    *models.InboxEntry
		rejecter *models.Identity
	)

	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		if rejecter, err = getIdentity(ctx, tx, identityID); err != nil {
			return err
		}
		entry, err = tx.RemoveInboxEntry(ctx, identityID, expenseID)
		return err
	})
	if err != nil {
		return err
	}

	if entry == nil {
		l.metrics.Settlements.WithLabelValues(outcomeNoop).Inc()
		slog.Debug("No payment request to reject", "expense_id", expenseID, "identity_id", identityID)
		return nil
	}

	l.metrics.Settlements.WithLabelValues(outcomeRejected).Inc()
	slog.Info("Settlement rejected", "expense_id", expenseID, "identity_id", identityID, "requester_id", entry.Friend)

	l.notifier.Notify(ctx, entry.Friend, "Payment request declined",
		fmt.Sprintf("%s declined your payment request", rejecter.DisplayName), "/expenses")
	return nil
}

// Inbox lists identityID's pending payment requests, oldest first.
func (l *Ledger) Inbox(ctx context.Context, identityID string) ([]models.InboxEntry, error) {
	entries, err := l.store.ListInbox(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	return entries, nil
}

// Balances returns what is outstanding between identityID and each friend,
// counting unpaid shares only.
func (l *Ledger) Balances(ctx context.Context, identityID string) ([]calculator.FriendBalance, error) {
	owned, err := l.store.ListExpensesByOwner(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list own expenses: %w", err)
	}
	shared, err := l.store.ListExpensesSharedWith(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared expenses: %w", err)
	}

	inputs := make([]calculator.ExpenseForBalance, 0, len(owned)+len(shared))
	for _, e := range append(owned, shared...) {
		in := calculator.ExpenseForBalance{OwnerID: e.OwnerID}
		for _, s := range e.SharedWith {
			in.Shares = append(in.Shares, calculator.ShareForBalance{Friend: s.Friend, Amount: s.Amount, Paid: s.Paid})
		}
		inputs = append(inputs, in)
	}

	return calculator.PairwiseBalances(identityID, inputs), nil
}

func getIdentity(ctx context.Context, s storage.IdentityStore, id string) (*models.Identity, error) {
	identity, err := s.GetIdentity(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrIdentityNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}
	return identity, nil
}
