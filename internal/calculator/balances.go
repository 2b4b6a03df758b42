package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ExpenseForBalance represents an expense with the minimal information needed for balance calculations.
type ExpenseForBalance struct {
	OwnerID string
	Shares  []ShareForBalance
}

// ShareForBalance is one friend's portion of an ExpenseForBalance.
type ShareForBalance struct {
	Friend string
	Amount decimal.Decimal
	Paid   bool
}

// FriendBalance is what is outstanding between one identity and one friend.
type FriendBalance struct {
	FriendID string
	OwedToMe decimal.Decimal // Unpaid shares of my expenses the friend holds
	IOwe     decimal.Decimal // Unpaid shares I hold on the friend's expenses
	Net      decimal.Decimal // Positive = friend owes me, negative = I owe the friend
}

// PairwiseBalances aggregates the unpaid shares between me and every friend
// that appears in expenses. Paid shares and shares between two other
// identities are ignored. Results are sorted by friend ID.
func PairwiseBalances(me string, expenses []ExpenseForBalance) []FriendBalance {
	balances := make(map[string]*FriendBalance)
	get := func(friend string) *FriendBalance {
		b, ok := balances[friend]
		if !ok {
			b = &FriendBalance{FriendID: friend}
			balances[friend] = b
		}
		return b
	}

	for _, e := range expenses {
		for _, s := range e.Shares {
			if s.Paid {
				continue
			}
			switch {
			case e.OwnerID == me && s.Friend != me:
				b := get(s.Friend)
				b.OwedToMe = b.OwedToMe.Add(s.Amount)
			case s.Friend == me && e.OwnerID != me:
				b := get(e.OwnerID)
				b.IOwe = b.IOwe.Add(s.Amount)
			}
		}
	}

	result := make([]FriendBalance, 0, len(balances))
	for _, b := range balances {
		b.Net = b.OwedToMe.Sub(b.IOwe)
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FriendID < result[j].FriendID })

	return result
}
