// Package calculator computes share amounts and outstanding balances for shared expenses.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// cents is the precision every calculated share is rounded to.
const cents = 2

// PersonShare is the calculated portion for one participant.
type PersonShare struct {
	Participant string
	Amount      decimal.Decimal
}

// SplitEqually divides total among participants in order.
// Each portion is truncated to cents and the remainder goes to the first
// participant, so the portions always add up to total exactly.
func SplitEqually(total decimal.Decimal, participants []string) ([]PersonShare, error) {
	if !total.IsPositive() {
		return nil, fmt.Errorf("total must be positive")
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	n := decimal.NewFromInt(int64(len(participants)))
	base := total.Div(n).Truncate(cents)
	remainder := total.Sub(base.Mul(n))

	shares := make([]PersonShare, len(participants))
	for i, p := range participants {
		shares[i] = PersonShare{Participant: p, Amount: base}
	}
	shares[0].Amount = shares[0].Amount.Add(remainder)

	return shares, nil
}
