package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise-app/SpendWise/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidateShares(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		shares  []models.Share
		wantErr error
	}{
		{
			name:   "valid",
			amount: "100",
			shares: []models.Share{{Friend: "f1", Amount: d("30")}, {Friend: "f2", Amount: d("20")}},
		},
		{
			name:   "no shares",
			amount: "12.50",
		},
		{
			name:    "zero amount",
			amount:  "0",
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative share",
			amount:  "100",
			shares:  []models.Share{{Friend: "f1", Amount: d("-5")}},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "shares exceed amount",
			amount:  "10",
			shares:  []models.Share{{Friend: "f1", Amount: d("6")}, {Friend: "f2", Amount: d("5")}},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "duplicate friend",
			amount:  "100",
			shares:  []models.Share{{Friend: "f1", Amount: d("10")}, {Friend: "f1", Amount: d("10")}},
			wantErr: ErrDuplicateFriend,
		},
		{
			name:    "owner in shares",
			amount:  "100",
			shares:  []models.Share{{Friend: "owner", Amount: d("10")}},
			wantErr: ErrSelfShare,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShares("owner", d(tt.amount), tt.shares)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func sharedExpense() *models.Expense {
	return &models.Expense{
		ID:       "exp-1",
		OwnerID:  "owner",
		Title:    "Dinner",
		Amount:   d("100"),
		Category: "food",
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		SharedWith: []models.Share{
			{Friend: "f1", Amount: d("30")},
			{Friend: "f2", Amount: d("20")},
		},
	}
}

func TestSettle(t *testing.T) {
	original := sharedExpense()

	updated, minted, err := Settle(original, "f1", d("30"))
	require.NoError(t, err)

	assert.True(t, d("70").Equal(updated.Amount))
	assert.True(t, updated.SharedWith[0].Paid)
	assert.False(t, updated.SharedWith[1].Paid)

	assert.Equal(t, "f1", minted.OwnerID)
	assert.Equal(t, "f1", minted.CreatedBy)
	assert.Equal(t, "exp-1", minted.SettledFrom)
	assert.Equal(t, "Dinner", minted.Title)
	assert.Equal(t, "food", minted.Category)
	assert.Equal(t, original.Date, minted.Date)
	assert.True(t, d("30").Equal(minted.Amount))
	assert.Empty(t, minted.SharedWith)

	// The input is untouched.
	assert.True(t, d("100").Equal(original.Amount))
	assert.False(t, original.SharedWith[0].Paid)

	t.Run("partial settlement", func(t *testing.T) {
		updated, minted, err := Settle(sharedExpense(), "f2", d("5"))
		require.NoError(t, err)
		assert.True(t, d("95").Equal(updated.Amount))
		assert.True(t, updated.SharedWith[1].Paid)
		assert.True(t, d("5").Equal(minted.Amount))
	})

	t.Run("already paid", func(t *testing.T) {
		_, _, err := Settle(updated, "f1", d("30"))
		assert.ErrorIs(t, err, ErrShareAlreadyPaid)
	})

	t.Run("not a participant", func(t *testing.T) {
		_, _, err := Settle(original, "stranger", d("30"))
		assert.ErrorIs(t, err, ErrNotAParticipant)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, _, err := Settle(original, "f1", decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestProjectFor(t *testing.T) {
	e := sharedExpense()

	p := ProjectFor(e, "f2")
	require.Len(t, p.SharedWith, 1)
	assert.Equal(t, "f2", p.SharedWith[0].Friend)
	assert.True(t, d("20").Equal(p.SharedWith[0].Amount))
	assert.Len(t, e.SharedWith, 2)

	assert.Empty(t, ProjectFor(e, "stranger").SharedWith)
}

func TestSplitEqually(t *testing.T) {
	shares, err := SplitEqually("owner", d("100"), []string{"f1", "f2"})
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.Equal(t, "f1", shares[0].Friend)
	assert.True(t, d("33.33").Equal(shares[0].Amount))
	assert.True(t, d("33.33").Equal(shares[1].Amount))
	assert.False(t, shares[0].Paid)

	_, err = SplitEqually("owner", decimal.Zero, []string{"f1"})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
