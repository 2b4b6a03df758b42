package friends

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise-app/SpendWise/internal/models"
)

func TestSend(t *testing.T) {
	a := &models.Identity{ID: "a"}
	b := &models.Identity{ID: "b"}

	sender, receiver, err := Send(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, receiver.FriendRequests)
	assert.Equal(t, []string{"b"}, sender.SentRequests)

	// Inputs are untouched.
	assert.Empty(t, a.SentRequests)
	assert.Empty(t, b.FriendRequests)

	t.Run("duplicate request", func(t *testing.T) {
		_, _, err := Send(sender, receiver)
		assert.ErrorIs(t, err, ErrAlreadyRequestedOrFriends)
	})

	t.Run("already friends", func(t *testing.T) {
		x := &models.Identity{ID: "x", Friends: []string{"y"}}
		y := &models.Identity{ID: "y", Friends: []string{"x"}}
		_, _, err := Send(x, y)
		assert.ErrorIs(t, err, ErrAlreadyRequestedOrFriends)
	})

	t.Run("self request", func(t *testing.T) {
		_, _, err := Send(a, a)
		assert.ErrorIs(t, err, ErrSelfRequest)
	})
}

func TestAccept(t *testing.T) {
	receiver := &models.Identity{ID: "r", FriendRequests: []string{"s", "other"}}
	sender := &models.Identity{ID: "s", SentRequests: []string{"r"}}

	r, s, err := Accept(receiver, sender)
	require.NoError(t, err)

	assert.Equal(t, []string{"s"}, r.Friends)
	assert.Equal(t, []string{"r"}, s.Friends)
	assert.Equal(t, []string{"other"}, r.FriendRequests)
	assert.Empty(t, s.SentRequests)

	t.Run("crossing requests are cleared", func(t *testing.T) {
		receiver := &models.Identity{ID: "r", FriendRequests: []string{"s"}, SentRequests: []string{"s"}}
		sender := &models.Identity{ID: "s", FriendRequests: []string{"r"}, SentRequests: []string{"r"}}

		r, s, err := Accept(receiver, sender)
		require.NoError(t, err)
		assert.Empty(t, r.FriendRequests)
		assert.Empty(t, r.SentRequests)
		assert.Empty(t, s.FriendRequests)
		assert.Empty(t, s.SentRequests)
	})

	t.Run("no such request", func(t *testing.T) {
		_, _, err := Accept(&models.Identity{ID: "r"}, &models.Identity{ID: "s"})
		assert.ErrorIs(t, err, ErrNoSuchRequest)
	})
}

func TestReject(t *testing.T) {
	receiver := &models.Identity{ID: "r", FriendRequests: []string{"s"}}
	sender := &models.Identity{ID: "s", SentRequests: []string{"r"}}

	r, s := Reject(receiver, sender, "s")
	assert.Empty(t, r.FriendRequests)
	assert.Empty(t, s.SentRequests)

	// Second call is a no-op.
	r2, s2 := Reject(r, s, "s")
	assert.Equal(t, r.FriendRequests, r2.FriendRequests)
	assert.Equal(t, s.SentRequests, s2.SentRequests)

	t.Run("sender gone", func(t *testing.T) {
		r, s := Reject(receiver, nil, "s")
		assert.Empty(t, r.FriendRequests)
		assert.Nil(t, s)
	})
}

func TestUnfriend(t *testing.T) {
	a := &models.Identity{ID: "a", Friends: []string{"b", "c"}}
	b := &models.Identity{ID: "b", Friends: []string{"a"}}

	x, y, err := Unfriend(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, x.Friends)
	assert.Empty(t, y.Friends)

	_, _, err = Unfriend(x, y)
	assert.ErrorIs(t, err, ErrNotFriends)
}
