// Package friends maintains the mutual friendship graph between identities.
//
// Transitions in this file are pure: they take the current identities and
// return updated copies, leaving the inputs untouched. Manager reads both
// identities inside one storage transaction, applies a transition and writes
// both back, so the graph stays symmetric even if a save fails halfway.
package friends

import (
	"errors"
	"slices"

	"github.com/spendwise-app/SpendWise/internal/models"
)

var (
	ErrNotFound                  = errors.New("identity not found")
	ErrAlreadyRequestedOrFriends = errors.New("already requested or friends")
	ErrNoSuchRequest             = errors.New("no such friend request")
	ErrSelfRequest               = errors.New("cannot befriend yourself")
	ErrNotFriends                = errors.New("not friends")
)

// Send records sender's request to receiver.
// It fails if sender is already waiting on receiver or the two are friends.
func Send(sender, receiver *models.Identity) (*models.Identity, *models.Identity, error) {
	if sender.ID == receiver.ID {
		return nil, nil, ErrSelfRequest
	}
	if receiver.HasRequestFrom(sender.ID) || receiver.IsFriend(sender.ID) {
		return nil, nil, ErrAlreadyRequestedOrFriends
	}

	s, r := sender.Clone(), receiver.Clone()
	r.FriendRequests = appendUnique(r.FriendRequests, s.ID)
	s.SentRequests = appendUnique(s.SentRequests, r.ID)
	return s, r, nil
}

// Accept turns sender's pending request into a mutual friendship.
// A crossing request from receiver to sender is cleared as well.
func Accept(receiver, sender *models.Identity) (*models.Identity, *models.Identity, error) {
	if !receiver.HasRequestFrom(sender.ID) {
		return nil, nil, ErrNoSuchRequest
	}

	r, s := receiver.Clone(), sender.Clone()

	r.Friends = appendUnique(r.Friends, s.ID)
	r.FriendRequests = remove(r.FriendRequests, s.ID)
	r.SentRequests = remove(r.SentRequests, s.ID)

	s.Friends = appendUnique(s.Friends, r.ID)
	s.SentRequests = remove(s.SentRequests, r.ID)
	s.FriendRequests = remove(s.FriendRequests, r.ID)

	return r, s, nil
}

// Reject drops sender's request to receiver. Absent entries are ignored.
// sender may be nil when that identity no longer exists.
func Reject(receiver, sender *models.Identity, senderID string) (*models.Identity, *models.Identity) {
	r := receiver.Clone()
	r.FriendRequests = remove(r.FriendRequests, senderID)

	s := sender.Clone()
	if s != nil {
		s.SentRequests = remove(s.SentRequests, r.ID)
	}
	return r, s
}

// Unfriend removes the friendship between a and b on both sides.
func Unfriend(a, b *models.Identity) (*models.Identity, *models.Identity, error) {
	if !a.IsFriend(b.ID) && !b.IsFriend(a.ID) {
		return nil, nil, ErrNotFriends
	}

	x, y := a.Clone(), b.Clone()
	x.Friends = remove(x.Friends, y.ID)
	y.Friends = remove(y.Friends, x.ID)
	return x, y, nil
}

func appendUnique(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func remove(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(v string) bool { return v == id })
}
