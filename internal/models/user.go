package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Identity represents a registered user account and its friend graph.
type Identity struct {
	// ID is the unique identifier for the identity (UUID format).
	ID string

	// Email is the identity's email address (unique).
	// Used for login and to address friend requests.
	Email string

	// DisplayName is the name shown to friends.
	DisplayName string

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string

	// Friends holds the IDs of mutual friends.
	Friends []string

	// FriendRequests holds the IDs of identities waiting for this identity's answer.
	FriendRequests []string

	// SentRequests holds the IDs of identities this identity is waiting on.
	SentRequests []string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last save.
	UpdatedAt int64
}

// NewUser creates an Identity with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *Identity {
	now := time.Now().Unix()
	return &Identity{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Clone returns a deep copy so transitions never alias the caller's slices.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	c.Friends = slices.Clone(i.Friends)
	c.FriendRequests = slices.Clone(i.FriendRequests)
	c.SentRequests = slices.Clone(i.SentRequests)
	return &c
}

// IsFriend reports whether id is a mutual friend.
func (i *Identity) IsFriend(id string) bool {
	return slices.Contains(i.Friends, id)
}

// HasRequestFrom reports whether id has a pending request to this identity.
func (i *Identity) HasRequestFrom(id string) bool {
	return slices.Contains(i.FriendRequests, id)
}

// HasSentTo reports whether this identity has a pending request to id.
func (i *Identity) HasSentTo(id string) bool {
	return slices.Contains(i.SentRequests, id)
}

// FriendSummary is the public view of an identity shown in friend lists.
type FriendSummary struct {
	ID          string
	Email       string
	DisplayName string
}

// Summary returns the public view of the identity.
func (i *Identity) Summary() FriendSummary {
	return FriendSummary{ID: i.ID, Email: i.Email, DisplayName: i.DisplayName}
}
