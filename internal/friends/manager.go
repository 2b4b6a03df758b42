package friends

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spendwise-app/SpendWise/internal/metrics"
	"github.com/spendwise-app/SpendWise/internal/models"
	"github.com/spendwise-app/SpendWise/internal/storage"
)

// Notifier delivers a best-effort push to an identity.
type Notifier interface {
	Notify(ctx context.Context, identityID, title, body, link string)
}

// Overview lists an identity's friends and pending requests.
type Overview struct {
	Friends  []models.FriendSummary
	Requests []models.FriendSummary // inbound, waiting for this identity
	Sent     []models.FriendSummary // outbound, waiting for the other side
}

// Manager runs friend-graph operations against the store.
type Manager struct {
	store    storage.Store
	notifier Notifier
	metrics  *metrics.Metrics
}

// NewManager creates a Manager.
func NewManager(store storage.Store, notifier Notifier, m *metrics.Metrics) *Manager {
	return &Manager{store: store, notifier: notifier, metrics: m}
}

// SendRequest records a friend request from senderID to the identity named by
// receiverEmailOrID. Values containing "@" are treated as email addresses.
func (m *Manager) SendRequest(ctx context.Context, senderID, receiverEmailOrID string) (models.FriendSummary, error) {
	var sender, receiver *models.Identity

	err := m.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		if receiver, err = lookup(ctx, tx, receiverEmailOrID); err != nil {
			return err
		}
		current, err := getIdentity(ctx, tx, senderID)
		if err != nil {
			return err
		}

		sender, receiver, err = Send(current, receiver)
		if err != nil {
			return err
		}
		return saveBoth(ctx, tx, receiver, sender)
	})
	if err != nil {
		return models.FriendSummary{}, err
	}

	m.metrics.FriendRequests.WithLabelValues("send").Inc()
	slog.Info("Friend request sent", "sender_id", sender.ID, "receiver_id", receiver.ID)

	m.notifier.Notify(ctx, receiver.ID, "New friend request",
		fmt.Sprintf("%s wants to be your friend", sender.DisplayName), "/friends")

	return receiver.Summary(), nil
}

// AcceptRequest makes receiverID and senderID friends, consuming the pending request.
func (m *Manager) AcceptRequest(ctx context.Context, receiverID, senderID string) error {
	var receiver *models.Identity

	err := m.store.InTx(ctx, func(tx storage.Tx) error {
		r, err := getIdentity(ctx, tx, receiverID)
		if err != nil {
			return err
		}
		if !r.HasRequestFrom(senderID) {
			return ErrNoSuchRequest
		}
		s, err := getIdentity(ctx, tx, senderID)
		if err != nil {
			return err
		}

		r, s, err = Accept(r, s)
		if err != nil {
			return err
		}
		receiver = r
		return saveBoth(ctx, tx, r, s)
	})
	if err != nil {
		return err
	}

	m.metrics.FriendRequests.WithLabelValues("accept").Inc()
	slog.Info("Friend request accepted", "receiver_id", receiverID, "sender_id", senderID)

	m.notifier.Notify(ctx, senderID, "Friend request accepted",
		fmt.Sprintf("%s accepted your friend request", receiver.DisplayName), "/friends")
	return nil
}

// RejectRequest drops senderID's request to receiverID.
// Rejecting a request that does not exist succeeds without changes.
func (m *Manager) RejectRequest(ctx context.Context, receiverID, senderID string) error {
	err := m.store.InTx(ctx, func(tx storage.Tx) error {
		r, err := getIdentity(ctx, tx, receiverID)
		if err != nil {
			return err
		}
		s, err := tx.GetIdentity(ctx, senderID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to load sender: %w", err)
		}

		if !r.HasRequestFrom(senderID) && (s == nil || !s.HasSentTo(receiverID)) {
			return nil
		}

		r, s = Reject(r, s, senderID)
		return saveBoth(ctx, tx, r, s)
	})
	if err != nil {
		return err
	}

	m.metrics.FriendRequests.WithLabelValues("reject").Inc()
	slog.Info("Friend request rejected", "receiver_id", receiverID, "sender_id", senderID)
	return nil
}

// RemoveFriend ends the friendship between identityID and friendID on both sides.
func (m *Manager) RemoveFriend(ctx context.Context, identityID, friendID string) error {
	err := m.store.InTx(ctx, func(tx storage.Tx) error {
		a, err := getIdentity(ctx, tx, identityID)
		if err != nil {
			return err
		}
		b, err := getIdentity(ctx, tx, friendID)
		if err != nil {
			return err
		}

		a, b, err = Unfriend(a, b)
		if err != nil {
			return err
		}
		return saveBoth(ctx, tx, a, b)
	})
	if err != nil {
		return err
	}

	m.metrics.FriendRequests.WithLabelValues("remove").Inc()
	slog.Info("Friend removed", "identity_id", identityID, "friend_id", friendID)
	return nil
}

// Overview resolves identityID's friend graph to summaries.
func (m *Manager) Overview(ctx context.Context, identityID string) (*Overview, error) {
	identity, err := getIdentity(ctx, m.store, identityID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(identity.Friends)+len(identity.FriendRequests)+len(identity.SentRequests))
	ids = append(ids, identity.Friends...)
	ids = append(ids, identity.FriendRequests...)
	ids = append(ids, identity.SentRequests...)

	others, err := m.store.GetIdentitiesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve friends: %w", err)
	}

	summarize := func(ids []string) []models.FriendSummary {
		out := make([]models.FriendSummary, 0, len(ids))
		for _, id := range ids {
			if other, ok := others[id]; ok {
				out = append(out, other.Summary())
			}
		}
		return out
	}

	return &Overview{
		Friends:  summarize(identity.Friends),
		Requests: summarize(identity.FriendRequests),
		Sent:     summarize(identity.SentRequests),
	}, nil
}

// AreFriends reports whether a and b are mutual friends.
func (m *Manager) AreFriends(ctx context.Context, a, b string) (bool, error) {
	identity, err := getIdentity(ctx, m.store, a)
	if err != nil {
		return false, err
	}
	return identity.IsFriend(b), nil
}

func lookup(ctx context.Context, s storage.IdentityStore, emailOrID string) (*models.Identity, error) {
	key := strings.TrimSpace(emailOrID)
	if strings.Contains(key, "@") {
		identity, err := s.GetIdentityByEmail(ctx, strings.ToLower(key))
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up receiver: %w", err)
		}
		return identity, nil
	}
	return getIdentity(ctx, s, key)
}

func getIdentity(ctx context.Context, s storage.IdentityStore, id string) (*models.Identity, error) {
	identity, err := s.GetIdentity(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}
	return identity, nil
}

// saveBoth writes a and, when present, b.
func saveBoth(ctx context.Context, tx storage.Tx, a, b *models.Identity) error {
	if err := tx.SaveIdentity(ctx, a); err != nil {
		return err
	}
	if b == nil {
		return nil
	}
	return tx.SaveIdentity(ctx, b)
}
