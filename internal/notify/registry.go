// Package notify delivers best-effort push notifications to identities.
//
// A Registry maps identities to their live delivery channels. It is created
// once per process, filled by the websocket handler as clients connect, and
// handed to the Dispatcher. Delivery never fails the caller: an identity with
// no channel is skipped, and send errors are logged and counted.
package notify

import (
	"context"
	"errors"
	"sync"
)

// Channel is one live delivery target for an identity.
type Channel interface {
	Send(ctx context.Context, payload Payload) error
	Close() error
}

// Registry holds the delivery channels of every connected identity.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]map[uint64]Channel
	nextID   uint64
	closed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{channels: make(map[string]map[uint64]Channel)}
}

// Register adds ch for identityID and returns a func that removes it again.
// The returned func is safe to call more than once.
// Registering on a closed registry closes ch immediately.
func (r *Registry) Register(identityID string, ch Channel) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		_ = ch.Close()
		return func() {}
	}

	r.nextID++
	id := r.nextID
	if r.channels[identityID] == nil {
		r.channels[identityID] = make(map[uint64]Channel)
	}
	r.channels[identityID][id] = ch

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		set := r.channels[identityID]
		delete(set, id)
		if len(set) == 0 {
			delete(r.channels, identityID)
		}
	}
}

// Lookup returns the channels registered for identityID, or nil.
func (r *Registry) Lookup(identityID string) []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.channels[identityID]
	if len(set) == 0 {
		return nil
	}
	out := make([]Channel, 0, len(set))
	for _, ch := range set {
		out = append(out, ch)
	}
	return out
}

// Len returns the number of identities with at least one channel.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// Close closes every registered channel and rejects new registrations.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for _, set := range r.channels {
		for _, ch := range set {
			if err := ch.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	r.channels = make(map[string]map[uint64]Channel)

	return errors.Join(errs...)
}
