package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spendwise-app/SpendWise/internal/metrics"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 5 * time.Second

// Dispatcher sends notifications to whatever channels an identity has registered.
type Dispatcher struct {
	registry *Registry
	metrics  *metrics.Metrics
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher reading channels from registry.
// A zero timeout means DefaultTimeout.
func NewDispatcher(registry *Registry, m *metrics.Metrics, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{registry: registry, metrics: m, timeout: timeout}
}

// Notify queues a push to identityID and returns immediately.
// link is an optional deep link; pass "" for none.
func (d *Dispatcher) Notify(ctx context.Context, identityID, title, body, link string) {
	channels := d.registry.Lookup(identityID)
	if len(channels) == 0 {
		d.metrics.Notifications.WithLabelValues(metrics.NotifySkipped).Inc()
		slog.Debug("No push channel registered", "identity_id", identityID, "title", title)
		return
	}

	payload := Payload{Title: title, Body: body, URL: link}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		// The request that triggered the push may finish first.
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		for _, ch := range channels {
			d.deliver(sendCtx, identityID, ch, payload)
		}
	}()
}

// Wait blocks until every queued delivery has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, identityID string, ch Channel, payload Payload) {
	defer func() {
		if r := recover(); r != nil {
			d.metrics.Notifications.WithLabelValues(metrics.NotifyFailed).Inc()
			slog.Error("Push channel panicked", "identity_id", identityID, "error", fmt.Sprint(r))
		}
	}()

	if err := ch.Send(ctx, payload); err != nil {
		d.metrics.Notifications.WithLabelValues(metrics.NotifyFailed).Inc()
		slog.Warn("Failed to send push notification",
			"identity_id", identityID,
			"title", payload.Title,
			"error", err,
		)
		return
	}

	d.metrics.Notifications.WithLabelValues(metrics.NotifySent).Inc()
	slog.Debug("Push notification sent", "identity_id", identityID, "title", payload.Title)
}
