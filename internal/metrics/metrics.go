// Package metrics holds the prometheus collectors for the settlement service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Notification results.
const (
	NotifySent    = "sent"
	NotifySkipped = "skipped"
	NotifyFailed  = "failed"
)

// Metrics groups every collector the service exports.
type Metrics struct {
	Notifications         *prometheus.CounterVec
	Settlements           *prometheus.CounterVec
	FriendRequests        *prometheus.CounterVec
	SharedExpensesCreated prometheus.Counter
}

// New creates the collectors and registers them on reg.
// Pass prometheus.NewRegistry() in tests to keep them isolated.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spendwise",
			Name:      "notifications_total",
			Help:      "Push notifications by delivery result.",
		}, []string{"result"}),
		Settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spendwise",
			Name:      "settlements_total",
			Help:      "Settlement requests by outcome. over_settled is counted alongside accepted.",
		}, []string{"outcome"}),
		FriendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spendwise",
			Name:      "friend_requests_total",
			Help:      "Friend graph operations by action.",
		}, []string{"action"}),
		SharedExpensesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spendwise",
			Name:      "shared_expenses_created_total",
			Help:      "Shared expenses created.",
		}),
	}

	reg.MustRegister(m.Notifications, m.Settlements, m.FriendRequests, m.SharedExpensesCreated)
	return m
}

// Nop returns collectors registered on a throwaway registry.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}
