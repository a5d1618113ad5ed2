package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsDispatched counts notifications that passed every gate
	// and were appended to the event log.
	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chapelcast_notifications_dispatched_total",
		Help: "Notifications delivered, by event type.",
	}, []string{"type"})

	// NotificationsSuppressed counts notifications dropped by a gate.
	NotificationsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chapelcast_notifications_suppressed_total",
		Help: "Notifications suppressed, by reason (preference_off, quiet_hours, daily_cap, weekly_cap).",
	}, []string{"reason"})

	// FeedConnections tracks open websocket feed connections.
	FeedConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chapelcast_feed_connections",
		Help: "Open notification feed websocket connections.",
	})
)
