// internal/pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "zirako",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})

	RewardsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zirako",
		Name:      "rewards_granted_total",
		Help:      "Impact actions recorded, by action kind.",
	}, []string{"kind"})

	PointsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zirako",
		Name:      "points_granted_total",
		Help:      "Points credited to accounts, by action kind.",
	}, []string{"kind"})

	Co2SavedKg = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zirako",
		Name:      "co2_saved_kg_total",
		Help:      "Kilograms of CO2 credited, by action kind.",
	}, []string{"kind"})

	ExchangeDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zirako",
		Name:      "exchange_decisions_total",
		Help:      "Exchange proposals decided, by outcome.",
	}, []string{"decision"})

	NotificationPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zirako",
		Name:      "notification_publish_failures_total",
		Help:      "Best-effort notifications that could not be enqueued.",
	}, []string{"type"})

	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zirako",
		Name:      "emails_total",
		Help:      "Emails delivered by the notification service, by type and result.",
	}, []string{"type", "result"})

	PushDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zirako",
		Name:      "push_deliveries_total",
		Help:      "Chat pushes routed or delivered, by stage and result.",
	}, []string{"stage", "result"})

	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "zirako",
		Name:      "pickup_reminders_total",
		Help:      "Pickup reminders enqueued by the sweeper.",
	})
)
