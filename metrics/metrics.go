package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesProcessed The total number of processed messages (counter)
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processed_total",
			Help:      "The total number of processed messages",
		},
		[]string{"topic", "handler"},
	)

	// MessagesProcessingFailed total number of message processing failures (counter)
	MessagesProcessingFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processing_failed_total",
			Help:      "The total number of message processing failures",
		},
		[]string{"topic", "handler"},
	)

	// MessagesProcessingDuration The total time spent processing messages (summary with quantiles 0.5, 0.9, and 0.99)
	MessagesProcessingDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "messages",
			Name:       "processing_duration_seconds",
			Help:       "The total time spent processing messages",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"topic", "handler"},
	)

	// FlightEventsIngested counts accepted flight status events by type.
	FlightEventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightops",
			Name:      "events_ingested_total",
			Help:      "The total number of accepted flight status events",
		},
		[]string{"event_type"},
	)

	// EventsRejected counts events dropped at validation.
	EventsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "flightops",
			Name:      "events_rejected_total",
			Help:      "The total number of flight status events rejected by validation",
		},
	)

	// AlertsRaised counts disruption alerts created, by type and severity.
	AlertsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightops",
			Name:      "alerts_raised_total",
			Help:      "The total number of disruption alerts raised",
		},
		[]string{"type", "severity"},
	)

	// AlertsSuppressed counts alerts deduplicated against an unresolved one.
	AlertsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "flightops",
			Name:      "alerts_suppressed_total",
			Help:      "The total number of alerts suppressed by deduplication",
		},
	)

	// Rebookings counts completed automatic rebookings.
	Rebookings = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "flightops",
			Name:      "rebookings_total",
			Help:      "The total number of completed rebookings",
		},
	)
)
