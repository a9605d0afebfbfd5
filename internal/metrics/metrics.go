package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesReceived counts frames read from the PubSub connection.
	FramesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sniper_frames_received_total",
			Help: "Total number of frames read from the websocket",
		},
	)

	// DecodeFailures counts frames that could not be decoded.
	DecodeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sniper_decode_failures_total",
			Help: "Total number of frames that failed to decode",
		},
	)

	// EventsDispatched counts events taken off the queue, per event kind.
	EventsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sniper_events_dispatched_total",
			Help: "Total number of events dispatched",
		},
		[]string{"kind"},
	)

	// FailedLogsDropped counts log notifications for failed transactions.
	FailedLogsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sniper_failed_logs_dropped_total",
			Help: "Total number of log notifications dropped because the transaction failed",
		},
	)

	// Enrichments counts getTransaction calls by outcome.
	Enrichments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sniper_enrichments_total",
			Help: "Total number of getTransaction calls",
		},
		[]string{"outcome"},
	)

	// EnrichmentLatency tracks getTransaction round trips.
	EnrichmentLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sniper_enrichment_latency_seconds",
			Help:    "getTransaction latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// QueueDepth is the number of events buffered between ingest and dispatch.
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sniper_queue_depth",
			Help: "Events waiting in the hand-off queue",
		},
	)

	// StorageErrors counts failed downstream writes per record kind.
	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sniper_storage_errors_total",
			Help: "Total number of failed storage writes",
		},
		[]string{"kind"},
	)
)
