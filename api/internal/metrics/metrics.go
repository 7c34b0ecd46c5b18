// Package metrics exposes Prometheus counters for the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formbot_backend_requests_total",
			Help: "Requests issued to the document-processing backend, by operation",
		},
		[]string{"op"},
	)

	BackendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formbot_backend_errors_total",
			Help: "Failed backend requests (transport errors and non-2xx responses), by operation",
		},
		[]string{"op"},
	)

	SessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formbot_sessions_started_total",
			Help: "Sessions created after a successful document intake, by document kind",
		},
		[]string{"kind"},
	)

	SessionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formbot_sessions_completed_total",
			Help: "Sessions that reached a successful terminal export, by document kind",
		},
		[]string{"kind"},
	)

	SessionsAbandoned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "formbot_sessions_abandoned_total",
			Help: "Sessions discarded by a replacement upload before completion",
		},
	)

	CleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "formbot_cleanup_failures_total",
			Help: "Backend session releases that failed and were swallowed",
		},
	)

	PreviewRefreshes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "formbot_preview_refreshes_total",
			Help: "Live preview renders requested after committed field changes",
		},
	)

	TranscriptsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "formbot_transcripts_rejected_total",
			Help: "Voice recordings that produced an empty or failed transcription",
		},
	)
)
