// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	chatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Chat turns by mode and success.",
		},
		[]string{"mode", "success"},
	)

	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "Remote model call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"provider", "success"},
	)

	retrievalLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retrieval_lookups_total",
			Help: "Study-mode corpus lookups by hit/miss.",
		},
		[]string{"hit"},
	)

	speechRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speech_requests_total",
			Help: "Speech boundary calls by kind (stt/tts) and success.",
		},
		[]string{"kind", "success"},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			chatRequests, aiCallsLatencyMs, retrievalLookups, speechRequests,
		)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func ObserveChat(mode string, success bool) {
	chatRequests.WithLabelValues(norm(mode), strconv.FormatBool(success)).Inc()
}

func ObserveAICall(provider string, success bool, elapsed time.Duration) {
	aiCallsLatencyMs.WithLabelValues(norm(provider), strconv.FormatBool(success)).
		Observe(float64(elapsed.Milliseconds()))
}

func RetrievalResult(hit bool) {
	retrievalLookups.WithLabelValues(strconv.FormatBool(hit)).Inc()
}

func ObserveSpeech(kind string, success bool) {
	speechRequests.WithLabelValues(norm(kind), strconv.FormatBool(success)).Inc()
}
