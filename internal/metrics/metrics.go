package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillstack_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillstack_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SkillMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillstack_skill_mutations_total",
			Help: "Skill records created, updated or deleted",
		},
		[]string{"action"},
	)

	SummarizeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillstack_summarize_requests_total",
			Help: "Summarize calls by outcome",
		},
		[]string{"outcome"},
	)

	SummarizeLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skillstack_summarize_provider_latency_seconds",
			Help:    "Latency of calls to the summarization provider",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillstack_cache_lookups_total",
			Help: "Cache lookups by key family and result",
		},
		[]string{"family", "result"},
	)

	WSClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "skillstack_ws_clients",
			Help: "Connected /ws/skills clients",
		},
	)

	WSDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillstack_ws_dropped_total",
			Help: "Events or clients dropped by the websocket hub",
		},
		[]string{"reason"},
	)
)
