package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_searches_total",
			Help: "Total number of company searches executed",
		},
		[]string{"outcome"},
	)

	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_upstream_calls_total",
			Help: "Total number of outbound Aviato API calls",
		},
		[]string{"resource", "outcome"},
	)

	UpstreamRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_upstream_retries_total",
			Help: "Total number of retry attempts against the Aviato API",
		},
		[]string{"resource"},
	)

	CompaniesEnriched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prospector_companies_enriched_total",
			Help: "Companies enriched with founders and employees",
		},
	)

	CompaniesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_companies_dropped_total",
			Help: "Companies dropped from results",
		},
		[]string{"reason"},
	)

	ContactsFlattened = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prospector_contacts_flattened_total",
			Help: "Contacts produced by the flattener",
		},
	)

	EmailCoveragePercent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "prospector_email_coverage_percent",
			Help: "Email coverage of the most recent prospecting run",
		},
		[]string{"kind"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prospector_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 14),
		},
		[]string{"stage"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prospector_sessions_active",
			Help: "Prospecting sessions currently in progress",
		},
	)
)
