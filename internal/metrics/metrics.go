package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Duel Metrics
var (
	DuelsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDuelsCreated,
			Help: HelpTextDuelsCreated,
		},
	)

	DuelsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDuelsCompleted,
			Help: HelpTextDuelsCompleted,
		},
		[]string{LabelOutcome},
	)

	DuelsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDuelsExpired,
			Help: HelpTextDuelsExpired,
		},
	)

	InvitationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameInvitationsSent,
			Help: HelpTextInvitationsSent,
		},
		[]string{LabelChannel},
	)

	InvitationsQuotaRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameInvitationsQuota,
			Help: HelpTextInvitationsQuota,
		},
		[]string{LabelChannel},
	)

	DeliveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDeliveryFailures,
			Help: HelpTextDeliveryFailures,
		},
		[]string{LabelChannel},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameSweepDuration,
			Help:    HelpTextSweepDuration,
			Buckets: prometheus.DefBuckets,
		},
	)

	SessionSubmissions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSessionSubmissions,
			Help: HelpTextSessionSubmissions,
		},
	)
)
