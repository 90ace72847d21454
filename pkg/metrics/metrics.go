package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label names
const (
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelGame      = "game"
	LabelKind      = "kind"
)

// Outcome label values
const (
	OutcomeSuccess        = "success"
	OutcomeRemoteFailure  = "remote_failure"
	OutcomeSessionExpired = "session_expired"
	OutcomeValidation     = "validation"
	OutcomeSettled        = "settled"
	OutcomeFailed         = "failed"
)

// Gateway metrics
var (
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neobank_gateway_requests_total",
			Help: "Backend requests by operation and outcome",
		},
		[]string{LabelOperation, LabelOutcome},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neobank_gateway_request_duration_seconds",
			Help:    "Backend request latency by operation",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{LabelOperation},
	)
)

// Spin metrics
var (
	SpinRoundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neobank_spin_rounds_total",
			Help: "Completed spin rounds by game and outcome",
		},
		[]string{LabelGame, LabelOutcome},
	)

	SpinRequestsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neobank_spin_requests_dropped_total",
			Help: "Spin requests ignored because a round was already in flight",
		},
		[]string{LabelGame},
	)

	SpinRoundDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neobank_spin_round_duration_seconds",
			Help:    "Wall time from spin request to settlement",
			Buckets: []float64{1, 1.5, 2, 2.5, 3, 4, 5, 7.5, 10},
		},
		[]string{LabelGame},
	)
)

// Notification metrics
var (
	ToastsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neobank_toasts_published_total",
			Help: "Notifications published by kind",
		},
		[]string{LabelKind},
	)

	ToastsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "neobank_toasts_active",
			Help: "Notifications currently visible",
		},
	)
)
