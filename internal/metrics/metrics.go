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

// Accrual Projection Metrics
var (
	ProjectedGems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameProjectedGems,
			Help: HelpTextProjectedGems,
		},
	)

	ProjectedFill = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameProjectedFill,
			Help: HelpTextProjectedFill,
		},
	)
)

// Claim Metrics
var (
	ClaimsAttempted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameClaimsAttempted,
			Help: HelpTextClaimsAttempted,
		},
	)

	ClaimsConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameClaimsConfirmed,
			Help: HelpTextClaimsConfirmed,
		},
	)

	ClaimsRolledBack = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameClaimsRolledBack,
			Help: HelpTextClaimsRolledBack,
		},
	)

	ClaimsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameClaimsSuppressed,
			Help: HelpTextClaimsSuppressed,
		},
	)

	GemsClaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGemsClaimed,
			Help: HelpTextGemsClaimed,
		},
	)
)

// Progression Metrics
var (
	LevelUpsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLevelUpsApplied,
			Help: HelpTextLevelUpsApplied,
		},
		[]string{LabelRarity},
	)

	XPItemsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameXPItemsConsumed,
			Help: HelpTextXPItemsConsumed,
		},
		[]string{LabelItem},
	)

	AbilityUpgrades = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAbilityUpgrades,
			Help: HelpTextAbilityUpgrades,
		},
	)

	FallbackQuotesServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameFallbackQuotesServed,
			Help: HelpTextFallbackQuotesServed,
		},
	)

	PreviewMismatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePreviewMismatches,
			Help: HelpTextPreviewMismatches,
		},
	)

	UpgradesBlockedLocally = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameUpgradesBlockedLocal,
			Help: HelpTextUpgradesBlockedLocal,
		},
	)
)

// Remote Boundary Metrics
var (
	RemoteCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRemoteCallsTotal,
			Help: HelpTextRemoteCallsTotal,
		},
		[]string{LabelOperation, LabelOutcome},
	)

	RemoteCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameRemoteCallDuration,
			Help:    HelpTextRemoteCallDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelOperation},
	)
)
