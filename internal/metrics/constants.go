package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Accrual projection metric names
const (
	MetricNameProjectedGems = "accrual_projected_gems"
	MetricNameProjectedFill = "accrual_fill_fraction"
)

// Claim metric names
const (
	MetricNameClaimsAttempted  = "claims_attempted_total"
	MetricNameClaimsConfirmed  = "claims_confirmed_total"
	MetricNameClaimsRolledBack = "claims_rolled_back_total"
	MetricNameClaimsSuppressed = "claims_suppressed_total"
	MetricNameGemsClaimed      = "gems_claimed_total"
)

// Progression metric names
const (
	MetricNameLevelUpsApplied      = "level_ups_applied_total"
	MetricNameXPItemsConsumed      = "xp_items_consumed_total"
	MetricNameAbilityUpgrades      = "ability_upgrades_total"
	MetricNameFallbackQuotesServed = "fallback_quotes_served_total"
	MetricNamePreviewMismatches    = "preview_mismatches_total"
	MetricNameUpgradesBlockedLocal = "upgrades_blocked_locally_total"
)

// Remote boundary metric names
const (
	MetricNameRemoteCallsTotal   = "remote_calls_total"
	MetricNameRemoteCallDuration = "remote_call_duration_seconds"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Accrual projection metric help text
const (
	HelpTextProjectedGems = "Currently projected gem accrual for the active session's treasure box"
	HelpTextProjectedFill = "Current fill fraction of the active session's treasure box"
)

// Claim metric help text
const (
	HelpTextClaimsAttempted  = "Total number of claim attempts started"
	HelpTextClaimsConfirmed  = "Total number of claims confirmed by the ledger"
	HelpTextClaimsRolledBack = "Total number of claims rolled back after a failure"
	HelpTextClaimsSuppressed = "Total number of claims suppressed by single-flight"
	HelpTextGemsClaimed      = "Total gems credited by confirmed claims"
)

// Progression metric help text
const (
	HelpTextLevelUpsApplied      = "Total number of confirmed prime level-ups"
	HelpTextXPItemsConsumed      = "Total number of experience items consumed"
	HelpTextAbilityUpgrades      = "Total number of confirmed ability upgrades"
	HelpTextFallbackQuotesServed = "Total number of estimated cost quotes served while the quote endpoint was unreachable"
	HelpTextPreviewMismatches    = "Total number of local previews that disagreed with the ledger result"
	HelpTextUpgradesBlockedLocal = "Total number of upgrades blocked by the local affordability gate"
)

// Remote boundary metric help text
const (
	HelpTextRemoteCallsTotal   = "Total number of calls to the remote ledger"
	HelpTextRemoteCallDuration = "Remote ledger call latency in seconds"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelRarity    = "rarity"
	LabelItem      = "item"
)

// HTTPLatencyBuckets are the histogram buckets for HTTP latency, in seconds
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
