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

// Duel metric names
const (
	MetricNameDuelsCreated       = "duels_created_total"
	MetricNameDuelsCompleted     = "duels_completed_total"
	MetricNameDuelsExpired       = "duels_expired_total"
	MetricNameInvitationsSent    = "invitations_sent_total"
	MetricNameInvitationsQuota   = "invitations_quota_rejected_total"
	MetricNameDeliveryFailures   = "invitation_delivery_failures_total"
	MetricNameSweepDuration      = "sweep_duration_seconds"
	MetricNameSessionSubmissions = "session_submissions_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Number of HTTP requests currently being served"

	HelpTextDuelsCreated       = "Total number of duels created"
	HelpTextDuelsCompleted     = "Total number of duels completed, by outcome"
	HelpTextDuelsExpired       = "Total number of duels flipped to expired by the sweep"
	HelpTextInvitationsSent    = "Total number of invitations sent, by method"
	HelpTextInvitationsQuota   = "Total number of invitations rejected by quota, by channel"
	HelpTextDeliveryFailures   = "Total number of failed invitation deliveries, by channel"
	HelpTextSweepDuration      = "Duration of expiry sweep passes in seconds"
	HelpTextSessionSubmissions = "Total number of duel session submissions"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelChannel = "channel"
	LabelOutcome = "outcome"
)

// HTTPLatencyBuckets are the histogram buckets for request latency
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
