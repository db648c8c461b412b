package invitation

import "time"

// Daily quota limits per external channel
const (
	EmailDailyLimit = 10
	EmailBatchLimit = 5
	PhoneDailyLimit = 1
	PhoneBatchLimit = 1
)

// Token format
const (
	TokenBytes  = 32
	TokenLength = TokenBytes * 2 // hex encoded
)

// Player lookup cache configuration
const (
	PlayerCacheSize = 1024
	PlayerCacheTTL  = 5 * time.Minute
)

// Log message constants
const (
	LogMsgInvitationIssued    = "Invitation issued"
	LogMsgInvitationResolved  = "Invitation resolved"
	LogMsgQuotaRejected       = "Invitation rejected by quota"
	LogMsgAllDeliveriesFailed = "All delivery channels failed for invitation"
	LogMsgExpireFailed        = "Failed to expire lapsed invitation"
)
