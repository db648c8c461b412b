package duel

// Log message constants
const (
	LogMsgDuelCreated      = "Duel created"
	LogMsgDuelAccepted     = "Duel accepted"
	LogMsgDuelDeclined     = "Duel declined"
	LogMsgDuelCancelled    = "Duel cancelled"
	LogMsgDuelCompleted    = "Duel completed"
	LogMsgDuelRolledBack   = "Duel rolled back after delivery failure"
	LogMsgSessionAttached  = "Session attached to duel"
	LogMsgSweepCompleted   = "Expiry sweep completed"
	LogMsgCompletionRaceOK = "Duel already completed by concurrent submission"
)

// Error message constants
const (
	ErrMsgUnknownScoringMethod = "unknown scoring method"
	ErrMsgAlreadySubmitted     = "session already submitted for this duel"
	ErrMsgNotActive            = "duel is not active"
	ErrMsgNotPending           = "duel is not awaiting a response"
	ErrMsgRegistrationRequired = "registration required to accept this invitation"
	ErrMsgRegistrationInvalid  = "registration requires a username and an email or phone"
)
