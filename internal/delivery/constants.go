package delivery

import "time"

// Channel names
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Transport configuration
const (
	DefaultSendTimeout = 10 * time.Second

	// TwilioAPIBaseURL is the Twilio-compatible REST endpoint base
	TwilioAPIBaseURL = "https://api.twilio.com/2010-04-01"
)

// Error message constants
const (
	ErrMsgSMTPNotConfigured = "smtp host is not configured"
	ErrMsgSMSNotConfigured  = "sms credentials are not configured"
	ErrMsgInvalidPhone      = "invalid US phone number"
	ErrMsgInvalidEmail      = "invalid email address"
)

// Log message constants
const (
	LogMsgInviteSent       = "Invitation delivered"
	LogMsgInviteSendFailed = "Invitation delivery failed"
)
