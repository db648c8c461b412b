package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/proofofputt/duels/internal/logger"
)

var (
	usTenDigit    = regexp.MustCompile(`^[2-9]\d{9}$`)
	usElevenDigit = regexp.MustCompile(`^1[2-9]\d{9}$`)
	phoneNoise    = regexp.MustCompile(`[\s\-().+]`)
)

// NormalizeUSPhone validates a US phone number and returns it in E.164 form.
// Returns an empty string when the number is not a valid US number.
func NormalizeUSPhone(phone string) string {
	cleaned := phoneNoise.ReplaceAllString(phone, "")

	switch {
	case len(cleaned) == 10 && usTenDigit.MatchString(cleaned):
		return "+1" + cleaned
	case len(cleaned) == 11 && usElevenDigit.MatchString(cleaned):
		return "+" + cleaned
	}
	return ""
}

// SMSConfig holds the Twilio-compatible REST API configuration
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string
	Timeout    time.Duration
}

// SMSChannel delivers duel invitations over SMS via a Twilio-compatible API
type SMSChannel struct {
	cfg    SMSConfig
	client *http.Client
}

// NewSMSChannel creates an SMS delivery channel
func NewSMSChannel(cfg SMSConfig) *SMSChannel {
	if cfg.BaseURL == "" {
		cfg.BaseURL = TwilioAPIBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSendTimeout
	}
	return &SMSChannel{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the channel name
func (c *SMSChannel) Name() string {
	return ChannelSMS
}

// Send delivers the invitation to the recipient phone number
func (c *SMSChannel) Send(ctx context.Context, recipient string, invite Invite) Result {
	result := Result{Channel: ChannelSMS, Recipient: recipient}

	if c.cfg.AccountSID == "" || c.cfg.AuthToken == "" {
		result.Err = errors.New(ErrMsgSMSNotConfigured)
		return result
	}

	normalized := NormalizeUSPhone(recipient)
	if normalized == "" {
		result.Err = errors.New(ErrMsgInvalidPhone)
		return result
	}

	form := url.Values{}
	form.Set("To", normalized)
	form.Set("From", c.cfg.FromNumber)
	form.Set("Body", c.composeBody(invite))

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.cfg.BaseURL, c.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		result.Err = fmt.Errorf("sms request: %w", err)
		return result
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		result.Err = fmt.Errorf("sms send: %w", err)
		logger.Warn(LogMsgInviteSendFailed, "channel", ChannelSMS, "error", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.Err = fmt.Errorf("sms send: unexpected status %d", resp.StatusCode)
		logger.Warn(LogMsgInviteSendFailed, "channel", ChannelSMS, "status", resp.StatusCode)
		return result
	}

	var body struct {
		SID string `json:"sid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		result.MessageID = body.SID
	}

	logger.Info(LogMsgInviteSent, "channel", ChannelSMS, "message_id", result.MessageID)
	return result
}

// composeBody keeps the invite within a single concatenated SMS budget.
func (c *SMSChannel) composeBody(invite Invite) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s challenged you to a putting duel on Proof of Putt!\n", invite.InviterName)
	fmt.Fprintf(&b, "%d putts", invite.Rules.TargetPutts)
	if invite.Rules.TimeLimitMinutes > 0 {
		fmt.Fprintf(&b, " / %dmin", invite.Rules.TimeLimitMinutes)
	}
	fmt.Fprintf(&b, "\nJoin: %s\nReply STOP to opt out", invite.InviteURL)
	return b.String()
}
