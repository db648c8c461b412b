package delivery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/proofofputt/duels/internal/logger"
)

// SMTPConfig holds the SMTP transport configuration
type SMTPConfig struct {
	Host    string
	Port    int
	User    string
	Pass    string
	From    string
	Timeout time.Duration
}

// EmailChannel delivers duel invitations over SMTP
type EmailChannel struct {
	cfg    SMTPConfig
	sendFn func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailChannel creates an email delivery channel
func NewEmailChannel(cfg SMTPConfig) *EmailChannel {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSendTimeout
	}
	return &EmailChannel{
		cfg:    cfg,
		sendFn: smtp.SendMail,
	}
}

// Name returns the channel name
func (c *EmailChannel) Name() string {
	return ChannelEmail
}

// Send delivers the invitation to the recipient address
func (c *EmailChannel) Send(ctx context.Context, recipient string, invite Invite) Result {
	result := Result{Channel: ChannelEmail, Recipient: recipient}

	if strings.TrimSpace(c.cfg.Host) == "" {
		result.Err = errors.New(ErrMsgSMTPNotConfigured)
		return result
	}

	if _, err := mail.ParseAddress(recipient); err != nil {
		result.Err = fmt.Errorf("%s: %w", ErrMsgInvalidEmail, err)
		return result
	}

	body := c.composeBody(invite)
	msg := formatMessage(c.cfg.From, recipient, c.subject(invite), body)
	addr := net.JoinHostPort(c.cfg.Host, fmt.Sprintf("%d", c.cfg.Port))

	var auth smtp.Auth
	if c.cfg.User != "" {
		auth = smtp.PlainAuth("", c.cfg.User, c.cfg.Pass, c.cfg.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- c.sendFn(addr, auth, c.cfg.From, []string{recipient}, []byte(msg))
	}()

	select {
	case err := <-done:
		if err != nil {
			result.Err = fmt.Errorf("smtp send: %w", err)
			logger.Warn(LogMsgInviteSendFailed, "channel", ChannelEmail, "error", err)
			return result
		}
	case <-time.After(c.cfg.Timeout):
		result.Err = fmt.Errorf("smtp send: timeout after %s", c.cfg.Timeout)
		return result
	case <-ctx.Done():
		result.Err = ctx.Err()
		return result
	}

	logger.Info(LogMsgInviteSent, "channel", ChannelEmail)
	return result
}

func (c *EmailChannel) subject(invite Invite) string {
	return fmt.Sprintf("%s challenged you to a putting duel", invite.InviterName)
}

func (c *EmailChannel) composeBody(invite Invite) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s challenged you to a putting duel on Proof of Putt!\r\n\r\n", invite.InviterName)
	fmt.Fprintf(&b, "Target: %d putts\r\n", invite.Rules.TargetPutts)
	if invite.Rules.TimeLimitMinutes > 0 {
		fmt.Fprintf(&b, "Time limit: %d minutes\r\n", invite.Rules.TimeLimitMinutes)
	}
	fmt.Fprintf(&b, "Scoring: %s\r\n", invite.Rules.ScoringMethod)
	if invite.Message != "" {
		fmt.Fprintf(&b, "\r\n%q\r\n", invite.Message)
	}
	fmt.Fprintf(&b, "\r\nAccept or decline: %s\r\n", invite.InviteURL)
	return b.String()
}

func formatMessage(from, to, subject, body string) string {
	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", escapeHeader(subject)),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
	}
	return strings.Join(headers, "\r\n") + body
}

func escapeHeader(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return value
}
