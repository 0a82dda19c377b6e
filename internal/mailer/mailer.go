package mailer

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/spec-kit/account-service/internal/config"
)

// Sender delivers a single HTML email. Delivery failures are the
// caller's to log; nothing here retries.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// LogSender logs emails instead of sending them. Selected when no SMTP
// host is configured, which is the development default.
type LogSender struct {
	logger *zap.Logger
}

// Send logs the email envelope and body.
func (s *LogSender) Send(to, subject, htmlBody string) error {
	s.logger.Info("email (not sent, no SMTP configured)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", htmlBody),
	)
	return nil
}

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// Send dials the relay and sends one message.
func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(msg)
}

// NewSender returns an SMTPSender when a host is configured, otherwise a
// LogSender.
func NewSender(cfg config.MailConfig, logger *zap.Logger) Sender {
	if cfg.Host == "" {
		return &LogSender{logger: logger}
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}
