// Package notifier delivers out-of-band messages such as password reset links.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"course-platform/pkg/utils"

	"go.uber.org/zap"
)

// Sender delivers a plain-text message to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New picks SMTP when a host is configured and falls back to logging. The
// message body is only logged when debug is set.
func New(config utils.EmailConfig, debug bool, log *zap.Logger) Sender {
	if config.Host == "" {
		log.Warn("SMTP_HOST not set, emails will only be logged", zap.Bool("with_body", debug))
		return NewLogSender(log, debug)
	}
	return NewSMTPSender(config)
}

// LogSender writes messages to the logger instead of sending them. Bodies can
// carry live reset links, so they are written at debug level and only when
// withBody is set.
type LogSender struct {
	log      *zap.Logger
	withBody bool
}

func NewLogSender(log *zap.Logger, withBody bool) *LogSender {
	return &LogSender{
		log:      log.With(zap.String("component", "notifier")),
		withBody: withBody,
	}
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.log.Info("Email (not sent, log only)",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	if s.withBody {
		s.log.Debug("Email body", zap.String("to", to), zap.String("body", body))
	}
	return nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPSender struct {
	addr     string
	host     string
	from     string
	auth     smtp.Auth
	sendMail sendMailFunc
}

func NewSMTPSender(config utils.EmailConfig) *SMTPSender {
	s := &SMTPSender{
		addr:     net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		host:     config.Host,
		from:     config.From,
		sendMail: smtp.SendMail,
	}
	if config.User != "" {
		s.auth = smtp.PlainAuth("", config.User, config.Password, config.Host)
	}
	return s
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if strings.ContainsAny(to, "\r\n") || strings.ContainsAny(subject, "\r\n") {
		return errors.New("header values must not contain line breaks")
	}

	msg := buildMessage(s.from, to, subject, body, time.Now())

	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(s.addr, s.auth, s.from, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail via %s: %w", s.host, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMessage(from, to, subject, body string, date time.Time) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("Date: " + date.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
