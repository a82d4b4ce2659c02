package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Sender delivers replies over SMTP submission (STARTTLS) with XOAUTH2.
// A fresh access token is obtained from the token source for every send;
// expired tokens are re-acquired by the source, never cached here.
type Sender struct {
	addr     string
	username string
	tokens   oauth2.TokenSource
	logger   *zap.Logger
}

// NewSender creates a new SMTP sender
func NewSender(addr, username string, tokens oauth2.TokenSource, logger *zap.Logger) *Sender {
	return &Sender{
		addr:     addr,
		username: username,
		tokens:   tokens,
		logger:   logger,
	}
}

// Send delivers one message to a single recipient.
func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	token, err := s.tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to obtain access token: %w", err)
	}

	client, err := smtp.DialStartTLS(s.addr, nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", s.addr, err)
	}
	defer client.Close()

	if err := client.Auth(sasl.NewXoauth2Client(s.username, token.AccessToken)); err != nil {
		return fmt.Errorf("xoauth2 auth failed: %w", err)
	}

	msg := s.buildMessage(to, subject, body)
	if err := client.SendMail(s.username, []string{to}, strings.NewReader(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	s.logger.Debug("Message handed to SMTP server",
		zap.String("to", to),
		zap.String("subject", subject))
	return client.Quit()
}

func (s *Sender) buildMessage(to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.username)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return b.String()
}
