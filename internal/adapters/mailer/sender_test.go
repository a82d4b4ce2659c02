package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBuildMessage(t *testing.T) {
	s := NewSender("smtp.gmail.com:587", "me@example.com", nil, zap.NewNop())

	msg := s.buildMessage("jane@example.com", "Email from ReachInBox", "Thanks for reaching out!")

	header, body, found := strings.Cut(msg, "\r\n\r\n")
	assert.True(t, found, "message must separate headers from body with a blank line")

	assert.Contains(t, header, "From: me@example.com\r\n")
	assert.Contains(t, header, "To: jane@example.com\r\n")
	assert.Contains(t, header, "Subject: Email from ReachInBox\r\n")
	assert.Contains(t, header, "MIME-Version: 1.0\r\n")
	assert.Contains(t, header, "Content-Type: text/plain; charset=utf-8")
	assert.Equal(t, "Thanks for reaching out!\r\n", body)
}
