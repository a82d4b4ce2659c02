package core

import (
	"strings"
)

// Category is the classifier's verdict for an inbound email.
type Category string

const (
	CategoryInterested      Category = "Interested"
	CategoryNotInterested   Category = "Not Interested"
	CategoryMoreInformation Category = "More Information"
	// CategoryUnknown marks a label the model produced that we don't
	// recognize. It halts reply generation.
	CategoryUnknown Category = "Unknown"
)

// ParseCategory maps a raw model label onto a Category. Labels are matched
// case-insensitively after trimming; anything unrecognized is Unknown.
func ParseCategory(label string) Category {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "interested":
		return CategoryInterested
	case "not interested":
		return CategoryNotInterested
	case "more information":
		return CategoryMoreInformation
	default:
		return CategoryUnknown
	}
}

// InboundMessage is one unread email as surfaced by the mailbox provider.
// Fetching it has the side effect of marking it read upstream, so an
// InboundMessage will not be re-surfaced by the reader.
type InboundMessage struct {
	ID           string
	InternalDate int64
	// From is the raw From header value, or "Unknown sender" if the
	// header was absent.
	From    string
	Snippet string
}

// DraftReply is a generated reply waiting for delivery. SenderEmail is the
// raw header value; the delivery side extracts the bare address from it.
type DraftReply struct {
	Reply       string `json:"reply"`
	SenderEmail string `json:"senderEmail"`
}

// ReplyJob is the durable queue envelope wrapping a DraftReply.
type ReplyJob struct {
	ID          string `json:"id"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
	EnqueuedAt  int64  `json:"enqueued_at"`
	DraftReply
}
