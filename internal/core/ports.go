package core

import (
	"context"
)

// MailboxReader fetches the single oldest unread message from the inbox.
// A nil message with a nil error means the inbox had no unread mail.
// Fetching marks the message read at the provider as a side effect.
type MailboxReader interface {
	FetchNextUnread(ctx context.Context) (*InboundMessage, error)
}

// TextGenerator is the classify/draft surface over the text-generation
// provider.
type TextGenerator interface {
	// Categorize asks the model to label the content with exactly one
	// of the three known categories.
	Categorize(ctx context.Context, content string) (Category, error)

	// GenerateReply drafts a reply for the given category and message
	// body. A category outside the known set fails with a CategoryError.
	GenerateReply(ctx context.Context, category Category, message string) (string, error)
}

// ReplyQueue enqueues drafted replies for asynchronous delivery. The
// returned id identifies the durable job.
type ReplyQueue interface {
	Enqueue(ctx context.Context, draft DraftReply) (string, error)
}

// ProgressStore holds the id of the most recently processed inbound
// message. An empty id means nothing has been processed yet.
type ProgressStore interface {
	LastMessageID(ctx context.Context) (string, error)
	SetLastMessageID(ctx context.Context, id string) error
}

// MailSender delivers one outbound message.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
