package gmail

import (
	"context"
	"fmt"

	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/core"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	user        = "me"
	unreadQuery = "label:INBOX is:unread"
)

// NewTokenSource builds the OAuth2 refresh-token source shared by the
// Gmail API client and the SMTP sender. Access tokens are re-acquired
// transparently when they expire.
func NewTokenSource(ctx context.Context, clientID, clientSecret, redirectURI, refreshToken string) oauth2.TokenSource {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailModifyScope},
	}
	return cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
}

// Client is the MailboxReader implementation over the Gmail API.
type Client struct {
	srv    *gmail.Service
	logger *zap.Logger
}

// NewClient creates a new Gmail client
func NewClient(ctx context.Context, tokens oauth2.TokenSource, logger *zap.Logger) (*Client, error) {
	srv, err := gmail.NewService(ctx, option.WithTokenSource(tokens))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{srv: srv, logger: logger}, nil
}

// FetchNextUnread returns the single oldest unread inbox message, or nil
// when there is none. The UNREAD label is removed before returning, so the
// message will not be surfaced again even if downstream processing fails.
func (c *Client) FetchNextUnread(ctx context.Context) (*core.InboundMessage, error) {
	list, err := c.srv.Users.Messages.List(user).
		MaxResults(1).
		Q(unreadQuery).
		Context(ctx).Do()
	if err != nil {
		return nil, &core.ProviderError{Op: "list unread messages", Err: err}
	}
	if len(list.Messages) == 0 {
		return nil, nil
	}

	id := list.Messages[0].Id
	msg, err := c.srv.Users.Messages.Get(user, id).Context(ctx).Do()
	if err != nil {
		return nil, &core.ProviderError{Op: "get message " + id, Err: err}
	}

	_, err = c.srv.Users.Messages.Modify(user, id, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Context(ctx).Do()
	if err != nil {
		return nil, &core.ProviderError{Op: "mark message read " + id, Err: err}
	}

	c.logger.Debug("Fetched unread message", zap.String("message_id", id))

	return &core.InboundMessage{
		ID:           id,
		InternalDate: msg.InternalDate,
		From:         fromHeader(msg),
		Snippet:      msg.Snippet,
	}, nil
}

func fromHeader(msg *gmail.Message) string {
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			if h.Name == "From" {
				return h.Value
			}
		}
	}
	return "Unknown sender"
}

// RawMessage fetches the full message by id. It backs the ad-hoc HTTP
// read endpoint and is not part of the poll pipeline.
func (c *Client) RawMessage(ctx context.Context, messageID string) (*gmail.Message, error) {
	msg, err := c.srv.Users.Messages.Get(user, messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, &core.ProviderError{Op: "read message " + messageID, Err: err}
	}
	return msg, nil
}
