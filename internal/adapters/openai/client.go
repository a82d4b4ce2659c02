package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/core"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const categorizePrompt = "Categorize the following email content into one of three categories: Interested, Not Interested, More Information. Respond with only the category.\n\nEmail: %s\n\nCategory:"

// Client is a TextGenerator implementation backed by OpenAI.
type Client struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClient creates a new OpenAI client
func NewClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Client {
	return &Client{
		client:        openai.NewClient(apiKey),
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Categorize asks the model to label the content with one of the three
// known categories.
func (c *Client) Categorize(ctx context.Context, content string) (core.Category, error) {
	prompt := fmt.Sprintf(categorizePrompt, c.textProcessor.ProcessText(content, c.maxBodySize))
	out, err := c.generate(ctx, prompt)
	if err != nil {
		return core.CategoryUnknown, err
	}
	return core.ParseCategory(out), nil
}

// GenerateReply drafts a reply for the given category and message body.
func (c *Client) GenerateReply(ctx context.Context, category core.Category, message string) (string, error) {
	prompt, err := replyPrompt(category, c.textProcessor.ProcessText(message, c.maxBodySize))
	if err != nil {
		return "", err
	}
	return c.generate(ctx, prompt)
}

func replyPrompt(category core.Category, message string) (string, error) {
	switch category {
	case core.CategoryInterested:
		return fmt.Sprintf("content of the mail is -%s and Generate a polite response for an interested email", message), nil
	case core.CategoryNotInterested:
		return fmt.Sprintf("content of the mail is -%s and Generate a polite response for a not interested email.", message), nil
	case core.CategoryMoreInformation:
		return fmt.Sprintf("content of the mail is -%s and Generate a polite response asking for more information.", message), nil
	default:
		return "", &core.CategoryError{Category: category}
	}
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an assistant that triages inbound email and drafts replies. Respond with plain text only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if isThrottled(err) {
			return "", fmt.Errorf("openai: %w: %v", core.ErrThrottled, err)
		}
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func isThrottled(err error) bool {
	var apiErr *openai.APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests
}
