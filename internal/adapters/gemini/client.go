package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/core"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/utils"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const categorizePrompt = "Categorize the following email content into one of three categories: Interested, Not Interested, More Information. Respond with only the category.\n\nEmail: %s\n\nCategory:"

// Client is a TextGenerator implementation backed by Google Gemini.
type Client struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClient creates a new Gemini client
func NewClient(
	ctx context.Context,
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Client{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// Close closes the Gemini client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
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
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if isThrottled(err) {
			return "", fmt.Errorf("gemini: %w: %v", core.ErrThrottled, err)
		}
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])), nil
}

func isThrottled(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests
}
