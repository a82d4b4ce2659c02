package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/core"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

const categorizePrompt = "Categorize the following email content into one of three categories: Interested, Not Interested, More Information. Respond with only the category.\n\nEmail: %s\n\nCategory:"

// Client is a TextGenerator implementation backed by Amazon Bedrock.
type Client struct {
	client        *bedrockruntime.Client
	modelID       string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClient creates a new Bedrock client
func NewClient(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Client {
	return &Client{
		client:        client,
		modelID:       modelID,
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

func (c *Client) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.")
}

func (c *Client) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	var payload []byte
	var err error

	if c.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	} else if c.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		if isThrottled(err) {
			return "", fmt.Errorf("bedrock: %w: %v", core.ErrThrottled, err)
		}
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	var out struct {
		Completion string `json:"completion"`
		Results    []struct {
			OutputText string `json:"outputText"`
		} `json:"results"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return "", fmt.Errorf("failed to parse Bedrock response: %w", err)
	}
	if out.Completion != "" {
		return strings.TrimSpace(out.Completion), nil
	}
	if len(out.Results) > 0 && out.Results[0].OutputText != "" {
		return strings.TrimSpace(out.Results[0].OutputText), nil
	}
	return "", fmt.Errorf("empty response from Bedrock")
}

func isThrottled(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "ThrottlingException", "TooManyRequestsException":
		return true
	}
	return false
}
