package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/adapters/bedrock"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/adapters/gemini"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/adapters/openai"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/config"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/core"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/utils"
)

// LLMFactory creates text generation clients
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewLLMFactory creates a new text generation factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateTextGenerator creates the configured provider client and wraps it
// with the throttle retry policy.
func (f *LLMFactory) CreateTextGenerator(ctx context.Context) (core.TextGenerator, error) {
	inner, err := f.createProvider(ctx)
	if err != nil {
		return nil, err
	}

	requestTimeout, err := f.cfg.GetDuration("llm.request_timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid llm request timeout: %w", err)
	}
	return core.NewRetryingGenerator(inner, requestTimeout, f.logger), nil
}

func (f *LLMFactory) createProvider(ctx context.Context) (core.TextGenerator, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "gemini":
		c := f.cfg.GetGemini()
		return gemini.NewClient(ctx, c.APIKey, c.ModelName, c.MaxTokens, c.Temperature, c.TopP, c.MaxBodySize, f.logger, f.textProcessor)
	case "openai":
		c := f.cfg.GetOpenAI()
		return openai.NewClient(c.APIKey, c.ModelName, c.MaxTokens, c.Temperature, c.TopP, c.MaxBodySize, f.logger, f.textProcessor), nil
	case "bedrock":
		c := f.cfg.GetBedrock()
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		runtime := bedrockruntime.NewFromConfig(awsCfg)
		return bedrock.NewClient(runtime, c.ModelID, c.MaxTokens, c.Temperature, c.TopP, c.MaxBodySize, f.logger, f.textProcessor), nil
	default:
		return nil, fmt.Errorf("unsupported text generation provider: %s", llmConfig.Provider)
	}
}
