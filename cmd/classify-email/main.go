package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/config"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/factory"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/logging"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/utils"
)

var (
	// Text generation provider flags
	provider    = flag.String("provider", "gemini", "Text generation provider (gemini, openai, bedrock)")
	maxTokens   = flag.Int("max-tokens", 1024, "Maximum tokens for the model response")
	temperature = flag.Float64("temperature", 0.7, "Temperature for text generation")
	topP        = flag.Float64("top-p", 0.9, "Top-p for text generation")
	maxBodySize = flag.Int("max-body-size", 4096, "Maximum email body size to send to the model")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4", "OpenAI model name")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Input flags
	inputFile  = flag.String("file", "", "Input email body file (use stdin if not specified)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	ctx := context.Background()

	textProcessor := utils.NewTextProcessor(logger)
	llmFactory := factory.NewLLMFactory(cfg, logger, textProcessor)
	generator, err := llmFactory.CreateTextGenerator(ctx)
	if err != nil {
		logger.Fatal("Failed to create text generator", zap.Error(err))
	}
	defer func() {
		if closer, ok := generator.(interface{ Close() error }); ok {
			closer.Close()
		}
	}()

	// Read the email body from file or stdin
	var bodyReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		bodyReader = file
		logger.Info("Reading email body from file", zap.String("file", *inputFile))
	} else {
		bodyReader = os.Stdin
		logger.Info("Reading email body from stdin")
	}

	body, err := io.ReadAll(bodyReader)
	if err != nil {
		logger.Fatal("Failed to read email body", zap.Error(err))
	}

	category, err := generator.Categorize(ctx, string(body))
	if err != nil {
		logger.Fatal("Failed to categorize email", zap.Error(err))
	}

	reply, err := generator.GenerateReply(ctx, category, string(body))
	if err != nil {
		logger.Fatal("Failed to generate reply", zap.Error(err))
	}

	fmt.Printf("Category: %s\n\n%s\n", category, reply)
}

// createConfigFromFlags builds a configuration from the command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("llm.provider", *provider)

	v.Set("gemini.api_key", *geminiAPIKey)
	v.Set("gemini.model_name", *geminiModelName)
	v.Set("gemini.max_tokens", *maxTokens)
	v.Set("gemini.temperature", *temperature)
	v.Set("gemini.top_p", *topP)
	v.Set("gemini.max_body_size", *maxBodySize)

	v.Set("openai.api_key", *openaiAPIKey)
	v.Set("openai.model_name", *openaiModelName)
	v.Set("openai.max_tokens", *maxTokens)
	v.Set("openai.temperature", *temperature)
	v.Set("openai.top_p", *topP)
	v.Set("openai.max_body_size", *maxBodySize)

	v.Set("bedrock.region", *bedrockRegion)
	v.Set("bedrock.model_id", *bedrockModelID)
	v.Set("bedrock.max_tokens", *maxTokens)
	v.Set("bedrock.temperature", *temperature)
	v.Set("bedrock.top_p", *topP)
	v.Set("bedrock.max_body_size", *maxBodySize)

	return config.NewFromViper(v)
}
