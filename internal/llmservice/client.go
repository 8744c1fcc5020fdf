package llmservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/googleai/vertex"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"document-query/internal/config"
)

var (
	ErrUnknownProvider = errors.New("unknown llm provider")
	ErrMissingAPIKey   = errors.New("missing api key")
	ErrMissingProject  = errors.New("missing cloud project")
)

// Model is the part of a langchaingo model the engine uses.
type Model interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// NewModel builds the provider named in llmConfig and applies its request
// rate limit.
func NewModel(ctx context.Context, llmConfig *config.LLMConfig) (Model, error) {
	log.Debug().
		Str("provider", llmConfig.Provider).
		Str("model", llmConfig.Model).
		Str("base_url", llmConfig.BaseURL).
		Msg("Creating llm client")

	var (
		model Model
		err   error
	)
	switch llmConfig.Provider {
	case "vertex":
		if llmConfig.Project == "" {
			return nil, fmt.Errorf("vertex: %w", ErrMissingProject)
		}
		model, err = vertex.New(ctx,
			googleai.WithCloudProject(llmConfig.Project),
			googleai.WithCloudLocation(llmConfig.Location),
			googleai.WithDefaultModel(llmConfig.Model),
		)
	case "googleai":
		if llmConfig.Key == "" {
			return nil, fmt.Errorf("googleai: %w", ErrMissingAPIKey)
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(llmConfig.Key),
			googleai.WithDefaultModel(llmConfig.Model),
		)
	case "openai":
		if llmConfig.Key == "" {
			return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
		}
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
			openai.WithModel(llmConfig.Model),
		}
		if llmConfig.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(llmConfig.BaseURL))
		}
		model, err = openai.New(opts...)
	case "ollama":
		opts := []ollama.Option{ollama.WithModel(llmConfig.Model)}
		if llmConfig.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(llmConfig.BaseURL))
		}
		model, err = ollama.New(opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, llmConfig.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", llmConfig.Provider, err)
	}

	return WithRateLimit(model, llmConfig.RequestsPerMinute), nil
}

// GenerateContent calls the model and returns the text of the first choice.
// An empty string with a nil error means the model produced no content.
// Every call is logged at debug level with its latency.
func GenerateContent(ctx context.Context, model Model, messages []llms.MessageContent, options ...llms.CallOption) (string, error) {
	start := time.Now()
	res, err := model.GenerateContent(ctx, messages, options...)
	elapsed := time.Since(start)
	if err != nil {
		log.Debug().Err(err).Dur("elapsed", elapsed).Int("messages", len(messages)).Msg("LLM call failed")
		return "", err
	}
	if res == nil || len(res.Choices) == 0 || res.Choices[0] == nil {
		log.Debug().Dur("elapsed", elapsed).Int("messages", len(messages)).Msg("LLM returned no choices")
		return "", nil
	}

	text := strings.TrimSpace(res.Choices[0].Content)
	log.Debug().Dur("elapsed", elapsed).Int("messages", len(messages)).Int("chars", len(text)).Msg("LLM call completed")
	return text, nil
}
