// Package summary produces a short TL;DR of aggregated answers with a
// single model call.
package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"document-query/internal/config"
	"document-query/internal/llmservice"
	"document-query/internal/models"
)

const prefix = "TL;DR:\n"

var ErrEmptySummary = errors.New("model returned an empty summary")

type Summarizer struct {
	model       llmservice.Model
	maxTokens   int
	temperature float64
}

func NewSummarizer(model llmservice.Model, llmConfig *config.LLMConfig) *Summarizer {
	return &Summarizer{
		model:       model,
		maxTokens:   llmConfig.MaxTokens,
		temperature: llmConfig.Temperature,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, content string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, models.SummarySystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, content),
	}

	var opts []llms.CallOption
	if s.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(s.maxTokens))
	}
	if s.temperature > 0 {
		opts = append(opts, llms.WithTemperature(s.temperature))
	}

	text, err := llmservice.GenerateContent(ctx, s.model, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	if text == "" {
		return "", ErrEmptySummary
	}
	return prefix + text, nil
}
