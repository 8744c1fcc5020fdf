package llmservice

import (
	"context"
	"time"

	"github.com/tmc/langchaingo/llms"
	"golang.org/x/time/rate"
)

// limitedModel spaces calls to the provider. One limiter is shared by every
// query using the model.
type limitedModel struct {
	Model
	limiter *rate.Limiter
}

// WithRateLimit limits model to rpm requests per minute. rpm <= 0 returns
// model unchanged.
func WithRateLimit(model Model, rpm int) Model {
	if rpm <= 0 {
		return model
	}
	return &limitedModel{
		Model:   model,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
	}
}

func (m *limitedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return m.Model.GenerateContent(ctx, messages, options...)
}
