// Package rag answers questions against a partitioned document, one model
// call per partition, and streams the per-partition answers in order.
package rag

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"document-query/internal/cache"
	"document-query/internal/config"
	"document-query/internal/llmservice"
	"document-query/internal/models"
	"document-query/internal/partition"
	"document-query/internal/sanitize"
)

type Options struct {
	// CacheHitDelay keeps cache hits from returning faster than the caller
	// can render. Zero or negative disables it.
	CacheHitDelay time.Duration
	// PaceInterval is the pause after each yielded answer.
	PaceInterval time.Duration
}

// Engine owns the partitions and answer cache of one document.
type Engine struct {
	model      llmservice.Model
	store      *cache.Store
	partitions []models.Partition
	opts       Options
}

func NewEngine(model llmservice.Model, store *cache.Store, partitions []models.Partition, opts Options) *Engine {
	return &Engine{
		model:      model,
		store:      store,
		partitions: partitions,
		opts:       opts,
	}
}

// Initialize loads the answer cache from the configured cache directory and
// partitions the configured document into it. A missing or unreadable
// document leaves the engine with no partitions; it is not an error.
func Initialize(cfg *config.Config, model llmservice.Model) (*Engine, error) {
	dir := cfg.Document.CacheDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	store, err := cache.Load(dir)
	if err != nil {
		log.Warn().Err(err).Msg("Ignoring unreadable response cache")
		store = cache.Empty(dir)
	}

	p, err := partition.New(cfg.Document.ArtifactFormat)
	if err != nil {
		return nil, err
	}
	parts := p.Split(cfg.Document.Path, dir)

	return NewEngine(model, store, parts, Options{
		CacheHitDelay: cfg.Engine.CacheHitDelay,
		PaceInterval:  cfg.Engine.PaceInterval,
	}), nil
}

func (e *Engine) PartitionCount() int {
	return len(e.partitions)
}

func (e *Engine) Partitions() []models.Partition {
	out := make([]models.Partition, len(e.partitions))
	copy(out, e.partitions)
	return out
}

func (e *Engine) Store() *cache.Store {
	return e.store
}

// Close removes the partition artifacts. Errors are ignored.
func (e *Engine) Close() {
	partition.Remove(e.partitions)
}

// Answer queries a single partition. Model failures are reported as a
// StatusFailed answer carrying a retry message and are never cached. The
// returned error is reserved for failures outside the model call, such as an
// unreadable artifact.
func (e *Engine) Answer(ctx context.Context, question string, index int) (models.Answer, error) {
	if index < 0 || index >= len(e.partitions) {
		return models.Answer{}, fmt.Errorf("partition %d out of range [0, %d)", index, len(e.partitions))
	}
	part := e.partitions[index]
	answer := models.Answer{Index: index, Label: part.Label}

	if text, ok := e.store.Get(question, index); ok {
		sleep(ctx, e.opts.CacheHitDelay)
		answer.Text = text
		answer.Status = models.StatusSuccess
		answer.Cached = true
		return answer, nil
	}

	if part.Path == "" {
		answer.Status = models.StatusEmpty
		return answer, nil
	}

	data, err := os.ReadFile(part.Path)
	if err != nil {
		return models.Answer{}, fmt.Errorf("failed to read partition %d: %w", index, err)
	}

	text, err := llmservice.GenerateContent(ctx, e.model, sectionMessages(part, data, question))
	if err != nil {
		log.Error().Err(err).Int("partition", index).Msg("Error processing partition")
		answer.Status = models.StatusFailed
		answer.Text = fmt.Sprintf(models.RetrySectionMsg, index+1)
		answer.Err = err
		return answer, nil
	}
	if text == "" {
		answer.Status = models.StatusEmpty
		return answer, nil
	}

	answer.Text = sanitize.Clean(text)
	answer.Status = models.StatusSuccess
	if err := e.store.Put(question, index, answer.Text); err != nil {
		log.Error().Err(err).Int("partition", index).Msg("Error persisting response cache")
	}
	return answer, nil
}

// sectionMessages builds a fresh single-turn conversation: the partition
// content followed by the question prompt.
func sectionMessages(part models.Partition, data []byte, question string) []llms.MessageContent {
	var content llms.ContentPart
	if part.MimeType == models.MimeTypeText {
		content = llms.TextPart(string(data))
	} else {
		content = llms.BinaryPart(part.MimeType, data)
	}

	return []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				content,
				llms.TextPart(fmt.Sprintf(models.SectionPromptTemplate, question)),
			},
		},
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
