package rag

import (
	"context"
	"fmt"
	"iter"

	"github.com/rs/zerolog/log"

	"document-query/internal/helper"
	"document-query/internal/models"
)

// Stream yields one answer per partition in ascending index order, querying
// a partition only after the previous answer has been consumed. Partitions
// with no content are skipped, so fewer answers than partitions may be
// yielded. A failing partition yields a StatusFailed answer and the stream
// moves on. With no partitions the stream yields a single StatusFailed
// answer. Iteration stops when the consumer breaks or ctx is done.
func (e *Engine) Stream(ctx context.Context, question string) iter.Seq[models.Answer] {
	return func(yield func(models.Answer) bool) {
		queryID, err := helper.GenerateUUID()
		if err != nil {
			queryID = "unknown"
		}
		logger := log.With().Str("query_id", queryID).Logger()

		if len(e.partitions) == 0 {
			logger.Warn().Msg("Query received with no document loaded")
			yield(models.Answer{Index: -1, Text: models.NoDocumentMsg, Status: models.StatusFailed})
			return
		}

		logger.Info().Str("question", question).Int("partitions", len(e.partitions)).Msg("Streaming answers")
		for i := range e.partitions {
			if ctx.Err() != nil {
				logger.Info().Err(ctx.Err()).Int("partition", i).Msg("Query cancelled")
				return
			}

			answer, err := e.safeAnswer(ctx, question, i)
			if err != nil {
				logger.Error().Err(err).Int("partition", i).Msg("Error in partition")
				answer = models.Answer{
					Index:  i,
					Label:  e.partitions[i].Label,
					Text:   fmt.Sprintf(models.ContinueSectionMsg, i+1),
					Status: models.StatusFailed,
					Err:    err,
				}
			}

			switch answer.Status {
			case models.StatusEmpty:
				logger.Debug().Int("partition", i).Msg("No content for partition")
				continue
			case models.StatusSuccess, models.StatusFailed:
				logger.Debug().Int("partition", i).Stringer("status", answer.Status).Bool("cached", answer.Cached).Msg("Partition answered")
				if !yield(answer) {
					return
				}
			}

			if i < len(e.partitions)-1 {
				sleep(ctx, e.opts.PaceInterval)
			}
		}
	}
}

// StreamAnswers is Stream reduced to the answer texts.
func (e *Engine) StreamAnswers(ctx context.Context, question string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for answer := range e.Stream(ctx, question) {
			if !yield(answer.Text) {
				return
			}
		}
	}
}

// safeAnswer runs Answer and converts a panic into an error so one
// partition cannot end the stream.
func (e *Engine) safeAnswer(ctx context.Context, question string, index int) (answer models.Answer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("partition %d panicked: %v", index, r)
		}
	}()
	return e.Answer(ctx, question, index)
}
