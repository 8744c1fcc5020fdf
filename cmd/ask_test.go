package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"document-query/internal/models"
	"document-query/internal/testutil"
	"document-query/internal/tracker"
)

const question = "What are the key considerations for token design?"

// scriptedModel answers a section with the first page marker it contains and
// answers summary requests with a fixed recap.
type scriptedModel struct {
	mu         sync.Mutex
	failPage   int
	sections   int
	summarized []string
}

func (m *scriptedModel) GenerateContent(_ context.Context, msgs []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if msgs[0].Role == llms.ChatMessageTypeSystem {
		m.summarized = append(m.summarized, msgs[1].Parts[0].(llms.TextContent).Text)
		return reply("*Tokens* need a clear legal classification."), nil
	}

	m.sections++
	text := msgs[0].Parts[0].(llms.TextContent).Text
	for n := 1; n <= 10; n++ {
		if !strings.Contains(text, testutil.PageMarker(n)) {
			continue
		}
		if n == m.failPage {
			return nil, errors.New("429 resource exhausted")
		}
		return reply(fmt.Sprintf("Answer from page %d", n)), nil
	}
	return reply(""), nil
}

func reply(text string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}
}

func TestAsk_RequiresQuestion(t *testing.T) {
	env := newTestEnv(t, 0)

	_, err := env.run(t, &scriptedModel{}, "ask")
	assert.Error(t, err)

	_, err = env.run(t, &scriptedModel{}, "ask", "   ")
	assert.ErrorContains(t, err, "must not be empty")
}

func TestAsk_NoDocument(t *testing.T) {
	env := newTestEnv(t, 0)
	model := &scriptedModel{}

	out, err := env.run(t, model, "ask", question)
	require.NoError(t, err)

	assert.Contains(t, out, models.NoDocumentMsg)
	assert.NotContains(t, out, "Analysis Complete")
	assert.Zero(t, model.sections)
}

func TestAsk_StreamsSections(t *testing.T) {
	env := newTestEnv(t, 10)
	model := &scriptedModel{failPage: 5}

	out, err := env.run(t, model, "ask", "--tldr", question)
	require.NoError(t, err)

	assert.Contains(t, out, "Section 1/4 · First Quarter (Pages 1-2)")
	assert.Contains(t, out, "Answer from page 1")
	assert.Contains(t, out, "Section 3/4 · Third Quarter (Pages 5-6)")
	assert.Contains(t, out, "Error processing section 3. Please try again.")
	assert.Contains(t, out, "Section 4/4 · Fourth Quarter (Pages 7-10)")
	assert.Contains(t, out, "Answer from page 7")
	assert.Contains(t, out, "Analysis Complete")
	assert.Contains(t, out, "TL;DR Summary")
	assert.Contains(t, out, "*Tokens* need a clear legal classification.")
	assert.Equal(t, 4, model.sections)

	// only successful sections reach the summary
	require.Len(t, model.summarized, 1)
	assert.Equal(t, "Answer from page 1\n\nAnswer from page 3\n\nAnswer from page 7", model.summarized[0])
}

func TestAsk_SkipsEmptySections(t *testing.T) {
	env := newTestEnv(t, 3)
	model := &scriptedModel{}

	out, err := env.run(t, model, "ask", question)
	require.NoError(t, err)

	assert.NotContains(t, out, "Section 1/4")
	assert.Contains(t, out, "Section 4/4 · Fourth Quarter (Pages 1-3)")
	assert.Contains(t, out, "Answer from page 1")
	assert.Equal(t, 1, model.sections)
}

func TestAsk_SecondRunServedFromCache(t *testing.T) {
	env := newTestEnv(t, 10)
	model := &scriptedModel{}

	_, err := env.run(t, model, "ask", question)
	require.NoError(t, err)
	out, err := env.run(t, model, "ask", strings.ToUpper(question))
	require.NoError(t, err)

	assert.Contains(t, out, "Answer from page 7")
	assert.Equal(t, 4, model.sections)
}

func TestAsk_RecordsInteraction(t *testing.T) {
	env := newTestEnv(t, 10)

	out, err := env.run(t, &scriptedModel{}, "ask", question)
	require.NoError(t, err)

	tr, err := tracker.New(env.dataDir)
	require.NoError(t, err)
	last, err := tr.LastQuery()
	require.NoError(t, err)

	assert.Equal(t, question, last.Content)
	require.NotNil(t, last.Response)
	assert.Contains(t, *last.Response, "Answer from page 1")
	assert.Contains(t, *last.Response, "Answer from page 7")
	assert.Contains(t, out, "--ref "+last.ID)
}

func TestFeedback_RatesLastAnswer(t *testing.T) {
	env := newTestEnv(t, 10)
	_, err := env.run(t, &scriptedModel{}, "ask", question)
	require.NoError(t, err)

	out, err := env.run(t, nil, "feedback", "4", "clear", "and", "short")
	require.NoError(t, err)
	assert.Contains(t, out, "Thanks for the feedback!")

	tr, err := tracker.New(env.dataDir)
	require.NoError(t, err)
	all, err := tr.Interactions()
	require.NoError(t, err)
	require.Len(t, all, 2)

	var fb tracker.Feedback
	require.NoError(t, json.Unmarshal([]byte(all[1].Content), &fb))
	assert.Equal(t, all[0].ID, fb.MessageID)
	assert.Equal(t, 4, fb.Score)
	assert.Equal(t, "clear and short", fb.Comment)
}

func TestFeedback_ExplicitRef(t *testing.T) {
	env := newTestEnv(t, 0)

	_, err := env.run(t, nil, "feedback", "--ref", "q-42", "2")
	require.NoError(t, err)

	tr, err := tracker.New(env.dataDir)
	require.NoError(t, err)
	all, err := tr.Interactions()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Contains(t, all[0].Content, `"message_id":"q-42"`)
}

func TestFeedback_Errors(t *testing.T) {
	env := newTestEnv(t, 0)

	_, err := env.run(t, nil, "feedback", "3")
	assert.ErrorIs(t, err, tracker.ErrNoQuery)

	for _, score := range []string{"0", "6", "great"} {
		_, err := env.run(t, nil, "feedback", "--ref", "q-1", score)
		assert.ErrorContains(t, err, "score must be", score)
	}

	_, err = env.run(t, nil, "feedback")
	assert.Error(t, err)
}
