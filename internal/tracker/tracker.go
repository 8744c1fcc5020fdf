// Package tracker appends user interactions and feedback to a JSON Lines
// log for later review.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"document-query/internal/models"
)

const (
	TypeQuery    = "query"
	TypeFeedback = "feedback"
)

var ErrNoQuery = errors.New("no query recorded")

type Interaction struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
	Type      string    `json:"message_type"`
	Content   string    `json:"content"`
	Response  *string   `json:"response"`
}

// Feedback is stored JSON encoded in the Content of a TypeFeedback
// interaction.
type Feedback struct {
	MessageID string    `json:"message_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Tracker struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New returns a tracker writing to dir/interactions.jsonl, creating dir if
// needed.
func New(dir string) (*Tracker, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create interaction directory: %w", err)
	}
	return &Tracker{path: filepath.Join(dir, models.InteractionsFile), now: time.Now}, nil
}

func (t *Tracker) Path() string {
	return t.path
}

// Log appends one interaction. A zero Timestamp is set to the current time.
func (t *Tracker) Log(i Interaction) error {
	if i.Timestamp.IsZero() {
		i.Timestamp = t.now()
	}
	line, err := json.Marshal(i)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open interaction log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("failed to write interaction log: %w", err)
	}
	return f.Close()
}

// LogQuery records a question and the answer text shown for it.
func (t *Tracker) LogQuery(id, username, question, response string) error {
	return t.Log(Interaction{
		ID:       id,
		Username: username,
		Type:     TypeQuery,
		Content:  question,
		Response: &response,
	})
}

// LogFeedback records a score and optional comment for the query with the
// given message ID.
func (t *Tracker) LogFeedback(id, username, messageID string, score int, comment string) error {
	content, err := json.Marshal(Feedback{
		MessageID: messageID,
		Score:     score,
		Comment:   comment,
		Timestamp: t.now(),
	})
	if err != nil {
		return err
	}
	return t.Log(Interaction{
		ID:       id,
		Username: username,
		Type:     TypeFeedback,
		Content:  string(content),
	})
}

// Interactions reads back every recorded interaction in order.
func (t *Tracker) Interactions() ([]Interaction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.Open(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Interaction
	dec := json.NewDecoder(f)
	for {
		var i Interaction
		err := dec.Decode(&i)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("failed to decode interaction log: %w", err)
		}
		out = append(out, i)
	}
}

// LastQuery returns the most recently recorded query.
func (t *Tracker) LastQuery() (Interaction, error) {
	all, err := t.Interactions()
	if err != nil {
		return Interaction{}, err
	}
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Type == TypeQuery {
			return all[i], nil
		}
	}
	return Interaction{}, ErrNoQuery
}
