// Package cache persists answers keyed by normalized question and partition
// index in a single JSON object under the cache directory.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"document-query/internal/models"
)

// Store is a write-through answer cache. Entries are never evicted.
type Store struct {
	mu      sync.RWMutex
	path    string
	entries map[string]string
}

// Key builds the composite cache key. Only case and surrounding whitespace
// are normalized, so "What is X?" and "what is x" stay distinct keys.
func Key(question string, index int) string {
	return strings.TrimSpace(strings.ToLower(question)) + "_" + strconv.Itoa(index)
}

// Load reads the mapping file from dir. A missing file starts an empty store.
func Load(dir string) (*Store, error) {
	s := &Store{
		path:    filepath.Join(dir, models.CacheFileName),
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("failed to decode cache file %s: %w", s.path, err)
	}
	if s.entries == nil {
		s.entries = make(map[string]string)
	}

	log.Debug().Str("path", s.path).Int("entries", len(s.entries)).Msg("Loaded response cache")
	return s, nil
}

// Empty returns a store bound to dir that ignores any existing file content.
// The next Put overwrites the file.
func Empty(dir string) *Store {
	return &Store{
		path:    filepath.Join(dir, models.CacheFileName),
		entries: make(map[string]string),
	}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(question string, index int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[Key(question, index)]
	return v, ok
}

// Put stores text and rewrites the whole mapping file. The in-memory value
// is kept even when the write fails.
func (s *Store) Put(question string, index int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[Key(question, index)] = text
	return s.save()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// save must be called with mu held.
func (s *Store) save() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}
