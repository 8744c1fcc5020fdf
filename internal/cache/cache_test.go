package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-query/internal/models"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "what is a utility token?_2", Key("  What is a Utility Token?\n", 2))
	assert.NotEqual(t, Key("what is a utility token?", 0), Key("what is a utility token", 0))
	assert.NotEqual(t, Key("q", 0), Key("q", 1))
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	_, ok := s.Get("anything", 0)
	assert.False(t, ok)
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, models.CacheFileName), []byte("{not json"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestPut_PersistsAndReloads(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put("What is a utility token?", 0, "first"))
	require.NoError(t, s.Put("What is a utility token?", 3, "fourth"))

	got, ok := s.Get("what is a utility token?  ", 0)
	require.True(t, ok)
	assert.Equal(t, "first", got)

	data, err := os.ReadFile(filepath.Join(dir, models.CacheFileName))
	require.NoError(t, err)
	var raw map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, map[string]string{
		"what is a utility token?_0": "first",
		"what is a utility token?_3": "fourth",
	}, raw)

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len())
	got, ok = reloaded.Get("WHAT IS A UTILITY TOKEN?", 3)
	require.True(t, ok)
	assert.Equal(t, "fourth", got)
}

func TestPut_WriteFailureKeepsMemoryValue(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	s := Empty(dir)

	err := s.Put("q", 1, "answer")
	assert.Error(t, err)

	got, ok := s.Get("q", 1)
	require.True(t, ok)
	assert.Equal(t, "answer", got)
}

func TestPut_Concurrent(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Put(fmt.Sprintf("question %d", i), i%4, "text"))
		}(i)
	}
	wg.Wait()

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 16, reloaded.Len())
}
