package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestFileCacheRoundTrip(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())

	fc := NewFileCache[sample]("test")
	key := fc.GenerateKey("dhaka", 1, "2014-01-28")

	_, ok := fc.Get(key)
	assert.False(t, ok, "empty cache must miss")

	want := sample{Name: "dhaka", Value: 0.42}
	require.NoError(t, fc.Set(key, want))

	got, ok := fc.Get(key)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestFileCacheKeyIsStable(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())

	fc := NewFileCache[sample]("test")
	assert.Equal(t, fc.GenerateKey("a", 1), fc.GenerateKey("a", 1))
	assert.NotEqual(t, fc.GenerateKey("a", 1), fc.GenerateKey("a", 2))
}

func TestFileCacheRejectsTamperedEntry(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)

	fc := NewFileCache[sample]("test")
	key := fc.GenerateKey("x")
	require.NoError(t, fc.Set(key, sample{Name: "x", Value: 1}))

	cacheFile := filepath.Join(dir, "cache", "test", key+".json")
	raw, err := os.ReadFile(cacheFile)
	require.NoError(t, err)

	var entry CacheEntry[sample]
	require.NoError(t, json.Unmarshal(raw, &entry))
	entry.Data.Value = 2
	tampered, err := json.Marshal(entry)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cacheFile, tampered, 0644))

	_, ok := fc.Get(key)
	assert.False(t, ok, "checksum mismatch must miss")
}

func TestFileCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)

	fc := NewFileCacheWithTTL[sample]("test", time.Hour)
	key := fc.GenerateKey("old")
	require.NoError(t, fc.Set(key, sample{Name: "old"}))

	cacheFile := filepath.Join(dir, "cache", "test", key+".json")
	raw, err := os.ReadFile(cacheFile)
	require.NoError(t, err)

	// Backdate the entry; the checksum only covers Data so it stays valid.
	var entry CacheEntry[sample]
	require.NoError(t, json.Unmarshal(raw, &entry))
	entry.CreatedAt = time.Now().Add(-2 * time.Hour)
	aged, err := json.Marshal(entry)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cacheFile, aged, 0644))

	_, ok := fc.Get(key)
	assert.False(t, ok, "entry older than maxAge must miss")

	forever := NewFileCache[sample]("test")
	_, ok = forever.Get(key)
	assert.True(t, ok, "zero maxAge never expires")
}
