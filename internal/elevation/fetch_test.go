package elevation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDEM(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		q := r.URL.Query()
		assert.Equal(t, "SRTMGL3", q.Get("demtype"))
		assert.Equal(t, "GTiff", q.Get("outputFormat"))
		assert.Equal(t, "test-key", q.Get("API_Key"))
		assert.Equal(t, "23.600000", q.Get("south"))
		assert.Equal(t, "24.000000", q.Get("north"))
		assert.Equal(t, "90.000000", q.Get("west"))
		assert.Equal(t, "90.400000", q.Get("east"))
		w.Write([]byte("dem-bytes"))
	}))
	defer server.Close()

	t.Setenv("OPENTOPOGRAPHY_HOST", server.URL)
	t.Setenv("OPENTOPOGRAPHY_API_KEY", "test-key")
	t.Setenv("DATA_PATH", t.TempDir())

	path, err := FetchDEM(context.Background(), DefaultDEM, 90.0, 23.6, 90.4, 24.0)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dem-bytes", string(content))

	// Same box comes from disk.
	_, err = FetchDEM(context.Background(), DefaultDEM, 90.0, 23.6, 90.4, 24.0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), requests.Load())
}

func TestFetchDEMRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENTOPOGRAPHY_API_KEY", "")
	t.Setenv("DATA_PATH", t.TempDir())

	_, err := FetchDEM(context.Background(), DefaultDEM, 90.0, 23.6, 90.4, 24.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENTOPOGRAPHY_API_KEY")
}

func TestFetchDEMServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	t.Setenv("OPENTOPOGRAPHY_HOST", server.URL)
	t.Setenv("OPENTOPOGRAPHY_API_KEY", "test-key")
	t.Setenv("DATA_PATH", t.TempDir())

	oldDelay := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = oldDelay }()

	_, err := FetchDEM(context.Background(), DefaultDEM, 90.0, 23.6, 90.4, 24.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attempts")
}
