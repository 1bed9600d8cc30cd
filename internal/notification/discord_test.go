package notification

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDiscordErrorNotification(t *testing.T) {
	var received DiscordMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()
	t.Setenv("DISCORD_ERROR_NOTIFICATION_URL", server.URL)

	require.NoError(t, SendDiscordErrorNotification("scene download failed"))
	require.Len(t, received.Embeds, 1)
	assert.Contains(t, received.Embeds[0].Description, "scene download failed")
	assert.Equal(t, 16711680, received.Embeds[0].Color)
}

func TestSendDiscordSuccessNotification(t *testing.T) {
	var received DiscordMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	t.Setenv("DISCORD_SUCCESS_NOTIFICATION_URL", server.URL)

	require.NoError(t, SendDiscordSuccessNotification("run finished"))
	require.Len(t, received.Embeds, 1)
	assert.Equal(t, "run finished", received.Embeds[0].Description)
	assert.Equal(t, 65280, received.Embeds[0].Color)
}

func TestSendDiscordNotificationBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()
	t.Setenv("DISCORD_ERROR_NOTIFICATION_URL", server.URL)

	err := SendDiscordErrorNotification("boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status code: 400")
}

func TestSendDiscordNotificationNoWebhook(t *testing.T) {
	t.Setenv("DISCORD_ERROR_NOTIFICATION_URL", "")
	assert.NoError(t, SendDiscordErrorNotification("ignored"))
}
