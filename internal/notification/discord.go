package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/greenpulse/greenpulse-cli/internal/properties"
)

type DiscordMessage struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

type DiscordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

func sendDiscordMessage(webhookUrl string, message DiscordMessage) error {
	if webhookUrl == "" {
		// No webhook configured, nothing to do.
		return nil
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	resp, err := http.Post(webhookUrl, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send Discord notification, status code: %d", resp.StatusCode)
	}

	return nil
}

// SendDiscordErrorNotification reports a failed run to the error
// webhook. Without a configured webhook it is a no-op.
func SendDiscordErrorNotification(errorMessage string) error {
	message := DiscordMessage{
		Embeds: []DiscordEmbed{
			{
				Title:       "🚨 Change detection failed",
				Description: fmt.Sprintf("An error occurred: %s", errorMessage),
				Color:       16711680, // Red color
			},
		},
	}
	return sendDiscordMessage(properties.DiscordErrorNotificationUrl(), message)
}

// SendDiscordSuccessNotification reports a finished run to the success
// webhook. Without a configured webhook it is a no-op.
func SendDiscordSuccessNotification(successMessage string) error {
	message := DiscordMessage{
		Embeds: []DiscordEmbed{
			{
				Title:       "✅ Change detection finished",
				Description: successMessage,
				Color:       65280, // Green color
			},
		},
	}
	return sendDiscordMessage(properties.DiscordSuccessNotificationUrl(), message)
}
