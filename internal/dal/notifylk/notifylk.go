package notifylk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Client sends SMS through the notify.lk HTTP API. When credentials are not
// configured it runs in demo mode: messages are logged and reported as sent.
type Client struct {
	httpClient *http.Client
	apiURL     string
	userID     string
	apiKey     string
	senderID   string
}

// NewClient creates a new notify.lk client.
func NewClient() *Client {
	apiURL := viper.GetString("sms.api_url")
	if apiURL == "" {
		apiURL = "https://app.notify.lk/api/v1/"
	}

	senderID := viper.GetString("sms.sender_id")
	if senderID == "" {
		senderID = "NotifyDEMO"
	}

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     apiURL,
		userID:     os.Getenv("SMS_USER_ID"),
		apiKey:     os.Getenv("SMS_API_KEY"),
		senderID:   senderID,
	}
}

type sendRequest struct {
	UserID   string `json:"user_id"`
	APIKey   string `json:"api_key"`
	SenderID string `json:"sender_id"`
	To       string `json:"to"`
	Message  string `json:"message"`
}

type sendResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Send delivers one SMS. The returned error is a delivery failure only; the
// caller decides whether to retry.
func (c *Client) Send(ctx context.Context, phone, message string) error {
	if c.userID == "" || c.apiKey == "" {
		slog.Info("SMS credentials not configured, running in demo mode", "message", message)

		return nil
	}

	body, err := json.Marshal(sendRequest{
		UserID:   c.userID,
		APIKey:   c.apiKey,
		SenderID: c.senderID,
		To:       NormalizePhone(phone),
		Message:  message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call sms provider: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("failed to read sms provider response: %w", err)
	}

	var parsed sendResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		parsed = sendResponse{Message: string(raw)}
	}

	if resp.StatusCode != http.StatusOK || parsed.Status != "success" {
		return fmt.Errorf("sms provider rejected message: status=%d body=%s", resp.StatusCode, parsed.Message)
	}

	return nil
}

// NormalizePhone converts a Sri Lankan phone number to the 94XXXXXXXXX form
// notify.lk expects.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	cleaned := digits.String()
	switch {
	case strings.HasPrefix(cleaned, "94"):
		return cleaned
	case strings.HasPrefix(cleaned, "0"):
		return "94" + cleaned[1:]
	default:
		return "94" + cleaned
	}
}
