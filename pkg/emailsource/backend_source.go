// Package emailsource pulls customer emails from the mailbox backend API.
package emailsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// RawEmail is one email as delivered by the backend, normalized to the
// fields the ingestion layer cares about.
type RawEmail struct {
	EmailID    string                 `json:"email_id"`
	Content    string                 `json:"content"`
	SenderInfo string                 `json:"sender_info"`
	DateTime   string                 `json:"date_time"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// EmailSource is anything that can deliver a batch of new emails.
type EmailSource interface {
	FetchNew(ctx context.Context) ([]RawEmail, error)
}

// Backend fetches emails over HTTP from the mailbox backend service.
type Backend struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

func NewBackend(baseURL string, logger *log.Logger) *Backend {
	return &Backend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

type backendListResponse struct {
	Success bool                     `json:"success"`
	Source  string                   `json:"source"`
	Emails  []map[string]interface{} `json:"emails"`
}

// FetchNew retrieves the current batch of emails from the backend. Emails
// with empty bodies are dropped, the rest are normalized into RawEmail.
func (b *Backend) FetchNew(ctx context.Context) ([]RawEmail, error) {
	url := b.baseURL + "/api/v1/emails/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build backend request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach email backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("email backend returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload backendListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode backend response: %w", err)
	}

	if !payload.Success {
		return nil, fmt.Errorf("email backend reported failure")
	}

	b.logger.Printf("Backend returned %d emails (source: %s)", len(payload.Emails), payload.Source)

	emails := make([]RawEmail, 0, len(payload.Emails))
	for _, raw := range payload.Emails {
		email := normalizeEmail(raw)
		if strings.TrimSpace(email.Content) == "" {
			b.logger.Printf("Skipping email %s: empty content", email.EmailID)
			continue
		}
		emails = append(emails, email)
	}

	return emails, nil
}

// normalizeEmail maps the backend's field names onto RawEmail. The backend
// has shipped several shapes over time, so each field checks its aliases.
func normalizeEmail(raw map[string]interface{}) RawEmail {
	content := stringField(raw, "bodyText", "body")
	sender := stringField(raw, "from")
	if sender == "" {
		sender = "unknown@example.com"
	}

	dateTime := stringField(raw, "receivedAt", "createdAt")
	if dateTime == "" {
		dateTime = time.Now().Format(time.RFC3339)
	}

	emailID := stringField(raw, "id", "_id")
	if emailID == "" {
		emailID = fmt.Sprintf("email_%d", time.Now().UnixNano())
	}

	metadata := map[string]interface{}{
		"subject":      stringField(raw, "subject"),
		"to":           stringField(raw, "to"),
		"message_id":   stringField(raw, "messageId"),
		"from_name":    stringField(raw, "fromName"),
		"priority":     stringFieldDefault(raw, "priority", "normal"),
		"processed_at": time.Now().Format(time.RFC3339),
	}

	return RawEmail{
		EmailID:    emailID,
		Content:    content,
		SenderInfo: sender,
		DateTime:   dateTime,
		Metadata:   metadata,
	}
}

func stringField(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if value, ok := raw[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func stringFieldDefault(raw map[string]interface{}, key, fallback string) string {
	if value := stringField(raw, key); value != "" {
		return value
	}
	return fallback
}
