package worker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/go-review-links/internal/models"
)

// Webhook posts every notification as an HTML form, the format accepted
// by spreadsheet script endpoints.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook uses a client with a 10s timeout when client is nil.
func NewWebhook(endpoint string, client *http.Client) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Webhook{url: endpoint, client: client}
}

// Send posts a single notification.
func (w *Webhook) Send(ctx context.Context, n models.FeedbackNotification) error {
	form := url.Values{}
	form.Set("Source", n.Source)
	form.Set("rating", strconv.Itoa(n.Rating))
	form.Set("Name", n.Name)
	form.Set("Email", n.Email)
	form.Set("Message", n.Message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}

	return nil
}
