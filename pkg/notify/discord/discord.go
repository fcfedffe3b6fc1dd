// Package discord provides a notify.Channel that delivers alerts through a
// Discord webhook.
package discord

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"subwatch/pkg/domain"
	"subwatch/pkg/notify"
	"subwatch/pkg/serrors"
)

// maxMessageLen is the Discord webhook content limit in characters.
const maxMessageLen = 2000

// Channel delivers notifications by posting to a Discord webhook URL. It is
// safe for concurrent use.
type Channel struct {
	httpClient *http.Client // httpClient performs HTTP requests to the webhook
	webhookURL string       // webhookURL is the operator-supplied webhook
}

// Name identifies the channel in logs and delivery results.
func (c *Channel) Name() string { return "discord" }

// Deliver formats the batch and posts it as webhook content. HTTP failures
// and rate limits are reported as delivery errors; nothing is retried here.
func (c *Channel) Deliver(ctx context.Context, batch domain.Batch) error {
	type webhookReq struct {
		Content string `json:"content"`
	}
	bodyBytes, err := json.Marshal(webhookReq{
		Content: notify.FormatBatch(batch, maxMessageLen),
	})
	if err != nil {
		return serrors.Wrap(serrors.ErrDelivery, err, "could not marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, strings.NewReader(string(bodyBytes)))
	if err != nil {
		return serrors.Wrap(serrors.ErrDelivery, err, "could not create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return serrors.Wrap(serrors.ErrDelivery, err, "could not send discord message")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return serrors.Wrap(serrors.ErrDelivery, err, "could not read response body")
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return serrors.Wrap(serrors.ErrDelivery,
			serrors.With(serrors.ErrRateLimited, "rate limited: %s", strings.TrimSpace(string(b))),
			"discord rejected message")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serrors.With(serrors.ErrDelivery,
			"discord returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	return nil
}

// Ensure Channel conforms to the notify.Channel interface at compile time.
var _ notify.Channel = (*Channel)(nil)

// New constructs a Channel that posts to the given webhook URL.
func New(httpClient *http.Client, webhookURL string) *Channel {
	return &Channel{
		httpClient: httpClient,
		webhookURL: webhookURL,
	}
}
