// Package telegram provides a notify.Channel that delivers alerts through
// the Telegram bot API.
package telegram

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

// DefaultBaseURL is the public Telegram bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// maxMessageLen is the Telegram sendMessage text limit in characters.
const maxMessageLen = 4096

// Channel delivers notifications via the Telegram bot API sendMessage call.
// It is safe for concurrent use.
type Channel struct {
	httpClient *http.Client // httpClient performs HTTP requests to the bot API
	token      string       // token is the bot token
	chatID     string       // chatID is the destination chat
	baseURL    string       // baseURL allows overriding the endpoint in tests
}

// Name identifies the channel in logs and delivery results.
func (c *Channel) Name() string { return "telegram" }

// Deliver formats the batch and posts it to the bot API. HTTP failures, bad
// tokens and rate limits are reported as delivery errors; nothing is retried
// here.
func (c *Channel) Deliver(ctx context.Context, batch domain.Batch) error {
	type sendMessageReq struct {
		ChatID    string `json:"chat_id"`
		Text      string `json:"text"`
		ParseMode string `json:"parse_mode"`
	}
	bodyBytes, err := json.Marshal(sendMessageReq{
		ChatID:    c.chatID,
		Text:      notify.FormatBatch(batch, maxMessageLen),
		ParseMode: "Markdown",
	})
	if err != nil {
		return serrors.Wrap(serrors.ErrDelivery, err, "could not marshal request")
	}

	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		c.baseURL+"/bot"+c.token+"/sendMessage",
		strings.NewReader(string(bodyBytes)))
	if err != nil {
		return serrors.Wrap(serrors.ErrDelivery, err, "could not create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return serrors.Wrap(serrors.ErrDelivery, err, "could not send telegram message")
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
			"telegram rejected message")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serrors.With(serrors.ErrDelivery,
			"telegram returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	return nil
}

// Ensure Channel conforms to the notify.Channel interface at compile time.
var _ notify.Channel = (*Channel)(nil)

// Option customizes a Channel.
type Option func(*Channel)

// WithBaseURL overrides the bot API endpoint, primarily for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Channel) {
		c.baseURL = baseURL
	}
}

// New constructs a Channel that sends messages as the given bot to the given
// chat.
func New(httpClient *http.Client, token, chatID string, opts ...Option) *Channel {
	c := &Channel{
		httpClient: httpClient,
		token:      token,
		chatID:     chatID,
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}
