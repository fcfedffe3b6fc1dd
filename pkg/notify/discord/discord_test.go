package discord_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"subwatch/pkg/domain"
	"subwatch/pkg/notify/discord"
	"subwatch/pkg/serrors"

	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

const webhookURL = "https://discord.com/api/webhooks/123/abc"

func newTestChannel(fn rtFunc) *discord.Channel {
	return discord.New(&http.Client{Transport: fn}, webhookURL)
}

func testBatch(hostnames ...string) domain.Batch {
	return domain.Batch{
		Domain:     "example.com",
		Hostnames:  hostnames,
		DetectedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestChannel_Deliver_success(t *testing.T) {
	c := newTestChannel(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, webhookURL, r.URL.String())
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Content string `json:"content"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Contains(t, body.Content, "api.example.com")

		return &http.Response{
			StatusCode: http.StatusNoContent,
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	})

	require.NoError(t, c.Deliver(context.Background(), testBatch("api.example.com")))
}

// Discord caps content at 2000 characters; large batches must be truncated.
func TestChannel_Deliver_respectsContentLimit(t *testing.T) {
	hostnames := make([]string, 300)
	for i := range hostnames {
		hostnames[i] = strings.Repeat("x", 20) + ".example.com"
	}

	c := newTestChannel(func(r *http.Request) (*http.Response, error) {
		var body struct {
			Content string `json:"content"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.LessOrEqual(t, utf8.RuneCountInString(body.Content), 2000)

		return &http.Response{
			StatusCode: http.StatusNoContent,
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	})

	require.NoError(t, c.Deliver(context.Background(), testBatch(hostnames...)))
}

func TestChannel_Deliver_rateLimited(t *testing.T) {
	c := newTestChannel(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader(`{"retry_after":3}`)),
		}, nil
	})

	err := c.Deliver(context.Background(), testBatch("api.example.com"))
	require.ErrorIs(t, err, serrors.ErrDelivery)
	require.ErrorIs(t, err, serrors.ErrRateLimited)
}

func TestChannel_Deliver_badWebhook(t *testing.T) {
	c := newTestChannel(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader(`{"message":"Unknown Webhook"}`)),
		}, nil
	})

	err := c.Deliver(context.Background(), testBatch("api.example.com"))
	require.ErrorIs(t, err, serrors.ErrDelivery)
	require.Contains(t, err.Error(), "Unknown Webhook")
}

func TestChannel_Deliver_networkError(t *testing.T) {
	c := newTestChannel(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("no route to host")
	})

	err := c.Deliver(context.Background(), testBatch("api.example.com"))
	require.ErrorIs(t, err, serrors.ErrDelivery)
}

func TestChannel_Name(t *testing.T) {
	require.Equal(t, "discord", newTestChannel(nil).Name())
}
