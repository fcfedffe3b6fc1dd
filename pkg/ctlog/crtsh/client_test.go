package crtsh_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"subwatch/pkg/ctlog/crtsh"
	"subwatch/pkg/serrors"

	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(fn rtFunc) *crtsh.Client {
	return crtsh.New(&http.Client{Transport: fn})
}

func TestClient_Subdomains_success(t *testing.T) {
	body := `[
		{"name_value": "api.example.com"},
		{"name_value": "*.example.com\nwww.example.com"},
		{"name_value": "API.EXAMPLE.COM"},
		{"name_value": " mail.example.com "},
		{"name_value": "unrelated.net"}
	]`

	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "crt.sh", r.URL.Host)
		require.Equal(t, "%.example.com", r.URL.Query().Get("q"))
		require.Equal(t, "json", r.URL.Query().Get("output"))

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	})

	got, err := c.Subdomains(context.Background(), "example.com")
	require.NoError(t, err)
	require.Equal(t, map[string]struct{}{
		"api.example.com":  {},
		"example.com":      {},
		"www.example.com":  {},
		"mail.example.com": {},
	}, got)
}

func TestClient_Subdomains_emptyDomain(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		t.Fatal("no request expected for empty domain")

		return nil, nil
	})

	_, err := c.Subdomains(context.Background(), " ")
	require.ErrorIs(t, err, serrors.ErrFetch)
}

func TestClient_Subdomains_networkError(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection reset")
	})

	_, err := c.Subdomains(context.Background(), "example.com")
	require.ErrorIs(t, err, serrors.ErrFetch)
}

func TestClient_Subdomains_rateLimited429(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader("slow down")),
		}, nil
	})

	_, err := c.Subdomains(context.Background(), "example.com")
	require.ErrorIs(t, err, serrors.ErrFetch)
	require.ErrorIs(t, err, serrors.ErrRateLimited)
}

func TestClient_Subdomains_non2xx(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("upstream bad")),
		}, nil
	})

	_, err := c.Subdomains(context.Background(), "example.com")
	require.ErrorIs(t, err, serrors.ErrFetch)
	require.Contains(t, err.Error(), "upstream bad")
}

func TestClient_Subdomains_malformedJSON(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("<html>maintenance</html>")),
		}, nil
	})

	_, err := c.Subdomains(context.Background(), "example.com")
	require.ErrorIs(t, err, serrors.ErrFetch)
}

func TestClient_Subdomains_emptyResult(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("[]")),
		}, nil
	})

	got, err := c.Subdomains(context.Background(), "example.com")
	require.NoError(t, err)
	require.Empty(t, got)
}
