// Package crtsh provides a ctlog.Source implementation backed by the public
// crt.sh certificate-transparency aggregator.
package crtsh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"subwatch/pkg/ctlog"
	"subwatch/pkg/serrors"
)

// DefaultBaseURL is the public crt.sh endpoint.
const DefaultBaseURL = "https://crt.sh/"

// Client queries the crt.sh JSON API and fulfills the ctlog.Source
// interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to crt.sh
	baseURL    string       // baseURL allows overriding the endpoint in tests
}

// entry mirrors one element of the crt.sh JSON response. Only name_value is
// used; it may hold several newline-separated hostnames per certificate,
// including wildcard and multi-SAN entries.
type entry struct {
	NameValue string `json:"name_value"`
}

// Subdomains fetches every hostname visible in the transparency log for the
// given domain (query "%.<domain>"), normalizes each name and returns the
// deduplicated in-scope set. The result is the full current set, not a
// delta.
func (c *Client) Subdomains(ctx context.Context, domain string) (map[string]struct{}, error) {
	if strings.TrimSpace(domain) == "" {
		return nil, serrors.With(serrors.ErrFetch, "empty domain")
	}

	q := url.Values{}
	q.Set("q", "%."+domain)
	q.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrFetch, err, "could not create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrFetch, err, "could not query crt.sh for %s", domain)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrFetch, err, "could not read response body")
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, serrors.Wrap(serrors.ErrFetch,
			serrors.With(serrors.ErrRateLimited, "rate limited: %s", strings.TrimSpace(string(b))),
			"crt.sh rejected query for %s", domain)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serrors.With(serrors.ErrFetch,
			"crt.sh returned status %d for %s: %s", resp.StatusCode, domain, strings.TrimSpace(string(b)))
	}

	var entries []entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, serrors.Wrap(serrors.ErrFetch, err, "could not decode crt.sh response for %s", domain)
	}

	subdomains := make(map[string]struct{})
	for _, e := range entries {
		for _, name := range strings.Split(e.NameValue, "\n") {
			hostname := ctlog.NormalizeHostname(name)
			if hostname == "" || !ctlog.InScope(hostname, domain) {
				continue
			}

			subdomains[hostname] = struct{}{}
		}
	}

	return subdomains, nil
}

// Ensure Client conforms to the ctlog.Source interface at compile time.
var _ ctlog.Source = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the crt.sh endpoint, primarily for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// New constructs a Client that uses the provided http.Client to talk to
// crt.sh.
func New(httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// String implements fmt.Stringer for log output.
func (c *Client) String() string {
	return fmt.Sprintf("crtsh(%s)", c.baseURL)
}
