package sports

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the production API-Sports football endpoint.
const DefaultBaseURL = "https://v3.football.api-sports.io"

// maxErrorBody bounds how much of a failed response body is read for the
// error message.
const maxErrorBody = 4 << 10

// ClientConfig configures the upstream client.
type ClientConfig struct {
	// BaseURL is the API root. Default: DefaultBaseURL.
	BaseURL string

	// APIKey is the upstream credential, sent as x-rapidapi-key.
	APIKey string

	// Timeout is the per-request HTTP timeout.
	// Default: 30 seconds
	Timeout time.Duration

	// HTTPClient overrides the underlying client. Its Timeout is left alone.
	HTTPClient *http.Client
}

// Client issues authenticated requests against the API-Sports football API.
// It performs no caching, rate limiting, or retrying; the orchestrator owns
// those concerns and treats Client.Fetch as the raw upstream capability.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// NewClient creates a Client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		hc:      hc,
	}, nil
}

// Fetch performs a single upstream call for the family with the given
// normalized parameters and returns the raw envelope bytes.
//
// Error mapping:
//   - connectivity failure or undecodable body → *TransportError
//   - HTTP 429 → *QuotaError (with Retry-After when present)
//   - HTTP 5xx → *TransportError (the caller may retry)
//   - any other non-200 status, or errors inside the envelope → *UpstreamError
func (c *Client) Fetch(ctx context.Context, family Family, params map[string]string) ([]byte, error) {
	endpoint, ok := family.Endpoint()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", hostOf(c.baseURL))
	req.URL.RawQuery = encodeParams(params)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "do request", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil, &QuotaError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}

	case resp.StatusCode >= 500:
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil, &TransportError{Op: "do request", Err: fmt.Errorf("server error: status %d", resp.StatusCode)}

	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read body", Err: err}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &TransportError{Op: "decode envelope", Err: err}
	}

	// The API reports parameter-level rejections inside a 200 body.
	if msgs := env.ErrorMessages(); len(msgs) > 0 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: strings.Join(msgs, "; ")}
	}

	return raw, nil
}

// Ping checks upstream reachability without spending quota: it opens a
// request to the API root and accepts any HTTP response as proof of life.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return &TransportError{Op: "build request", Err: err}
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return &TransportError{Op: "ping", Err: err}
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	return nil
}

// encodeParams builds a query string with keys in sorted order so request
// URLs are stable for identical logical queries.
func encodeParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}

// parseRetryAfter understands the delay-seconds form of Retry-After. The
// HTTP-date form is rare enough upstream that it is treated as no hint.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func hostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return strings.TrimPrefix(baseURL, "https://")
	}
	return u.Host
}
