// Package probe checks whether remote image URLs are reachable before they are
// embedded in a page.
package probe

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultUserAgent identifies probes as a desktop browser; some image hosts
// reject requests from unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 10 * time.Second

// Checker probes URLs with a HEAD request.
type Checker struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Checker) {
		c.httpClient = hc
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Checker) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for probe results.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = l
	}
}

// New creates a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  DefaultUserAgent,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reachable reports whether rawURL answers a HEAD request with a 2xx status.
// Any error is treated as unreachable; there is no retry.
func (c *Checker) Reachable(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		c.logger.Debug("Image URL not probeable", "url", rawURL)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Referer", u.Scheme+"://"+u.Host+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Image probe failed", "url", rawURL, "error", err)
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	c.logger.Debug("Image probed", "url", rawURL, "status", resp.StatusCode, "reachable", ok)
	return ok
}
