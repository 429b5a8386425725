// Package fetcher retrieves referenced page assets over the same
// authenticated session the browser holds. Viewers protect page images
// behind the login cookie, so the client copies the live tab's cookies into
// its own jar before fetching.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
)

// maxAssetSize caps a single page image download. Newspaper scans run large
// but never this large.
const maxAssetSize = 50 << 20

// Client performs authenticated asset fetches.
type Client struct {
	client *http.Client
	ua     string
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. A cookie jar is attached if the
// client has none.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Client) { f.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Client) { f.ua = ua }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Client) { f.logger = l }
}

// New creates a Client with sensible defaults.
func New(opts ...Option) *Client {
	f := &Client{
		client: &http.Client{Timeout: 60 * time.Second},
		ua:     "Mozilla/5.0 (compatible; issuegrab/1.0)",
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(f)
	}
	if f.client.Jar == nil {
		jar, _ := cookiejar.New(nil)
		f.client.Jar = jar
	}
	return f
}

// SyncCookies copies the page's session cookies into the client's jar so
// subsequent fetches ride the authenticated session.
func (f *Client) SyncCookies(page *rod.Page) error {
	cookies, err := page.Cookies([]string{})
	if err != nil {
		return fmt.Errorf("fetcher: read cookies: %w", err)
	}

	for _, ck := range cookies {
		host := strings.TrimPrefix(ck.Domain, ".")
		if host == "" {
			continue
		}
		scheme := "https"
		if !ck.Secure {
			scheme = "http"
		}
		u := &url.URL{Scheme: scheme, Host: host, Path: ck.Path}
		f.client.Jar.SetCookies(u, []*http.Cookie{{
			Name:   ck.Name,
			Value:  ck.Value,
			Path:   ck.Path,
			Domain: ck.Domain,
		}})
	}

	f.logger.Debug("fetcher: cookies synced", "count", len(cookies))
	return nil
}

// Fetch GETs a URL and returns its body. Non-2xx statuses are errors.
func (f *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetcher: new request: %w", err)
	}
	req.Header.Set("User-Agent", f.ua)
	req.Header.Set("Accept", "image/avif,image/webp,image/png,image/*;q=0.8,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetcher: do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetcher: %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		return nil, fmt.Errorf("fetcher: read body: %w", err)
	}

	f.logger.Debug("fetcher: fetched", "url", rawURL, "size", len(body))
	return body, nil
}
