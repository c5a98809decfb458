package harvest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sower-ml/sower/internal/model"
)

// ErrRobotsDisallowed is returned when robots.txt forbids fetching a URL.
var ErrRobotsDisallowed = fmt.Errorf("disallowed by robots.txt")

// Fetcher retrieves HTML documents for seed harvesting. Robots.txt is
// honored unless the configuration disables the check.
type Fetcher struct {
	httpClient *http.Client
	robots     *RobotsChecker
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a Fetcher from the HTTP configuration
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	var robots *RobotsChecker
	if !cfg.IgnoreRobots {
		robots = NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: newProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:    robots,
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
	}
}

// FetchResult contains the fetched HTML and metadata
type FetchResult struct {
	HTML     string
	Subject  string
	FinalURL string
}

// Fetch retrieves HTML content from the given URL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.robots != nil {
		allowed, _, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrRobotsDisallowed)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	limitedReader := io.LimitReader(resp.Body, f.maxBytes)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()

	return &FetchResult{
		HTML:     string(body),
		Subject:  extractSubject(finalURL),
		FinalURL: finalURL,
	}, nil
}

// newProxyFunc builds a proxy selector. With no explicit proxies it falls
// back to environment variables.
func newProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// extractSubject extracts a human-readable subject from the URL
func extractSubject(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]

	// De-slugify: replace underscores and hyphens with spaces
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")

	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}

	return last
}
