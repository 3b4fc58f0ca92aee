// Package httputil provides a hardened HTTP client, page fetching helpers and
// input validation utilities.
package httputil

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 10 * 1024 * 1024

// DefaultUserAgent is sent unless overridden with SetUserAgent.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/121.0"

var (
	uaMu      sync.RWMutex
	userAgent = DefaultUserAgent
)

// SetUserAgent replaces the User-Agent header sent with every request.
func SetUserAgent(ua string) {
	if ua == "" {
		return
	}
	uaMu.Lock()
	userAgent = ua
	uaMu.Unlock()
}

func currentUserAgent() string {
	uaMu.RLock()
	defer uaMu.RUnlock()
	return userAgent
}

// StatusError is returned when a server answers with a non-200 status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Code, e.URL)
}

// NewClient creates a hardened HTTP client with secure defaults.
// A zero timeout falls back to 30 seconds.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			DisableCompression:  false,
			MaxIdleConnsPerHost: 5,
		},
	}
}

// Get performs a GET request with standard browser-like headers.
func Get(ctx context.Context, client *http.Client, url string, accept string) (*http.Response, error) {
	if err := ValidateURL(url); err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if accept == "" {
		accept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	}
	req.Header.Set("User-Agent", currentUserAgent())
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	return client.Do(req)
}

// FetchPage downloads a web page and returns its markup. id tags error
// messages so failures can be traced back to the item being extracted.
func FetchPage(ctx context.Context, client *http.Client, url, id string) (string, error) {
	body, err := fetch(ctx, client, url, "")
	if err != nil {
		return "", fmt.Errorf("%s: downloading webpage: %w", id, err)
	}
	return string(body), nil
}

// FetchDocument downloads a machine-readable document such as a playlist.
func FetchDocument(ctx context.Context, client *http.Client, url, id string) ([]byte, error) {
	body, err := fetch(ctx, client, url, "application/xspf+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, fmt.Errorf("%s: downloading document: %w", id, err)
	}
	return body, nil
}

func fetch(ctx context.Context, client *http.Client, url, accept string) ([]byte, error) {
	resp, err := Get(ctx, client, url, accept)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return body, nil
}
