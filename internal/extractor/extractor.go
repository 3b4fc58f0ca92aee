// Package extractor resolves web page URLs into playlists of downloadable
// media. Each supported site provides an Extractor registered under its
// hostnames; Extract dispatches a URL to the matching one.
package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"filmarchiv/internal/httputil"
	"filmarchiv/internal/media"
)

// Extractor turns a page URL of one site into a playlist.
type Extractor interface {
	// Name returns the extractor name (e.g., "dhm").
	Name() string

	// Description is a human readable name of the site.
	Description() string

	// Match reports whether the extractor can handle the URL.
	// The URL is pre-parsed so extractors can reliably check host and path.
	Match(u *url.URL) bool

	// Extract fetches the page and returns its playlist.
	Extract(ctx context.Context, rawURL string, opts Options) (*media.Playlist, error)
}

// Options carries the collaborators an extraction uses. The zero value is
// ready to use.
type Options struct {
	// Client performs all HTTP requests. Nil means a hardened default client.
	Client *http.Client

	// Timeout applies to the default client only.
	Timeout time.Duration

	// Logf receives debug messages. Nil discards them.
	Logf func(format string, args ...any)
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return httputil.NewClient(o.Timeout)
}

func (o Options) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

// Extract finds the extractor registered for rawURL and runs it.
func Extract(ctx context.Context, rawURL string, opts Options) (*media.Playlist, error) {
	e := Match(rawURL)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
	}
	opts.logf("[%s] extracting %s", e.Name(), rawURL)
	return e.Extract(ctx, rawURL, opts)
}

// matchID applies a URL pattern with a named "id" group. Any non-empty
// capture is the identifier; slugs may hold non-ASCII letters or punctuation.
func matchID(pattern *regexp.Regexp, rawURL string) (string, error) {
	m := pattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
	}
	id := m[pattern.SubexpIndex("id")]
	if id == "" {
		return "", fmt.Errorf("%w: %s: empty identifier", ErrUnsupportedURL, rawURL)
	}
	return id, nil
}
