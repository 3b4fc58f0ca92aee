package extractor

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"filmarchiv/internal/httputil"
	"filmarchiv/internal/media"
	"filmarchiv/internal/textutil"
	"filmarchiv/internal/xspf"
)

// dhmURLPattern accepts film pages of the Deutsches Historisches Museum film
// archive; the last path segment is the film identifier.
var dhmURLPattern = regexp.MustCompile(`^https?://(?:www\.)?dhm\.de/filmarchiv/(?:[^/?#]+/)+(?P<id>[^/?#]+)`)

var (
	dhmPlaylistURL = Regex(`file\s*:\s*'([^']+)'`)

	// Tried in order: the Dublin Core attribute, then the page title.
	dhmTitle = []Matcher{
		Regex(`dc:title="([^"]+)"`),
		Regex(`<title> &raquo;([^<]+)</title>`),
	}

	dhmDescription = Regex(`(?s)<p><strong>Description:</strong>(.+?)</p>`)
	dhmDuration    = Regex(`<em>Length\s*</em>\s*:\s*</strong>([^<]+)`)
)

// DHM extracts films from dhm.de/filmarchiv. Film pages embed a JW Player
// setup whose file: option points at an XSPF playlist; page-level title,
// description and length are merged into the first playlist entry.
type DHM struct{}

// Name returns the extractor name.
func (d *DHM) Name() string { return "dhm" }

// Description returns the site name.
func (d *DHM) Description() string { return "Filmarchiv - Deutsches Historisches Museum" }

// Match checks the path shape; the registry already matched the host.
func (d *DHM) Match(u *url.URL) bool {
	return dhmURLPattern.MatchString(u.String())
}

// Extract fetches a film page and its playlist.
func (d *DHM) Extract(ctx context.Context, rawURL string, opts Options) (*media.Playlist, error) {
	id, err := matchID(dhmURLPattern, rawURL)
	if err != nil {
		return nil, err
	}
	client := opts.client()

	opts.logf("[dhm] %s: downloading webpage", id)
	webpage, err := httputil.FetchPage(ctx, client, rawURL, id)
	if err != nil {
		return nil, err
	}

	playlistURL, err := SearchRegex(webpage, "playlist url", dhmPlaylistURL)
	if err != nil {
		return nil, err
	}
	playlistURL = httputil.ResolveURL(rawURL, playlistURL)

	opts.logf("[dhm] %s: downloading playlist %s", id, playlistURL)
	entries, err := xspf.Fetch(ctx, client, playlistURL, id)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &NotFoundError{Element: "playlist entries"}
	}

	title, err := SearchRegex(webpage, "title", dhmTitle...)
	if err != nil {
		return nil, err
	}

	var description *string
	if s, ok := HTMLSearchOptional(webpage, dhmDescription); ok {
		description = &s
	}

	var duration *int
	if s, ok := SearchOptional(webpage, dhmDuration); ok {
		if secs, ok := textutil.ParseDuration(s); ok {
			duration = &secs
		} else {
			opts.logf("[dhm] %s: unparseable length %q", id, s)
		}
	}

	// Only the first entry carries the page metadata; further reels keep
	// what the playlist provided.
	first := &entries[0]
	first.Title = strings.TrimSpace(title)
	first.Description = description
	first.Duration = duration

	return &media.Playlist{
		ID:        id,
		Extractor: d.Name(),
		URL:       rawURL,
		Entries:   entries,
	}, nil
}

func init() {
	Register(&DHM{},
		"dhm.de",
	)
}
