package extractor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"

	"filmarchiv/internal/httputil"
)

const (
	marshallURL = "http://www.dhm.de/filmarchiv/die-filme/the-marshallplan-at-work-in-west-germany/"
	rolleURL    = "http://www.dhm.de/filmarchiv/02-mapping-the-wall/peter-g/rolle-1/"
)

// fakeSite serves fixed bodies by path and sends every request, whatever
// its host, to a local test server.
type fakeSite struct {
	srv    *httptest.Server
	target *url.URL

	mu        sync.Mutex
	requested []string
}

func newFakeSite(t *testing.T, pages map[string]string) *fakeSite {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return &fakeSite{srv: srv, target: target}
}

func (f *fakeSite) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.requested = append(f.requested, req.URL.Path)
	f.mu.Unlock()

	r := req.Clone(req.Context())
	r.URL.Scheme = f.target.Scheme
	r.URL.Host = f.target.Host
	r.Host = ""
	return http.DefaultTransport.RoundTrip(r)
}

func (f *fakeSite) options() Options {
	return Options{Client: &http.Client{Transport: f}}
}

func (f *fakeSite) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requested...)
}

func fixture(t *testing.T, filename string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + filename)
	if err != nil {
		t.Fatalf("reading test fixture %s: %v", filename, err)
	}
	return string(data)
}

func TestDHMExtract(t *testing.T) {
	site := newFakeSite(t, map[string]string{
		"/filmarchiv/die-filme/the-marshallplan-at-work-in-west-germany/": fixture(t, "marshallplan.html"),
		"/filmarchiv/playlists/marshallplan.xspf":                         fixture(t, "marshallplan.xspf"),
	})

	pl, err := (&DHM{}).Extract(context.Background(), marshallURL, site.options())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	if pl.ID != "the-marshallplan-at-work-in-west-germany" {
		t.Errorf("ID = %q", pl.ID)
	}
	if pl.Extractor != "dhm" || pl.URL != marshallURL {
		t.Errorf("Extractor/URL = %q/%q", pl.Extractor, pl.URL)
	}
	if len(pl.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(pl.Entries))
	}

	first := pl.First()
	if first.Title != "MARSHALL PLAN AT WORK IN WESTERN GERMANY, THE" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Description == nil || *first.Description != "A documentary about ERP projects in West Germany & Berlin." {
		t.Errorf("description = %v", first.Description)
	}
	if first.Duration == nil || *first.Duration != 660 {
		t.Errorf("duration = %v, want 660", first.Duration)
	}
	if first.Thumbnail == nil || *first.Thumbnail != "http://www.dhm.de/filmarchiv/thumbs/marshallplan.jpg" {
		t.Errorf("thumbnail = %v", first.Thumbnail)
	}
	if best := first.Best(); best == nil || best.URL != "http://www.dhm.de/filmarchiv/video/marshallplan.flv" || best.Ext != "flv" {
		t.Errorf("best format = %+v", best)
	}

	// Later entries keep what the playlist provided.
	second := pl.Entries[1]
	if second.Title != "Marshallplan Teil 2" {
		t.Errorf("second title = %q", second.Title)
	}
	if second.Duration == nil || *second.Duration != 120 {
		t.Errorf("second duration = %v, want 120", second.Duration)
	}
	if second.Description != nil {
		t.Errorf("second description = %q, want nil", *second.Description)
	}
}

func TestDHMExtractOptionalFieldsAbsent(t *testing.T) {
	site := newFakeSite(t, map[string]string{
		"/filmarchiv/02-mapping-the-wall/peter-g/rolle-1/": fixture(t, "rolle-1.html"),
		"/filmarchiv/playlists/rolle-1.xspf":               fixture(t, "rolle-1.xspf"),
	})

	pl, err := (&DHM{}).Extract(context.Background(), rolleURL, site.options())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	if pl.ID != "rolle-1" {
		t.Errorf("ID = %q, want rolle-1", pl.ID)
	}
	first := pl.First()
	if first.Title != "ROLLE 1" {
		t.Errorf("title = %q, want 'ROLLE 1' from the page title", first.Title)
	}
	// Page metadata replaces the playlist's, absent values included.
	if first.Description != nil {
		t.Errorf("description = %q, want nil", *first.Description)
	}
	if first.Duration != nil {
		t.Errorf("duration = %d, want nil", *first.Duration)
	}
	if first.Thumbnail == nil || *first.Thumbnail != "http://www.dhm.de/filmarchiv/thumbs/rolle-1.jpg" {
		t.Errorf("thumbnail = %v", first.Thumbnail)
	}
	if best := first.Best(); best == nil || best.URL != "http://www.dhm.de/filmarchiv/video/rolle-1.flv" {
		t.Errorf("best format = %+v", best)
	}
}

func TestDHMExtractMissingPlaylistURL(t *testing.T) {
	site := newFakeSite(t, map[string]string{
		"/filmarchiv/die-filme/no-player/": `<html><head><title> &raquo;NO PLAYER</title></head></html>`,
	})

	_, err := (&DHM{}).Extract(context.Background(), "http://www.dhm.de/filmarchiv/die-filme/no-player/", site.options())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Element != "playlist url" {
		t.Errorf("error = %v, want missing playlist url", err)
	}

	paths := site.paths()
	if len(paths) != 1 || paths[0] != "/filmarchiv/die-filme/no-player/" {
		t.Errorf("requests = %v, want only the page", paths)
	}
}

func TestDHMExtractMissingTitle(t *testing.T) {
	site := newFakeSite(t, map[string]string{
		"/filmarchiv/die-filme/untitled/":     `<script>setup({file: '/filmarchiv/playlists/untitled.xspf'})</script>`,
		"/filmarchiv/playlists/untitled.xspf": fixture(t, "rolle-1.xspf"),
	})

	_, err := (&DHM{}).Extract(context.Background(), "http://www.dhm.de/filmarchiv/die-filme/untitled/", site.options())
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Element != "title" {
		t.Fatalf("error = %v, want missing title", err)
	}
}

func TestDHMExtractEmptyPlaylist(t *testing.T) {
	site := newFakeSite(t, map[string]string{
		"/filmarchiv/die-filme/empty/":           `<title> &raquo;EMPTY</title><script>setup({file: 'empty.xspf'})</script>`,
		"/filmarchiv/die-filme/empty/empty.xspf": `<playlist><trackList></trackList></playlist>`,
	})

	_, err := (&DHM{}).Extract(context.Background(), "http://www.dhm.de/filmarchiv/die-filme/empty/", site.options())
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Element != "playlist entries" {
		t.Fatalf("error = %v, want missing playlist entries", err)
	}
}

func TestDHMExtractPageNotFound(t *testing.T) {
	site := newFakeSite(t, map[string]string{})

	_, err := (&DHM{}).Extract(context.Background(), marshallURL, site.options())
	var statusErr *httputil.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound {
		t.Fatalf("error = %v, want 404 StatusError", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("fetch failures must not be reported as missing elements")
	}
}

func TestDHMExtractUnparseableLength(t *testing.T) {
	page := `<title> &raquo;REEL</title>
<script>setup({file: '/p.xspf'})</script>
<p><strong><em>Length</em>:</strong>unknown</p>`
	site := newFakeSite(t, map[string]string{
		"/filmarchiv/a/reel/": page,
		"/p.xspf":             fixture(t, "rolle-1.xspf"),
	})

	pl, err := (&DHM{}).Extract(context.Background(), "http://dhm.de/filmarchiv/a/reel/", site.options())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if pl.First().Duration != nil {
		t.Errorf("duration = %d, want nil", *pl.First().Duration)
	}
}

func TestDHMExtractUnsupportedURL(t *testing.T) {
	site := newFakeSite(t, map[string]string{})

	urls := []string{
		"http://www.dhm.de/ausstellungen/film/",
		"http://www.dhm.de/filmarchiv/",
		"https://example.com/filmarchiv/die-filme/x/",
		"not a url",
	}
	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			_, err := (&DHM{}).Extract(context.Background(), u, site.options())
			if !errors.Is(err, ErrUnsupportedURL) {
				t.Errorf("error = %v, want ErrUnsupportedURL", err)
			}
		})
	}
	if paths := site.paths(); len(paths) != 0 {
		t.Errorf("unsupported URLs caused requests: %v", paths)
	}
}

func TestDHMMatchID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{marshallURL, "the-marshallplan-at-work-in-west-germany"},
		{rolleURL, "rolle-1"},
		{"https://dhm.de/filmarchiv/die-filme/no-trailing-slash", "no-trailing-slash"},
		{"http://www.dhm.de/filmarchiv/die-filme/with-query/?lang=en", "with-query"},
		{"http://www.dhm.de/filmarchiv/die-filme/über-berlin/", "über-berlin"},
		{"http://www.dhm.de/filmarchiv/die-filme/film+1945/", "film+1945"},
		{"http://www.dhm.de/filmarchiv/die-filme/teil..2/", "teil..2"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := matchID(dhmURLPattern, tt.url)
			if err != nil {
				t.Fatalf("matchID() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("matchID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
