// Package xspf parses XSPF ("spiff") playlist documents into media entries.
//
// Element names are matched regardless of namespace, so documents that omit
// the http://xspf.org/ns/0/ default namespace still parse. Format labels and
// dimensions are read from the streamone player extension attributes
// (s1:label, s1:width, s1:height) on each <location>.
package xspf

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"

	"filmarchiv/internal/httputil"
	"filmarchiv/internal/media"
)

type document struct {
	XMLName xml.Name `xml:"playlist"`
	Tracks  []track  `xml:"trackList>track"`
}

type track struct {
	Title      string     `xml:"title"`
	Annotation string     `xml:"annotation"`
	Image      string     `xml:"image"`
	Duration   string     `xml:"duration"`
	Locations  []location `xml:"location"`
}

type location struct {
	Value  string `xml:",chardata"`
	Label  string `xml:"label,attr"`
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
}

// Fetch downloads the playlist at docURL and parses it. id is used as the
// entry ID and as the title of tracks that carry none.
func Fetch(ctx context.Context, client *http.Client, docURL, id string) ([]media.Entry, error) {
	body, err := httputil.FetchDocument(ctx, client, docURL, id)
	if err != nil {
		return nil, err
	}
	entries, err := Parse(bytes.NewReader(body), docURL, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return entries, nil
}

// Parse reads an XSPF document. Relative locations are resolved against
// docURL.
func Parse(r io.Reader, docURL, id string) ([]media.Entry, error) {
	var doc document
	dec := xml.NewDecoder(r)
	dec.Strict = false
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing xspf playlist: %w", err)
	}

	entries := make([]media.Entry, 0, len(doc.Tracks))
	for _, t := range doc.Tracks {
		entry := media.Entry{
			ID:    id,
			Title: strings.TrimSpace(t.Title),
		}
		if entry.Title == "" {
			entry.Title = id
		}
		if s := strings.TrimSpace(t.Annotation); s != "" {
			entry.Description = media.StringPtr(s)
		}
		if s := strings.TrimSpace(t.Image); s != "" {
			entry.Thumbnail = media.StringPtr(httputil.ResolveURL(docURL, s))
		}
		if ms, err := strconv.ParseFloat(strings.TrimSpace(t.Duration), 64); err == nil {
			if secs := math.Round(ms / 1000); secs >= 0 && secs <= math.MaxInt32 {
				entry.Duration = media.IntPtr(int(secs))
			}
		}

		for _, loc := range t.Locations {
			u := httputil.ResolveURL(docURL, loc.Value)
			if u == "" {
				continue
			}
			entry.Formats = append(entry.Formats, media.Format{
				URL:         u,
				FormatID:    strings.TrimSpace(loc.Label),
				Ext:         extOf(u),
				Width:       atoi(loc.Width),
				Height:      atoi(loc.Height),
				ManifestURL: docURL,
			})
		}
		sortFormats(entry.Formats)

		entries = append(entries, entry)
	}

	return entries, nil
}

// sortFormats orders formats worst first so the last one is the best.
func sortFormats(formats []media.Format) {
	sort.SliceStable(formats, func(i, j int) bool {
		if formats[i].Height != formats[j].Height {
			return formats[i].Height < formats[j].Height
		}
		return formats[i].Width < formats[j].Width
	})
}

// extOf guesses the container from the URL path, e.g. "flv".
func extOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.TrimPrefix(path.Ext(u.Path), ".")
	if ext == "" || len(ext) > 5 {
		return ""
	}
	return strings.ToLower(ext)
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
