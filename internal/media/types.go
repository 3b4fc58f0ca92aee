// Package media defines shared types for the filmarchiv application.
package media

// Playlist is the result of one extraction: an identifier derived from the
// page URL and the ordered entries found in the page's playlist document.
type Playlist struct {
	ID        string  `json:"id"`
	Extractor string  `json:"extractor"`
	URL       string  `json:"webpage_url"`
	Entries   []Entry `json:"entries"`
}

// First returns the first entry, or nil for an empty playlist.
func (p *Playlist) First() *Entry {
	if p == nil || len(p.Entries) == 0 {
		return nil
	}
	return &p.Entries[0]
}

// Entry is a single item of a playlist. Optional metadata is nil when the
// source did not provide it.
type Entry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Duration    *int     `json:"duration"` // seconds
	Thumbnail   *string  `json:"thumbnail"`
	Formats     []Format `json:"formats"`
}

// Best returns the last (highest ranked) format, or nil if there are none.
func (e *Entry) Best() *Format {
	if len(e.Formats) == 0 {
		return nil
	}
	return &e.Formats[len(e.Formats)-1]
}

// Format is a fetchable media locator.
type Format struct {
	URL         string `json:"url"`
	FormatID    string `json:"format_id,omitempty"`
	Ext         string `json:"ext,omitempty"` // "flv", "mp4", ...
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	ManifestURL string `json:"manifest_url,omitempty"`
}

// HistoryEntry records one completed extraction.
type HistoryEntry struct {
	ID          string `json:"id"`
	Extractor   string `json:"extractor"`
	URL         string `json:"url"`
	Title       string `json:"title"`        // Title of the first entry
	Entries     int    `json:"entries"`      // Number of playlist entries
	Duration    int    `json:"duration"`     // First entry, seconds; 0 if unknown
	ExtractedAt int64  `json:"extracted_at"` // Unix seconds
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }
