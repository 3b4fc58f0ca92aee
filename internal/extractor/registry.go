package extractor

import (
	"net/url"
	"sort"
	"strings"
)

// extractorsByHost maps hostnames to their extractors.
var extractorsByHost = map[string]Extractor{}

// Register adds an extractor for the given hostnames.
func Register(e Extractor, hosts ...string) {
	for _, host := range hosts {
		extractorsByHost[strings.ToLower(host)] = e
	}
}

// Match finds the extractor for a URL by hostname, then confirms it with the
// extractor's own Match. Returns nil when nothing handles the URL.
func Match(rawURL string) Extractor {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}

	host := strings.ToLower(u.Hostname())

	if e, ok := extractorsByHost[host]; ok && e.Match(u) {
		return e
	}

	// Try without www. prefix
	if strings.HasPrefix(host, "www.") {
		if e, ok := extractorsByHost[host[4:]]; ok && e.Match(u) {
			return e
		}
	}

	return nil
}

// List returns all unique registered extractors sorted by name.
func List() []Extractor {
	seen := make(map[string]bool)
	var result []Extractor
	for _, e := range extractorsByHost {
		if !seen[e.Name()] {
			seen[e.Name()] = true
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}
