package textutil

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	brPattern    = regexp.MustCompile(`(?i)\s*<br\s*/?>\s*`)
	blockPattern = regexp.MustCompile(`(?i)<\s*/\s*p\s*>\s*<\s*p[^>]*>`)
	spacePattern = regexp.MustCompile(`[ \t\r\f\v]+`)
)

// CleanHTML turns an HTML fragment into plain text: line breaks and paragraph
// boundaries become newlines, tags are stripped, entities are decoded and
// runs of whitespace collapse to a single space.
func CleanHTML(fragment string) string {
	fragment = strings.ReplaceAll(fragment, "\n", " ")
	fragment = brPattern.ReplaceAllString(fragment, "\n")
	fragment = blockPattern.ReplaceAllString(fragment, "\n")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + fragment + "</body>"))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	text := doc.Find("body").Text()

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spacePattern.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
