package extractor

import (
	"regexp"

	"filmarchiv/internal/textutil"
)

// Matcher looks for a value in page content.
type Matcher func(content string) (string, bool)

// Regex returns a Matcher yielding the first non-empty capture group of
// pattern, or the whole match when the pattern has no groups.
// It panics if pattern does not compile.
func Regex(pattern string) Matcher {
	re := regexp.MustCompile(pattern)
	return func(content string) (string, bool) {
		m := re.FindStringSubmatch(content)
		if m == nil {
			return "", false
		}
		if len(m) == 1 {
			return m[0], true
		}
		for _, g := range m[1:] {
			if g != "" {
				return g, true
			}
		}
		return "", true
	}
}

// FirstMatch tries matchers in order and returns the first hit.
func FirstMatch(content string, matchers ...Matcher) (string, bool) {
	for _, match := range matchers {
		if v, ok := match(content); ok {
			return v, true
		}
	}
	return "", false
}

// SearchRegex returns the first hit of matchers or a NotFoundError naming
// the element.
func SearchRegex(content, name string, matchers ...Matcher) (string, error) {
	if v, ok := FirstMatch(content, matchers...); ok {
		return v, nil
	}
	return "", &NotFoundError{Element: name}
}

// SearchOptional is SearchRegex for elements a page may lack.
func SearchOptional(content string, matchers ...Matcher) (string, bool) {
	return FirstMatch(content, matchers...)
}

// HTMLSearchOptional is SearchOptional with the hit converted from an HTML
// fragment to plain text. A hit that cleans to nothing counts as absent.
func HTMLSearchOptional(content string, matchers ...Matcher) (string, bool) {
	v, ok := FirstMatch(content, matchers...)
	if !ok {
		return "", false
	}
	v = textutil.CleanHTML(v)
	return v, v != ""
}
