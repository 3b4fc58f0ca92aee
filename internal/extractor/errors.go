package extractor

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedURL is returned before any network access when no
	// extractor accepts a URL or the URL does not have the expected shape.
	ErrUnsupportedURL = errors.New("unsupported URL")

	// ErrNotFound matches every NotFoundError via errors.Is.
	ErrNotFound = errors.New("element not found")
)

// NotFoundError reports a required element missing from a page.
type NotFoundError struct {
	Element string // e.g. "title", "playlist url"
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unable to extract %s", e.Element)
}

// Is makes errors.Is(err, ErrNotFound) true for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
