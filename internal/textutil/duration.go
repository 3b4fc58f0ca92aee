// Package textutil holds small text helpers shared by extractors: duration
// string parsing and HTML fragment cleaning.
package textutil

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// clockPattern matches [[[D:]H:]M:]S[.fff]; a bare seconds count is the
	// degenerate case with every optional group empty.
	clockPattern = regexp.MustCompile(`^(?:(?:(?:(\d+):)?(\d+):)?(\d+):)?(\d+(?:[.,]\d+)?)$`)

	// clockSuffix is a unit word some pages append to clock durations ("11:00 min").
	clockSuffix = regexp.MustCompile(`(?i)\s*(?:minutes|mins?\.?|hrs?\.?|h|secs?\.?|s)$`)

	unitPattern = regexp.MustCompile(`(?i)^` +
		`(?:(\d+(?:\.\d+)?)\s*(?:days?|d)\s*)?` +
		`(?:(\d+(?:\.\d+)?)\s*(?:hours?|hrs?\.?|h)\s*)?` +
		`(?:(\d+(?:\.\d+)?)\s*(?:minutes?|mins?\.?|m)\s*)?` +
		`(?:(\d+(?:\.\d+)?)\s*(?:seconds?|secs?\.?|s))?$`)
)

// ParseDuration converts a human-readable duration into whole seconds.
// Accepted forms are clock notation ("11:00", "1:02:03", "1:00:00:00"),
// a bare seconds count ("660") and unit notation ("1h 2m 3s", "11 min").
// Fractional seconds are rounded. The boolean is false when s is empty, not
// recognized, or longer than math.MaxInt32 seconds.
func ParseDuration(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ":") {
		s = clockSuffix.ReplaceAllString(s, "")
	}

	if m := clockPattern.FindStringSubmatch(s); m != nil {
		days, ok1 := atof(m[1])
		hours, ok2 := atof(m[2])
		mins, ok3 := atof(m[3])
		secs, ok4 := atof(strings.Replace(m[4], ",", ".", 1))
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return 0, false
		}
		return toSeconds(days*86400 + hours*3600 + mins*60 + secs)
	}

	m := unitPattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "" && m[4] == "") {
		return 0, false
	}
	var total float64
	for i, mult := range []float64{86400, 3600, 60, 1} {
		f, ok := atof(m[i+1])
		if !ok {
			return 0, false
		}
		total += f * mult
	}
	return toSeconds(total)
}

// toSeconds rounds a total and rejects values that do not fit an int32.
func toSeconds(total float64) (int, bool) {
	total = math.Round(total)
	if total < 0 || total > math.MaxInt32 {
		return 0, false
	}
	return int(total), true
}

// FormatDuration renders seconds as H:MM:SS or M:SS.
func FormatDuration(secs int) string {
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// atof parses an optional numeric group; an empty group is zero.
func atof(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
