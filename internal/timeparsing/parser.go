// Package timeparsing turns user-entered due dates into calendar dates.
//
// Input is tried against three layers in order:
//  1. Compact duration (+3d, 2w, -1d)
//  2. Absolute date (2025-01-31, 2025/01/31, RFC3339)
//  3. Natural language (tomorrow, next friday, in 3 days)
//
// Due dates have day granularity, so every layer reduces to YYYY-MM-DD.
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical due-date format.
const DateLayout = "2006-01-02"

// compactDurationRe matches [+-]?(\d+)([dwmy]). Hours are meaningless for a
// due date and are not accepted.
var compactDurationRe = regexp.MustCompile(`^([+-]?)(\d+)([dwmy])$`)

// ParseCompactDuration applies a compact duration to now.
//
// Units: d = days, w = weeks, m = months, y = years. No sign means forward.
func ParseCompactDuration(s string, now time.Time) (time.Time, error) {
	matches := compactDurationRe.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return time.Time{}, fmt.Errorf("not a compact duration: %q", s)
	}

	amount, err := strconv.Atoi(matches[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration amount: %q", matches[2])
	}
	if matches[1] == "-" {
		amount = -amount
	}

	switch matches[3] {
	case "d":
		return now.AddDate(0, 0, amount), nil
	case "w":
		return now.AddDate(0, 0, amount*7), nil
	case "m":
		return now.AddDate(0, amount, 0), nil
	default:
		return now.AddDate(amount, 0, 0), nil
	}
}

// IsCompactDuration returns true if the string matches compact duration syntax.
func IsCompactDuration(s string) bool {
	return compactDurationRe.MatchString(strings.TrimSpace(s))
}

var absoluteLayouts = []string{
	DateLayout,
	"2006/01/02",
	time.RFC3339,
	"2006-01-02T15:04",
}

// ParseAbsolute parses a fixed-format date in now's location.
func ParseAbsolute(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not an absolute date: %q", s)
}

// ParseRelativeTime runs the layers in order and returns the first match.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if IsCompactDuration(s) {
		return ParseCompactDuration(s, now)
	}
	if t, err := ParseAbsolute(s, now); err == nil {
		return t, nil
	}
	if t, err := ParseNaturalLanguage(s, now); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q (try 2025-01-31, +3d or \"next friday\")", s)
}

// ParseDueDate normalises user input to a due-date string. Empty input, "none"
// and "clear" yield "" (no due date).
func ParseDueDate(s string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "clear":
		return "", nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}
