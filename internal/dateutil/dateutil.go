// Package dateutil formats export timestamps from user-friendly patterns
// such as "MMMM D, YYYY" or named presets such as "long".
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an unusable date pattern.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxFormatLength bounds pattern length.
const MaxFormatLength = 50

// DefaultFormat renders like a browser's long locale date.
const DefaultFormat = "MMMM D, YYYY"

// Presets are named shortcuts accepted wherever a pattern is.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     DefaultFormat,
	"datetime": "MMMM D, YYYY HH:mm",
}

// tokens are tried longest first. Case matters: MM is the month, mm the
// minute.
var tokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"dddd", "Monday"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
}

// Layout converts a pattern or preset name into a Go time layout.
// Text inside brackets is copied literally: "[on] D MMM" gives "on 2 Jan".
func Layout(format string) (string, error) {
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}
	if format == "" {
		return "", fmt.Errorf("%w: empty pattern", ErrInvalidDateFormat)
	}
	if len(format) > MaxFormatLength {
		return "", fmt.Errorf("%w: pattern exceeds %d characters", ErrInvalidDateFormat, MaxFormatLength)
	}

	var sb strings.Builder
	sb.Grow(len(format) + 8)
	for rest := format; rest != ""; {
		if rest[0] == '[' {
			literal, after, ok := strings.Cut(rest[1:], "]")
			if !ok {
				return "", fmt.Errorf("%w: unclosed bracket in %q", ErrInvalidDateFormat, format)
			}
			sb.WriteString(literal)
			rest = after
			continue
		}
		rest = writeToken(&sb, rest)
	}
	return sb.String(), nil
}

// writeToken emits the layout for the token at the start of s, or the first
// byte literally, and returns the remainder.
func writeToken(sb *strings.Builder, s string) string {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.token) {
			sb.WriteString(t.layout)
			return s[len(t.token):]
		}
	}
	sb.WriteByte(s[0])
	return s[1:]
}

// Format renders t with a pattern or preset. An empty format selects
// DefaultFormat.
func Format(t time.Time, format string) (string, error) {
	if format == "" {
		format = DefaultFormat
	}
	layout, err := Layout(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
