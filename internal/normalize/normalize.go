// Package normalize turns free-form user input into a canonical identifier.
//
// Callers paste all sorts of things into a lookup box: profile URLs with or
// without a scheme, invite links, @handles, bare handles, numeric ids. This
// package reduces all of them to either a bare handle or a numeric id (as
// text) using purely lexical rules — no DNS, no network, no platform calls.
package normalize

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalid is returned when the input is empty, whitespace-only, or no
// valid identifier characters remain after stripping.
var ErrInvalid = errors.New("invalid identifier format")

// Link patterns are tried in a fixed priority order: canonical domain
// patterns first, then joinchat paths, then +invite paths. The first
// capturing-group match wins, so a URL with trailing path segments yields
// only the first segment after the domain.
var linkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://(?:www\.)?t\.me/([a-zA-Z0-9_]+)`),
	regexp.MustCompile(`https?://(?:www\.)?telegram\.me/([a-zA-Z0-9_]+)`),
	regexp.MustCompile(`https?://(?:www\.)?telegram\.dog/([a-zA-Z0-9_]+)`),
	regexp.MustCompile(`t\.me/([a-zA-Z0-9_]+)`),
	regexp.MustCompile(`telegram\.me/([a-zA-Z0-9_]+)`),
	regexp.MustCompile(`telegram\.dog/([a-zA-Z0-9_]+)`),
	regexp.MustCompile(`https?://(?:www\.)?t\.me/joinchat/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`https?://(?:www\.)?t\.me/\+([a-zA-Z0-9_-]+)`),
}

// stripInvalid removes everything outside the identifier alphabet.
var stripInvalid = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

// Normalize reduces raw input to a canonical identifier: a bare handle, a
// numeric id in text form, or an opaque invite code. Invite codes are not
// distinguished from handles here; the caller decides how to query them.
func Normalize(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", ErrInvalid
	}

	for _, pattern := range linkPatterns {
		if m := pattern.FindStringSubmatch(cleaned); m != nil {
			return m[1], nil
		}
	}

	if rest, ok := strings.CutPrefix(cleaned, "@"); ok {
		if rest == "" {
			return "", ErrInvalid
		}
		return rest, nil
	}

	cleaned = stripInvalid.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return "", ErrInvalid
	}
	return cleaned, nil
}

// IsNumeric reports whether id is a numeric identifier: an optional leading
// minus (chat ids for supergroups and channels are negative) followed by
// digits only.
func IsNumeric(id string) bool {
	digits := strings.TrimPrefix(id, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
