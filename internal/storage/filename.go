package storage

import (
	"regexp"
	"strings"
)

const maxFilenameLength = 100

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	whitespaceRuns       = regexp.MustCompile(`\s+`)
)

// SanitizeFilename turns a user-supplied title into a safe download name:
// filesystem-reserved characters are stripped, whitespace runs collapse to a
// single underscore, the result is length-capped and trailing dots removed.
// An empty result falls back to fallback.
func SanitizeFilename(name, fallback string) string {
	clean := invalidFilenameChars.ReplaceAllString(name, "")
	clean = strings.TrimSpace(clean)
	clean = whitespaceRuns.ReplaceAllString(clean, "_")
	// Cap by runes so a multi-byte title is never cut mid-character.
	if runes := []rune(clean); len(runes) > maxFilenameLength {
		clean = string(runes[:maxFilenameLength])
	}
	clean = strings.Trim(clean, "._")
	if clean == "" {
		return fallback
	}
	return clean
}
