// Package regex compiles and caches various regex expressions.
package regex

import (
	"regexp"
	"sync"
)

var (
	ansiEscape     *regexp.Regexp
	ansiEscapeOnce sync.Once

	leadingDigits     *regexp.Regexp
	leadingDigitsOnce sync.Once

	playlistURL     *regexp.Regexp
	playlistURLOnce sync.Once

	invalidFileChars     *regexp.Regexp
	invalidFileCharsOnce sync.Once
)

// AnsiEscapeCompile compiles regex for ANSI escape sequences (SGR and cursor movement).
func AnsiEscapeCompile() *regexp.Regexp {
	ansiEscapeOnce.Do(func() {
		ansiEscape = regexp.MustCompile(`\x1b\[[;\d]*[A-Za-z]`)
	})
	return ansiEscape
}

// LeadingDigitsCompile compiles regex for the first run of digits in a token (e.g. "1080" in "1080p60").
func LeadingDigitsCompile() *regexp.Regexp {
	leadingDigitsOnce.Do(func() {
		leadingDigits = regexp.MustCompile(`\d+`)
	})
	return leadingDigits
}

// PlaylistURLCompile compiles regex for playlist page URLs.
func PlaylistURLCompile() *regexp.Regexp {
	playlistURLOnce.Do(func() {
		playlistURL = regexp.MustCompile(`^https://.*youtube\.com/playlist`)
	})
	return playlistURL
}

// InvalidFileCharsCompile compiles regex for characters not allowed in filenames.
func InvalidFileCharsCompile() *regexp.Regexp {
	invalidFileCharsOnce.Do(func() {
		invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)
	})
	return invalidFileChars
}

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return AnsiEscapeCompile().ReplaceAllString(s, "")
}
