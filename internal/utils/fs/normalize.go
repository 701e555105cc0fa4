// Package fs holds filesystem helpers for output and temporary files.
package fs

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"mediagrab/internal/domain/regex"
)

const maxFilenameLen = 200

// SafeFilename removes characters that are not allowed in filenames and normalizes spacing.
func SafeFilename(filename string) string {
	safe := regex.InvalidFileCharsCompile().ReplaceAllString(filename, "")
	safe = strings.Join(strings.Fields(safe), " ")
	safe = strings.TrimRight(safe, " .")

	if len(safe) > maxFilenameLen {
		ext := filepath.Ext(safe)
		safe = strings.TrimSpace(safe[:runeCut(safe, maxFilenameLen-len(ext))]) + ext
	}
	if safe == "" || safe == filepath.Ext(safe) {
		safe = "download" + safe
	}
	return safe
}

// runeCut returns the largest byte offset no greater than n that does not
// split a UTF-8 sequence.
func runeCut(s string, n int) int {
	if n >= len(s) {
		return len(s)
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}

// FilenameFrom returns the base name of path if it looks like a file name (has a
// non-empty stem and extension), or "" otherwise.
func FilenameFrom(path string) string {
	base := filepath.Base(path)
	dot := strings.LastIndex(base, ".")
	if dot > 0 && dot < len(base)-1 {
		return base
	}
	return ""
}

// SplitOutputPath splits a user output path into a directory and an optional filename.
func SplitOutputPath(path string) (dir, filename string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if filename = FilenameFrom(abs); filename != "" {
		return filepath.Dir(abs), filename
	}
	return abs, ""
}

// InsertSuffix inserts suffix between the stem and extension of filename.
func InsertSuffix(filename, suffix string) string {
	if suffix == "" {
		return filename
	}
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + suffix + ext
}
