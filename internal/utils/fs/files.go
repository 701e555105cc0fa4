package fs

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mediagrab/internal/utils/logging"
)

// ReserveFile claims path by creating it empty, or the first free
// "name(N).ext" variant in the same directory if path is taken. The
// returned file belongs to the caller, who is expected to overwrite it or
// remove it.
func ReserveFile(path string) (string, error) {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)

	candidate := path
	for n := 1; ; n++ {
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			if err := f.Close(); err != nil {
				RemoveQuietly(candidate)
				return "", fmt.Errorf("failed to reserve %q: %w", candidate, err)
			}
			return candidate, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to reserve %q: %w", candidate, err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s(%d)%s", stem, n, ext))
	}
}

// MoveNoClobber moves src to dst, incrementing dst if it already exists.
// Returns the final destination.
func MoveNoClobber(src, dst string) (string, error) {
	final, err := ReserveFile(dst)
	if err != nil {
		return "", err
	}
	// Only the reservation made above is replaced.
	if err := os.Rename(src, final); err != nil {
		RemoveQuietly(final)
		return "", fmt.Errorf("failed to move %q to %q: %w", src, final, err)
	}
	return final, nil
}

// RemoveQuietly removes the given files, logging failures other than absence.
func RemoveQuietly(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			logging.E("Failed to remove file %q: %v", p, err)
		}
	}
}

// SweepPrefix removes every file in dir whose name starts with prefix.
// Returns the number of removed files.
func SweepPrefix(dir, prefix string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory %q: %w", dir, err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			logging.E("Failed to remove leftover file %q: %v", e.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}

// ReadFileLines reads non-empty, non-comment lines from a file.
func ReadFileLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return lines, nil
}
