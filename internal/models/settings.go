// Package models holds the program's shared data types.
package models

import "time"

// Settings is the validated configuration of one run. It is built once
// and passed by value.
type Settings struct {
	URLs      []string
	Formats   []string
	OutputDir string
	// Filename is set when the output path names a file.
	Filename  string
	BatchFile string

	AssumeYes bool
	Parallel  int
	Color     bool

	FFmpegPath string
	RateLimit  int64 // bytes per second, 0 for unlimited
	Proxy      string
	Timeout    time.Duration

	HistoryFile string
	LogFile     string
	DebugLevel  int
}

// Batch reports whether URLs were read from a batch file.
func (s Settings) Batch() bool {
	return s.BatchFile != ""
}

// Confirm reports whether each item needs an interactive confirmation.
func (s Settings) Confirm() bool {
	return !s.AssumeYes && !s.Batch()
}
