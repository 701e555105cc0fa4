// Package consts holds program-wide constants.
package consts

import "time"

// Program identity.
const (
	ProgramName    = "mediagrab"
	ProgramVersion = "0.6.0"
	EnvPrefix      = "MEDIAGRAB"
)

// TempFilePrefix prefixes every intermediate stream file written to the output directory.
const TempFilePrefix = ".mediagrab-"

// Download defaults.
const (
	DefaultParallel      = 3
	DefaultFetchParallel = 4
	DefaultOutputDir     = "./"
	DefaultHTTPTimeout   = 30 * time.Second
)

// UI refresh intervals.
const (
	ProgressIntervalDefault     = 200 * time.Millisecond
	ProgressIntervalDownloading = 200 * time.Millisecond
	ProgressIntervalConverting  = 100 * time.Millisecond
	LoadingAnimationInterval    = 400 * time.Millisecond
)

// Output containers.
const (
	VideoExt = ".mp4"
	AudioExt = ".mp3"
)
