// Package media turns a resolved format target into a downloadable resource.
package media

import (
	"context"
	"time"
)

// Track tells video streams apart from audio streams.
type Track int

const (
	TrackVideo Track = iota
	TrackAudio
)

// String returns "video" or "audio".
func (t Track) String() string {
	if t == TrackAudio {
		return "audio"
	}
	return "video"
}

// StreamInfo describes one stream a source offers.
type StreamInfo struct {
	ID         string
	Track      Track
	Definition string
	MimeType   string
	// Ext is the container extension without the dot, e.g. "mp4" or "webm".
	Ext         string
	Size        int64
	Progressive bool
}

// Progress reports the bytes left on the stream of one track.
type Progress struct {
	Track     Track
	Remaining int64
}

// Source is one remote media item.
type Source interface {
	URL() string
	Title() string
	Duration() time.Duration
	Streams() []StreamInfo
	// Download writes stream to path, blocking until done. report is called
	// as bytes arrive.
	Download(ctx context.Context, stream StreamInfo, path string, report func(Progress)) error
}

// TranscodeOptions tune a single-input conversion.
type TranscodeOptions struct {
	// Format is the output container, e.g. "mp4" or "mp3".
	Format  string
	NoAudio bool
}

// Converter merges and transcodes local files. Both calls return the path
// actually written, which differs from out when out already exists.
type Converter interface {
	Merge(ctx context.Context, video, audio, out string) (string, error)
	Transcode(ctx context.Context, in, out string, opts TranscodeOptions) (string, error)
}
