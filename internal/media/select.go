package media

import (
	"fmt"

	"mediagrab/internal/domain/errs"
	"mediagrab/internal/format"
)

func selectStreams(streams []StreamInfo, t format.Target) (Selection, error) {
	def := format.Canonical(t.Kind, t.Definition)

	switch t.Kind {
	case format.AudioOnly:
		audio := pick(streams, TrackAudio, def)
		if audio == nil {
			return nil, fmt.Errorf("no audio stream at %s: %w", t.Definition, errs.ErrSourceUnavailable)
		}
		return AudioOnly{Audio: audio}, nil

	case format.VideoOnly:
		video := pick(streams, TrackVideo, def)
		if video == nil {
			return nil, fmt.Errorf("no video stream at %s: %w", t.Definition, errs.ErrSourceUnavailable)
		}
		return VideoOnly{Video: video}, nil

	default:
		video := pick(streams, TrackVideo, def)
		if video == nil {
			return nil, fmt.Errorf("no video stream at %s: %w", t.Definition, errs.ErrSourceUnavailable)
		}
		if video.Progressive {
			return VideoAudio{Video: video}, nil
		}
		audio := pick(streams, TrackAudio, format.Max)
		if audio == nil {
			return nil, fmt.Errorf("no audio stream to merge with %s: %w", video.Definition, errs.ErrSourceUnavailable)
		}
		return VideoAudio{Video: video, Audio: audio}, nil
	}
}

// pick returns the best stream of track at def, or at the highest
// definition when def is "max". mp4 wins over other containers, then size.
func pick(streams []StreamInfo, track Track, def string) *StreamInfo {
	top := 0
	if def == format.Max {
		for _, s := range streams {
			if s.Track == track && s.Size > 0 {
				top = max(top, format.Magnitude(s.Definition))
			}
		}
	}

	var best *StreamInfo
	for i := range streams {
		s := &streams[i]
		if s.Track != track || s.Size <= 0 {
			continue
		}
		if def == format.Max {
			if format.Magnitude(s.Definition) != top {
				continue
			}
		} else if s.Definition != def {
			continue
		}

		if best == nil || better(s, best) {
			best = s
		}
	}

	if best == nil {
		return nil
	}
	chosen := *best
	return &chosen
}

func better(candidate, current *StreamInfo) bool {
	candMP4, curMP4 := candidate.Ext == "mp4", current.Ext == "mp4"
	if candMP4 != curMP4 {
		return candMP4
	}
	return candidate.Size > current.Size
}
