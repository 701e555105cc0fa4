package source

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kkdai/youtube/v2"

	"mediagrab/internal/domain/regex"
	"mediagrab/internal/media"
)

// audioItags maps well-known audio itags to the bitrate label they are
// published under.
var audioItags = map[int]string{
	139: "48kbps",
	140: "128kbps",
	141: "256kbps",
	171: "128kbps",
	172: "256kbps",
	249: "50kbps",
	250: "70kbps",
	251: "160kbps",
}

// streamInfoOf describes f, or returns false when f is neither a video nor
// an audio stream.
func streamInfoOf(f *youtube.Format) (media.StreamInfo, bool) {
	kind, ext := splitMime(f.MimeType)

	info := media.StreamInfo{
		ID:       strconv.Itoa(f.ItagNo),
		MimeType: f.MimeType,
		Ext:      ext,
		Size:     f.ContentLength,
	}

	switch kind {
	case "video":
		digits := regex.LeadingDigitsCompile().FindString(f.QualityLabel)
		if digits == "" {
			if f.Height <= 0 {
				return media.StreamInfo{}, false
			}
			digits = strconv.Itoa(f.Height)
		}
		info.Track = media.TrackVideo
		info.Definition = digits + "p"
		info.Progressive = f.AudioChannels > 0

	case "audio":
		info.Track = media.TrackAudio
		info.Definition = audioDefinition(f)

	default:
		return media.StreamInfo{}, false
	}
	return info, true
}

func audioDefinition(f *youtube.Format) string {
	if def, ok := audioItags[f.ItagNo]; ok {
		return def
	}
	bitrate := f.AverageBitrate
	if bitrate <= 0 {
		bitrate = f.Bitrate
	}
	if bitrate <= 0 {
		return ""
	}
	return fmt.Sprintf("%dkbps", int(math.Round(float64(bitrate)/1000)))
}

// splitMime turns "video/mp4; codecs=..." into ("video", "mp4").
func splitMime(mime string) (kind, ext string) {
	base, _, _ := strings.Cut(mime, ";")
	kind, ext, _ = strings.Cut(strings.TrimSpace(base), "/")
	return strings.ToLower(kind), strings.ToLower(ext)
}

func streamsOf(v *youtube.Video) []media.StreamInfo {
	out := make([]media.StreamInfo, 0, len(v.Formats))
	for i := range v.Formats {
		if info, ok := streamInfoOf(&v.Formats[i]); ok {
			out = append(out, info)
		}
	}
	return out
}
