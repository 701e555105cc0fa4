package media

import (
	"mediagrab/internal/domain/consts"
	"mediagrab/internal/format"
	"mediagrab/internal/utils/fs"
)

// CatalogOf lists the definitions offered by streams of known size.
func CatalogOf(streams []StreamInfo) format.Catalog {
	var video, audio []string
	for _, s := range streams {
		if s.Size <= 0 || s.Definition == "" {
			continue
		}
		if s.Track == TrackVideo {
			video = append(video, s.Definition)
		} else {
			audio = append(audio, s.Definition)
		}
	}
	return format.NewCatalog(video, audio)
}

// SweepTemp removes temporary files left in dir by interrupted runs.
func SweepTemp(dir string) (int, error) {
	return fs.SweepPrefix(dir, consts.TempFilePrefix)
}
