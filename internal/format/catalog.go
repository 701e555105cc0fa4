package format

import (
	"github.com/duke-git/lancet/v2/convertor"
	"github.com/duke-git/lancet/v2/slice"

	"mediagrab/internal/domain/regex"
)

// Catalog lists the distinct definitions a source offers per track,
// highest first.
type Catalog struct {
	Video []string
	Audio []string
}

// NewCatalog deduplicates and orders the given definitions.
func NewCatalog(video, audio []string) Catalog {
	return Catalog{
		Video: ordered(video),
		Audio: ordered(audio),
	}
}

// Has reports whether def is available for kind k. "max" is available
// whenever the catalog has any entry for the kind's track.
func (c Catalog) Has(k Kind, def string) bool {
	list := c.Audio
	if k.IsVideo() {
		list = c.Video
	}

	if def == Max {
		return len(list) > 0
	}
	return slice.Contain(list, Canonical(k, def))
}

// Best returns the highest definition available for kind k.
func (c Catalog) Best(k Kind) (string, bool) {
	list := c.Audio
	if k.IsVideo() {
		list = c.Video
	}
	if len(list) == 0 {
		return "", false
	}
	return list[0], true
}

// Magnitude returns the leading number in a definition, e.g. 1080 for
// "1080p" or 128 for "128kbps". Unknown shapes return 0.
func Magnitude(def string) int {
	digits := regex.LeadingDigitsCompile().FindString(def)
	if digits == "" {
		return 0
	}
	n, err := convertor.ToInt(digits)
	if err != nil {
		return 0
	}
	return int(n)
}

func ordered(defs []string) []string {
	out := slice.Filter(slice.Unique(defs), func(_ int, d string) bool {
		return d != ""
	})
	slice.SortBy(out, func(a, b string) bool {
		return Magnitude(a) > Magnitude(b)
	})
	return out
}
