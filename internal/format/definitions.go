// Package format resolves user-requested format tokens against the
// definitions a media source actually offers.
package format

import "strings"

// Kind is the kind of media file a request produces.
type Kind int

const (
	VideoAudio Kind = iota
	VideoOnly
	AudioOnly
)

// String returns the canonical token for the kind.
func (k Kind) String() string {
	switch k {
	case VideoOnly:
		return "videoonly"
	case AudioOnly:
		return "audio"
	default:
		return "videoaudio"
	}
}

// IsVideo reports whether the kind resolves against video definitions.
func (k Kind) IsVideo() bool {
	return k == VideoAudio || k == VideoOnly
}

// Max is the definition meaning "best available".
const Max = "max"

var kindTokens = map[string]Kind{
	"videoaudio":  VideoAudio,
	"video+audio": VideoAudio,
	"videoonly":   VideoOnly,
	"video-only":  VideoOnly,
	"audio":       AudioOnly,
	"audioonly":   AudioOnly,
	"audio-only":  AudioOnly,
}

// Fallback chains, from best to worst. Each entry's successor is the next
// definition tried when it is unavailable.
var (
	videoChain = []string{Max, "2160p", "1440p", "1080p", "720p", "480p", "360p", "240p", "144p"}
	audioChain = []string{Max, "160kbps", "128kbps", "70kbps", "50kbps"}

	videoAliases = map[string]string{
		"4k": "2160p",
	}
)

// ParseKind returns the kind named by token.
func ParseKind(token string) (Kind, bool) {
	k, ok := kindTokens[strings.ToLower(token)]
	return k, ok
}

// IsDefinition reports whether token names any known video or audio definition.
func IsDefinition(token string) bool {
	token = strings.ToLower(token)
	if _, ok := videoAliases[token]; ok {
		return true
	}
	return indexOf(videoChain, token) >= 0 || indexOf(audioChain, token) >= 0
}

// Canonical normalizes a definition through the alias table of the kind.
func Canonical(k Kind, def string) string {
	if k.IsVideo() {
		if alias, ok := videoAliases[def]; ok {
			return alias
		}
	}
	return def
}

// ValidFor reports whether def belongs to the table of kind k.
func ValidFor(k Kind, def string) bool {
	if k.IsVideo() {
		_, alias := videoAliases[def]
		return alias || indexOf(videoChain, def) >= 0
	}
	return indexOf(audioChain, def) >= 0
}

// chainOf returns the fallback chain for kind k.
func chainOf(k Kind) []string {
	if k.IsVideo() {
		return videoChain
	}
	return audioChain
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
