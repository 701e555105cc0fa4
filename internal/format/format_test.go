package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupAndValidate(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []string
		requests []Request
		skips    []Skip
	}{
		{
			name:     "kind with definition",
			tokens:   []string{"videoonly", "720p"},
			requests: []Request{{VideoOnly, "720p"}},
		},
		{
			name:     "kind at end defaults to max",
			tokens:   []string{"1080p", "audio"},
			requests: []Request{{VideoAudio, "1080p"}, {AudioOnly, Max}},
		},
		{
			name:     "kind followed by kind",
			tokens:   []string{"Audio-Only", "video+audio", "4K"},
			requests: []Request{{AudioOnly, Max}, {VideoAudio, "4k"}},
		},
		{
			name:   "kind followed by junk",
			tokens: []string{"videoonly", "huge", "480p"},
			requests: []Request{
				{VideoAudio, "480p"},
			},
			skips: []Skip{{Tokens: []string{"videoonly", "huge"}}},
		},
		{
			name:   "unknown token alone",
			tokens: []string{"banana"},
			skips:  []Skip{{Tokens: []string{"banana"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests, skips := GroupAndValidate(tt.tokens)
			assert.Equal(t, tt.requests, requests)
			assert.Equal(t, tt.skips, skips)
		})
	}
}

func TestGroupAndValidatePartitionsEveryToken(t *testing.T) {
	tests := []struct {
		tokens   []string
		requests []Request
		skips    []Skip
	}{
		{
			tokens:   []string{"videoonly", "720p", "audio", "foo", "1080p", "videoaudio"},
			requests: []Request{{VideoOnly, "720p"}, {VideoAudio, "1080p"}, {VideoAudio, Max}},
			skips:    []Skip{{Tokens: []string{"audio", "foo"}}},
		},
		{
			tokens:   []string{"audio", "bar", "baz", "144p", "video-only"},
			requests: []Request{{VideoAudio, "144p"}, {VideoOnly, Max}},
			skips:    []Skip{{Tokens: []string{"audio", "bar"}}, {Tokens: []string{"baz"}}},
		},
		{
			tokens:   []string{"4k", "4k", "audioonly", "50kbps", "x"},
			requests: []Request{{VideoAudio, "4k"}, {VideoAudio, "4k"}, {AudioOnly, "50kbps"}},
			skips:    []Skip{{Tokens: []string{"x"}}},
		},
	}

	for _, tt := range tests {
		requests, skips := GroupAndValidate(tt.tokens)
		assert.Equal(t, tt.requests, requests, "tokens %v", tt.tokens)
		assert.Equal(t, tt.skips, skips, "tokens %v", tt.tokens)

		skipped := 0
		for _, s := range skips {
			skipped += len(s.Tokens)
		}
		// Each request consumes one or two tokens.
		assert.LessOrEqual(t, len(requests)+skipped, len(tt.tokens))
		assert.GreaterOrEqual(t, 2*len(requests)+skipped, len(tt.tokens))
	}
}

func TestResolve(t *testing.T) {
	cat := NewCatalog([]string{"480p", "720p", "360p", "720p"}, []string{"128kbps", "50kbps"})

	tests := []struct {
		req  Request
		want string
		ok   bool
	}{
		{Request{VideoAudio, "1080p"}, "720p", true},
		{Request{VideoAudio, "720p"}, "720p", true},
		{Request{VideoOnly, Max}, Max, true},
		{Request{VideoAudio, "4k"}, "720p", true},
		{Request{VideoAudio, "240p"}, "", false},
		{Request{AudioOnly, "160kbps"}, "128kbps", true},
		{Request{AudioOnly, "70kbps"}, "50kbps", true},
		{Request{AudioOnly, "720p"}, "", false},
		{Request{VideoOnly, "128kbps"}, "", false},
	}

	for _, tt := range tests {
		got, ok := Resolve(tt.req, cat)
		assert.Equal(t, tt.ok, ok, "request %v", tt.req)
		assert.Equal(t, tt.want, got, "request %v", tt.req)
	}
}

func TestResolveNeverReturnsUnavailableOrHigher(t *testing.T) {
	catalogs := []Catalog{
		NewCatalog([]string{"1080p", "144p"}, []string{"160kbps"}),
		NewCatalog([]string{"360p"}, nil),
		NewCatalog(nil, []string{"70kbps", "50kbps"}),
		NewCatalog(nil, nil),
	}

	for _, cat := range catalogs {
		for _, k := range []Kind{VideoAudio, VideoOnly, AudioOnly} {
			chain := chainOf(k)
			for i, def := range chain {
				got, ok := Resolve(Request{Kind: k, Definition: def}, cat)
				if !ok {
					continue
				}
				assert.True(t, cat.Has(k, got), "%v %s resolved to unavailable %s", k, def, got)
				assert.GreaterOrEqual(t, indexOf(chain, Canonical(k, got)), i, "%v %s moved up to %s", k, def, got)
			}
		}
	}
}

func TestResolveAvailableAlias(t *testing.T) {
	cat := NewCatalog([]string{"2160p"}, nil)

	got, ok := Resolve(Request{VideoAudio, "4k"}, cat)
	require.True(t, ok)
	assert.Equal(t, "4k", got)
}

func TestNewPlanEmptyTokens(t *testing.T) {
	plan := NewPlan(nil, Catalog{})

	require.Len(t, plan.Targets, 1)
	assert.Equal(t, Target{Kind: VideoAudio, Definition: Max, Requested: Max}, plan.Targets[0])
	assert.False(t, plan.AllSkipped())
}

func TestNewPlanDeduplicatesFallbacks(t *testing.T) {
	cat := NewCatalog([]string{"480p", "360p"}, nil)

	plan := NewPlan([]string{"1080p", "720p", "1080p"}, cat)

	require.Len(t, plan.Targets, 1)
	assert.Equal(t, "480p", plan.Targets[0].Definition)
	assert.Equal(t, " [480p]", plan.Targets[0].Suffix)
	assert.Equal(t, []Fallback{
		{Kind: VideoAudio, Base: "1080p", Fallback: "480p"},
		{Kind: VideoAudio, Base: "720p", Fallback: "480p"},
	}, plan.Fallbacks)
	assert.Empty(t, plan.Skips)
}

func TestNewPlanSuffixes(t *testing.T) {
	cat := NewCatalog([]string{"1080p", "720p"}, []string{"128kbps"})

	plan := NewPlan([]string{"videoonly", "1080p", "videoonly", "max", "audio"}, cat)

	require.Len(t, plan.Targets, 3)
	assert.Equal(t, " [videoonly] [1080p]", plan.Targets[0].Suffix)
	assert.Equal(t, " [videoonly]", plan.Targets[1].Suffix)
	assert.Equal(t, "", plan.Targets[2].Suffix)
	assert.Equal(t, []string{"videoonly 1080p", "videoonly max", "audio max"}, plan.Definitions())
}

func TestNewPlanAllSkipped(t *testing.T) {
	cat := NewCatalog(nil, []string{"128kbps"})

	plan := NewPlan([]string{"1080p", "nonsense"}, cat)

	assert.Empty(t, plan.Targets)
	assert.True(t, plan.AllSkipped())
	assert.Equal(t, []Skip{
		{Tokens: []string{"nonsense"}},
		{Tokens: []string{"videoaudio", "1080p"}},
	}, plan.Skips)
}

func TestCatalogOrdering(t *testing.T) {
	cat := NewCatalog([]string{"360p", "1080p", "", "720p", "1080p"}, []string{"50kbps", "160kbps"})

	assert.Equal(t, []string{"1080p", "720p", "360p"}, cat.Video)
	assert.Equal(t, []string{"160kbps", "50kbps"}, cat.Audio)

	best, ok := cat.Best(AudioOnly)
	require.True(t, ok)
	assert.Equal(t, "160kbps", best)
}
