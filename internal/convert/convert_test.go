package convert

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediagrab/internal/domain/errs"
	"mediagrab/internal/media"
)

func TestMergeArgs(t *testing.T) {
	got := MergeArgs("v.webm", "a.webm", "out.mp4")

	assert.Equal(t, []string{
		"-hide_banner", "-nostdin", "-loglevel", "error", "-y",
		"-i", "v.webm", "-i", "a.webm",
		"-map", "0:v:0", "-map", "1:a:0",
		"-vcodec", "copy", "-f", "mp4", "out.mp4",
	}, got)
}

func TestTranscodeArgs(t *testing.T) {
	tests := []struct {
		name string
		opts media.TranscodeOptions
		tail []string
	}{
		{"audio", media.TranscodeOptions{Format: "mp3"}, []string{"-i", "in", "-f", "mp3", "out"}},
		{"video", media.TranscodeOptions{Format: "mp4"}, []string{"-i", "in", "-vcodec", "copy", "-f", "mp4", "out"}},
		{"video without audio", media.TranscodeOptions{Format: "mp4", NoAudio: true}, []string{"-i", "in", "-vcodec", "copy", "-an", "-f", "mp4", "out"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranscodeArgs("in", "out", tt.opts)
			assert.Equal(t, tt.tail, got[len(baseArgs):])
		})
	}
}

// fakeFFmpeg writes a script that copies its last argument into existence,
// or fails when fail is set.
func fakeFFmpeg(t *testing.T, fail bool) string {
	t.Helper()

	script := "#!/bin/sh\nfor last; do :; done\necho done > \"$last\"\n"
	if fail {
		script = "#!/bin/sh\necho 'Invalid data found when processing input' >&2\nexit 1\n"
	}
	return writeScript(t, script)
}

// slowFFmpeg stays busy before writing, and refuses to write into a file
// that already has content.
func slowFFmpeg(t *testing.T) string {
	t.Helper()

	script := "#!/bin/sh\nfor last; do :; done\nsleep 0.2\n" +
		"if [ -s \"$last\" ]; then echo \"File '$last' already exists\" >&2; exit 1; fi\n" +
		"echo done > \"$last\"\n"
	return writeScript(t, script)
}

func writeScript(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in for ffmpeg needs a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestLookupPrefersExplicitThenEnv(t *testing.T) {
	bin := fakeFFmpeg(t, false)

	got, err := Lookup(bin)
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	t.Setenv(BinaryEnv, bin)
	got, err = Lookup("")
	require.NoError(t, err)
	assert.Equal(t, bin, got)
}

func TestLookupMissing(t *testing.T) {
	t.Setenv(BinaryEnv, "")
	t.Setenv("PATH", t.TempDir())

	_, err := Lookup(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, errs.ErrConverterUnavailable)
}

func TestTranscodeIncrementsExistingOutput(t *testing.T) {
	f := New(fakeFFmpeg(t, false))
	dir := t.TempDir()
	out := filepath.Join(dir, "song.mp3")
	require.NoError(t, os.WriteFile(out, []byte("existing"), 0o644))

	written, err := f.Transcode(context.Background(), "in.webm", out, media.TranscodeOptions{Format: "mp3"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "song(1).mp3"), written)
	assert.FileExists(t, written)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestConcurrentTranscodesGetDistinctNames(t *testing.T) {
	f := New(slowFFmpeg(t))
	dir := t.TempDir()
	out := filepath.Join(dir, "Intro.mp3")
	const workers = 3

	var wg sync.WaitGroup
	written := make([]string, workers)
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, err := f.Transcode(context.Background(), "in.webm", out, media.TranscodeOptions{Format: "mp3"})
			assert.NoError(t, err)
			written[i] = w
		}()
	}
	wg.Wait()

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "Intro.mp3"),
		filepath.Join(dir, "Intro(1).mp3"),
		filepath.Join(dir, "Intro(2).mp3"),
	}, written)
	for _, w := range written {
		data, err := os.ReadFile(w)
		require.NoError(t, err)
		assert.Equal(t, "done\n", string(data))
	}
}

func TestMergeFailureIsConversionFailed(t *testing.T) {
	f := New(fakeFFmpeg(t, true))
	out := filepath.Join(t.TempDir(), "out.mp4")

	_, err := f.Merge(context.Background(), "v", "a", out)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConversionFailed)
	assert.Contains(t, err.Error(), "Invalid data found")
	assert.NoFileExists(t, out)
}
