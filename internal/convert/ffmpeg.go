package convert

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/alessio/shellescape"

	"mediagrab/internal/domain/errs"
	"mediagrab/internal/media"
	"mediagrab/internal/utils/fs"
	"mediagrab/internal/utils/logging"
)

// FFmpeg runs an ffmpeg binary as a blocking subprocess.
type FFmpeg struct {
	bin string
}

// New returns a converter using the ffmpeg binary at bin.
func New(bin string) *FFmpeg {
	return &FFmpeg{bin: bin}
}

// Merge muxes video and audio into out, or into the next free "out(N)" name.
func (f *FFmpeg) Merge(ctx context.Context, video, audio, out string) (string, error) {
	return f.write(ctx, out, func(final string) []string {
		return MergeArgs(video, audio, final)
	})
}

// Transcode converts in into out, or into the next free "out(N)" name.
func (f *FFmpeg) Transcode(ctx context.Context, in, out string, opts media.TranscodeOptions) (string, error) {
	return f.write(ctx, out, func(final string) []string {
		return TranscodeArgs(in, final, opts)
	})
}

// write reserves a free name for out and runs ffmpeg into it. The
// reservation is removed if ffmpeg fails.
func (f *FFmpeg) write(ctx context.Context, out string, args func(final string) []string) (string, error) {
	final, err := fs.ReserveFile(out)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrConversionFailed, err)
	}
	if err := f.run(ctx, args(final)); err != nil {
		fs.RemoveQuietly(final)
		return "", err
	}
	return final, nil
}

func (f *FFmpeg) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, f.bin, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logging.D(1, "Executing ffmpeg command: %s %s", f.bin, shellescape.QuoteCommand(args))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		logging.E("ffmpeg failed: %v: %s", err, msg)
		return fmt.Errorf("%w: ffmpeg: %v: %s", errs.ErrConversionFailed, err, msg)
	}
	return nil
}
