package convert

import "mediagrab/internal/media"

// Output paths are reserved before ffmpeg runs, so it overwrites the
// empty placeholder.
var baseArgs = []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-y"}

// MergeArgs builds the arguments that mux a video and an audio file into out.
func MergeArgs(video, audio, out string) []string {
	args := append([]string{}, baseArgs...)
	args = append(args,
		"-i", video,
		"-i", audio,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-vcodec", "copy",
		"-f", "mp4",
		out,
	)
	return args
}

// TranscodeArgs builds the arguments that convert in into out.
func TranscodeArgs(in, out string, opts media.TranscodeOptions) []string {
	args := append([]string{}, baseArgs...)
	args = append(args, "-i", in)

	if opts.Format == "mp4" {
		args = append(args, "-vcodec", "copy")
	}
	if opts.NoAudio {
		args = append(args, "-an")
	}
	args = append(args, "-f", opts.Format, out)
	return args
}
