package media

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"mediagrab/internal/domain/consts"
	"mediagrab/internal/domain/errs"
	"mediagrab/internal/format"
	"mediagrab/internal/utils/fs"
	"mediagrab/internal/utils/logging"
)

// Options configure where a resource is written.
type Options struct {
	OutputDir string
	// Filename overrides the title-derived name. Its extension is kept.
	Filename  string
	Converter Converter
}

// Resource is one output file: its selected streams, byte counters and
// lifecycle status.
type Resource struct {
	src       Source
	conv      Converter
	target    format.Target
	sel       Selection
	id        string
	outputDir string
	filename  string
	totalSize int64

	videoRemaining atomic.Int64
	audioRemaining atomic.Int64
	status         statusCell

	// transferring is the track whose stream is currently being written.
	transferring atomic.Int32

	mu         sync.Mutex
	outputPath string
}

// NewResource selects the streams of src that satisfy t.
func NewResource(src Source, t format.Target, opts Options) (*Resource, error) {
	sel, err := selectStreams(src.Streams(), t)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", src.Title(), err)
	}

	r := &Resource{
		src:       src,
		conv:      opts.Converter,
		target:    t,
		sel:       sel,
		id:        uuid.NewString(),
		outputDir: opts.OutputDir,
		filename:  outputFilename(src.Title(), t, opts.Filename),
	}

	for _, s := range sel.streams() {
		r.totalSize += s.Size
		switch s.Track {
		case TrackVideo:
			r.videoRemaining.Store(s.Size)
		case TrackAudio:
			r.audioRemaining.Store(s.Size)
		}
	}

	logging.D(2, "Built resource %s for %q with %d stream(s), %d bytes", r.Label(), src.Title(), len(sel.streams()), r.totalSize)
	return r, nil
}

// Label is the bracketed form shown in the UI, e.g. "[videoonly 720p]".
func (r *Resource) Label() string {
	def := r.target.Definition
	if def == format.Max {
		def = r.primary().Definition
	}
	if r.target.Kind == format.VideoAudio {
		return "[" + def + "]"
	}
	return "[" + r.target.Kind.String() + " " + def + "]"
}

// Kind returns the kind of file the resource produces.
func (r *Resource) Kind() format.Kind { return r.target.Kind }

// Selection returns the selected streams.
func (r *Resource) Selection() Selection { return r.sel }

// Filename returns the intended output filename.
func (r *Resource) Filename() string { return r.filename }

// Status returns the lifecycle status.
func (r *Resource) Status() Status { return r.status.load() }

// TotalSize returns the combined size of the selected streams.
func (r *Resource) TotalSize() int64 { return r.totalSize }

// OutputPath returns the written file once the resource is done.
func (r *Resource) OutputPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outputPath
}

// BytesRemaining sums the counters relevant to the resource kind.
func (r *Resource) BytesRemaining() int64 {
	if r.Status() == Done {
		return 0
	}
	switch sel := r.sel.(type) {
	case VideoAudio:
		if sel.Audio == nil {
			return r.videoRemaining.Load()
		}
		return r.videoRemaining.Load() + r.audioRemaining.Load()
	case VideoOnly:
		return r.videoRemaining.Load()
	case AudioOnly:
		return r.audioRemaining.Load()
	}
	return 0
}

// Download transfers every selected stream, video first, then merges or
// transcodes them into the output file. Temporary files are always removed.
func (r *Resource) Download(ctx context.Context) error {
	if !r.status.advance(Downloading) {
		return fmt.Errorf("resource %s was already downloaded", r.Label())
	}

	var temps []string
	defer func() { fs.RemoveQuietly(temps...) }()

	paths := make(map[Track]string, 2)
	for _, s := range r.sel.streams() {
		path := r.tempPath(s)
		temps = append(temps, path)

		if err := r.transfer(ctx, s, path); err != nil {
			return err
		}
		paths[s.Track] = path
	}

	written, err := r.finish(ctx, paths)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.outputPath = written
	r.mu.Unlock()

	r.status.advance(Done)
	logging.I("Saved %s to %q", r.Label(), written)
	return nil
}

func (r *Resource) transfer(ctx context.Context, s *StreamInfo, path string) error {
	r.transferring.Store(int32(s.Track))

	counter := &r.videoRemaining
	if s.Track == TrackAudio {
		counter = &r.audioRemaining
	}

	report := func(p Progress) {
		if int32(p.Track) != r.transferring.Load() {
			return
		}
		lowerTo(counter, p.Remaining)
	}

	logging.D(1, "Transferring %s stream %s of %q to %q", s.Track, s.ID, r.src.Title(), path)
	if err := r.src.Download(ctx, *s, path, report); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("failed to transfer %s stream of %q: %w: %w", s.Track, r.src.Title(), errs.ErrSourceUnavailable, err)
	}

	lowerTo(counter, 0)
	return nil
}

// finish produces the output file from the transferred temp files.
func (r *Resource) finish(ctx context.Context, paths map[Track]string) (string, error) {
	out := filepath.Join(r.outputDir, r.filename)

	var (
		written string
		err     error
	)
	switch sel := r.sel.(type) {
	case VideoAudio:
		switch {
		case sel.Audio != nil:
			r.status.advance(Converting)
			written, err = r.conv.Merge(ctx, paths[TrackVideo], paths[TrackAudio], out)
		case sel.Video.Ext == "mp4":
			return fs.MoveNoClobber(paths[TrackVideo], out)
		default:
			r.status.advance(Converting)
			written, err = r.conv.Transcode(ctx, paths[TrackVideo], out, TranscodeOptions{Format: "mp4"})
		}

	case VideoOnly:
		if !sel.Video.Progressive && sel.Video.Ext == "mp4" {
			return fs.MoveNoClobber(paths[TrackVideo], out)
		}
		r.status.advance(Converting)
		written, err = r.conv.Transcode(ctx, paths[TrackVideo], out, TranscodeOptions{Format: "mp4", NoAudio: true})

	case AudioOnly:
		r.status.advance(Converting)
		written, err = r.conv.Transcode(ctx, paths[TrackAudio], out, TranscodeOptions{Format: "mp3"})
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.Is(err, errs.ErrConversionFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", errs.ErrConversionFailed, err)
	}
	return written, nil
}

func (r *Resource) tempPath(s *StreamInfo) string {
	ext := s.Ext
	if ext == "" {
		ext = "tmp"
	}
	name := fmt.Sprintf("%s%s[%s].%s", consts.TempFilePrefix, r.id, s.Track, ext)
	return filepath.Join(r.outputDir, name)
}

func (r *Resource) primary() *StreamInfo {
	switch sel := r.sel.(type) {
	case VideoAudio:
		return sel.Video
	case VideoOnly:
		return sel.Video
	case AudioOnly:
		return sel.Audio
	}
	return &StreamInfo{}
}

func outputFilename(title string, t format.Target, custom string) string {
	if custom != "" {
		return fs.SafeFilename(fs.InsertSuffix(custom, t.Suffix))
	}

	ext := consts.AudioExt
	if t.Kind.IsVideo() {
		ext = consts.VideoExt
	}
	return fs.SafeFilename(title + t.Suffix + ext)
}
