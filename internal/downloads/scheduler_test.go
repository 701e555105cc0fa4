package downloads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediagrab/internal/domain/errs"
	"mediagrab/internal/history"
	"mediagrab/internal/media"
	"mediagrab/internal/models"
	"mediagrab/internal/render"
)

type fakeSource struct {
	title   string
	streams []media.StreamInfo
	fail    error
	hook    func()
}

func (f *fakeSource) URL() string                 { return "https://www.youtube.com/watch?v=" + f.title }
func (f *fakeSource) Title() string               { return f.title }
func (f *fakeSource) Duration() time.Duration     { return 3*time.Minute + 7*time.Second }
func (f *fakeSource) Streams() []media.StreamInfo { return f.streams }

func (f *fakeSource) Download(_ context.Context, s media.StreamInfo, path string, report func(media.Progress)) error {
	if f.hook != nil {
		f.hook()
	}
	if f.fail != nil {
		return f.fail
	}
	report(media.Progress{Track: s.Track, Remaining: s.Size / 2})
	return os.WriteFile(path, []byte(f.title), 0o644)
}

// progressiveSource offers one 720p mp4 with audio, which needs no converter.
func progressiveSource(title string) *fakeSource {
	return &fakeSource{
		title: title,
		streams: []media.StreamInfo{
			{ID: "22", Track: media.TrackVideo, Definition: "720p", Ext: "mp4", MimeType: "video/mp4", Size: 4 << 20, Progressive: true},
		},
	}
}

type fakeFetcher struct {
	sources map[string]*fakeSource
	errs    map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (media.Source, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if src, ok := f.sources[url]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("%w: %s", errs.ErrInvalidURL, url)
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []history.Entry
}

func (r *fakeRecorder) Record(e history.Entry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return int64(len(r.entries)), nil
}

type harness struct {
	sched *Scheduler
	out   *bytes.Buffer
	dir   string
}

func newHarness(t *testing.T, settings models.Settings, input string, fetcher Fetcher, opts ...Option) *harness {
	t.Helper()
	return newHarnessReader(t, settings, strings.NewReader(input), fetcher, opts...)
}

func newHarnessReader(t *testing.T, settings models.Settings, in io.Reader, fetcher Fetcher, opts ...Option) *harness {
	t.Helper()

	dir := t.TempDir()
	settings.OutputDir = dir
	if settings.Parallel == 0 {
		settings.Parallel = 1
	}

	out := &bytes.Buffer{}
	screen := render.NewScreen(render.Options{
		Out:   out,
		In:    in,
		Width: func() int { return 80 },
	})
	return &harness{
		sched: New(settings, screen, fetcher, nil, opts...),
		out:   out,
		dir:   dir,
	}
}

func (h *harness) exists(name string) bool {
	_, err := os.Stat(filepath.Join(h.dir, name))
	return err == nil
}

func titledFetcher(titles ...string) (*fakeFetcher, []string) {
	f := &fakeFetcher{sources: map[string]*fakeSource{}, errs: map[string]error{}}
	urls := make([]string, 0, len(titles))
	for _, title := range titles {
		url := "https://www.youtube.com/watch?v=" + title
		f.sources[url] = progressiveSource(title)
		urls = append(urls, url)
	}
	return f, urls
}

func TestRunBoundsParallelism(t *testing.T) {
	fetcher, urls := titledFetcher("One", "Two", "Three", "Four", "Five")

	var active, peak atomic.Int32
	for _, src := range fetcher.sources {
		src.hook = func() {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(30 * time.Millisecond)
			active.Add(-1)
		}
	}

	h := newHarness(t, models.Settings{AssumeYes: true, Parallel: 2}, "", fetcher)
	ctx := context.Background()

	require.NoError(t, h.sched.Register(ctx, urls, nil))
	require.NoError(t, h.sched.Run(ctx))

	assert.Equal(t, int32(2), peak.Load(), "two items should download at once and never more")
	for _, title := range []string{"One", "Two", "Three", "Four", "Five"} {
		assert.True(t, h.exists(title+".mp4"), title)
	}
	assert.True(t, h.sched.Succeeded())
	assert.Contains(t, h.out.String(), "Success! Files saved at "+h.dir+"/")
}

func TestDeclinedItemIsSkipped(t *testing.T) {
	fetcher, urls := titledFetcher("First", "Second", "Third")
	h := newHarness(t, models.Settings{Parallel: 1}, "y\nn\ny\n", fetcher)
	ctx := context.Background()

	require.NoError(t, h.sched.Register(ctx, urls, nil))
	require.NoError(t, h.sched.Run(ctx))

	assert.True(t, h.exists("First.mp4"))
	assert.False(t, h.exists("Second.mp4"))
	assert.True(t, h.exists("Third.mp4"))
	assert.Contains(t, h.out.String(), "Success!")
	assert.Contains(t, h.out.String(), "Confirm download?")
}

func TestAllDeclinedShowsNoBanner(t *testing.T) {
	fetcher, urls := titledFetcher("First", "Second")
	h := newHarness(t, models.Settings{Parallel: 2}, "n\nn\n", fetcher)
	ctx := context.Background()

	require.NoError(t, h.sched.Register(ctx, urls, nil))
	require.NoError(t, h.sched.Run(ctx))

	assert.False(t, h.sched.Succeeded())
	assert.False(t, h.exists("First.mp4"))
	assert.False(t, h.exists("Second.mp4"))
	assert.NotContains(t, h.out.String(), "Success!")
}

func TestEndOfInputDeclines(t *testing.T) {
	fetcher, urls := titledFetcher("Only")
	h := newHarness(t, models.Settings{}, "", fetcher)
	ctx := context.Background()

	require.NoError(t, h.sched.Register(ctx, urls, nil))
	require.NoError(t, h.sched.Run(ctx))

	assert.False(t, h.sched.Succeeded())
	assert.False(t, h.exists("Only.mp4"))
}

func TestInvalidURLIsIsolated(t *testing.T) {
	fetcher, urls := titledFetcher("Good")
	urls = append([]string{"https://example.com/nope"}, urls...)

	h := newHarness(t, models.Settings{AssumeYes: true, Parallel: 2}, "", fetcher)
	ctx := context.Background()

	require.NoError(t, h.sched.Register(ctx, urls, nil))
	require.NoError(t, h.sched.Run(ctx))

	assert.True(t, h.exists("Good.mp4"))
	assert.Contains(t, h.out.String(), "Could not recognize the provided URL")
	assert.Contains(t, h.out.String(), "https://example.com/nope")
}

func TestSourceUnavailableIsIsolated(t *testing.T) {
	fetcher, urls := titledFetcher("Broken", "Fine")
	fetcher.sources[urls[0]].fail = errors.New("403 from server")

	h := newHarness(t, models.Settings{AssumeYes: true, Parallel: 1}, "", fetcher)
	ctx := context.Background()

	require.NoError(t, h.sched.Register(ctx, urls, nil))
	require.NoError(t, h.sched.Run(ctx))

	assert.False(t, h.exists("Broken.mp4"))
	assert.True(t, h.exists("Fine.mp4"))
	assert.Contains(t, h.out.String(), "no longer available")
	assert.Contains(t, h.out.String(), "Success!")
}

func TestUnclassifiedFetchErrorAbortsRegistration(t *testing.T) {
	fetcher, urls := titledFetcher("Fine")
	fetcher.errs["https://www.youtube.com/watch?v=bad"] = errors.New("boom")
	urls = append(urls, "https://www.youtube.com/watch?v=bad")

	h := newHarness(t, models.Settings{AssumeYes: true}, "", fetcher)

	err := h.sched.Register(context.Background(), urls, nil)
	require.Error(t, err)
	assert.Equal(t, errs.Unclassified, errs.Classify(err))
}

func TestUnclassifiedErrorStopsBatch(t *testing.T) {
	fetcher, urls := titledFetcher("First", "Second")
	in := iotest.ErrReader(errors.New("terminal gone"))
	h := newHarnessReader(t, models.Settings{Parallel: 1}, in, fetcher)
	ctx := context.Background()

	require.NoError(t, h.sched.Register(ctx, urls, nil))
	err := h.sched.Run(ctx)

	require.Error(t, err)
	assert.Equal(t, errs.Unclassified, errs.Classify(err))
	assert.Contains(t, h.out.String(), "Confirm download?")
	assert.False(t, h.exists("First.mp4"))
	assert.False(t, h.exists("Second.mp4"))
}

func TestNoMatchingFormats(t *testing.T) {
	fetcher, urls := titledFetcher("Video")
	h := newHarness(t, models.Settings{AssumeYes: true}, "", fetcher)
	ctx := context.Background()

	require.NoError(t, h.sched.Register(ctx, urls, []string{"audio"}))
	require.NoError(t, h.sched.Run(ctx))

	out := h.out.String()
	assert.Contains(t, out, "Format [audio max] was not found. Skipping it...")
	assert.Contains(t, out, "no requested formats available")
	assert.Contains(t, out, "Available video: [720p]")
	assert.False(t, h.sched.Succeeded())
}

func TestFinishedItemClearsDetails(t *testing.T) {
	fetcher, urls := titledFetcher("Clip")
	h := newHarness(t, models.Settings{Parallel: 1}, "y\n", fetcher)
	ctx := context.Background()

	require.NoError(t, h.sched.Register(ctx, urls, nil))
	require.NoError(t, h.sched.Run(ctx))

	e := h.sched.entries[0]
	screen := h.sched.screen
	assert.Empty(t, screen.Text(e.heading))
	assert.Empty(t, screen.Text(e.ready))
	assert.True(t, screen.IsEmpty(e.prompt))
	assert.Contains(t, screen.Text(e.progress), "✔ Done Clip [720p]")
}

func TestBatchModeSkipsConfirmation(t *testing.T) {
	fetcher, urls := titledFetcher("First", "Second")
	h := newHarness(t, models.Settings{BatchFile: "/tmp/urls.txt", Parallel: 2}, "", fetcher)
	ctx := context.Background()

	require.NoError(t, h.sched.Register(ctx, urls, nil))
	require.NoError(t, h.sched.Run(ctx))

	out := h.out.String()
	assert.Contains(t, out, "Reading URLs from urls.txt...")
	assert.Contains(t, out, "Found 2 video URLs. Preparing to download...")
	assert.NotContains(t, out, "Confirm download?")
	assert.True(t, h.exists("First.mp4"))
	assert.True(t, h.exists("Second.mp4"))
}

func TestRecorderReceivesFinishedResources(t *testing.T) {
	fetcher, urls := titledFetcher("Kept")
	rec := &fakeRecorder{}
	h := newHarness(t, models.Settings{AssumeYes: true}, "", fetcher, WithRecorder(rec))
	ctx := context.Background()

	require.NoError(t, h.sched.Register(ctx, urls, nil))
	require.NoError(t, h.sched.Run(ctx))

	require.Len(t, rec.entries, 1)
	assert.Equal(t, urls[0], rec.entries[0].URL)
	assert.Equal(t, "[720p]", rec.entries[0].Label)
	assert.Equal(t, filepath.Join(h.dir, "Kept.mp4"), rec.entries[0].FilePath)
}

func TestCancelledRunStartsNothing(t *testing.T) {
	fetcher, urls := titledFetcher("First")
	h := newHarness(t, models.Settings{AssumeYes: true}, "", fetcher)

	require.NoError(t, h.sched.Register(context.Background(), urls, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.sched.Run(ctx)
	require.ErrorIs(t, err, errs.ErrCancelled)
	assert.False(t, h.exists("First.mp4"))
}

func TestTerminateIsIdempotent(t *testing.T) {
	fetcher, urls := titledFetcher("First")
	h := newHarness(t, models.Settings{AssumeYes: true}, "", fetcher)

	require.NoError(t, h.sched.Register(context.Background(), urls, nil))
	h.sched.Terminate()
	h.sched.Terminate()

	// A terminated scheduler starts no new items.
	require.NoError(t, h.sched.Run(context.Background()))
	assert.False(t, h.exists("First.mp4"))
}
