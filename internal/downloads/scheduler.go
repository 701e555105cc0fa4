// Package downloads registers requested URLs and drives their downloads
// through a bounded worker pool.
package downloads

import (
	"context"
	"sync"
	"sync/atomic"

	"mediagrab/internal/domain/consts"
	"mediagrab/internal/format"
	"mediagrab/internal/history"
	"mediagrab/internal/media"
	"mediagrab/internal/models"
	"mediagrab/internal/render"
)

// Fetcher resolves a URL into a media source.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (media.Source, error)
}

// Recorder stores finished downloads.
type Recorder interface {
	Record(e history.Entry) (int64, error)
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithRecorder records every finished resource.
func WithRecorder(r Recorder) Option {
	return func(s *Scheduler) { s.recorder = r }
}

// WithFetchParallel bounds the number of concurrent source fetches during
// registration.
func WithFetchParallel(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.fetchLimit = n
		}
	}
}

// Scheduler owns the registered items and the regions they draw into.
type Scheduler struct {
	settings   models.Settings
	screen     *render.Screen
	fetcher    Fetcher
	conv       media.Converter
	recorder   Recorder
	text       formatter
	fetchLimit int

	entries []*entry

	// promptMu serialises prompts and item-level rendering. The poller
	// only draws while it holds it.
	promptMu  sync.Mutex
	completed atomic.Int64

	pollStop      chan struct{}
	pollDone      chan struct{}
	terminated    atomic.Bool
	terminateOnce sync.Once
}

// entry is one registered URL.
type entry struct {
	url       string
	src       media.Source
	title     string
	catalog   format.Catalog
	plan      format.Plan
	resources []*media.Resource
	// err is a registration failure, shown when the item's turn comes.
	err error

	heading  render.Handle
	ready    render.Handle
	prompt   render.Handle
	progress render.Handle

	mu       sync.Mutex
	current  *media.Resource
	finished []string // final progress blocks of earlier resources
	frame    int
	drawn    string
	failed   bool
	cleared  bool
}

// New returns a scheduler writing to screen.
func New(settings models.Settings, screen *render.Screen, fetcher Fetcher, conv media.Converter, opts ...Option) *Scheduler {
	s := &Scheduler{
		settings:   settings,
		screen:     screen,
		fetcher:    fetcher,
		conv:       conv,
		text:       formatter{p: screen.Painter(), width: screen.Width},
		fetchLimit: consts.DefaultFetchParallel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Succeeded reports whether at least one resource finished.
func (s *Scheduler) Succeeded() bool {
	return s.completed.Load() > 0
}

func (e *entry) allDone() bool {
	for _, r := range e.resources {
		if r.Status() != media.Done {
			return false
		}
	}
	return len(e.resources) > 0
}

// begin makes r the resource shown in the progress region.
func (e *entry) begin(r *media.Resource, f formatter) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil {
		e.finished = append(e.finished, f.progress(e.title, e.current, 0))
	}
	e.current = r
}
