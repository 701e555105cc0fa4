package downloads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"mediagrab/internal/domain/errs"
	"mediagrab/internal/history"
	"mediagrab/internal/media"
	"mediagrab/internal/render"
	"mediagrab/internal/utils/logging"
)

var confirmAnswers = []string{"", "y", "n"}

// Run downloads every registered item with at most Parallel items in
// flight. Items are taken in registration order; a worker that finishes or
// skips an item takes the next one.
//
// Item-level failures are shown and the batch goes on. Any other failure
// stops the batch and is returned. Cancelling ctx stops new items from
// starting and returns errs.ErrCancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.terminated.Load() {
		return nil
	}
	if len(s.entries) == 0 {
		s.Terminate()
		return nil
	}

	s.startPoller()

	queue := make(chan *entry, len(s.entries))
	for _, e := range s.entries {
		queue <- e
	}
	close(queue)

	workers := min(max(s.settings.Parallel, 1), len(s.entries))
	logging.D(1, "Starting %d download worker(s) for %d item(s)", workers, len(s.entries))

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for e := range queue {
				if err := gctx.Err(); err != nil {
					return err
				}
				if s.terminated.Load() {
					return nil
				}
				if err := s.process(gctx, e); err != nil {
					return err
				}
			}
			return nil
		})
	}

	err := g.Wait()
	s.Terminate()

	switch {
	case ctx.Err() != nil:
		logging.W("Download run cancelled: %v", ctx.Err())
		return fmt.Errorf("%w: %w", errs.ErrCancelled, ctx.Err())
	case err != nil:
		return err
	}

	if s.Succeeded() {
		s.screen.Append(s.text.success(s.settings.OutputDir), render.Normal)
	}
	return nil
}

// process takes one item from summary to its last resource.
func (s *Scheduler) process(ctx context.Context, e *entry) error {
	ok, err := s.confirm(ctx, e)
	if err != nil || !ok {
		return err
	}
	return s.download(ctx, e)
}

// confirm shows the item's summary and asks whether to download it.
func (s *Scheduler) confirm(ctx context.Context, e *entry) (bool, error) {
	s.promptMu.Lock()
	defer s.promptMu.Unlock()

	if e.err != nil {
		s.screen.UpdateCategory(e.heading, s.text.itemError(e.url, e.err), render.Error)
		return false, nil
	}

	s.screen.Update(e.heading, s.text.summary(e.title, e.src.Duration(), e.plan, e.resources))

	if e.plan.AllSkipped() || len(e.resources) == 0 {
		err := fmt.Errorf("%w. Available video: [%s], audio: [%s]", errs.ErrNoMatchingFormats,
			strings.Join(e.catalog.Video, " "), strings.Join(e.catalog.Audio, " "))
		logging.W("Skipping %q: %v", e.title, err)
		s.screen.UpdateCategory(e.ready, s.text.itemError(e.url, err), render.Error)
		return false, nil
	}

	if s.settings.Batch() {
		return true, nil
	}

	warned := len(e.plan.Skips) > 0 || len(e.plan.Fallbacks) > 0
	s.screen.Update(e.ready, s.text.ready(e.title, e.resources, warned))

	if !s.settings.Confirm() {
		return true, nil
	}

	answer, err := s.screen.PromptAt(ctx, e.prompt, s.text.confirmPrompt(), confirmAnswers, false)
	switch {
	case errors.Is(err, io.EOF):
		logging.I("No answer for %q, skipping it", e.title)
		return false, nil
	case err != nil:
		return false, err
	case answer == "n":
		logging.I("Skipping %q at user request", e.title)
		return false, nil
	}
	return true, nil
}

// download runs the item's resources one after another.
func (s *Scheduler) download(ctx context.Context, e *entry) error {
	for _, r := range e.resources {
		e.begin(r, s.text)

		err := r.Download(ctx)
		if err == nil {
			s.completed.Add(1)
			s.record(e, r)
			continue
		}

		switch {
		case errs.Classify(err) == errs.Cancelled:
			return err
		case errs.ItemScoped(err):
			logging.E("Failed to download %s of %q: %v", r.Label(), e.title, err)
			s.fail(e, err)
			return nil
		default:
			logging.E("Unexpected error downloading %s of %q: %v", r.Label(), e.title, err)
			return err
		}
	}
	return nil
}

// fail replaces the item's progress with the error.
func (s *Scheduler) fail(e *entry, err error) {
	s.promptMu.Lock()
	defer s.promptMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.failed = true
	s.screen.UpdateCategory(e.progress, s.text.itemError(e.url, err), render.Error)
}

func (s *Scheduler) record(e *entry, r *media.Resource) {
	if s.recorder == nil {
		return
	}

	if _, err := s.recorder.Record(history.Entry{
		URL:      e.url,
		Title:    e.title,
		Label:    r.Label(),
		FilePath: r.OutputPath(),
		FileSize: r.TotalSize(),
	}); err != nil {
		logging.W("Could not record download of %q in history: %v", e.title, err)
	}
}
