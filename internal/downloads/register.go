package downloads

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"mediagrab/internal/domain/consts"
	"mediagrab/internal/domain/errs"
	"mediagrab/internal/format"
	"mediagrab/internal/media"
	"mediagrab/internal/render"
	"mediagrab/internal/utils/logging"
)

// Register fetches every URL, resolves formats against what each source
// offers and builds the resources to download. Item-level failures are kept
// on the item and shown when its turn comes in Run.
func (s *Scheduler) Register(ctx context.Context, urls, formats []string) error {
	s.screen.Append(s.text.header(), render.Normal)

	if s.settings.Batch() {
		s.screen.Append(s.text.batchHeader(filepath.Base(s.settings.BatchFile)), render.Info)
		s.screen.Append(s.text.batchBody(len(urls)), render.Info)
	}

	if len(urls) == 0 {
		return nil
	}

	stop := s.showLoading(len(urls))
	entries, err := s.fetchAll(ctx, urls, formats)
	stop()
	if err != nil {
		return err
	}

	for _, e := range entries {
		e.heading = s.screen.Append("", render.Normal)
		e.ready = s.screen.Append("", render.Normal)
		e.prompt = s.screen.Append("", render.Normal)
		e.progress = s.screen.Append("", render.Normal)
	}
	s.entries = entries

	logging.I("Registered %d item(s)", len(entries))
	return nil
}

func (s *Scheduler) fetchAll(ctx context.Context, urls, formats []string) ([]*entry, error) {
	entries := make([]*entry, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetchLimit)

	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			e, err := s.register(gctx, url, formats)
			if err != nil {
				switch errs.Classify(err) {
				case errs.InvalidURL, errs.SourceUnavailable:
					logging.W("Skipping %q: %v", url, err)
					e = &entry{url: url, err: err}
				default:
					return fmt.Errorf("failed to register %q: %w", url, err)
				}
			}
			entries[i] = e
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrCancelled, ctx.Err())
		}
		return nil, err
	}
	return entries, nil
}

// register builds the entry for one URL.
func (s *Scheduler) register(ctx context.Context, url string, formats []string) (*entry, error) {
	src, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	cat := media.CatalogOf(src.Streams())
	plan := format.NewPlan(formats, cat)

	for _, sk := range plan.Skips {
		logging.W("%q: format [%s] was not found, skipping it", src.Title(), sk)
	}
	for _, fb := range plan.Fallbacks {
		logging.W("%q: format %s is not available, falling back to %s",
			src.Title(), bracketed(fb.Kind, fb.Base), bracketed(fb.Kind, fb.Fallback))
	}

	e := &entry{
		url:     url,
		src:     src,
		title:   src.Title(),
		catalog: cat,
		plan:    plan,
	}

	for _, t := range plan.Targets {
		r, err := media.NewResource(src, t, media.Options{
			OutputDir: s.settings.OutputDir,
			Filename:  s.settings.Filename,
			Converter: s.conv,
		})
		if err != nil {
			return nil, err
		}
		e.resources = append(e.resources, r)
	}

	logging.D(1, "Resolved %q into %d resource(s): %v", e.title, len(e.resources), plan.Definitions())
	return e, nil
}

// showLoading animates a loading label until the returned func is called.
// The label is removed on stop.
func (s *Scheduler) showLoading(count int) (stop func()) {
	h := s.screen.Append(s.text.loading(count, 1), render.Info)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		ticker := time.NewTicker(consts.LoadingAnimationInterval)
		defer ticker.Stop()

		dots := 1
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				dots = (dots + 1) % 4
				s.screen.Update(h, s.text.loading(count, dots))
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
		s.screen.Remove(h)
	}
}
