// Package app runs the commands of mediagrab.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"golang.org/x/term"

	"mediagrab/internal/cfg"
	"mediagrab/internal/convert"
	"mediagrab/internal/domain/errs"
	"mediagrab/internal/downloads"
	"mediagrab/internal/history"
	"mediagrab/internal/media"
	"mediagrab/internal/models"
	"mediagrab/internal/render"
	"mediagrab/internal/source"
	"mediagrab/internal/utils/logging"
)

// Handlers returns the command handlers.
func Handlers() cfg.Handlers {
	return cfg.Handlers{
		Download: Download,
		History:  History,
	}
}

// Download fetches, confirms and downloads every URL in s. Failures are
// rendered before they are returned.
func Download(ctx context.Context, s models.Settings) error {
	closer := setupLogging(s)
	defer closer.Close()

	screen := newScreen(s)

	bin, err := convert.Lookup(s.FFmpegPath)
	if err != nil {
		return report(screen, err)
	}

	client, err := source.NewClient(source.Config{
		Timeout:   s.Timeout,
		Proxy:     s.Proxy,
		RateLimit: s.RateLimit,
	})
	if err != nil {
		return report(screen, err)
	}

	var opts []downloads.Option
	if s.HistoryFile != "" {
		store, err := history.Open(s.HistoryFile)
		if err != nil {
			// History is optional, downloads go on without it.
			logging.E("Could not open history database: %v", err)
		} else {
			defer store.Close()
			opts = append(opts, downloads.WithRecorder(store))
		}
	}

	defer func() {
		if n, err := media.SweepTemp(s.OutputDir); err != nil {
			logging.W("Could not sweep temporary files in %q: %v", s.OutputDir, err)
		} else if n > 0 {
			logging.I("Removed %d leftover temporary file(s)", n)
		}
	}()

	urls, err := client.Expand(ctx, s.URLs)
	if err != nil {
		return report(screen, err)
	}
	logging.I("Downloading %d item(s) into %q", len(urls), s.OutputDir)

	sched := downloads.New(s, screen, client, convert.New(bin), opts...)
	if err := sched.Register(ctx, urls, s.Formats); err != nil {
		return report(screen, err)
	}
	if err := sched.Run(ctx); err != nil {
		return report(screen, err)
	}
	return nil
}

// Reported wraps an error that was already shown to the user.
type Reported struct {
	Err error
}

func (r *Reported) Error() string { return r.Err.Error() }
func (r *Reported) Unwrap() error { return r.Err }

// report renders err and marks it as shown.
func report(screen *render.Screen, err error) error {
	category := render.Error
	switch errs.Classify(err) {
	case errs.Cancelled:
		category = render.Warning
		logging.W("Run cancelled: %v", err)
	case errs.ConverterUnavailable:
		category = render.Warning
		logging.E("No converter: %v", err)
	default:
		logging.E("Run failed: %v", err)
	}

	screen.Append("\n"+errs.Message(err)+"\n\n", category)
	return &Reported{Err: err}
}

func newScreen(s models.Settings) *render.Screen {
	color := s.Color && term.IsTerminal(int(os.Stdout.Fd()))
	return render.NewScreen(render.Options{
		Out:     colorable.NewColorableStdout(),
		Width:   render.TerminalWidth(os.Stdout),
		Painter: render.NewPainter(color),
	})
}

func setupLogging(s models.Settings) io.Closer {
	closer, err := logging.SetupLogging(logging.Config{
		LogFilePath: s.LogFile,
		DebugLevel:  s.DebugLevel,
		Console:     os.Stderr,
	})
	if err != nil {
		// Diagnostics are optional, so the run goes on.
		fmt.Fprintf(os.Stderr, "could not set up logging, proceeding without: %v\n", err)
	}
	return closer
}
