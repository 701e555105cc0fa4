package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-colorable"
	"golang.org/x/term"

	"mediagrab/internal/cfg"
	"mediagrab/internal/domain/consts"
	"mediagrab/internal/history"
	"mediagrab/internal/models"
	"mediagrab/internal/parsing"
	"mediagrab/internal/render"
	"mediagrab/internal/utils/logging"
)

// History lists recorded downloads.
func History(ctx context.Context, s models.Settings, q cfg.HistoryQuery) error {
	closer := setupLogging(s)
	defer closer.Close()

	store, err := history.Open(s.HistoryFile)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(history.Filter{Since: q.Since, Limit: q.Limit})
	if err != nil {
		return err
	}
	logging.D(1, "Listing %d history entries", len(entries))

	p := render.NewPainter(s.Color && term.IsTerminal(int(os.Stdout.Fd())))
	return writeHistory(colorable.NewColorableStdout(), entries, p)
}

func writeHistory(w io.Writer, entries []history.Entry, p render.Painter) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No downloads recorded.")
		return err
	}

	for _, e := range entries {
		_, err := fmt.Fprintf(w, "%s %s %s %s\n  %s\n",
			p.Faint(e.CompletedAt.Local().Format("2006-01-02 15:04")),
			p.Bold(consts.ColorCyan, parsing.LimitText(e.Title, 50)),
			p.Bold(consts.ColorBlue, e.Label),
			p.Faint("("+parsing.FormatSize(e.FileSize)+", "+humanize.Time(e.CompletedAt)+")"),
			e.FilePath,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
