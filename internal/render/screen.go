// Package render draws an ordered list of text regions to a terminal and
// redraws only the regions at and after a change.
package render

import (
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"mediagrab/internal/domain/consts"
	"mediagrab/internal/utils/logging"
)

// Handle addresses one region. A handle goes stale once its region is removed.
type Handle struct {
	slot int
	gen  uint32
}

type region struct {
	gen   uint32
	live  bool
	text  string
	cat   Category
	inner string
	// echo is input typed at a prompt, still visible after the region.
	echo string
}

func (r *region) footprint() string {
	return r.inner + r.echo
}

// Options configure a Screen.
type Options struct {
	Out     io.Writer
	In      io.Reader
	Width   func() int
	Painter Painter
}

// Screen owns the terminal cursor and the ordered region list.
type Screen struct {
	mu      sync.Mutex
	out     io.Writer
	width   func() int
	painter Painter
	input   *lineReader

	slots []region
	free  []int
	order []Handle
}

// NewScreen returns a screen writing to opts.Out (stdout by default).
func NewScreen(opts Options) *Screen {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Width == nil {
		opts.Width = TerminalWidth(opts.Out)
	}
	return &Screen{
		out:     opts.Out,
		width:   opts.Width,
		painter: opts.Painter,
		input:   newLineReader(opts.In),
	}
}

// TerminalWidth returns a width func for w, falling back to the default
// console width when w is not a terminal.
func TerminalWidth(w io.Writer) func() int {
	type fder interface{ Fd() uintptr }

	f, ok := w.(fder)
	if !ok {
		return func() int { return consts.DefaultConsoleW }
	}
	return func() int {
		width, _, err := term.GetSize(int(f.Fd()))
		if err != nil || width <= 0 {
			return consts.DefaultConsoleW
		}
		return width
	}
}

// Painter returns the painter used for labels.
func (s *Screen) Painter() Painter {
	return s.painter
}

// Width returns the current console width.
func (s *Screen) Width() int {
	return s.width()
}

// Append adds a region at the end of the list and prints it.
func (s *Screen) Append(text string, c Category) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	var slot int
	if n := len(s.free); n > 0 {
		slot = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.slots = append(s.slots, region{})
		slot = len(s.slots) - 1
	}

	r := &s.slots[slot]
	r.gen++
	r.live = true
	r.text = text
	r.cat = c
	r.inner = FormatInner(text, c, s.painter)
	r.echo = ""

	h := Handle{slot: slot, gen: r.gen}
	s.order = append(s.order, h)
	s.write(r.footprint())
	return h
}

// Update replaces the text of h, keeping its category.
func (s *Screen) Update(h Handle, text string) {
	s.mutate(h, func(r *region) {
		r.text = text
	})
}

// UpdateCategory replaces the text and category of h.
func (s *Screen) UpdateCategory(h Handle, text string, c Category) {
	s.mutate(h, func(r *region) {
		r.text = text
		r.cat = c
	})
}

// Remove drops h from the list. Later regions move up.
func (s *Screen) Remove(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indexLocked(h)
	if !ok {
		logging.D(2, "Ignoring removal of stale region handle %+v", h)
		return
	}

	s.clearFrom(idx)

	r := &s.slots[h.slot]
	r.live = false
	r.text, r.inner, r.echo = "", "", ""
	s.free = append(s.free, h.slot)
	s.order = append(s.order[:idx], s.order[idx+1:]...)

	s.renderFrom(idx)
}

// Index returns the position of h in the list.
func (s *Screen) Index(h Handle) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(h)
}

// Len returns the number of live regions.
func (s *Screen) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// IsEmpty reports whether h displays nothing.
func (s *Screen) IsEmpty(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.regionLocked(h)
	return !ok || r.footprint() == ""
}

// Text returns the raw text of h.
func (s *Screen) Text(h Handle) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.regionLocked(h); ok {
		return r.text
	}
	return ""
}

func (s *Screen) mutate(h Handle, apply func(r *region)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indexLocked(h)
	if !ok {
		logging.D(2, "Ignoring update of stale region handle %+v", h)
		return
	}

	s.clearFrom(idx)

	r := &s.slots[h.slot]
	apply(r)
	r.inner = FormatInner(r.text, r.cat, s.painter)
	r.echo = ""

	s.renderFrom(idx)
}

func (s *Screen) regionLocked(h Handle) (*region, bool) {
	if h.slot < 0 || h.slot >= len(s.slots) {
		return nil, false
	}
	r := &s.slots[h.slot]
	if !r.live || r.gen != h.gen {
		return nil, false
	}
	return r, true
}

func (s *Screen) indexLocked(h Handle) (int, bool) {
	if _, ok := s.regionLocked(h); !ok {
		return 0, false
	}
	for i, o := range s.order {
		if o == h {
			return i, true
		}
	}
	return 0, false
}

// clearFrom erases the rows of the region at idx and every region after it.
func (s *Screen) clearFrom(idx int) {
	var b strings.Builder
	for _, h := range s.order[idx:] {
		b.WriteString(s.slots[h.slot].footprint())
	}
	s.write(clearSequence(CountLines(b.String(), s.width())))
}

// renderFrom prints the region at idx and every region after it.
func (s *Screen) renderFrom(idx int) {
	var b strings.Builder
	for _, h := range s.order[idx:] {
		b.WriteString(s.slots[h.slot].footprint())
	}
	s.write(b.String())
}

func (s *Screen) write(text string) {
	if text == "" {
		return
	}
	if _, err := io.WriteString(s.out, text); err != nil {
		logging.E("Failed to write to terminal: %v", err)
	}
}
