package render

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"mediagrab/internal/utils/logging"
)

// Prompt appends a user-input region showing message and reads answers
// until one is in valid. An empty valid set accepts anything.
func (s *Screen) Prompt(ctx context.Context, message string, valid []string, caseSensitive bool) (string, error) {
	h := s.Append(message, UserInput)
	return s.ask(ctx, h, valid, caseSensitive)
}

// PromptAt is Prompt reusing the existing region h.
func (s *Screen) PromptAt(ctx context.Context, h Handle, message string, valid []string, caseSensitive bool) (string, error) {
	s.UpdateCategory(h, message, UserInput)
	return s.ask(ctx, h, valid, caseSensitive)
}

// ErasePromptEntry removes the typed answer under prompt h and redraws the
// prompt and everything after it.
func (s *Screen) ErasePromptEntry(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indexLocked(h)
	if !ok {
		return
	}

	s.clearFrom(idx)
	s.slots[h.slot].echo = ""
	s.renderFrom(idx)
}

func (s *Screen) ask(ctx context.Context, h Handle, valid []string, caseSensitive bool) (string, error) {
	if !caseSensitive {
		lowered := make([]string, len(valid))
		for i, v := range valid {
			lowered[i] = strings.ToLower(v)
		}
		valid = lowered
	}

	if err := s.input.sticky(); err != nil {
		return "", err
	}
	s.input.start()

	for {
		var res lineResult
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res = <-s.input.lines:
		}

		if res.err != nil {
			s.input.setSticky(res.err)
			return "", fmt.Errorf("failed to read prompt answer: %w", res.err)
		}

		s.recordEcho(h, res.line)

		entry := strings.TrimSpace(res.line)
		if !caseSensitive {
			entry = strings.ToLower(entry)
		}

		if len(valid) == 0 || slices.Contains(valid, entry) {
			return entry, nil
		}

		logging.D(1, "Rejected prompt answer %q, expected one of %v", entry, valid)
		s.ErasePromptEntry(h)
	}
}

// recordEcho notes the line the terminal echoed after prompt h so that
// later redraws account for it.
func (s *Screen) recordEcho(h Handle, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.regionLocked(h); ok {
		r.echo = line + "\n"
	}
}
