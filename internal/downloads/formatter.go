package downloads

import (
	"fmt"
	"math"
	"strings"
	"time"

	"mediagrab/internal/domain/consts"
	"mediagrab/internal/domain/errs"
	"mediagrab/internal/format"
	"mediagrab/internal/media"
	"mediagrab/internal/parsing"
	"mediagrab/internal/render"
)

var (
	convertingFrames  = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	downloadingFrames = []string{"|", "/", "-", "\\"}
)

// formatter builds the text of every region the scheduler owns.
type formatter struct {
	p     render.Painter
	width func() int
}

func (f formatter) screenWidth() int {
	return min(f.width(), consts.MaxScreenWidth)
}

func (f formatter) header() string {
	return f.p.Bold("", fmt.Sprintf("%s v%s", consts.ProgramName, consts.ProgramVersion)) + "\n"
}

func (f formatter) batchHeader(name string) string {
	return "\nReading URLs from " + f.p.Bold(consts.ColorCyan, name) + "...\n"
}

func (f formatter) batchBody(count int) string {
	noun := "video URL"
	if count > 1 {
		noun = "video URLs"
	}
	return "Found " + f.p.Bold(consts.ColorCyan, fmt.Sprintf("%d ", count)) +
		f.p.Color(consts.ColorCyan, noun) + ". Preparing to download...\n"
}

func (f formatter) loading(count, dots int) string {
	label := "Loading video"
	if count > 1 {
		label = "Loading videos (this might take a while)"
	}
	return "\n" + label + strings.Repeat(".", dots) + "\n\n"
}

// summary is the block shown before an item is confirmed: heading,
// format warnings and total size.
func (f formatter) summary(title string, length time.Duration, plan format.Plan, resources []*media.Resource) string {
	parts := []string{
		f.heading(title, length) + "\n",
		f.skipped(plan.Skips),
		f.fallbacks(plan.Fallbacks),
		f.totalSize(resources),
	}

	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p)
	}
	return b.String()
}

func (f formatter) heading(title string, length time.Duration) string {
	width := f.screenWidth()
	clock := parsing.FormatClock(length)

	short := parsing.LimitText(title, width-len(clock)-4)
	gap := max(width-len([]rune(short))-len(clock)-3, 1)

	return "\n" + f.p.Bold(consts.ColorCyan, short) + strings.Repeat(" ", gap) +
		f.p.Bold("", "("+clock+")") + "\n"
}

func (f formatter) skipped(skips []format.Skip) string {
	if len(skips) == 0 {
		return ""
	}

	listed := make([]string, 0, len(skips))
	for _, s := range skips {
		listed = append(listed, "["+s.String()+"]")
	}

	noun, verb, pronoun := "Format ", " was ", "it"
	if len(skips) > 1 {
		noun, verb, pronoun = "Formats ", " were ", "them"
	}

	msg := noun + f.p.Bold(consts.ColorMagenta, strings.Join(listed, " ")) +
		verb + "not found. Skipping " + pronoun + "...\n"
	return render.FormatInner(msg, render.Warning, f.p)
}

func (f formatter) fallbacks(fallbacks []format.Fallback) string {
	lines := make([]string, 0, len(fallbacks))
	for _, fb := range fallbacks {
		msg := "Format " + f.p.Bold(consts.ColorYellow, bracketed(fb.Kind, fb.Base)) +
			" is not available for this video. Falling back to " +
			f.p.Bold(consts.ColorBlue, bracketed(fb.Kind, fb.Fallback)) + "\n"
		lines = append(lines, render.FormatInner(msg, render.Warning, f.p))
	}
	return strings.Join(lines, "\n")
}

func (f formatter) totalSize(resources []*media.Resource) string {
	if len(resources) == 0 {
		return ""
	}

	var total int64
	for _, r := range resources {
		total += r.TotalSize()
	}
	msg := "Total download size: " + f.p.Bold("", parsing.FormatMB(total)) + "\n"
	return render.FormatInner(msg, render.Info, f.p)
}

func (f formatter) ready(title string, resources []*media.Resource, warned bool) string {
	labels := make([]string, 0, len(resources))
	for _, r := range resources {
		labels = append(labels, r.Label())
	}

	prefix := ""
	if warned {
		prefix = "\n"
	}
	return prefix + "Ready to download " +
		f.p.Bold(consts.ColorCyan, parsing.LimitText(title, consts.MaxShortTitleLen)+" ") +
		f.p.Bold(consts.ColorBlue, strings.Join(labels, " ")) + "\n"
}

func (f formatter) confirmPrompt() string {
	return "\nConfirm download? " + f.p.Color(consts.ColorCyan, "(Y/n) ")
}

// progress renders the live block of a resource. frame selects the
// spinner character.
func (f formatter) progress(title string, r *media.Resource, frame int) string {
	status := r.Status()
	color := statusColor(status)

	out := "\n" + f.p.Color(color, spinner(status, frame)+" "+status.String()+" ") +
		f.p.Bold("", parsing.LimitText(title, consts.MaxShortTitleLen)+" ") +
		f.p.Bold(consts.ColorBlue, r.Label()) + "\n"

	switch status {
	case media.Converting:
		return out + "\n"
	case media.Done:
		return out
	}
	return out + "\n" + f.bar(r) + "\n\n"
}

func (f formatter) bar(r *media.Resource) string {
	color := statusColor(r.Status())
	total := r.TotalSize()
	done := max(total-r.BytesRemaining(), 0)

	pct := 1.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}

	totalText := parsing.FormatMB(total)
	right := f.p.Bold(color, fmt.Sprintf(" %.1f%% ", pct*100)) +
		f.p.Faint(fmt.Sprintf("(%s / %s)", parsing.FormatMB(done), totalText))

	widest := len(fmt.Sprintf(" 100.0%% (%s / %s)", totalText, totalText))
	space := max(f.screenWidth()-widest-2, 0)
	filled := int(math.Floor(float64(space) * pct))
	empty := space - filled

	if !f.p.Enabled() {
		return "  [" + strings.Repeat("#", filled) + strings.Repeat("-", empty) + "]" + right
	}
	return "  " + f.p.Color(color, strings.Repeat("█", filled)) +
		f.p.Faint(strings.Repeat("█", empty)) + right
}

func (f formatter) itemError(url string, err error) string {
	return "\n" + errs.Message(err) + "\n" + f.p.Faint(url) + "\n"
}

func (f formatter) success(dir string) string {
	return "\n" + f.p.Color(consts.ColorGreen, "Success! ") + "Files saved at " +
		f.p.Color(consts.ColorCyan, strings.TrimRight(dir, "/\\")+"/") + "\n\n"
}

func bracketed(k format.Kind, def string) string {
	if k == format.VideoAudio {
		return "[" + def + "]"
	}
	return "[" + k.String() + " " + def + "]"
}

func spinner(s media.Status, frame int) string {
	switch s {
	case media.Downloading:
		return downloadingFrames[frame%len(downloadingFrames)]
	case media.Converting:
		return convertingFrames[frame%len(convertingFrames)]
	case media.Done:
		return "✔"
	}
	return ""
}

func statusColor(s media.Status) string {
	switch s {
	case media.Downloading:
		return consts.ColorYellow
	case media.Converting:
		return consts.ColorCyan
	case media.Done:
		return consts.ColorGreen
	}
	return ""
}
