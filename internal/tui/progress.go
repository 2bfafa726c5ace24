package tui

import (
	"fmt"
	"io"
	"math"
	"strings"

	"jpegbatch/internal/pipeline"
)

// Progress prints one line per exporter event. Its Observe method is meant
// for pipeline.Exporter.Observer.
type Progress struct {
	Out      io.Writer
	BarWidth int
}

func NewProgress(out io.Writer) *Progress {
	return &Progress{Out: out, BarWidth: 24}
}

func (p *Progress) Observe(ev pipeline.Event) {
	switch ev.Kind {
	case pipeline.EventStarted:
		return
	case pipeline.EventExported:
		fmt.Fprintf(p.Out, "%s %s %s\n",
			p.bar(ev.Index+1, ev.Total),
			okStyle.Render(TruncatePath(ev.Path)),
			dimStyle.Render(fmt.Sprintf("%d×%d", ev.Width, ev.Height)),
		)
	case pipeline.EventSkipped:
		fmt.Fprintf(p.Out, "%s %s %s\n", p.bar(ev.Index, ev.Total), warnStyle.Render("skipped"), labelStyle.Render(ev.Name))
	case pipeline.EventFailed:
		msg := ev.Name
		if ev.Err != nil {
			msg += ": " + ev.Err.Error()
		}
		fmt.Fprintf(p.Out, "%s %s %s\n", p.bar(ev.Index+1, ev.Total), errorStyle.Render("failed"), labelStyle.Render(msg))
	}
}

func (p *Progress) bar(done, total int) string {
	ratio := 0.0
	if total > 0 {
		ratio = float64(done) / float64(total)
	}
	return dimStyle.Render(renderBar(p.BarWidth, ratio)) + labelStyle.Render(fmt.Sprintf(" %d/%d", done, total))
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	filled = clampInt(filled, 0, width)
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

// MaxPathLen is the longest path shown before it is shortened.
const MaxPathLen = 60

// TruncatePath shortens long paths for display by keeping their tail behind
// a "....." marker. The result is never longer than MaxPathLen runes.
func TruncatePath(path string) string {
	const marker = "....."
	r := []rune(path)
	if len(r) <= MaxPathLen {
		return path
	}
	return marker + string(r[len(r)-(MaxPathLen-len(marker)):])
}
