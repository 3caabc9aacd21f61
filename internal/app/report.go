package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/quasi/internal/core/domain"
	"go.trai.ch/quasi/internal/engine/diff"
	"go.trai.ch/quasi/internal/ui/output"
	"go.trai.ch/quasi/internal/ui/style"
)

type reporter struct {
	w   io.Writer
	out *termenv.Output
}

type summary struct {
	equal     int
	different int
	failed    int
	cached    int
}

func newReporter(w io.Writer) *reporter {
	return &reporter{w: w, out: output.New(w)}
}

func (r *reporter) result(res domain.Result) {
	var line string
	switch {
	case res.Err != nil:
		line = output.Paint(r.out, style.Warning+" "+res.Pair.Name, string(style.Yellow)) +
			"  " + res.Err.Error()
	case res.Mismatch.Equal:
		line = output.Paint(r.out, style.Check+" "+res.Pair.Name, string(style.Green))
	default:
		line = output.Paint(r.out, style.Cross+" "+res.Pair.Name, string(style.Red)) +
			"  " + describeMismatch(res.Mismatch)
	}
	if res.Cached {
		line += " " + r.out.String("("+style.Cached+" cached)").Faint().String()
	}
	_, _ = fmt.Fprintln(r.w, line)
}

func (r *reporter) diff(d string) {
	for l := range strings.Lines(d) {
		l = strings.TrimSuffix(l, "\n")
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			l = r.out.String(l).Bold().String()
		case strings.HasPrefix(l, "+"):
			l = output.Paint(r.out, l, string(style.Green))
		case strings.HasPrefix(l, "-"):
			l = output.Paint(r.out, l, string(style.Red))
		case strings.HasPrefix(l, "@@"):
			l = output.Paint(r.out, l, string(style.Iris))
		}
		_, _ = fmt.Fprintln(r.w, l)
	}
}

func (r *reporter) summary(results []domain.Result) summary {
	var s summary
	for _, res := range results {
		switch {
		case res.Err != nil:
			s.failed++
		case res.Mismatch.Equal:
			s.equal++
		default:
			s.different++
		}
		if res.Cached {
			s.cached++
		}
	}

	text := fmt.Sprintf("%d pairs: %d equal, %d different, %d failed", len(results), s.equal, s.different, s.failed)
	if s.cached > 0 {
		text += fmt.Sprintf(" (%d cached)", s.cached)
	}
	_, _ = fmt.Fprintln(r.w, output.Paint(r.out, style.Dot+" "+text, string(style.Slate)))
	return s
}

func describeMismatch(m domain.Mismatch) string {
	switch m.Reason {
	case domain.ReasonLeftShorter:
		return fmt.Sprintf("left ends after %d leaves, right continues with %s", m.Index, diff.FormatLeaf(m.Right))
	case domain.ReasonRightShorter:
		return fmt.Sprintf("right ends after %d leaves, left continues with %s", m.Index, diff.FormatLeaf(m.Left))
	default:
		return fmt.Sprintf("leaf %d differs: %s != %s", m.Index, diff.FormatLeaf(m.Left), diff.FormatLeaf(m.Right))
	}
}
