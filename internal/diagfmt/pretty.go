package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"qmllint/internal/diag"
	"qmllint/internal/source"
)

type palette struct {
	sev    map[diag.Severity]*color.Color
	gutter *color.Color
	note   *color.Color
	fix    *color.Color
	bold   *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevNormal:  mk(color.Reset),
			diag.SevHint:    mk(color.FgGreen, color.Bold),
			diag.SevInfo:    mk(color.FgBlue, color.Bold),
			diag.SevWarning: mk(color.FgMagenta, color.Bold),
			diag.SevError:   mk(color.FgRed, color.Bold),
		},
		gutter: mk(color.FgBlue),
		note:   mk(color.FgCyan),
		fix:    mk(color.FgGreen),
		bold:   mk(color.Bold),
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	start, end := fs.Resolve(d.Primary)
	sev := p.sev[d.Severity]
	if sev == nil {
		sev = p.sev[diag.SevNormal]
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		displayPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col,
		sev.Sprint(d.Severity.String()), p.bold.Sprint(d.Code.ID()), truncate(d.Message, opts.Width))

	if opts.Context >= 0 {
		snippet(w, fs, d.Primary, start, end, opts, p, sev)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
				displayPath(fs, n.Span.File, opts.PathMode), ns.Line, ns.Col, n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", p.fix.Sprint("fix:"), fix.Title)
			for _, e := range fix.Edits {
				if !opts.ShowPreview {
					continue
				}
				if pv, err := buildFixEditPreview(fs, e); err == nil {
					for _, line := range pv.before {
						fmt.Fprintf(w, "    - %s\n", line)
					}
					for _, line := range pv.after {
						fmt.Fprintf(w, "    + %s\n", line)
					}
				}
			}
		}
	}
}

// snippet prints the primary line with a caret underline. Context > 0 adds
// that many lines above it.
func snippet(w io.Writer, fs *source.FileSet, span source.Span, start, end source.LineCol, opts PrettyOpts, p palette, sev *color.Color) {
	f := fs.Get(span.File)
	if f == nil || len(f.Content) == 0 || start.Line == 0 {
		return
	}
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}

	first := start.Line
	if ctx := uint32(max(opts.Context, 0)); ctx < first {
		first -= ctx
	} else {
		first = 1
	}
	width := len(fmt.Sprint(start.Line))
	for n := first; n < start.Line; n++ {
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, n), expandTabs(f.GetLine(n)))
	}
	fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, start.Line), expandTabs(line))

	col := int(start.Col)
	if col < 1 {
		col = 1
	}
	prefix := runewidth.StringWidth(expandTabs(runePrefix(line, col-1)))
	length := 1
	if end.Line == start.Line && end.Col > start.Col {
		length = runewidth.StringWidth(expandTabs(runeSlice(line, col-1, int(end.Col)-1)))
	}
	marker := "^" + strings.Repeat("~", max(length-1, 0))
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), strings.Repeat(" ", prefix), sev.Sprint(marker))
}

func runePrefix(s string, n int) string {
	return runeSlice(s, 0, n)
}

// runeSlice cuts s by rune index; columns count characters.
func runeSlice(s string, from, to int) string {
	runes := []rune(s)
	from = min(max(from, 0), len(runes))
	to = min(max(to, from), len(runes))
	return string(runes[from:to])
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func truncate(s string, width uint8) string {
	if width == 0 {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
