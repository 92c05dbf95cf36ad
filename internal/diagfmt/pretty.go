package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cstyle/internal/diag"
	"cstyle/internal/source"
)

type palette struct {
	sev   map[diag.Severity]*color.Color
	code  *color.Color
	gut   *color.Color
	mark  *color.Color
	note  *color.Color
	fix   *color.Color
	minus *color.Color
	plus  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
			diag.SevAdvice:  color.New(color.FgGreen),
		},
		code:  color.New(color.Bold),
		gut:   color.New(color.FgBlue),
		mark:  color.New(color.FgRed, color.Bold),
		note:  color.New(color.FgCyan),
		fix:   color.New(color.FgGreen),
		minus: color.New(color.FgRed),
		plus:  color.New(color.FgGreen),
	}
	all := []*color.Color{p.code, p.gut, p.mark, p.note, p.fix, p.minus, p.plus}
	for _, c := range p.sev {
		all = append(all, c)
	}
	// явное включение/выключение, не зависим от глобального color.NoColor
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	if c, ok := p.sev[s]; ok {
		return c
	}
	return p.code
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if d == nil || !d.Severity.Enabled() {
			continue
		}
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	if f == nil {
		fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity), p.code.Sprint(d.Code.ID()), d.Message)
		return
	}
	start, end := fs.Resolve(d.Primary)
	path := formatPath(fs, f, opts.PathMode)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		path, start.Line, start.Col,
		p.severity(d.Severity).Sprint(d.Severity),
		p.code.Sprint(d.Code.ID()),
		clip(d.Message, opts.Width))

	writeContext(w, f, start, end, opts, p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			if nf == nil {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
				continue
			}
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), formatPath(fs, nf, opts.PathMode), ns.Line, ns.Col, n.Msg)
		}
	}

	if opts.ShowFixes || opts.ShowPreview {
		for i, fx := range d.Fixes {
			if fx == nil {
				continue
			}
			writeFix(w, fs, i+1, fx, opts, p)
		}
	}
}

func writeContext(w io.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts, p palette) {
	if opts.Context < 0 {
		return
	}
	ctx := uint32(opts.Context) //nolint:gosec // checked above
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	gutter := len(fmt.Sprint(last))

	for line := first; line <= last; line++ {
		text := f.GetLine(line)
		if line != start.Line && text == "" {
			continue
		}
		text = strings.TrimRight(text, "\r")
		fmt.Fprintf(w, "  %s %s\n", p.gut.Sprintf("%*d |", gutter, line), clip(text, opts.Width))
		if line != start.Line {
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", p.gut.Sprintf("%*s |", gutter, ""), p.mark.Sprint(underline(text, start, end)))
	}
}

// underline builds the ^~~~ marker under the primary line. Widths are
// display columns so tabs and wide runes line up.
func underline(text string, start, end source.LineCol) string {
	col := int(start.Col) - 1
	if col > len(text) {
		col = len(text)
	}
	prefix := expandTabs(text[:col])
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		stop := min(int(end.Col)-1, len(text))
		width = max(runewidth.StringWidth(expandTabs(text[col:stop])), 1)
	}
	return strings.Repeat(" ", runewidth.StringWidth(prefix)) + "^" + strings.Repeat("~", width-1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func writeFix(w io.Writer, fs *source.FileSet, n int, fx *diag.Fix, opts PrettyOpts, p palette) {
	header := fmt.Sprintf("fix #%d: %s", n, fx.Title)
	fmt.Fprintf(w, "  %s (%s", p.fix.Sprint(header), fx.Applicability)
	if fx.ID != "" {
		fmt.Fprintf(w, ", id=%s", fx.ID)
	}
	fmt.Fprintln(w, ")")

	for _, e := range fx.Edits {
		if opts.ShowFixes {
			es, ee := fs.Resolve(e.Span)
			fmt.Fprintf(w, "      edit %d:%d-%d:%d apply=%q", es.Line, es.Col, ee.Line, ee.Col, e.NewText)
			if e.OldText != "" {
				fmt.Fprintf(w, " replacing %q", e.OldText)
			}
			fmt.Fprintln(w)
		}
		if !opts.ShowPreview {
			continue
		}
		preview, err := buildFixEditPreview(fs, e)
		if err != nil {
			fmt.Fprintf(w, "      preview unavailable: %v\n", err)
			continue
		}
		fmt.Fprintln(w, "      preview:")
		for _, line := range preview.before {
			fmt.Fprintf(w, "        %s\n", p.minus.Sprint("- "+line))
		}
		for _, line := range preview.after {
			fmt.Fprintf(w, "        %s\n", p.plus.Sprint("+ "+line))
		}
	}
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "...")
}
