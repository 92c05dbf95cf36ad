package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"cstyle/internal/source"
)

// Line is a diagnostic or note resolved to a path and a 1-based position.
type Line struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

func (l Line) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.Severity, l.Code, l.Path, l.Line, l.Column, l.Message)
}

// Lines resolves enabled diagnostics in emission order. With notes set,
// each note follows its diagnostic as a "note" line carrying the same code.
// Entries whose span does not resolve are dropped.
func Lines(diags []*Diagnostic, fs *source.FileSet, notes bool) []Line {
	if fs == nil {
		return nil
	}
	out := make([]Line, 0, len(diags))
	for _, d := range diags {
		if d == nil || !d.Severity.Enabled() {
			continue
		}
		if l, ok := resolveLine(fs, d.Primary); ok {
			l.Severity, l.Code, l.Message = d.Severity.Label(), d.Code.ID(), oneLine(d.Message)
			out = append(out, l)
		}
		if !notes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := resolveLine(fs, n.Span); ok {
				l.Severity, l.Code, l.Message = "note", d.Code.ID(), oneLine(n.Msg)
				out = append(out, l)
			}
		}
	}
	return out
}

// SortLines orders by path, position, then severity, code and message.
func SortLines(lines []Line) {
	slices.SortStableFunc(lines, func(a, b Line) int {
		return cmp.Or(
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.Severity, b.Severity),
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(a.Message, b.Message),
		)
	})
}

// FormatGoldenDiagnostics renders Lines sorted, one per line, for golden
// files; "" when nothing is left.
func FormatGoldenDiagnostics(diags []*Diagnostic, fs *source.FileSet, notes bool) string {
	lines := Lines(diags, fs, notes)
	SortLines(lines)
	return joinLines(lines)
}

// FormatShortDiagnostics renders Lines in emission order, the way
// `check --format short` prints them.
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, notes bool) string {
	return joinLines(Lines(diags, fs, notes))
}

func joinLines(lines []Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.String())
	}
	return b.String()
}

func resolveLine(fs *source.FileSet, span source.Span) (Line, bool) {
	f := fs.Get(span.File)
	if f == nil || int(span.Start) > len(f.Content) {
		return Line{}, false
	}
	start, _ := fs.Resolve(span)
	path := filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return Line{Path: path, Line: start.Line, Column: start.Col}, true
}

// oneLine folds every line break of msg into a space.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
}
