package diagfmt

import (
	"cmp"
	"encoding/json"
	"io"
	"slices"

	"cstyle/internal/diag"
	"cstyle/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON представляет одно редактирование для JSON
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON представляет предложение по исправлению для JSON
type FixJSON struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Kind          string        `json:"kind"`
	Applicability string        `json:"applicability"`
	Edits         []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате.
// Original/Replacement - пара для автоматического исправления, если она есть.
type DiagnosticJSON struct {
	Severity    string       `json:"severity"`
	Code        string       `json:"code"`
	Message     string       `json:"message"`
	Location    LocationJSON `json:"location"`
	Original    *string      `json:"original,omitempty"`
	Replacement *string      `json:"replacement,omitempty"`
	Notes       []NoteJSON   `json:"notes,omitempty"`
	Fixes       []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, opts JSONOpts) LocationJSON {
	loc := LocationJSON{
		File:      formatPath(fs, fs.Get(span.File), opts.PathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if opts.IncludePositions {
		start, end := fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

// BuildDiagnosticsOutput converts the first opts.Max entries of bag (all
// when Max is 0) without serializing them.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) (DiagnosticsOutput, error) {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items))}
	for _, d := range items {
		out.Diagnostics = append(out.Diagnostics, diagnosticJSON(d, fs, opts))
	}
	out.Count = len(out.Diagnostics)
	return out, nil
}

func diagnosticJSON(d *diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticJSON {
	dj := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: makeLocation(d.Primary, fs, opts),
	}
	if orig, repl, ok := d.Replacement(); ok {
		dj.Original, dj.Replacement = &orig, &repl
	}
	if opts.IncludeNotes {
		for _, n := range d.Notes {
			dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: makeLocation(n.Span, fs, opts)})
		}
	}
	if opts.IncludeFixes {
		for _, f := range orderedFixes(d.Fixes) {
			dj.Fixes = append(dj.Fixes, fixJSON(f, fs, opts))
		}
	}
	return dj
}

// orderedFixes puts the safer fixes first.
func orderedFixes(fixes []*diag.Fix) []*diag.Fix {
	out := make([]*diag.Fix, 0, len(fixes))
	for _, f := range fixes {
		if f != nil {
			out = append(out, f)
		}
	}
	slices.SortStableFunc(out, func(a, b *diag.Fix) int {
		return cmp.Or(
			cmp.Compare(a.Applicability, b.Applicability),
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.Title, b.Title),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out
}

func fixJSON(f *diag.Fix, fs *source.FileSet, opts JSONOpts) FixJSON {
	fj := FixJSON{
		ID:            f.ID,
		Title:         f.Title,
		Kind:          f.Kind.String(),
		Applicability: f.Applicability.String(),
	}
	for _, e := range f.Edits {
		ej := FixEditJSON{Location: makeLocation(e.Span, fs, opts), NewText: e.NewText, OldText: e.OldText}
		if opts.IncludePreviews {
			if p, err := buildFixEditPreview(fs, e); err == nil {
				ej.BeforeLines, ej.AfterLines = p.before, p.after
			}
		}
		fj.Edits = append(fj.Edits, ej)
	}
	return fj
}

// FileOutput is one file of a multi-file report. Error is set when the
// file could not be analyzed.
type FileOutput struct {
	Path  string `json:"path"`
	Error string `json:"error,omitempty"`
	DiagnosticsOutput
}

// RunOutput is the JSON document of a whole check run.
type RunOutput struct {
	Files  []FileOutput `json:"files"`
	Count  int          `json:"count"`
	Failed int          `json:"failed"`
}

// Add appends a file and updates the totals.
func (r *RunOutput) Add(f FileOutput) {
	r.Files = append(r.Files, f)
	r.Count += f.Count
	if f.Error != "" {
		r.Failed++
	}
}

// JSON writes one bag as an indented DiagnosticsOutput document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	output, err := BuildDiagnosticsOutput(bag, fs, opts)
	if err != nil {
		return err
	}

	return writeJSON(w, output)
}

// RunJSON writes a multi-file report.
func RunJSON(w io.Writer, run RunOutput) error {
	if run.Files == nil {
		run.Files = []FileOutput{}
	}
	return writeJSON(w, run)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
