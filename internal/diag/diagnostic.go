package diag

import (
	"cstyle/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one reported style violation.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []*Fix
}

// Replacement returns the original/replacement pair of the first
// single-edit fix, if the diagnostic carries one.
func (d *Diagnostic) Replacement() (original, replacement string, ok bool) {
	if d == nil {
		return "", "", false
	}
	for _, f := range d.Fixes {
		if f != nil && len(f.Edits) == 1 {
			return f.Edits[0].OldText, f.Edits[0].NewText, true
		}
	}
	return "", "", false
}
