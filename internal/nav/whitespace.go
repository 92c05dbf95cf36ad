package nav

import (
	"strings"

	"cstyle/internal/syntax"
)

// Whitespace is a run of whitespace and line breaks directly before a token
// or trivia, and the absolute offset where it starts.
type Whitespace struct {
	Text   string
	Offset int
}

// HasNewline reports whether the run crosses a line break.
func (w Whitespace) HasNewline() bool {
	return strings.Contains(w.Text, "\n")
}

// Indentation returns the part of the run after its last line break.
func (w Whitespace) Indentation() (string, bool) {
	i := strings.LastIndex(w.Text, "\n")
	if i < 0 {
		return "", false
	}
	return w.Text[i+1:], true
}

// run accumulates trivia scanned right to left.
type run struct {
	parts   []string
	offset  int
	stopped bool
}

// scan walks list[:end] backwards, stopping at the first non-whitespace trivia.
func (r *run) scan(list []syntax.Trivia, end int) {
	for i := end - 1; i >= 0; i-- {
		tr := list[i]
		if !tr.IsWhitespace() {
			r.stopped = true
			return
		}
		r.parts = append(r.parts, tr.Text)
		r.offset = tr.SpanStart
	}
}

func (r *run) result() Whitespace {
	var b strings.Builder
	for i := len(r.parts) - 1; i >= 0; i-- {
		b.WriteString(r.parts[i])
	}
	return Whitespace{Text: b.String(), Offset: r.offset}
}

// WhitespaceBefore merges the whitespace in tok's leading trivia with the
// trailing whitespace of the preceding token. A comment ends the run. prev
// may be nil, in which case the preceding token is looked up.
func WhitespaceBefore(tok *syntax.Token, parents syntax.Parents, prev *syntax.Token) (Whitespace, error) {
	r := run{offset: tok.SpanStart}
	r.scan(tok.Leading, len(tok.Leading))
	if r.stopped {
		return r.result(), nil
	}
	if prev == nil {
		var err error
		if prev, err = PreviousToken(tok, parents); err != nil {
			return Whitespace{}, err
		}
	}
	if prev != nil {
		r.scan(prev.Trailing, len(prev.Trailing))
	}
	return r.result(), nil
}

// WhitespaceBeforeTrivia does the same walk starting at the trivia at index
// idx of tok's leading (leading=true) or trailing trivia. Only leading
// positions continue into the previous token's trailing trivia.
func WhitespaceBeforeTrivia(tok *syntax.Token, parents syntax.Parents, idx int, leading bool) (Whitespace, error) {
	list := tok.Trailing
	if leading {
		list = tok.Leading
	}
	r := run{offset: list[idx].SpanStart}
	r.scan(list, idx)
	if r.stopped || !leading {
		return r.result(), nil
	}
	prev, err := PreviousToken(tok, parents)
	if err != nil {
		return Whitespace{}, err
	}
	if prev != nil {
		r.scan(prev.Trailing, len(prev.Trailing))
	}
	return r.result(), nil
}
