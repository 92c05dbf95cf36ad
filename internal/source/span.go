package source

import "fmt"

// Span is a half-open byte range [Start, End) of one file's stored content.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// SpanOf builds a span of length n starting at start.
func SpanOf(file FileID, start, n uint32) Span {
	return Span{File: file, Start: start, End: start + n}
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Valid reports whether s lies inside content of length n.
func (s Span) Valid(n int) bool {
	return s.Start <= s.End && int(s.End) <= n
}

// Overlaps reports whether edits at s and o would touch the same bytes.
// Two insertions never overlap; an insertion overlaps a range that starts
// at its position or strictly contains it. Spans of other files never do.
func (s Span) Overlaps(o Span) bool {
	if s.File != o.File {
		return false
	}
	switch {
	case s.Empty() && o.Empty():
		return false
	case s.Empty():
		return o.Start <= s.Start && s.Start < o.End
	case o.Empty():
		return s.Start <= o.Start && o.Start < s.End
	}
	return s.Start < o.End && o.Start < s.End
}
