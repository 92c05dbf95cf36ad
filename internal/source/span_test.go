package source

import "testing"

func TestSpanOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"adjacent", Span{Start: 0, End: 2}, Span{Start: 2, End: 4}, false},
		{"overlap", Span{Start: 0, End: 3}, Span{Start: 2, End: 4}, true},
		{"nested", Span{Start: 0, End: 10}, Span{Start: 3, End: 4}, true},
		{"two inserts", Span{Start: 2, End: 2}, Span{Start: 2, End: 2}, false},
		{"insert inside", Span{Start: 0, End: 4}, Span{Start: 2, End: 2}, true},
		{"insert at end", Span{Start: 0, End: 2}, Span{Start: 2, End: 2}, false},
		{"insert at start", Span{Start: 2, End: 2}, Span{Start: 2, End: 5}, true},
		{"other file", Span{File: 1, Start: 0, End: 4}, Span{File: 2, Start: 0, End: 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Fatalf("%v.Overlaps(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Fatalf("Overlaps is not symmetric for %v, %v", tt.a, tt.b)
			}
		})
	}
}

func TestSpanValid(t *testing.T) {
	s := SpanOf(0, 2, 3)
	if s.Len() != 3 || s.Empty() {
		t.Fatalf("SpanOf = %+v", s)
	}
	if !s.Valid(5) || s.Valid(4) {
		t.Fatalf("Valid bounds wrong for %v", s)
	}
	if (Span{Start: 3, End: 1}).Valid(10) {
		t.Fatal("reversed span accepted")
	}
	if got := s.String(); got != "0:2-5" {
		t.Fatalf("String = %q", got)
	}
}
