package testkit

import (
	"fmt"

	"cstyle/internal/syntax"
)

// CheckTreeInvariants runs a minimal set of invariants on a tree:
// 1) children of every node are ordered by offset and do not overlap
// 2) every node span covers the spans of its children
// 3) token text and trivia agree with the source at their offsets
// 4) rebuilding the text from tokens and trivia reproduces the source
func CheckTreeInvariants(root *syntax.Node, src string) error {
	if root == nil {
		return fmt.Errorf("nil root")
	}
	var failure error
	syntax.Walk(root, func(el syntax.Element, _ syntax.Parents) bool {
		if failure != nil {
			return false
		}
		switch el := el.(type) {
		case *syntax.Node:
			failure = checkChildren(el)
		case *syntax.Token:
			failure = checkToken(el, src)
		}
		return failure == nil
	})
	if failure != nil {
		return failure
	}
	if got := syntax.SourceText(root); got != src {
		return fmt.Errorf("round trip mismatch:\n got %q\nwant %q", got, src)
	}
	return nil
}

func checkChildren(n *syntax.Node) error {
	prevEnd := -1
	for i, c := range n.Children {
		start := c.Offset()
		if start < prevEnd {
			return fmt.Errorf("%s: child %d at %d overlaps previous ending at %d", n.Kind, i, start, prevEnd)
		}
		if start < n.SpanStart {
			return fmt.Errorf("%s: child %d starts at %d before parent %d", n.Kind, i, start, n.SpanStart)
		}
		if c.Pos().Start.Before(n.Span.Start) || n.Span.End.Before(c.Pos().End) {
			return fmt.Errorf("%s: child %d span %v..%v outside parent %v..%v",
				n.Kind, i, c.Pos().Start, c.Pos().End, n.Span.Start, n.Span.End)
		}
		switch c := c.(type) {
		case *syntax.Token:
			prevEnd = c.End()
		case *syntax.Node:
			if last := syntax.LastToken(c); last != nil {
				prevEnd = last.End()
			}
		}
	}
	return nil
}

func checkToken(t *syntax.Token, src string) error {
	if t.End() > len(src) {
		return fmt.Errorf("token %q ends at %d beyond source length %d", t.Text, t.End(), len(src))
	}
	if got := src[t.SpanStart:t.End()]; got != t.Text {
		return fmt.Errorf("token at %d: source has %q, token has %q", t.SpanStart, got, t.Text)
	}
	for _, list := range [][]syntax.Trivia{t.Leading, t.Trailing} {
		for _, tr := range list {
			end := tr.SpanStart + len(tr.Text)
			if end > len(src) || src[tr.SpanStart:end] != tr.Text {
				return fmt.Errorf("trivia %s at %d does not match source", tr.Kind, tr.SpanStart)
			}
		}
	}
	return nil
}
