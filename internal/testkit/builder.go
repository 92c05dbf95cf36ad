// Package testkit builds synthetic syntax trees for tests.
//
// Trees are described as nested parts: N for nodes, T/TK for tokens and S for
// raw trivia text. Build lays the parts out the way the tree producer would:
// trivia following a token up to and including the first line break is that
// token's trailing trivia, everything after it leads the next token. Offsets,
// line/column spans and node texts are computed from the resulting source.
package testkit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"cstyle/internal/syntax"
)

// Part is one element of a tree description.
type Part interface{ part() }

// NodePart describes a syntax node.
type NodePart struct {
	kind  string
	parts []Part
	hooks []func(*syntax.Node)
}

// Do registers fn to run on the built node once layout is complete.
func (p *NodePart) Do(fn func(n *syntax.Node)) *NodePart {
	p.hooks = append(p.hooks, fn)
	return p
}

type tokenPart struct {
	kind string
	text string
}

type triviaPart struct {
	text string
}

func (*NodePart) part() {}
func (tokenPart) part() {}
func (triviaPart) part() {}

// N describes a node of the given grammar kind.
func N(kind string, parts ...Part) *NodePart {
	return &NodePart{kind: kind, parts: parts}
}

// T describes a token with the given text.
func T(text string) Part { return tokenPart{text: text} }

// TK describes a token with an explicit token kind.
func TK(kind, text string) Part { return tokenPart{kind: kind, text: text} }

// S describes raw trivia text: spaces, tabs, line breaks and comments.
func S(text string) Part { return triviaPart{text: text} }

// EOF describes the end-of-file token.
func EOF() Part { return TK("EndOfFileToken", "") }

type builder struct {
	tokens  []*syntax.Token
	pending []string // trivia runs seen since the last token
	hooks   []func()
}

// Build lays the description out and returns the root node and its source text.
func Build(root *NodePart) (*syntax.Node, string) {
	b := &builder{}
	n := b.node(root)
	b.flushTail()

	src := b.place()
	b.measure(n, src)
	for _, h := range b.hooks {
		h()
	}
	return n, src
}

// MustBuild is Build with the invariants checked.
func MustBuild(root *NodePart) (*syntax.Node, string) {
	n, src := Build(root)
	if err := CheckTreeInvariants(n, src); err != nil {
		panic(err)
	}
	return n, src
}

func (b *builder) node(p *NodePart) *syntax.Node {
	n := &syntax.Node{Kind: p.kind}
	for _, c := range p.parts {
		switch c := c.(type) {
		case *NodePart:
			n.Children = append(n.Children, b.node(c))
		case tokenPart:
			tok := &syntax.Token{Kind: c.kind, Text: c.text, TrimmedText: c.text}
			b.attach(tok)
			n.Children = append(n.Children, tok)
		case triviaPart:
			b.pending = append(b.pending, c.text)
		}
	}
	for _, h := range p.hooks {
		b.hooks = append(b.hooks, func() { h(n) })
	}
	return n
}

// attach distributes pending trivia between the previous token and tok.
func (b *builder) attach(tok *syntax.Token) {
	pieces := splitTrivia(strings.Join(b.pending, ""))
	b.pending = nil
	if len(b.tokens) > 0 {
		prev := b.tokens[len(b.tokens)-1]
		cut := len(pieces)
		for i, p := range pieces {
			if p.Kind == syntax.EndOfLineTrivia {
				cut = i + 1
				break
			}
		}
		prev.Trailing = append(prev.Trailing, pieces[:cut]...)
		pieces = pieces[cut:]
	}
	tok.Leading = append(tok.Leading, pieces...)
	b.tokens = append(b.tokens, tok)
}

func (b *builder) flushTail() {
	if len(b.pending) == 0 {
		return
	}
	pieces := splitTrivia(strings.Join(b.pending, ""))
	b.pending = nil
	if len(b.tokens) == 0 {
		panic("testkit: trivia without any token")
	}
	last := b.tokens[len(b.tokens)-1]
	last.Trailing = append(last.Trailing, pieces...)
}

type cursor struct {
	offset int
	pos    syntax.Position
}

func (c *cursor) advance(text string) {
	c.offset += len(text)
	for _, r := range text {
		if r == '\n' {
			c.pos.Line++
			c.pos.Character = 1
			continue
		}
		c.pos.Character++
	}
}

// place assigns offsets and spans to tokens and trivia in document order.
func (b *builder) place() string {
	var src strings.Builder
	cur := cursor{pos: syntax.Position{Line: 1, Character: 1}}
	emitTrivia := func(list []syntax.Trivia) {
		for i := range list {
			tr := &list[i]
			tr.SpanStart = cur.offset
			tr.Span.Start = cur.pos
			cur.advance(tr.Text)
			tr.Span.End = cur.pos
			src.WriteString(tr.Text)
		}
	}
	for _, t := range b.tokens {
		emitTrivia(t.Leading)
		t.SpanStart = cur.offset
		t.Span.Start = cur.pos
		cur.advance(t.Text)
		t.Span.End = cur.pos
		src.WriteString(t.Text)
		emitTrivia(t.Trailing)
	}
	return src.String()
}

func (b *builder) measure(n *syntax.Node, src string) {
	for _, c := range n.Children {
		if cn, ok := c.(*syntax.Node); ok {
			b.measure(cn, src)
		}
	}
	first, last := syntax.FirstToken(n), syntax.LastToken(n)
	if first == nil || last == nil {
		return
	}
	n.Span = syntax.Span{Start: first.Span.Start, End: last.Span.End}
	n.SpanStart = first.SpanStart
	n.TrimmedText = src[first.SpanStart:last.End()]
	fullStart := first.SpanStart
	if len(first.Leading) > 0 {
		fullStart = first.Leading[0].SpanStart
	}
	fullEnd := last.End()
	if k := len(last.Trailing); k > 0 {
		fullEnd = last.Trailing[k-1].SpanStart + len(last.Trailing[k-1].Text)
	}
	n.Text = src[fullStart:fullEnd]
}

func splitTrivia(text string) []syntax.Trivia {
	var out []syntax.Trivia
	for len(text) > 0 {
		kind, size := scanTrivia(text)
		out = append(out, syntax.Trivia{Kind: kind, Text: text[:size]})
		text = text[size:]
	}
	return out
}

func scanTrivia(text string) (string, int) {
	switch {
	case strings.HasPrefix(text, "\r\n"):
		return syntax.EndOfLineTrivia, 2
	case text[0] == '\n':
		return syntax.EndOfLineTrivia, 1
	case text[0] == ' ' || text[0] == '\t':
		i := 1
		for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
			i++
		}
		return syntax.WhitespaceTrivia, i
	case strings.HasPrefix(text, "/*"):
		end := strings.Index(text[2:], "*/")
		if end < 0 {
			panic(fmt.Sprintf("testkit: unterminated block comment in %q", text))
		}
		kind := syntax.MultiLineCommentTrivia
		if strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/**/") {
			kind = syntax.MultiLineDocumentationCommentTrivia
		}
		return kind, end + 4
	case strings.HasPrefix(text, "//"):
		end := strings.IndexAny(text, "\r\n")
		if end < 0 {
			end = len(text)
		}
		kind := syntax.SingleLineCommentTrivia
		if strings.HasPrefix(text, "///") {
			kind = syntax.SingleLineDocumentationCommentTrivia
		}
		return kind, end
	default:
		r, _ := utf8.DecodeRuneInString(text)
		panic(fmt.Sprintf("testkit: %q is not trivia", r))
	}
}

// FindToken returns the nth (0-based) token with the given text and its ancestors.
func FindToken(root *syntax.Node, text string, nth int) (*syntax.Token, syntax.Parents) {
	var (
		found   *syntax.Token
		parents syntax.Parents
		seen    int
	)
	syntax.Walk(root, func(el syntax.Element, p syntax.Parents) bool {
		if found != nil {
			return false
		}
		if t, ok := el.(*syntax.Token); ok && t.Text == text {
			if seen == nth {
				found, parents = t, p
				return false
			}
			seen++
		}
		return true
	})
	if found == nil {
		panic(fmt.Sprintf("testkit: token %q #%d not found", text, nth))
	}
	return found, parents
}

// FindNode returns the nth (0-based) node of the given kind and its ancestors.
func FindNode(root *syntax.Node, kind string, nth int) (*syntax.Node, syntax.Parents) {
	var (
		found   *syntax.Node
		parents syntax.Parents
		seen    int
	)
	syntax.Walk(root, func(el syntax.Element, p syntax.Parents) bool {
		if found != nil {
			return false
		}
		if n, ok := el.(*syntax.Node); ok && n.Kind == kind {
			if seen == nth {
				found, parents = n, p
				return false
			}
			seen++
		}
		return true
	})
	if found == nil {
		panic(fmt.Sprintf("testkit: node %s #%d not found", kind, nth))
	}
	return found, parents
}
