package syntax

import "fmt"

// Position is a 1-based line/column pair as reported by the tree producer.
type Position struct {
	Line      int
	Character int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Before reports whether p precedes q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Character < q.Character
}

// Span is a line/column range. End is exclusive.
type Span struct {
	Start Position
	End   Position
}

// Location is a resolved reference site.
type Location struct {
	Span   Span
	Offset int // -1 when the producer did not emit an absolute offset
}

// Element is either a *Node or a *Token.
type Element interface {
	// Pos returns the line/column span of the element without surrounding trivia.
	Pos() Span
	// Offset returns the absolute 0-based start offset, trivia excluded.
	Offset() int
	// Label returns the grammar production name for nodes and the token text for tokens.
	Label() string

	element()
}

// Node is an interior tree element.
type Node struct {
	Kind        string // grammar production, e.g. "ClassDeclarationSyntax"
	Text        string // full text including leading and trailing trivia
	TrimmedText string
	Span        Span
	SpanStart   int
	Children    []Element

	// Denormalized fields, filled only for node kinds that carry them.
	Modifiers       []string
	Identifier      *Token
	ReturnType      *Node
	PropertyType    *Node
	DeclarationType *Node
	BaseTypes       []*Node
	Members         []*Node
	References      []Location
}

func (n *Node) Pos() Span { return n.Span }
func (n *Node) Offset() int { return n.SpanStart }
func (n *Node) Label() string { return n.Kind }
func (*Node) element() {}

// Is reports whether the node has one of the given kinds.
func (n *Node) Is(kinds ...string) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// HasModifier reports whether the modifier keyword list contains mod.
func (n *Node) HasModifier(mod string) bool {
	for _, m := range n.Modifiers {
		if m == mod {
			return true
		}
	}
	return false
}

// Child returns the first direct child node of the given kind.
func (n *Node) Child(kind string) *Node {
	for _, c := range n.Children {
		if cn, ok := c.(*Node); ok && cn.Kind == kind {
			return cn
		}
	}
	return nil
}

// ChildNodes returns direct child nodes of the given kind in order.
func (n *Node) ChildNodes(kind string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if cn, ok := c.(*Node); ok && cn.Kind == kind {
			out = append(out, cn)
		}
	}
	return out
}

// IndexOf returns the position of el among the direct children, or -1.
func (n *Node) IndexOf(el Element) int {
	for i, c := range n.Children {
		if c == el {
			return i
		}
	}
	return -1
}

// Token is a leaf tree element.
type Token struct {
	Kind        string // token kind, e.g. "OpenBraceToken"; may be empty
	Value       any
	Text        string // exact source text of the token, no trivia
	TrimmedText string
	Span        Span
	SpanStart   int
	Leading     []Trivia
	Trailing    []Trivia
}

func (t *Token) Pos() Span { return t.Span }
func (t *Token) Offset() int { return t.SpanStart }
func (t *Token) Label() string { return t.Text }
func (*Token) element() {}

// Is reports whether the token text equals one of texts.
func (t *Token) Is(texts ...string) bool {
	if t == nil {
		return false
	}
	for _, s := range texts {
		if t.Text == s {
			return true
		}
	}
	return false
}

// End returns the offset just past the token text.
func (t *Token) End() int {
	return t.SpanStart + len(t.Text)
}

// Trivia is whitespace, an end of line, a comment or a directive attached to a token.
type Trivia struct {
	Kind      string
	Text      string
	Span      Span
	SpanStart int
}

// IsWhitespace reports whether the trivia is plain whitespace or a line break.
func (tr Trivia) IsWhitespace() bool {
	return tr.Kind == WhitespaceTrivia || tr.Kind == EndOfLineTrivia
}

// IsComment reports whether the trivia is one of the comment kinds.
func (tr Trivia) IsComment() bool {
	switch tr.Kind {
	case SingleLineCommentTrivia, MultiLineCommentTrivia,
		SingleLineDocumentationCommentTrivia, MultiLineDocumentationCommentTrivia:
		return true
	}
	return false
}

// Forest maps a file path to the root of its tree.
type Forest map[string]*Node
