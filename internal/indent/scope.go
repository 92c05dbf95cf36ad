package indent

import (
	"fmt"

	"cstyle/internal/syntax"
)

// ScopeKind classifies an open indentation scope.
type ScopeKind uint8

const (
	ScopeBrace ScopeKind = iota + 1
	ScopeParen
	ScopeBracket
	ScopeAngle
	ScopeLabel
	ScopeMemberAccess
	ScopeDeclaration
	ScopeAssignment
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeBrace:
		return "{"
	case ScopeParen:
		return "("
	case ScopeBracket:
		return "["
	case ScopeAngle:
		return "<"
	case ScopeLabel:
		return "label"
	case ScopeMemberAccess:
		return "member-access"
	case ScopeDeclaration:
		return "declaration"
	case ScopeAssignment:
		return "assignment"
	default:
		return fmt.Sprintf("ScopeKind(%d)", k)
	}
}

// Scope is one entry of the indentation stack.
type Scope struct {
	Kind ScopeKind
	Node *syntax.Node  // continuation and label scopes
	Tok  *syntax.Token // bracket scopes
	// Equals is the offset of the '=' of a declaration or assignment scope, -1 if absent.
	Equals int
}

var openers = map[string]ScopeKind{
	"{": ScopeBrace,
	"(": ScopeParen,
	"[": ScopeBracket,
	"<": ScopeAngle,
}

var closers = map[string]ScopeKind{
	"}": ScopeBrace,
	")": ScopeParen,
	"]": ScopeBracket,
	">": ScopeAngle,
}

func openerKind(tok *syntax.Token, parent *syntax.Node) (ScopeKind, bool) {
	k, ok := openers[tok.Text]
	if !ok {
		return 0, false
	}
	// attribute brackets do not indent their contents
	if k == ScopeBracket && parent.Is(syntax.AttributeList) {
		return 0, false
	}
	return k, true
}

func closerKind(tok *syntax.Token) (ScopeKind, bool) {
	k, ok := closers[tok.Text]
	return k, ok
}

// equalsOffset finds the assignment operator of a declaration or assignment node.
func equalsOffset(n *syntax.Node) int {
	if n.Is(syntax.AssignmentExpression) {
		for _, c := range n.Children {
			if t, ok := c.(*syntax.Token); ok {
				return t.SpanStart
			}
		}
		return -1
	}
	off := -1
	syntax.Walk(n, func(el syntax.Element, _ syntax.Parents) bool {
		if off >= 0 {
			return false
		}
		if t, ok := el.(*syntax.Token); ok && t.Text == "=" {
			off = t.SpanStart
		}
		return true
	})
	return off
}

// stack is the scope stack. Pops on an empty stack are no-ops.
type stack []Scope

func (s *stack) push(sc Scope) { *s = append(*s, sc) }

func (s *stack) pop() {
	if len(*s) > 0 {
		*s = (*s)[:len(*s)-1]
	}
}

func (s stack) top() (Scope, bool) {
	if len(s) == 0 {
		return Scope{}, false
	}
	return s[len(s)-1], true
}

func (s stack) topIs(kinds ...ScopeKind) bool {
	t, ok := s.top()
	if !ok {
		return false
	}
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// popIf pops the top scope when it has the given kind.
func (s *stack) popIf(kind ScopeKind) bool {
	if s.topIs(kind) {
		s.pop()
		return true
	}
	return false
}
