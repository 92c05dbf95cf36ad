// Package indent computes the indentation a token should have from the shape
// of the tree alone, ignoring the whitespace actually present in the file.
//
// The computation walks the ancestor chain from the root toward the target
// and keeps a stack of open scopes. Rules are applied to each child of each
// level in this order:
//
//  1. A case/default label pops a label still on top and pushes itself.
//  2. An invocation, member access or object creation on the path that starts
//     on the line of the declaration or assignment on top, after its '=',
//     pops that scope: the expression's own continuation replaces it.
//  3. A member access on the path that starts on an earlier line than the
//     target pushes a member-access scope unless one is already on top.
//     Multi-line variable declarations and assignments do the same with
//     their own scope kinds.
//  4. '{', '(', '<' and '[' (outside attribute lists) push a bracket scope.
//  5. A closing bracket pops the matching scope on top, except when it is the
//     target and the indentation is asked for its leading trivia.
//  6. At the target, an opener pushed by the target itself is popped and a
//     label parent is popped, so '{' and 'case' sit at their scope's depth.
//
// Continuation scopes are only opened for nodes on the path: a construct that
// ends before the target closes at that same child and leaves the stack as it
// was.
package indent

import (
	"strings"

	"cstyle/internal/nav"
	"cstyle/internal/syntax"
)

// DefaultWidth is the number of spaces per indentation level.
const DefaultWidth = 4

// Mode tells the calculator whether the target token itself or one of its
// comment trivia is being indented.
type Mode uint8

const (
	ForToken Mode = iota
	ForLeadingTrivia
	ForTrailingTrivia
)

// Calculator renders expected indentation. It is stateless and safe for
// concurrent use.
type Calculator struct {
	unit string
}

// New returns a calculator using width spaces per level.
func New(width int) *Calculator {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Calculator{unit: strings.Repeat(" ", width)}
}

// Unit returns the text of one indentation level.
func (c *Calculator) Unit() string {
	return c.unit
}

// Expected returns the indentation that should precede target.
func (c *Calculator) Expected(target *syntax.Token, parents syntax.Parents, mode Mode) (string, error) {
	depth, err := c.Depth(target, parents, mode)
	if err != nil {
		return "", err
	}
	return strings.Repeat(c.unit, depth), nil
}

// Depth returns the number of open scopes at target.
func (c *Calculator) Depth(target *syntax.Token, parents syntax.Parents, mode Mode) (int, error) {
	scopes, err := c.Scopes(target, parents, mode)
	return len(scopes), err
}

// Scopes returns the scope stack in effect at target, outermost first.
func (c *Calculator) Scopes(target *syntax.Token, parents syntax.Parents, mode Mode) ([]Scope, error) {
	if len(parents) == 0 {
		return nil, nil
	}
	m := machine{line: target.Span.Start.Line, mode: mode}
	for i, parent := range parents {
		var next syntax.Element = target
		terminal := i == len(parents)-1
		if !terminal {
			next = parents[i+1]
		}
		if err := m.level(parent, next, terminal); err != nil {
			return nil, err
		}
	}
	return m.scopes, nil
}

type machine struct {
	line   int
	mode   Mode
	scopes stack
}

// level applies the rules to parent's children up to and including next.
func (m *machine) level(parent *syntax.Node, next syntax.Element, terminal bool) error {
	for _, child := range parent.Children {
		onPath := child == next
		pushedOpener := false

		switch c := child.(type) {
		case *syntax.Node:
			if syntax.IsSwitchLabel(c.Kind) {
				m.scopes.popIf(ScopeLabel)
				m.scopes.push(Scope{Kind: ScopeLabel, Node: c, Equals: -1})
			}
			if onPath {
				m.continuation(c)
			}
		case *syntax.Token:
			if kind, ok := openerKind(c, parent); ok {
				m.scopes.push(Scope{Kind: kind, Tok: c, Equals: -1})
				pushedOpener = true
			} else if kind, ok := closerKind(c); ok {
				if !(onPath && terminal && m.mode == ForLeadingTrivia) {
					m.scopes.popIf(kind)
				}
			}
		}

		if !onPath {
			continue
		}
		if terminal {
			if pushedOpener {
				m.scopes.pop()
			}
			if syntax.IsSwitchLabel(parent.Kind) {
				m.scopes.popIf(ScopeLabel)
			}
		}
		return nil
	}
	return &nav.NotChildError{Element: next, Parent: parent}
}

func (m *machine) continuation(n *syntax.Node) {
	if n.Is(syntax.InvocationExpression, syntax.MemberAccessExpression, syntax.ObjectCreationExpression) {
		if top, ok := m.scopes.top(); ok && (top.Kind == ScopeDeclaration || top.Kind == ScopeAssignment) {
			if top.Equals >= 0 && n.SpanStart > top.Equals && n.Span.Start.Line == top.Node.Span.Start.Line {
				m.scopes.pop()
			}
		}
	}

	earlier := n.Span.Start.Line < m.line
	multiLine := n.Span.Start.Line < n.Span.End.Line
	switch {
	case n.Is(syntax.MemberAccessExpression):
		if earlier && !m.scopes.topIs(ScopeMemberAccess) {
			m.scopes.push(Scope{Kind: ScopeMemberAccess, Node: n, Equals: -1})
		}
	case n.Is(syntax.VariableDeclaration):
		if earlier && multiLine && !m.scopes.topIs(ScopeDeclaration) {
			m.scopes.push(Scope{Kind: ScopeDeclaration, Node: n, Equals: equalsOffset(n)})
		}
	case n.Is(syntax.AssignmentExpression):
		if earlier && multiLine && !m.scopes.topIs(ScopeAssignment) {
			m.scopes.push(Scope{Kind: ScopeAssignment, Node: n, Equals: equalsOffset(n)})
		}
	}
}
