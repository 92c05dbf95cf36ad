// Package nav finds neighbouring tokens and the whitespace between them.
//
// The tree has no parent pointers: every function takes the ancestor chain of
// its argument. A chain that does not actually contain the element is a
// caller bug and is reported as *NotChildError rather than guessed around,
// because every offset computed afterwards would be wrong.
package nav

import (
	"fmt"

	"cstyle/internal/syntax"
)

// NotChildError reports an element missing from the parent it was paired with.
type NotChildError struct {
	Element syntax.Element
	Parent  *syntax.Node
}

func (e *NotChildError) Error() string {
	return fmt.Sprintf("invalid tree traversal: expected %q at %d to be a child of %s at %d",
		e.Element.Label(), e.Element.Offset(), e.Parent.Kind, e.Parent.SpanStart)
}

// PreviousToken returns the token immediately before el in document order,
// or nil when el is the first token of the tree.
func PreviousToken(el syntax.Element, parents syntax.Parents) (*syntax.Token, error) {
	for len(parents) > 0 {
		parent := parents.Last()
		idx := parent.IndexOf(el)
		if idx < 0 {
			return nil, &NotChildError{Element: el, Parent: parent}
		}
		for i := idx - 1; i >= 0; i-- {
			switch c := parent.Children[i].(type) {
			case *syntax.Token:
				return c, nil
			case *syntax.Node:
				if t := syntax.LastToken(c); t != nil {
					return t, nil
				}
			}
		}
		el, parents = parent, parents.Pop()
	}
	return nil, nil
}

// NextToken returns the token immediately after el together with its
// ancestor chain, which may differ from parents when the search descends
// into a sibling subtree. It returns nil when el is the last token.
func NextToken(el syntax.Element, parents syntax.Parents) (*syntax.Token, syntax.Parents, error) {
	for len(parents) > 0 {
		parent := parents.Last()
		idx := parent.IndexOf(el)
		if idx < 0 {
			return nil, nil, &NotChildError{Element: el, Parent: parent}
		}
		for i := idx + 1; i < len(parent.Children); i++ {
			switch c := parent.Children[i].(type) {
			case *syntax.Token:
				return c, parents, nil
			case *syntax.Node:
				if t, chain := syntax.FirstTokenOf(c, parents); t != nil {
					return t, chain, nil
				}
			}
		}
		el, parents = parent, parents.Pop()
	}
	return nil, nil, nil
}

// Siblings returns the children of the immediate parent that follow el.
func Siblings(el syntax.Element, parents syntax.Parents) ([]syntax.Element, error) {
	parent := parents.Last()
	if parent == nil {
		return nil, nil
	}
	idx := parent.IndexOf(el)
	if idx < 0 {
		return nil, &NotChildError{Element: el, Parent: parent}
	}
	return parent.Children[idx+1:], nil
}
