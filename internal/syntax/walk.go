package syntax

import "strings"

// Parents is the ancestor chain from the root down to the immediate parent.
// The tree has no upward links, so every traversal passes this along.
type Parents []*Node

// Last returns the immediate parent or nil for an empty chain.
func (p Parents) Last() *Node {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// Pop drops the immediate parent.
func (p Parents) Pop() Parents {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1 : len(p)-1]
}

// Push returns a new chain with n appended; the receiver is never aliased.
func (p Parents) Push(n *Node) Parents {
	out := make(Parents, len(p), len(p)+1)
	copy(out, p)
	return append(out, n)
}

// FirstToken returns the first token under n in document order.
func FirstToken(n *Node) *Token {
	tok, _ := FirstTokenOf(n, nil)
	return tok
}

// LastToken returns the last token under n in document order.
func LastToken(n *Node) *Token {
	if n == nil {
		return nil
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		switch c := n.Children[i].(type) {
		case *Token:
			return c
		case *Node:
			if t := LastToken(c); t != nil {
				return t
			}
		}
	}
	return nil
}

// FirstTokenOf returns the first token under n together with that
// token's ancestor chain, given the ancestors of n.
func FirstTokenOf(n *Node, parents Parents) (*Token, Parents) {
	if n == nil {
		return nil, nil
	}
	chain := parents.Push(n)
	for _, c := range n.Children {
		switch c := c.(type) {
		case *Token:
			return c, chain
		case *Node:
			if t, p := FirstTokenOf(c, chain); t != nil {
				return t, p
			}
		}
	}
	return nil, nil
}

// WalkFunc receives every element below the root and its ancestors.
// Returning false on a node skips its children.
type WalkFunc func(el Element, parents Parents) bool

// Walk visits the root and its descendants in document order.
func Walk(root *Node, fn WalkFunc) {
	if root == nil {
		return
	}
	if !fn(root, nil) {
		return
	}
	walk(root, Parents{root}, fn)
}

func walk(n *Node, parents Parents, fn WalkFunc) {
	for _, c := range n.Children {
		if !fn(c, parents) {
			continue
		}
		if cn, ok := c.(*Node); ok {
			walk(cn, parents.Push(cn), fn)
		}
	}
}

// Tokens returns every token under root in document order.
func Tokens(root *Node) []*Token {
	var out []*Token
	Walk(root, func(el Element, _ Parents) bool {
		if t, ok := el.(*Token); ok {
			out = append(out, t)
		}
		return true
	})
	return out
}

// Descendants returns every node of the given kind below root, outermost first.
func Descendants(root *Node, kind string) []*Node {
	var out []*Node
	Walk(root, func(el Element, _ Parents) bool {
		if n, ok := el.(*Node); ok && n != root && n.Kind == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

// PathTo returns the ancestor chain of target under root.
func PathTo(root *Node, target Element) (Parents, bool) {
	var found Parents
	ok := false
	Walk(root, func(el Element, parents Parents) bool {
		if ok {
			return false
		}
		if el == target {
			found = parents
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// SourceText rebuilds the source text from token text and attached trivia.
func SourceText(root *Node) string {
	var b strings.Builder
	for _, t := range Tokens(root) {
		for _, tr := range t.Leading {
			b.WriteString(tr.Text)
		}
		b.WriteString(t.Text)
		for _, tr := range t.Trailing {
			b.WriteString(tr.Text)
		}
	}
	return b.String()
}
