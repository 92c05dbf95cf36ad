// Package lint runs style policies over producer trees.
//
// The engine walks each tree once, depth-first and pre-order, and hands every
// node and every token to every registered policy together with the explicit
// ancestor chain. Policies report through a per-file Context that owns the
// byte-order-mark offset shift, severity lookup and fix construction.
package lint

import (
	"cstyle/internal/diag"
	"cstyle/internal/syntax"
)

// Policy is one style rule family, e.g. brace placement. Sub-codes are small
// integers; the composite code reported is Code() followed by the sub-code.
//
// Policies must not keep per-file state between calls: one instance serves
// every file of a run, possibly from several goroutines.
type Policy interface {
	Code() string
	Name() string
	Description() string
	SeverityMap() map[int]diag.Severity
	NameMap() map[int]string

	// AnalyzeNode is called once per node, before its children.
	AnalyzeNode(ctx *Context, n *syntax.Node, parents syntax.Parents) error
	// AnalyzeToken is called once per token in document order.
	AnalyzeToken(ctx *Context, tok *syntax.Token, parents syntax.Parents) error
}

// FixClassifier is implemented by policies whose fixes are not always safe
// to apply unattended.
type FixClassifier interface {
	FixApplicability(sub int) diag.FixApplicability
}

// NodeOnly can be embedded by policies that ignore tokens.
type NodeOnly struct{}

func (NodeOnly) AnalyzeToken(*Context, *syntax.Token, syntax.Parents) error { return nil }

// TokenOnly can be embedded by policies that ignore nodes.
type TokenOnly struct{}

func (TokenOnly) AnalyzeNode(*Context, *syntax.Node, syntax.Parents) error { return nil }
