package rules

import (
	"cstyle/internal/diag"
	"cstyle/internal/indent"
	"cstyle/internal/lint"
	"cstyle/internal/nav"
	"cstyle/internal/syntax"
)

// ParametersOnNewline puts every parameter after the first on a line of its
// own once a parameter list is too long or has too many parameters.
type ParametersOnNewline struct{ lint.NodeOnly }

const paramNotOnNewline = 1

func (ParametersOnNewline) Code() string { return "MNEWLINE" }
func (ParametersOnNewline) Name() string { return "Method Parameters on Newlines" }

func (ParametersOnNewline) Description() string {
	return "Ensures that method declarations with more than two parameters, or whose parameter list is longer than 60 characters, place each parameter on its own line."
}

func (ParametersOnNewline) SeverityMap() map[int]diag.Severity {
	return map[int]diag.Severity{paramNotOnNewline: diag.SevError}
}

func (ParametersOnNewline) NameMap() map[int]string {
	return map[int]string{paramNotOnNewline: "Move parameter onto new line"}
}

func (ParametersOnNewline) AnalyzeNode(ctx *lint.Context, n *syntax.Node, parents syntax.Parents) error {
	if !n.Is(syntax.MethodDeclaration, syntax.ConstructorDeclaration) {
		return nil
	}
	list := n.Child(syntax.ParameterList)
	if list == nil {
		return nil
	}
	params := list.ChildNodes(syntax.Parameter)
	opts := ctx.Options()
	if len(list.TrimmedText) <= opts.MaxParameterListLength && len(params) <= opts.MaxParameters {
		return nil
	}

	chain := parents.Push(n).Push(list)
	line := list.Span.Start.Line
	added := 0
	for i, param := range params {
		if i == 0 || param.Span.Start.Line >= line+i-added {
			continue
		}
		tok, tokParents := syntax.FirstTokenOf(param, chain)
		if tok == nil {
			continue
		}
		ws, err := nav.WhitespaceBefore(tok, tokParents, nil)
		if err != nil {
			return err
		}
		want, err := ctx.Indent().Expected(tok, tokParents, indent.ForToken)
		if err != nil {
			return err
		}
		if err := ctx.RaiseAtOffset(paramNotOnNewline, ws.Offset,
			"This parameter should be placed on a new line.",
			ws.Text+tok.Text, "\n"+want+tok.Text); err != nil {
			return err
		}
		added++
	}
	return nil
}
