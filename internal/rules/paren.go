package rules

import (
	"cstyle/internal/diag"
	"cstyle/internal/indent"
	"cstyle/internal/lint"
	"cstyle/internal/nav"
	"cstyle/internal/syntax"
)

// ParenWhitespace removes whitespace around the opening parenthesis of
// parameter and argument lists.
type ParenWhitespace struct{ lint.TokenOnly }

const (
	parenSpaceBefore = 1
	parenSpaceAfter  = 2
)

const (
	msgSpaceBeforeParen = "Whitespace is not permitted before a parenthesis."
	msgSpaceAfterParen  = "Whitespace is not permitted after a parenthesis."
)

func (ParenWhitespace) Code() string { return "PAREN" }
func (ParenWhitespace) Name() string { return "Whitespace before / after Parenthesis" }

func (ParenWhitespace) Description() string {
	return "Ensures there are no whitespace tokens before or after parenthesis, for method declarations, invocations or type casts."
}

func (ParenWhitespace) SeverityMap() map[int]diag.Severity {
	return map[int]diag.Severity{
		parenSpaceBefore: diag.SevError,
		parenSpaceAfter:  diag.SevError,
	}
}

func (ParenWhitespace) NameMap() map[int]string {
	return map[int]string{
		parenSpaceBefore: "Whitespace not permitted before parenthesis",
		parenSpaceAfter:  "Whitespace not permitted after parenthesis",
	}
}

func parenthesizedList(parents syntax.Parents) bool {
	parent := parents.Last()
	switch {
	case parent.Is(syntax.ArgumentList):
		return true
	case parent.Is(syntax.ParameterList):
		// lambda parameter lists keep their own spacing
		return !parents.Pop().Last().Is(syntax.ParenthesizedLambda)
	}
	return false
}

func (p ParenWhitespace) AnalyzeToken(ctx *lint.Context, tok *syntax.Token, parents syntax.Parents) error {
	if tok.Text != "(" || !parenthesizedList(parents) {
		return nil
	}
	prev, err := nav.PreviousToken(tok, parents)
	if err != nil {
		return err
	}
	if prev != nil && prev.Span.End.Line < tok.Span.Start.Line {
		return p.wrapped(ctx, tok, parents, prev)
	}
	if prev != nil && prev.Span.End.Character < tok.Span.Start.Character {
		ws, err := nav.WhitespaceBefore(tok, parents, prev)
		if err != nil {
			return err
		}
		if ws.Text != "" {
			if err := ctx.RaiseAtOffset(parenSpaceBefore, ws.Offset, msgSpaceBeforeParen, ws.Text+tok.Text, tok.Text); err != nil {
				return err
			}
		}
	}
	return p.after(ctx, tok, parents)
}

// wrapped handles a '(' that starts a line: it is pulled back up behind the
// previous token and whatever follows it goes on the next line instead.
func (ParenWhitespace) wrapped(ctx *lint.Context, tok *syntax.Token, parents syntax.Parents, prev *syntax.Token) error {
	next, nextParents, err := nav.NextToken(tok, parents)
	if err != nil || next == nil {
		return err
	}
	open, err := nav.WhitespaceBefore(tok, parents, prev)
	if err != nil {
		return err
	}
	inner, err := nav.WhitespaceBefore(next, nextParents, tok)
	if err != nil {
		return err
	}
	// comments in between: report, but there is no text replacement
	if open.Offset != prev.End() || inner.Offset != tok.End() {
		return ctx.RaiseAtOffset(parenSpaceBefore, tok.SpanStart, msgSpaceBeforeParen, "", "")
	}

	original := open.Text + tok.Text + inner.Text + next.Text
	replacement := "()"
	if next.Text != ")" {
		want, err := ctx.Indent().Expected(next, nextParents, indent.ForToken)
		if err != nil {
			return err
		}
		replacement = tok.Text + "\n" + want + next.Text
	}
	return ctx.RaiseAtOffset(parenSpaceBefore, open.Offset, msgSpaceBeforeParen, original, replacement)
}

// after flags spaces between '(' and the next token on the same line.
func (ParenWhitespace) after(ctx *lint.Context, tok *syntax.Token, parents syntax.Parents) error {
	next, nextParents, err := nav.NextToken(tok, parents)
	if err != nil || next == nil {
		return err
	}
	if next.Span.Start.Line != tok.Span.End.Line {
		return nil
	}
	ws, err := nav.WhitespaceBefore(next, nextParents, tok)
	if err != nil {
		return err
	}
	if ws.Text == "" || ws.Offset != tok.End() {
		return nil
	}
	return ctx.RaiseAtOffset(parenSpaceAfter, ws.Offset, msgSpaceAfterParen, ws.Text, "")
}
