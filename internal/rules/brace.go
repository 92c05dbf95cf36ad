package rules

import (
	"cstyle/internal/diag"
	"cstyle/internal/indent"
	"cstyle/internal/lint"
	"cstyle/internal/nav"
	"cstyle/internal/syntax"
)

// BracePlacement wants an opening brace on its own line unless the block
// closes on the line it opens.
type BracePlacement struct{ lint.TokenOnly }

const braceNotOnNewline = 1

func (BracePlacement) Code() string { return "BRACE" }
func (BracePlacement) Name() string { return "Brace Placement" }

func (BracePlacement) Description() string {
	return "Ensures braces are placed on a new line when starting a code or initializer block."
}

func (BracePlacement) SeverityMap() map[int]diag.Severity {
	return map[int]diag.Severity{braceNotOnNewline: diag.SevError}
}

func (BracePlacement) NameMap() map[int]string {
	return map[int]string{braceNotOnNewline: "Brace must be on newline"}
}

func (BracePlacement) AnalyzeToken(ctx *lint.Context, tok *syntax.Token, parents syntax.Parents) error {
	if tok.Text != "{" {
		return nil
	}
	siblings, err := nav.Siblings(tok, parents)
	if err != nil {
		return err
	}
	for _, el := range siblings {
		sib, ok := el.(*syntax.Token)
		if !ok {
			continue
		}
		if sib.Text == "{" {
			break
		}
		if sib.Text == "}" {
			if sib.Span.Start.Line == tok.Span.Start.Line {
				return nil
			}
			break
		}
	}

	prev, err := nav.PreviousToken(tok, parents)
	if err != nil || prev == nil {
		return err
	}
	if prev.Span.End.Line != tok.Span.Start.Line {
		return nil
	}
	ws, err := nav.WhitespaceBefore(tok, parents, prev)
	if err != nil {
		return err
	}
	want, err := ctx.Indent().Expected(tok, parents, indent.ForToken)
	if err != nil {
		return err
	}
	return ctx.RaiseAtOffset(braceNotOnNewline, ws.Offset,
		"Opening braces must be placed on a newline when the closing brace is not on the same line.",
		ws.Text+tok.Text, "\n"+want+tok.Text)
}
