package rules

import (
	"strings"

	"cstyle/internal/diag"
	"cstyle/internal/indent"
	"cstyle/internal/lint"
	"cstyle/internal/nav"
	"cstyle/internal/syntax"
)

// Indentation compares the indentation in front of every line-leading token
// and comment line with the depth computed by the indent machine.
type Indentation struct{ lint.TokenOnly }

const indentWrong = 1

func (Indentation) Code() string { return "INDENT" }
func (Indentation) Name() string { return "Indentation" }
func (Indentation) Description() string { return "Ensures that all code is indented properly." }

func (Indentation) SeverityMap() map[int]diag.Severity {
	return map[int]diag.Severity{indentWrong: diag.SevError}
}

func (Indentation) NameMap() map[int]string {
	return map[int]string{indentWrong: "Code is not indented correctly"}
}

func (p Indentation) AnalyzeToken(ctx *lint.Context, tok *syntax.Token, parents syntax.Parents) error {
	if err := p.token(ctx, tok, parents); err != nil {
		return err
	}
	for i, tr := range tok.Leading {
		if err := p.trivia(ctx, tok, parents, tr, i, true); err != nil {
			return err
		}
	}
	for i, tr := range tok.Trailing {
		if err := p.trivia(ctx, tok, parents, tr, i, false); err != nil {
			return err
		}
	}
	return nil
}

func (Indentation) token(ctx *lint.Context, tok *syntax.Token, parents syntax.Parents) error {
	ws, err := nav.WhitespaceBefore(tok, parents, nil)
	if err != nil {
		return err
	}
	current, ok := ws.Indentation()
	if !ok {
		return nil
	}
	want, err := ctx.Indent().Expected(tok, parents, indent.ForToken)
	if err != nil {
		return err
	}
	// only the width counts: a tab and a space are the same here
	if len(current) == len(want) {
		return nil
	}
	return ctx.RaiseAtOffset(indentWrong, tok.SpanStart-len(current),
		"This token is not indented correctly.", current, want)
}

func indentedComment(kind string) bool {
	switch kind {
	case syntax.SingleLineCommentTrivia,
		syntax.MultiLineCommentTrivia,
		syntax.SingleLineDocumentationCommentTrivia:
		return true
	}
	return false
}

// trivia checks every line of a comment, together with the whitespace in
// front of it, that starts after a line break.
func (Indentation) trivia(ctx *lint.Context, tok *syntax.Token, parents syntax.Parents, tr syntax.Trivia, idx int, leading bool) error {
	if !indentedComment(tr.Kind) {
		return nil
	}
	mode := indent.ForTrailingTrivia
	if leading {
		mode = indent.ForLeadingTrivia
	}
	want, err := ctx.Indent().Expected(tok, parents, mode)
	if err != nil {
		return err
	}
	ws, err := nav.WhitespaceBeforeTrivia(tok, parents, idx, leading)
	if err != nil {
		return err
	}
	combined := ws.Text + tr.Text
	firstBreak := strings.IndexByte(combined, '\n')
	if firstBreak < 0 {
		return nil
	}

	starAligned := ctx.Options().StarCommentAlignment
	offset := ws.Offset
	pos := 0
	for _, line := range strings.SplitAfter(combined, "\n") {
		if line == "" {
			break
		}
		start := pos
		pos += len(line)
		if strings.TrimSpace(line) == "" || start <= firstBreak {
			offset += len(line)
			continue
		}
		body := strings.TrimLeft(line, " \t")
		width := len(line) - len(body)
		// continuation lines of a block comment may line their '*' up under the opening '/*'
		if starAligned && width == len(want)+1 && tr.Kind == syntax.MultiLineCommentTrivia && strings.HasPrefix(body, "*") {
			offset += len(line)
			continue
		}
		if width != len(want) {
			if err := ctx.RaiseAtOffset(indentWrong, offset,
				"This trivia is not indented correctly.", line[:width], want); err != nil {
				return err
			}
		}
		offset += len(line)
	}
	return nil
}
