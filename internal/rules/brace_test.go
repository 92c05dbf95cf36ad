package rules_test

import (
	"testing"

	"cstyle/internal/syntax"
	"cstyle/internal/testkit"
)

const (
	ifStatement = "IfStatementSyntax"
	elseClause  = "ElseClauseSyntax"
)

func block(inner ...testkit.Part) *testkit.NodePart {
	return testkit.N(syntax.Block, append(append([]testkit.Part{testkit.T("{")}, inner...), testkit.T("}"))...)
}

func ifStatementWith(afterParen string, els ...testkit.Part) *testkit.NodePart {
	parts := []testkit.Part{
		testkit.T("if"), testkit.S(" "), testkit.T("("), testkit.N(syntax.IdentifierName, testkit.T("x")), testkit.T(")"),
		testkit.S(afterParen),
		block(testkit.S("\n")),
	}
	parts = append(parts, els...)
	return testkit.N(syntax.CompilationUnit, testkit.N(ifStatement, parts...), testkit.S("\n"), testkit.EOF())
}

func TestBracePlacement(t *testing.T) {
	tests := []struct {
		name string
		tree *testkit.NodePart
		want []violation
	}{
		{
			name: "brace on its own line",
			tree: ifStatementWith("\n"),
		},
		{
			name: "brace after condition",
			tree: ifStatementWith(" "),
			want: []violation{{code: "BRACE1", offset: 6, original: " {", replacement: "\n{"}},
		},
		{
			name: "else shares the closing line",
			// if (x)\n{\n} else {\n}
			tree: ifStatementWith("\n", testkit.S(" "), testkit.N(elseClause, testkit.T("else"), testkit.S(" "), block(testkit.S("\n")))),
			want: []violation{{code: "BRACE1", offset: 15, original: " {", replacement: "\n{"}},
		},
		{
			name: "block closed on the same line",
			tree: testkit.N(syntax.CompilationUnit,
				testkit.Method("void", "M", nil, testkit.S(" "), block(testkit.S(" "))),
				testkit.S("\n"),
				testkit.EOF(),
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := analyze(t, tt.tree, runOpts{})
			expectViolations(t, only(items, "BRACE"), tt.want)
		})
	}
}

func TestBraceReplacementUsesScopeIndentation(t *testing.T) {
	// void M()\n{\n    if (x) {\n    }\n}
	tree := testkit.N(syntax.CompilationUnit,
		testkit.Method("void", "M", nil,
			testkit.S("\n"),
			block(
				testkit.S("\n    "),
				testkit.N(ifStatement,
					testkit.T("if"), testkit.S(" "), testkit.T("("), testkit.N(syntax.IdentifierName, testkit.T("x")), testkit.T(")"),
					testkit.S(" "),
					block(testkit.S("\n    ")),
				),
				testkit.S("\n"),
			),
		),
		testkit.S("\n"),
		testkit.EOF(),
	)
	items := analyze(t, tree, runOpts{})
	expectViolations(t, only(items, "BRACE"), []violation{
		{code: "BRACE1", offset: 21, original: " {", replacement: "\n    {"},
	})
	if got := items[0].Message; got != "Opening braces must be placed on a newline when the closing brace is not on the same line." {
		t.Fatalf("message = %q", got)
	}
}
