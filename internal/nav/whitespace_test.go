package nav_test

import (
	"testing"

	"cstyle/internal/nav"
	"cstyle/internal/syntax"
	"cstyle/internal/testkit"
)

// "{\n    // note\n    foo;}" with `foo;` as an expression statement.
func commentedBlock() *testkit.NodePart {
	return testkit.N(syntax.CompilationUnit,
		testkit.N(syntax.Block,
			testkit.T("{"),
			testkit.S("\n    // note\n    "),
			testkit.N(syntax.ExpressionStatement,
				testkit.N(syntax.IdentifierName, testkit.T("foo")),
				testkit.T(";"),
			),
			testkit.S(" // tail\n"),
			testkit.T("}"),
		),
		testkit.EOF(),
	)
}

func TestWhitespaceBefore(t *testing.T) {
	tests := []struct {
		name       string
		tree       *testkit.NodePart
		token      string
		wantText   string
		wantOffset int
	}{
		{"merges trailing line break of previous token", testkit.UnindentedMethod(), "{", "\n", 8},
		{"statement after brace", testkit.UnindentedMethod(), "int", "\n", 10},
		{"same line space", testkit.UnindentedMethod(), "M", " ", 4},
		{"no whitespace", testkit.UnindentedMethod(), "(", "", 6},
		{"comment stops the run", commentedBlock(), "foo", "\n    ", 13},
		{"trailing comment stops the run", commentedBlock(), "}", "\n", 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _ := testkit.MustBuild(tt.tree)
			tok, parents := testkit.FindToken(root, tt.token, 0)
			ws, err := nav.WhitespaceBefore(tok, parents, nil)
			if err != nil {
				t.Fatalf("WhitespaceBefore: %v", err)
			}
			if ws.Text != tt.wantText || ws.Offset != tt.wantOffset {
				t.Fatalf("WhitespaceBefore(%q) = (%q, %d), want (%q, %d)",
					tt.token, ws.Text, ws.Offset, tt.wantText, tt.wantOffset)
			}
		})
	}
}

func TestWhitespaceBeforeUsesGivenPrevious(t *testing.T) {
	root, _ := testkit.MustBuild(testkit.UnindentedMethod())
	open, parents := testkit.FindToken(root, "{", 0)
	closer, _ := testkit.FindToken(root, ")", 0)

	ws, err := nav.WhitespaceBefore(open, parents, closer)
	if err != nil {
		t.Fatalf("WhitespaceBefore: %v", err)
	}
	if ws.Text != "\n" {
		t.Fatalf("Text = %q, want newline", ws.Text)
	}
	indent, ok := ws.Indentation()
	if !ok || indent != "" {
		t.Fatalf("Indentation = (%q, %v), want empty after newline", indent, ok)
	}
}

func TestWhitespaceBeforeTrivia(t *testing.T) {
	root, _ := testkit.MustBuild(commentedBlock())

	foo, parents := testkit.FindToken(root, "foo", 0)
	ws, err := nav.WhitespaceBeforeTrivia(foo, parents, 1, true)
	if err != nil {
		t.Fatalf("WhitespaceBeforeTrivia: %v", err)
	}
	if ws.Text != "\n    " || ws.Offset != 1 {
		t.Fatalf("leading = (%q, %d), want (%q, 1)", ws.Text, ws.Offset, "\n    ")
	}

	semi, parents := testkit.FindToken(root, ";", 0)
	if semi.Trailing[1].Kind != syntax.SingleLineCommentTrivia {
		t.Fatalf("unexpected trailing trivia layout: %+v", semi.Trailing)
	}
	ws, err = nav.WhitespaceBeforeTrivia(semi, parents, 1, false)
	if err != nil {
		t.Fatalf("WhitespaceBeforeTrivia: %v", err)
	}
	if ws.Text != " " || ws.Offset != 22 {
		t.Fatalf("trailing = (%q, %d), want (\" \", 22)", ws.Text, ws.Offset)
	}
	if ws.HasNewline() {
		t.Fatal("trailing run should not cross a line break")
	}
}
