package lint_test

import (
	"testing"

	"cstyle/internal/diag"
	"cstyle/internal/lint"
	"cstyle/internal/syntax"
)

type stubPolicy struct {
	code  string
	sevs  map[int]diag.Severity
	names map[int]string

	onNode  func(ctx *lint.Context, n *syntax.Node, parents syntax.Parents) error
	onToken func(ctx *lint.Context, tok *syntax.Token, parents syntax.Parents) error
}

func (p *stubPolicy) Code() string { return p.code }
func (p *stubPolicy) Name() string { return p.code + " policy" }
func (p *stubPolicy) Description() string { return "" }
func (p *stubPolicy) SeverityMap() map[int]diag.Severity { return p.sevs }
func (p *stubPolicy) NameMap() map[int]string { return p.names }

func (p *stubPolicy) AnalyzeNode(ctx *lint.Context, n *syntax.Node, parents syntax.Parents) error {
	if p.onNode == nil {
		return nil
	}
	return p.onNode(ctx, n, parents)
}

func (p *stubPolicy) AnalyzeToken(ctx *lint.Context, tok *syntax.Token, parents syntax.Parents) error {
	if p.onToken == nil {
		return nil
	}
	return p.onToken(ctx, tok, parents)
}

func newStub(code string) *stubPolicy {
	return &stubPolicy{
		code:  code,
		sevs:  map[int]diag.Severity{1: diag.SevError, 2: diag.SevWarning},
		names: map[int]string{1: code + " one", 2: code + " two"},
	}
}

func TestCatalogEntries(t *testing.T) {
	cat, err := lint.NewCatalog([]lint.Policy{newStub("AAA"), newStub("BBB")})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	var codes []diag.Code
	for _, e := range cat.Entries() {
		codes = append(codes, e.Code)
	}
	want := []diag.Code{"AAA1", "AAA2", "BBB1", "BBB2", diag.CodeBOM}
	if len(codes) != len(want) {
		t.Fatalf("entries = %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("entries = %v, want %v", codes, want)
		}
	}
	if got := cat.Name("BBB2"); got != "BBB two" {
		t.Fatalf("Name(BBB2) = %q", got)
	}
	if got := cat.Name(diag.CodeBOM); got != lint.BOMName {
		t.Fatalf("Name(BOM) = %q", got)
	}
	if got := cat.Severity("ZZZ9"); got != diag.SevError {
		t.Fatalf("unknown code severity = %v, want error", got)
	}
	if p, ok := cat.Policy("AAA"); !ok || p.Code() != "AAA" {
		t.Fatal("Policy(AAA) not found")
	}
}

func TestCatalogRejectsDuplicateCodes(t *testing.T) {
	if _, err := lint.NewCatalog([]lint.Policy{newStub("AAA"), newStub("AAA")}); err == nil {
		t.Fatal("expected an error for a duplicate policy code")
	}
}

func TestCatalogOverride(t *testing.T) {
	cat, err := lint.NewCatalog([]lint.Policy{newStub("AAA"), newStub("BBB")})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if err := cat.Override("AAA2", diag.SevInfo); err != nil {
		t.Fatalf("Override(AAA2): %v", err)
	}
	if err := cat.Override("BBB", diag.SevDisabled); err != nil {
		t.Fatalf("Override(BBB): %v", err)
	}
	if err := cat.Override("CCC", diag.SevInfo); err == nil {
		t.Fatal("Override of an unknown code succeeded")
	}

	tests := []struct {
		code diag.Code
		want diag.Severity
	}{
		{"AAA1", diag.SevError},
		{"AAA2", diag.SevInfo},
		{"BBB1", diag.SevDisabled},
		{"BBB2", diag.SevDisabled},
		{diag.CodeBOM, diag.SevError},
	}
	for _, tt := range tests {
		if got := cat.Severity(tt.code); got != tt.want {
			t.Errorf("Severity(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
