package rules_test

import (
	"context"
	"strings"
	"testing"

	"cstyle/internal/diag"
	"cstyle/internal/lint"
	"cstyle/internal/rules"
	"cstyle/internal/source"
	"cstyle/internal/syntax"
	"cstyle/internal/testkit"
)

type violation struct {
	code        diag.Code
	offset      uint32
	original    string
	replacement string
}

type runOpts struct {
	bom  bool
	opts *lint.Options
	prep func(root *syntax.Node)
}

// analyze runs every built-in policy over tree and returns what was reported.
func analyze(t *testing.T, tree *testkit.NodePart, ro runOpts) []*diag.Diagnostic {
	t.Helper()
	root, src := testkit.MustBuild(tree)
	if ro.prep != nil {
		ro.prep(root)
	}
	content := []byte(src)
	if ro.bom {
		content = append(append([]byte(nil), source.BOM...), content...)
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual("Test.cs", content)

	policies := rules.Builtin()
	catalog, err := lint.NewCatalog(policies)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	var engineOpts []lint.EngineOption
	if ro.opts != nil {
		engineOpts = append(engineOpts, lint.WithOptions(*ro.opts))
	}
	engine := lint.NewEngine(policies, catalog, engineOpts...)

	bag := diag.NewBag(0)
	unit := lint.Unit{Files: fs, File: id, Forest: syntax.Forest{"Test.cs": root}}
	if err := engine.Analyze(context.Background(), unit, diag.BagReporter{Bag: bag}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return bag.Items()
}

// only keeps diagnostics whose code starts with prefix.
func only(items []*diag.Diagnostic, prefix string) []violation {
	var out []violation
	for _, d := range items {
		if !strings.HasPrefix(d.Code.String(), prefix) {
			continue
		}
		orig, repl, _ := d.Replacement()
		out = append(out, violation{code: d.Code, offset: d.Primary.Start, original: orig, replacement: repl})
	}
	return out
}

func expectViolations(t *testing.T, got, want []violation) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d violations %+v, want %d %+v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("violation %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
