package symbols_test

import (
	"sync"
	"testing"

	"cstyle/internal/symbols"
	"cstyle/internal/syntax"
	"cstyle/internal/testkit"
)

func sampleUnit() *testkit.NodePart {
	return testkit.N(syntax.CompilationUnit,
		testkit.N(syntax.NamespaceDeclaration,
			testkit.T("namespace"), testkit.S(" "), testkit.TK("IdentifierToken", "App"), testkit.S("\n"),
			testkit.T("{"), testkit.S("\n"),
			testkit.TypeDecl([]string{"public", "partial"}, "class", "Widget",
				testkit.S("\n    "),
				testkit.FieldDecl(nil, "int", "Count", "_size"),
				testkit.S("\n    "),
				testkit.FieldDecl([]string{"protected", "internal"}, "int", "shared"),
				testkit.S("\n    "),
				testkit.FieldDecl([]string{"internal", "protected"}, "int", "other"),
				testkit.S("\n    "),
				testkit.PropertyDecl([]string{"public"}, "int", "Size"),
				testkit.S("\n    "),
				testkit.Method("void", "Reset", nil, testkit.S(" "), testkit.N(syntax.Block, testkit.T("{"), testkit.T("}"))),
				testkit.S("\n    "),
				testkit.TypeDecl(nil, "struct", "Cell",
					testkit.S("\n    "),
					testkit.FieldDecl([]string{"public"}, "int", "Value"),
					testkit.S("\n    "),
				),
				testkit.S("\n"),
			),
			testkit.S("\n"),
			testkit.T("}"),
		),
		testkit.S("\n"),
		testkit.EOF(),
	)
}

func TestLoad(t *testing.T) {
	root, _ := testkit.MustBuild(sampleUnit())
	ix := symbols.Load("Widget.cs", root)

	if len(ix.Classes) != 1 {
		t.Fatalf("top-level classes = %d, want 1", len(ix.Classes))
	}
	w := ix.Classes[0]
	if w.Name != "Widget" || w.Kind != symbols.KindClass || w.Visibility != symbols.VisPublic || !w.Partial {
		t.Fatalf("class = %+v", w)
	}

	fields := make(map[string]symbols.Visibility)
	for _, f := range w.Fields {
		fields[f.Name] = f.Visibility
		if f.Type != "int" {
			t.Errorf("field %s type = %q", f.Name, f.Type)
		}
	}
	want := map[string]symbols.Visibility{
		"Count":  symbols.VisPrivate,
		"_size":  symbols.VisPrivate,
		"shared": symbols.VisProtectedInternal,
		"other":  symbols.VisProtectedInternal,
	}
	for name, vis := range want {
		if fields[name] != vis {
			t.Errorf("field %s visibility = %v, want %v", name, fields[name], vis)
		}
	}
	if len(w.FieldsWith(symbols.VisPrivate)) != 2 {
		t.Errorf("private fields = %d, want 2", len(w.FieldsWith(symbols.VisPrivate)))
	}

	if len(w.Properties) != 1 || w.Properties[0].Name != "Size" || w.Properties[0].Visibility != symbols.VisPublic {
		t.Errorf("properties = %+v", w.Properties)
	}
	if len(w.Methods) != 1 || w.Methods[0].ReturnType != "void" || w.Methods[0].Visibility != symbols.VisPrivate {
		t.Errorf("methods = %+v", w.Methods)
	}
	if len(w.Nested) != 1 || w.Nested[0].Kind != symbols.KindStruct || w.Nested[0].Visibility != symbols.VisPrivate {
		t.Fatalf("nested = %+v", w.Nested)
	}

	all := ix.All()
	if len(all) != 2 || all[1].Name != "Cell" {
		t.Fatalf("All() = %d classes", len(all))
	}
}

func TestTopLevelVisibilityDefaultsToInternal(t *testing.T) {
	root, _ := testkit.MustBuild(testkit.N(syntax.CompilationUnit,
		testkit.TypeDecl(nil, "class", "Hidden", testkit.S("\n")),
		testkit.EOF(),
	))
	ix := symbols.Load("Hidden.cs", root)
	if len(ix.Classes) != 1 || ix.Classes[0].Visibility != symbols.VisInternal {
		t.Fatalf("classes = %+v", ix.Classes)
	}
}

func TestFieldReferences(t *testing.T) {
	root, _ := testkit.MustBuild(sampleUnit())
	testkit.ResolveFieldReferences(root)
	ix := symbols.Load("Widget.cs", root)
	for _, f := range ix.Classes[0].Fields {
		if len(f.References()) != 1 {
			t.Errorf("field %s references = %d, want 1", f.Name, len(f.References()))
		}
	}
}

func TestCacheMemoizesPerPath(t *testing.T) {
	root, _ := testkit.MustBuild(sampleUnit())
	cache := symbols.NewCache()

	var wg sync.WaitGroup
	got := make([]*symbols.Index, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = cache.Get("Widget.cs", root)
		}()
	}
	wg.Wait()
	for _, ix := range got[1:] {
		if ix != got[0] {
			t.Fatal("concurrent Get returned different indexes for one path")
		}
	}
	if cache.Len() != 1 {
		t.Fatalf("Len = %d, want 1", cache.Len())
	}

	other := cache.Get("Other.cs", &syntax.Node{Kind: syntax.CompilationUnit})
	if other == got[0] || len(other.Classes) != 0 {
		t.Fatal("different paths must not share an index")
	}
	cache.Forget("Widget.cs")
	if cache.Len() != 1 {
		t.Fatalf("Len after Forget = %d, want 1", cache.Len())
	}
}
