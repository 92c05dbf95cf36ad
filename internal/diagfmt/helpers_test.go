package diagfmt

import (
	"cstyle/internal/diag"
	"cstyle/internal/source"
)

// braceCase is "if (x) {\n}\n" with the BRACE1 diagnostic the policy raises on it.
func braceCase(path string) (*source.FileSet, *diag.Bag) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte("if (x) {\n}\n"))
	span := source.Span{File: id, Start: 6, End: 8}
	d := diag.New(diag.SevError, "BRACE1", span, "Opening brace should be on a new line").
		WithFixSuggestion(diag.ReplaceFix("Brace must be on newline", span, " {", "\n{"))
	bag := diag.NewBag(0)
	bag.Add(&d)
	return fs, bag
}
