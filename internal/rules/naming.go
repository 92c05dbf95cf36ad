package rules

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cstyle/internal/diag"
	"cstyle/internal/lint"
	"cstyle/internal/symbols"
	"cstyle/internal/syntax"
)

// PrivateFieldNaming wants private fields spelled `_camelCase` at the
// declaration and at every reference the producer resolved.
type PrivateFieldNaming struct{ lint.NodeOnly }

const fieldMisnamed = 1

func (PrivateFieldNaming) Code() string { return "PNAME" }
func (PrivateFieldNaming) Name() string { return "Private Field Naming Conventions" }

func (PrivateFieldNaming) Description() string {
	return "Ensures that private field declarations and usages use the correct naming conventions."
}

func (PrivateFieldNaming) SeverityMap() map[int]diag.Severity {
	return map[int]diag.Severity{fieldMisnamed: diag.SevError}
}

func (PrivateFieldNaming) NameMap() map[int]string {
	return map[int]string{fieldMisnamed: "Private field is incorrectly named"}
}

// FixApplicability marks renames as heuristic: the new name may already be
// taken by a local or another member.
func (PrivateFieldNaming) FixApplicability(int) diag.FixApplicability {
	return diag.FixApplicabilitySafeWithHeuristics
}

func (PrivateFieldNaming) AnalyzeNode(ctx *lint.Context, n *syntax.Node, _ syntax.Parents) error {
	if !n.Is(syntax.CompilationUnit) {
		return nil
	}
	ix := ctx.Symbols().Get(ctx.Path(), n)
	for _, class := range ix.All() {
		for _, field := range class.FieldsWith(symbols.VisPrivate) {
			want := NormalizeFieldName(field.Name)
			if want == field.Name {
				continue
			}
			msg := fmt.Sprintf("This field is not named correctly.  A correctly formatted name would be '%s'", want)
			for _, ref := range field.References() {
				var err error
				if ref.Offset >= 0 {
					err = ctx.RaiseAtOffset(fieldMisnamed, ref.Offset, msg, field.Name, want)
				} else {
					err = ctx.RaiseAtLine(fieldMisnamed, ref.Span.Start, msg, field.Name, want)
				}
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// NormalizeFieldName returns the `_camelCase` spelling of a private field:
// one leading underscore, a lower-case first letter and no other underscores.
func NormalizeFieldName(name string) string {
	if name == "" {
		return name
	}
	if !strings.HasPrefix(name, "_") {
		name = "_" + name
	}
	rest := name[1:]
	if rest == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(rest)
	// Caser keeps state, one per call
	first := cases.Lower(language.Und).String(string(r))
	name = "_" + first + rest[size:]
	return "_" + strings.ReplaceAll(name, "_", "")
}
