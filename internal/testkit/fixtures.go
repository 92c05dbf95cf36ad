package testkit

import "cstyle/internal/syntax"

// Method describes `<ret> <name>(<params>)` followed by body parts.
// Params are ParameterSyntax parts already separated by commas and trivia.
func Method(ret, name string, params []Part, body ...Part) *NodePart {
	list := append([]Part{T("(")}, params...)
	list = append(list, T(")"))
	parts := []Part{
		N(syntax.PredefinedType, T(ret)),
		S(" "),
		TK("IdentifierToken", name),
		N(syntax.ParameterList, list...),
	}
	parts = append(parts, body...)
	return N(syntax.MethodDeclaration, parts...).Do(func(n *syntax.Node) {
		n.Identifier = identifierToken(n)
		n.ReturnType = n.Child(syntax.PredefinedType)
	})
}

// Param describes `<type> <name>`.
func Param(typ, name string) *NodePart {
	return N(syntax.Parameter,
		N(syntax.PredefinedType, T(typ)),
		S(" "),
		TK("IdentifierToken", name),
	)
}

// LocalDecl describes `<type> <name>=<value>;` with the given spacing around '='.
func LocalDecl(typ, name, space, value string) *NodePart {
	eq := []Part{}
	if space != "" {
		eq = append(eq, S(space))
	}
	eq = append(eq, T("="))
	if space != "" {
		eq = append(eq, S(space))
	}
	eq = append(eq, N("LiteralExpressionSyntax", TK("NumericLiteralToken", value)))
	return N(syntax.LocalDeclarationStatement,
		N(syntax.VariableDeclaration,
			N(syntax.PredefinedType, T(typ)),
			S(" "),
			N(syntax.VariableDeclarator,
				append([]Part{TK("IdentifierToken", name)}, N(syntax.EqualsValueClause, eq...))...,
			),
		),
		T(";"),
	)
}

// UnindentedMethod is `void M()\n{\nint x=1;\n}` as a compilation unit.
func UnindentedMethod() *NodePart {
	return N(syntax.CompilationUnit,
		Method("void", "M", nil,
			S("\n"),
			N(syntax.Block,
				T("{"),
				S("\n"),
				LocalDecl("int", "x", "", "1"),
				S("\n"),
				T("}"),
			),
		),
		S("\n"),
		EOF(),
	)
}

var memberKinds = []string{
	syntax.ClassDeclaration,
	syntax.StructDeclaration,
	syntax.FieldDeclaration,
	syntax.PropertyDeclaration,
	syntax.MethodDeclaration,
	syntax.ConstructorDeclaration,
}

func modifierParts(mods []string) []Part {
	var out []Part
	for _, m := range mods {
		out = append(out, TK(m+"Keyword", m), S(" "))
	}
	return out
}

func withModifiers(n *syntax.Node, mods []string) {
	n.Modifiers = append([]string(nil), mods...)
}

// TypeDecl describes `<mods> class|struct <name>\n{<body>}`. The body parts
// carry their own trivia; member nodes among them fill Members.
func TypeDecl(mods []string, keyword, name string, body ...Part) *NodePart {
	kind := syntax.ClassDeclaration
	if keyword == "struct" {
		kind = syntax.StructDeclaration
	}
	parts := modifierParts(mods)
	parts = append(parts, T(keyword), S(" "), TK("IdentifierToken", name), S("\n"), T("{"))
	parts = append(parts, body...)
	parts = append(parts, T("}"))
	return N(kind, parts...).Do(func(n *syntax.Node) {
		withModifiers(n, mods)
		n.Identifier = identifierToken(n)
		for _, c := range n.Children {
			if cn, ok := c.(*syntax.Node); ok && cn.Is(memberKinds...) {
				n.Members = append(n.Members, cn)
			}
		}
	})
}

// FieldDecl describes `<mods> <type> <name>[, <name>...];`.
func FieldDecl(mods []string, typ string, names ...string) *NodePart {
	decl := []Part{N(syntax.PredefinedType, T(typ)), S(" ")}
	for i, name := range names {
		if i > 0 {
			decl = append(decl, T(","), S(" "))
		}
		decl = append(decl, N(syntax.VariableDeclarator, TK("IdentifierToken", name)).Do(func(n *syntax.Node) {
			n.Identifier = identifierToken(n)
		}))
	}
	parts := modifierParts(mods)
	parts = append(parts,
		N(syntax.VariableDeclaration, decl...).Do(func(n *syntax.Node) {
			n.DeclarationType = n.Child(syntax.PredefinedType)
		}),
		T(";"),
	)
	return N(syntax.FieldDeclaration, parts...).Do(func(n *syntax.Node) {
		withModifiers(n, mods)
	})
}

// PropertyDecl describes `<mods> <type> <name> { get; }`.
func PropertyDecl(mods []string, typ, name string) *NodePart {
	parts := modifierParts(mods)
	parts = append(parts,
		N(syntax.PredefinedType, T(typ)), S(" "),
		TK("IdentifierToken", name), S(" "),
		N("AccessorListSyntax", T("{"), S(" "), T("get"), T(";"), S(" "), T("}")),
	)
	return N(syntax.PropertyDeclaration, parts...).Do(func(n *syntax.Node) {
		withModifiers(n, mods)
		n.Identifier = identifierToken(n)
		n.PropertyType = n.Child(syntax.PredefinedType)
	})
}

// ResolveFieldReferences stands in for the producer's symbol resolution: every
// field declarator gets the location of each identifier token spelled like it.
func ResolveFieldReferences(root *syntax.Node) {
	for _, field := range syntax.Descendants(root, syntax.FieldDeclaration) {
		for _, declarator := range syntax.Descendants(field, syntax.VariableDeclarator) {
			if declarator.Identifier == nil {
				continue
			}
			name := declarator.Identifier.Text
			declarator.References = nil
			for _, tok := range syntax.Tokens(root) {
				if tok.Kind == "IdentifierToken" && tok.Text == name {
					declarator.References = append(declarator.References, syntax.Location{
						Span:   tok.Span,
						Offset: tok.SpanStart,
					})
				}
			}
		}
	}
}

func identifierToken(n *syntax.Node) *syntax.Token {
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && t.Kind == "IdentifierToken" {
			return t
		}
	}
	return nil
}
