package symbols

import (
	"cstyle/internal/syntax"
)

// Index is the class index of one file.
type Index struct {
	Path    string
	Classes []*Class // top-level declarations, nested ones hang off Class.Nested
}

// All returns every class of the index in declaration order, nested ones
// right after their container.
func (ix *Index) All() []*Class {
	var out []*Class
	var visit func(cs []*Class)
	visit = func(cs []*Class) {
		for _, c := range cs {
			out = append(out, c)
			visit(c.Nested)
		}
	}
	visit(ix.Classes)
	return out
}

// Load builds the index of a compilation unit. Classes are found at any depth
// outside other classes (namespaces included); classes inside classes come
// from their container's member list.
func Load(path string, root *syntax.Node) *Index {
	ix := &Index{Path: path}
	if root == nil {
		return ix
	}
	syntax.Walk(root, func(el syntax.Element, _ syntax.Parents) bool {
		n, ok := el.(*syntax.Node)
		if !ok {
			return false
		}
		if n.Is(syntax.ClassDeclaration, syntax.StructDeclaration) {
			ix.Classes = append(ix.Classes, loadClass(n, topLevelVisibility(n)))
			return false
		}
		return true
	})
	return ix
}

func loadClass(n *syntax.Node, vis Visibility) *Class {
	c := &Class{
		Node:       n,
		Name:       identifierName(n),
		Kind:       KindClass,
		Visibility: vis,
		Partial:    n.HasModifier("partial"),
	}
	if n.Is(syntax.StructDeclaration) {
		c.Kind = KindStruct
	}
	for _, bt := range n.BaseTypes {
		c.BaseTypes = append(c.BaseTypes, bt.TrimmedText)
	}

	for _, m := range n.Members {
		switch m.Kind {
		case syntax.ClassDeclaration, syntax.StructDeclaration:
			c.Nested = append(c.Nested, loadClass(m, memberVisibility(m)))
		case syntax.MethodDeclaration:
			c.Methods = append(c.Methods, &Method{
				Node:       m,
				Name:       identifierName(m),
				ReturnType: trimmed(m.ReturnType),
				Visibility: memberVisibility(m),
			})
		case syntax.PropertyDeclaration:
			c.Properties = append(c.Properties, &Property{
				Node:       m,
				Name:       identifierName(m),
				Type:       trimmed(m.PropertyType),
				Visibility: memberVisibility(m),
			})
		case syntax.FieldDeclaration:
			c.Fields = append(c.Fields, loadFields(m)...)
		}
	}
	return c
}

func loadFields(member *syntax.Node) []*Field {
	vis := memberVisibility(member)
	var out []*Field
	for _, decl := range member.ChildNodes(syntax.VariableDeclaration) {
		for _, declarator := range decl.ChildNodes(syntax.VariableDeclarator) {
			out = append(out, &Field{
				Member:      member,
				Declaration: decl,
				Declarator:  declarator,
				Name:        identifierName(declarator),
				Type:        trimmed(decl.DeclarationType),
				Visibility:  vis,
			})
		}
	}
	return out
}

// topLevelVisibility: internal unless marked public.
func topLevelVisibility(n *syntax.Node) Visibility {
	vis := VisInternal
	for _, m := range n.Modifiers {
		switch m {
		case "public":
			vis = VisPublic
		case "internal":
			vis = VisInternal
		}
	}
	return vis
}

// memberVisibility: private by default; protected and internal combine in
// either order.
func memberVisibility(n *syntax.Node) Visibility {
	vis := VisPrivate
	for _, m := range n.Modifiers {
		switch m {
		case "public":
			vis = VisPublic
		case "private":
			vis = VisPrivate
		case "protected":
			if vis == VisInternal {
				vis = VisProtectedInternal
			} else {
				vis = VisProtected
			}
		case "internal":
			if vis == VisProtected {
				vis = VisProtectedInternal
			} else {
				vis = VisInternal
			}
		}
	}
	return vis
}

func identifierName(n *syntax.Node) string {
	if n.Identifier == nil {
		return ""
	}
	if n.Identifier.TrimmedText != "" {
		return n.Identifier.TrimmedText
	}
	return n.Identifier.Text
}

func trimmed(n *syntax.Node) string {
	if n == nil {
		return ""
	}
	return n.TrimmedText
}
