// Package symbols builds the class/struct/member index of a compilation unit
// from the denormalized fields the tree producer attaches to declarations.
package symbols

import (
	"cstyle/internal/syntax"
)

// Visibility is the effective accessibility of a declaration.
type Visibility uint8

const (
	VisPrivate Visibility = iota
	VisProtected
	VisInternal
	VisProtectedInternal
	VisPublic
)

func (v Visibility) String() string {
	switch v {
	case VisPrivate:
		return "private"
	case VisProtected:
		return "protected"
	case VisInternal:
		return "internal"
	case VisProtectedInternal:
		return "protected internal"
	case VisPublic:
		return "public"
	default:
		return "unknown"
	}
}

// ClassKind distinguishes classes from structs.
type ClassKind uint8

const (
	KindClass ClassKind = iota
	KindStruct
)

func (k ClassKind) String() string {
	if k == KindStruct {
		return "struct"
	}
	return "class"
}

// Class is a class or struct declaration.
type Class struct {
	Node       *syntax.Node
	Name       string
	Kind       ClassKind
	Visibility Visibility
	Partial    bool
	BaseTypes  []string
	Fields     []*Field
	Properties []*Property
	Methods    []*Method
	Nested     []*Class
}

// Field is one declarator of a field declaration: `int a, b;` yields two fields.
type Field struct {
	Member      *syntax.Node // FieldDeclaration
	Declaration *syntax.Node // VariableDeclaration
	Declarator  *syntax.Node // VariableDeclarator, carries References
	Name        string
	Type        string
	Visibility  Visibility
}

type Property struct {
	Node       *syntax.Node
	Name       string
	Type       string
	Visibility Visibility
}

type Method struct {
	Node       *syntax.Node
	Name       string
	ReturnType string
	Visibility Visibility
}

// FieldsWith returns the fields with the given visibility.
func (c *Class) FieldsWith(v Visibility) []*Field {
	var out []*Field
	for _, f := range c.Fields {
		if f.Visibility == v {
			out = append(out, f)
		}
	}
	return out
}

// References returns the reference sites recorded for the field by the producer.
func (f *Field) References() []syntax.Location {
	if f.Declarator == nil {
		return nil
	}
	return f.Declarator.References
}
