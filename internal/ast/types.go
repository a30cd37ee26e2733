package ast

import (
	"strings"

	"github.com/jodin-lang/jodin/internal/position"
)

// PrimitiveKind enumerates the built-in types.
type PrimitiveKind int

const (
	PrimVoid PrimitiveKind = iota
	PrimBoolean
	PrimChar
	PrimByte
	PrimShort
	PrimInt
	PrimLong
	PrimFloat
	PrimDouble
	PrimUnsignedByte
	PrimUnsignedShort
	PrimUnsignedInt
	PrimUnsignedLong
)

var primitiveNames = [...]string{
	PrimVoid:          "void",
	PrimBoolean:       "boolean",
	PrimChar:          "char",
	PrimByte:          "byte",
	PrimShort:         "short",
	PrimInt:           "int",
	PrimLong:          "long",
	PrimFloat:         "float",
	PrimDouble:        "double",
	PrimUnsignedByte:  "unsigned byte",
	PrimUnsignedShort: "unsigned short",
	PrimUnsignedInt:   "unsigned int",
	PrimUnsignedLong:  "unsigned long",
}

func (p PrimitiveKind) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "unknown"
}

// Unsigned returns the unsigned counterpart of an integral primitive.
func (p PrimitiveKind) Unsigned() (PrimitiveKind, bool) {
	switch p {
	case PrimChar, PrimByte:
		return PrimUnsignedByte, true
	case PrimShort:
		return PrimUnsignedShort, true
	case PrimInt:
		return PrimUnsignedInt, true
	case PrimLong:
		return PrimUnsignedLong, true
	}
	return p, false
}

// TypeSpecKind says which specifier field of a Type is in use.
type TypeSpecKind int

const (
	SpecPrimitive TypeSpecKind = iota
	SpecNamed
	SpecFunction
)

// TailKind is a type suffix.
type TailKind int

const (
	TailPointer    TailKind = iota // T*
	TailArray                      // T[]
	TailSizedArray                 // T[size]
)

// TypeTail is one suffix applied to a type. Size is only set for sized
// arrays and is left unevaluated.
type TypeTail struct {
	Kind TailKind
	Size Node
}

// Type is a type as written in source, before any name resolution.
type Type struct {
	Span      position.Span
	Const     bool
	Spec      TypeSpecKind
	Primitive PrimitiveKind // SpecPrimitive
	Name      Identifier    // SpecNamed
	Params    []*Type       // SpecFunction
	Return    *Type         // SpecFunction, nil when absent
	Generics  []*Type
	Tails     []TypeTail
}

// NewPrimitiveType returns a bare primitive type.
func NewPrimitiveType(p PrimitiveKind) *Type {
	return &Type{Spec: SpecPrimitive, Primitive: p}
}

// NewNamedType returns a bare named type.
func NewNamedType(id Identifier) *Type {
	return &Type{Spec: SpecNamed, Name: id}
}

// IsBareName reports whether the type is a plain identifier with nothing
// attached, which is also a valid expression.
func (t *Type) IsBareName() bool {
	return !t.Const && t.Spec == SpecNamed && len(t.Generics) == 0 && len(t.Tails) == 0
}

// String renders the type in source syntax.
func (t *Type) String() string {
	if t == nil {
		return "void"
	}
	var b strings.Builder
	if t.Const {
		b.WriteString("const ")
	}
	switch t.Spec {
	case SpecPrimitive:
		b.WriteString(t.Primitive.String())
	case SpecNamed:
		b.WriteString(sourceIdent(t.Name))
	case SpecFunction:
		b.WriteString("fn(")
		b.WriteString(joinTypes(t.Params))
		b.WriteString(")")
		if t.Return != nil {
			b.WriteString(" -> ")
			b.WriteString(t.Return.String())
		}
	}
	if len(t.Generics) > 0 {
		b.WriteString("<")
		b.WriteString(joinTypes(t.Generics))
		b.WriteString(">")
	}
	for _, tail := range t.Tails {
		switch tail.Kind {
		case TailPointer:
			b.WriteString("*")
		case TailArray:
			b.WriteString("[]")
		case TailSizedArray:
			b.WriteString("[")
			b.WriteString(Format(tail.Size))
			b.WriteString("]")
		}
	}
	return b.String()
}

func joinTypes(types []*Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
