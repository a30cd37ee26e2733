// Package ast defines the syntax tree produced by the Jodin parser.
//
// The tree is a closed sum type: every node is one of the concrete structs in
// this package, identified by its Kind. Each node carries Metadata holding its
// source span and the tags (visibility, labels) attached during parsing.
package ast

import (
	"fmt"

	"github.com/jodin-lang/jodin/internal/position"
)

// NodeKind identifies the concrete type of a Node
type NodeKind int

const (
	KindIdentifier NodeKind = iota
	KindLiteral
	KindBinop
	KindUniop
	KindPostop
	KindTernary
	KindCast
	KindCall
	KindIndex
	KindGetMember
	KindConstructorCall
	KindSuper
	KindAssignment
	KindBlock
	KindIf
	KindSwitch
	KindCase
	KindWhile
	KindDoWhile
	KindFor
	KindBreak
	KindContinue
	KindReturnValue
	KindStoreVariable
	KindNamedValue
	KindFunctionDefinition
	KindFunctionSignature
	KindCompoundTypeDefinition
	KindImplementation
	KindEnumDefinition
	KindEnumVariant
	KindExternDeclaration
	KindInNamespace
	KindUsingIdentifier
	KindTopLevelDeclarations
	KindStructInitializer
	KindListInitializer
	KindRepeatedArrayInitializer
	KindEmpty
)

var nodeKindNames = map[NodeKind]string{
	KindIdentifier:               "Identifier",
	KindLiteral:                  "Literal",
	KindBinop:                    "Binop",
	KindUniop:                    "Uniop",
	KindPostop:                   "Postop",
	KindTernary:                  "Ternary",
	KindCast:                     "Cast",
	KindCall:                     "Call",
	KindIndex:                    "Index",
	KindGetMember:                "GetMember",
	KindConstructorCall:          "ConstructorCall",
	KindSuper:                    "Super",
	KindAssignment:               "Assignment",
	KindBlock:                    "Block",
	KindIf:                       "If",
	KindSwitch:                   "Switch",
	KindCase:                     "Case",
	KindWhile:                    "While",
	KindDoWhile:                  "DoWhile",
	KindFor:                      "For",
	KindBreak:                    "Break",
	KindContinue:                 "Continue",
	KindReturnValue:              "ReturnValue",
	KindStoreVariable:            "StoreVariable",
	KindNamedValue:               "NamedValue",
	KindFunctionDefinition:       "FunctionDefinition",
	KindFunctionSignature:        "FunctionSignature",
	KindCompoundTypeDefinition:   "CompoundTypeDefinition",
	KindImplementation:           "Implementation",
	KindEnumDefinition:           "EnumDefinition",
	KindEnumVariant:              "EnumVariant",
	KindExternDeclaration:        "ExternDeclaration",
	KindInNamespace:              "InNamespace",
	KindUsingIdentifier:          "UsingIdentifier",
	KindTopLevelDeclarations:     "TopLevelDeclarations",
	KindStructInitializer:        "StructInitializer",
	KindListInitializer:          "ListInitializer",
	KindRepeatedArrayInitializer: "RepeatedArrayInitializer",
	KindEmpty:                    "Empty",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() NodeKind
	GetSpan() position.Span
	Meta() *Metadata
	node()
}

// Metadata is embedded in every node.
type Metadata struct {
	Span position.Span
	Tags TagSet
}

func (m *Metadata) GetSpan() position.Span { return m.Span }
func (m *Metadata) Meta() *Metadata        { return m }
func (m *Metadata) node()                  {}

// ===== Expressions =====

// Ident is a (possibly qualified) name used as a value.
type Ident struct {
	Metadata
	Name Identifier
}

// Literal is a constant written in source.
type Literal struct {
	Metadata
	LitKind LiteralKind
	Raw     string      // source text, including quotes and suffix
	Value   interface{} // decoded value: int64/uint64, float64, rune, string or bool
	Suffix  string
	Type    LiteralType
}

// Binop is a binary operation.
type Binop struct {
	Metadata
	Op    Operator
	Left  Node
	Right Node
}

// Uniop is a prefix operation. OpMul dereferences and OpBitAnd takes an
// address.
type Uniop struct {
	Metadata
	Op      Operator
	Operand Node
}

// Postop is a postfix increment or decrement.
type Postop struct {
	Metadata
	Op      Operator
	Operand Node
}

// Ternary is `Cond ? Then : Else`.
type Ternary struct {
	Metadata
	Cond Node
	Then Node
	Else Node
}

// Cast converts Expr to Type.
type Cast struct {
	Metadata
	Expr Node
	Type *Type
}

// Call invokes Callee. Generics holds explicit type arguments, if any.
type Call struct {
	Metadata
	Callee   Node
	Generics []*Type
	Args     []Node
}

// Index is `Expr[Index]`.
type Index struct {
	Metadata
	Expr  Node
	Index Node
}

// GetMember is member access through `.` or `->`.
type GetMember struct {
	Metadata
	Expr   Node
	Member string
}

// ConstructorCall is `new Type(args)`.
type ConstructorCall struct {
	Metadata
	Type *Type
	Args []Node
}

// Super refers to the parent implementation.
type Super struct {
	Metadata
}

// FieldInit is one `.name = value` entry of a struct initializer.
type FieldInit struct {
	Name  string
	Value Node
}

// StructInitializer is `Name { .field = value, ... }`.
type StructInitializer struct {
	Metadata
	Name   Identifier
	Fields []FieldInit
}

// ListInitializer is `[v1, v2, ...]`.
type ListInitializer struct {
	Metadata
	Values []Node
}

// RepeatedArrayInitializer is `[value : count]`.
type RepeatedArrayInitializer struct {
	Metadata
	Value Node
	Count Node
}

// ===== Statements =====

// Assignment stores Value into Target. Op is OpNone for plain `=` and the
// underlying binary operator for compound assignments.
type Assignment struct {
	Metadata
	Op     Operator
	Target Node
	Value  Node
}

// Block is a braced statement list.
type Block struct {
	Metadata
	Statements []Node
}

// If is a conditional. Else is nil when there is no else branch.
type If struct {
	Metadata
	Cond Node
	Then Node
	Else Node
}

// Switch holds its body verbatim, including Case nodes.
type Switch struct {
	Metadata
	Value Node
	Body  []Node
}

// Case is a switch label followed by a statement. Value is nil for default.
type Case struct {
	Metadata
	Value Node
	Stmt  Node
}

type While struct {
	Metadata
	Cond Node
	Body Node
}

type DoWhile struct {
	Metadata
	Body Node
	Cond Node
}

// For is a C-style loop. Missing clauses are Empty nodes.
type For struct {
	Metadata
	Init  Node
	Cond  Node
	Delta Node
	Body  Node
}

// Break leaves a loop, optionally naming a labeled statement.
type Break struct {
	Metadata
	Label string
}

type Continue struct {
	Metadata
}

// ReturnValue returns from a function. Value is nil for a bare return.
type ReturnValue struct {
	Metadata
	Value Node
}

// Empty is a statement or clause with no content.
type Empty struct {
	Metadata
}

// ===== Declarations =====

// StoreVariable declares a variable. Type and Init are optional.
type StoreVariable struct {
	Metadata
	Storage StorageModifier
	Name    string
	Type    *Type
	Init    Node
}

// NamedValue is a typed name: a parameter or a field.
type NamedValue struct {
	Metadata
	Name string
	Type *Type
}

// FunctionDefinition is a function with a body. Return is nil for functions
// that declare no return type.
type FunctionDefinition struct {
	Metadata
	Name     string
	Generics []*GenericParameter
	Params   []*NamedValue
	Return   *Type
	Body     *Block
}

// FunctionSignature is a function declared without a body.
type FunctionSignature struct {
	Metadata
	Name     string
	Generics []*GenericParameter
	Params   []*NamedValue
	Return   *Type
}

// CompoundTypeDefinition is a struct, trait or class.
type CompoundTypeDefinition struct {
	Metadata
	Compound CompoundKind
	Name     string
	Generics []*GenericParameter
	Inherits []*Type
	Members  []Node
}

// Implementation is either a trait implementation block or a single
// function implemented for a type.
type Implementation struct {
	Metadata
	Form     ImplementationKind
	Generics []*GenericParameter
	Trait    *Type // trait form only
	Target   *Type
	Members  []Node              // trait form only
	Function *FunctionDefinition // function form only
}

type EnumDefinition struct {
	Metadata
	Name     string
	Variants []*EnumVariant
}

// EnumVariant has an optional explicit value.
type EnumVariant struct {
	Metadata
	Name  string
	Value Node
}

// ExternDeclaration wraps a StoreVariable or a FunctionSignature.
type ExternDeclaration struct {
	Metadata
	Decl Node
}

// InNamespace places its declarations inside a namespace.
type InNamespace struct {
	Metadata
	Namespace Identifier
	Decls     []Node
}

// UsingIdentifier imports names into scope.
type UsingIdentifier struct {
	Metadata
	Import *Import
}

// TopLevelDeclarations is the root of a parsed unit.
type TopLevelDeclarations struct {
	Metadata
	Decls []Node
}

func (*Ident) Kind() NodeKind                    { return KindIdentifier }
func (*Literal) Kind() NodeKind                  { return KindLiteral }
func (*Binop) Kind() NodeKind                    { return KindBinop }
func (*Uniop) Kind() NodeKind                    { return KindUniop }
func (*Postop) Kind() NodeKind                   { return KindPostop }
func (*Ternary) Kind() NodeKind                  { return KindTernary }
func (*Cast) Kind() NodeKind                     { return KindCast }
func (*Call) Kind() NodeKind                     { return KindCall }
func (*Index) Kind() NodeKind                    { return KindIndex }
func (*GetMember) Kind() NodeKind                { return KindGetMember }
func (*ConstructorCall) Kind() NodeKind          { return KindConstructorCall }
func (*Super) Kind() NodeKind                    { return KindSuper }
func (*StructInitializer) Kind() NodeKind        { return KindStructInitializer }
func (*ListInitializer) Kind() NodeKind          { return KindListInitializer }
func (*RepeatedArrayInitializer) Kind() NodeKind { return KindRepeatedArrayInitializer }
func (*Assignment) Kind() NodeKind               { return KindAssignment }
func (*Block) Kind() NodeKind                    { return KindBlock }
func (*If) Kind() NodeKind                       { return KindIf }
func (*Switch) Kind() NodeKind                   { return KindSwitch }
func (*Case) Kind() NodeKind                     { return KindCase }
func (*While) Kind() NodeKind                    { return KindWhile }
func (*DoWhile) Kind() NodeKind                  { return KindDoWhile }
func (*For) Kind() NodeKind                      { return KindFor }
func (*Break) Kind() NodeKind                    { return KindBreak }
func (*Continue) Kind() NodeKind                 { return KindContinue }
func (*ReturnValue) Kind() NodeKind              { return KindReturnValue }
func (*Empty) Kind() NodeKind                    { return KindEmpty }
func (*StoreVariable) Kind() NodeKind            { return KindStoreVariable }
func (*NamedValue) Kind() NodeKind               { return KindNamedValue }
func (*FunctionDefinition) Kind() NodeKind       { return KindFunctionDefinition }
func (*FunctionSignature) Kind() NodeKind        { return KindFunctionSignature }
func (*CompoundTypeDefinition) Kind() NodeKind   { return KindCompoundTypeDefinition }
func (*Implementation) Kind() NodeKind           { return KindImplementation }
func (*EnumDefinition) Kind() NodeKind           { return KindEnumDefinition }
func (*EnumVariant) Kind() NodeKind              { return KindEnumVariant }
func (*ExternDeclaration) Kind() NodeKind        { return KindExternDeclaration }
func (*InNamespace) Kind() NodeKind              { return KindInNamespace }
func (*UsingIdentifier) Kind() NodeKind          { return KindUsingIdentifier }
func (*TopLevelDeclarations) Kind() NodeKind     { return KindTopLevelDeclarations }

// StorageModifier is the storage class of a variable declaration.
type StorageModifier int

const (
	StorageLocal  StorageModifier = iota // let
	StorageConst                         // const
	StorageStatic                        // static
)

func (s StorageModifier) String() string {
	switch s {
	case StorageConst:
		return "const"
	case StorageStatic:
		return "static"
	}
	return "let"
}

// CompoundKind distinguishes the flavors of CompoundTypeDefinition.
type CompoundKind int

const (
	CompoundStructure CompoundKind = iota
	CompoundTrait
	CompoundClass
)

func (c CompoundKind) String() string {
	switch c {
	case CompoundTrait:
		return "trait"
	case CompoundClass:
		return "class"
	}
	return "struct"
}

// ImplementationKind distinguishes the two implement forms.
type ImplementationKind int

const (
	ImplementTrait ImplementationKind = iota
	ImplementFunction
)

func (k ImplementationKind) String() string {
	if k == ImplementFunction {
		return "function"
	}
	return "trait"
}

// Variance describes how a generic parameter is bounded.
type Variance int

const (
	Invariant     Variance = iota
	Covariant              // T: Upper
	Contravariant          // T super Lower
)

// GenericParameter is a declared type parameter with an optional bound.
type GenericParameter struct {
	Span     position.Span
	Name     string
	Variance Variance
	Bound    *Type
}

func (g *GenericParameter) String() string {
	switch g.Variance {
	case Covariant:
		return escapeName(g.Name) + ": " + g.Bound.String()
	case Contravariant:
		return escapeName(g.Name) + " super " + g.Bound.String()
	}
	return escapeName(g.Name)
}
