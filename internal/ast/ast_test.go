package ast

import (
	"errors"
	"testing"
)

func ident(segments ...string) *Ident {
	return &Ident{Name: NewIdentifier(segments...)}
}

func intLit(raw string) *Literal {
	return &Literal{LitKind: LitInt, Raw: raw}
}

func TestIdentifier(t *testing.T) {
	id, err := ParseIdentifier("shapes::Rectangle::new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Len() != 3 || id.Name() != "new" {
		t.Errorf("unexpected identifier %v", id.Segments())
	}
	if id.String() != "shapes::Rectangle::new" {
		t.Errorf("expected round trip, got %q", id.String())
	}
	if !id.Equal(NewIdentifier("shapes", "Rectangle", "new")) {
		t.Errorf("expected segment equality")
	}
	if id.Equal(NewIdentifier("shapes", "Rectangle")) {
		t.Errorf("identifiers of different length must differ")
	}

	for _, input := range []string{"", "a::::b", "::a"} {
		if _, err := ParseIdentifier(input); !errors.Is(err, ErrEmptyIdentifier) {
			t.Errorf("ParseIdentifier(%q): expected ErrEmptyIdentifier, got %v", input, err)
		}
	}

	defer func() {
		if recover() == nil {
			t.Errorf("NewIdentifier with no segments should panic")
		}
	}()
	NewIdentifier()
}

func TestTagSet(t *testing.T) {
	n := &Block{}

	if err := AddTag(n, VisibilityTag{Visibility: Public}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := AddTag(n, LabelTag{Label: "outer"}); err != nil {
		t.Fatalf("label should coexist with visibility: %v", err)
	}

	err := AddTag(n, VisibilityTag{Visibility: Private})
	if !errors.Is(err, ErrDuplicateTag) {
		t.Fatalf("expected ErrDuplicateTag, got %v", err)
	}

	vis, ok := n.Tags.Visibility()
	if !ok || vis != Public {
		t.Errorf("existing tag must not be overwritten, got %v", vis)
	}
	if label, _ := n.Tags.Label(); label != "outer" {
		t.Errorf("expected label outer, got %q", label)
	}
	if n.Tags.Len() != 2 {
		t.Errorf("expected 2 tags, got %d", n.Tags.Len())
	}
}

func TestNewLiteral(t *testing.T) {
	tests := []struct {
		name     string
		kind     LiteralKind
		raw      string
		value    interface{}
		litType  LiteralType
		wantKind LiteralKind
	}{
		{"decimal", LitInt, "42", int64(42), LiteralInt, LitInt},
		{"hex", LitInt, "0xFF", int64(255), LiteralInt, LitInt},
		{"hex full width", LitInt, "0xFFFFFFFF", int64(4294967295), LiteralInt, LitInt},
		{"unsigned", LitInt, "7u", uint64(7), LiteralUnsignedInt, LitInt},
		{"long", LitInt, "7L", int64(7), LiteralLong, LitInt},
		{"unsigned long", LitInt, "10ul", uint64(10), LiteralUnsignedLong, LitInt},
		{"double", LitFloat, "2.5", 2.5, LiteralDouble, LitFloat},
		{"float", LitFloat, "1.5f", 1.5, LiteralFloat, LitFloat},
		{"int with float suffix", LitInt, "3f", 3.0, LiteralFloat, LitFloat},
		{"exponent", LitFloat, "1e3", 1000.0, LiteralDouble, LitFloat},
		{"char", LitChar, "'a'", 'a', LiteralChar, LitChar},
		{"char escape", LitChar, `'\n'`, '\n', LiteralChar, LitChar},
		{"unicode escape", LitChar, `'\u0041'`, 'A', LiteralChar, LitChar},
		{"quote escape", LitChar, `'\''`, '\'', LiteralChar, LitChar},
		{"string", LitString, `"a\tb\\"`, "a\tb\\", LiteralString, LitString},
		{"exact string", LitString, `(*"a\nb"*)`, `a\nb`, LiteralString, LitString},
		{"bool", LitBool, "false", false, LiteralBoolean, LitBool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit, err := NewLiteral(tt.kind, tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if lit.Value != tt.value {
				t.Errorf("expected value %#v, got %#v", tt.value, lit.Value)
			}
			if lit.Type != tt.litType {
				t.Errorf("expected type %s, got %s", tt.litType, lit.Type)
			}
			if lit.LitKind != tt.wantKind {
				t.Errorf("expected kind %d, got %d", tt.wantKind, lit.LitKind)
			}
			if lit.Raw != tt.raw {
				t.Errorf("raw text must be kept, got %q", lit.Raw)
			}
		})
	}
}

func TestNewLiteralErrors(t *testing.T) {
	tests := []struct {
		name string
		kind LiteralKind
		raw  string
		want error
	}{
		{"int overflow", LitInt, "3000000000", ErrInvalidLiteral},
		{"long overflow", LitInt, "99999999999999999999L", ErrInvalidLiteral},
		{"unknown escape", LitChar, `'\q'`, ErrInvalidEscape},
		{"short unicode escape", LitString, `"\u12"`, ErrInvalidEscape},
		{"surrogate escape", LitChar, `'\uD800'`, ErrInvalidEscape},
		{"low surrogate in string", LitString, `"a\uDFFFb"`, ErrInvalidEscape},
		{"two chars", LitChar, "'ab'", ErrInvalidLiteral},
		{"bad float suffix", LitFloat, "1.5ul", ErrInvalidLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLiteral(tt.kind, tt.raw)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		name     string
		typ      *Type
		expected string
	}{
		{"primitive", NewPrimitiveType(PrimUnsignedLong), "unsigned long"},
		{
			"generic pointer array",
			&Type{
				Const:    true,
				Spec:     SpecNamed,
				Name:     NewIdentifier("std", "Vec"),
				Generics: []*Type{NewPrimitiveType(PrimInt)},
				Tails:    []TypeTail{{Kind: TailPointer}, {Kind: TailSizedArray, Size: intLit("4")}, {Kind: TailArray}},
			},
			"const std::Vec<int>*[4][]",
		},
		{
			"function shape",
			&Type{
				Spec:   SpecFunction,
				Params: []*Type{NewPrimitiveType(PrimInt), {Spec: SpecPrimitive, Primitive: PrimChar, Tails: []TypeTail{{Kind: TailPointer}}}},
				Return: NewPrimitiveType(PrimVoid),
			},
			"fn(int, char*) -> void",
		},
		{"escaped name", NewNamedType(NewIdentifier("class")), "@class"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}

	if !NewNamedType(NewIdentifier("T")).IsBareName() {
		t.Errorf("a plain name is a bare name")
	}
	if NewPrimitiveType(PrimInt).IsBareName() {
		t.Errorf("a primitive is not a bare name")
	}
}

func TestImportFlatten(t *testing.T) {
	imp := &Import{
		Path: NewIdentifier("a"),
		Children: []*Import{
			{Path: NewIdentifier("b")},
			{Path: NewIdentifier("c", "d"), Alias: "e"},
			{Path: NewIdentifier("f"), Wildcard: true},
		},
	}

	if imp.String() != "a::{b, c::d as e, f::*}" {
		t.Errorf("unexpected rendering %q", imp.String())
	}

	flat := imp.Flatten()
	expected := []struct {
		path     string
		local    string
		wildcard bool
	}{
		{"a::b", "b", false},
		{"a::c::d", "e", false},
		{"a::f", "f", true},
	}
	if len(flat) != len(expected) {
		t.Fatalf("expected %d names, got %d", len(expected), len(flat))
	}
	for i, e := range expected {
		if flat[i].Path.String() != e.path || flat[i].LocalName() != e.local || flat[i].Wildcard != e.wildcard {
			t.Errorf("name %d: got %s as %s (wildcard=%v)", i, flat[i].Path, flat[i].LocalName(), flat[i].Wildcard)
		}
	}
}

func sampleFunction() *FunctionDefinition {
	fn := &FunctionDefinition{
		Name: "add",
		Params: []*NamedValue{
			{Name: "a", Type: NewPrimitiveType(PrimInt)},
			{Name: "b", Type: NewPrimitiveType(PrimInt)},
		},
		Return: NewPrimitiveType(PrimInt),
		Body: &Block{Statements: []Node{
			&ReturnValue{Value: &Binop{Op: OpAdd, Left: ident("a"), Right: ident("b")}},
		}},
	}
	_ = AddTag(fn, VisibilityTag{Visibility: Public})
	return fn
}

func TestDump(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{"function", sampleFunction(), "(fn #public add ((a int) (b int)) int (block (return (+ a b))))"},
		{
			"store variable without type",
			&StoreVariable{Storage: StorageLocal, Name: "sum", Init: intLit("0")},
			"(let sum _ 0)",
		},
		{
			"call with generics",
			&Call{Callee: ident("make"), Generics: []*Type{NewPrimitiveType(PrimInt)}, Args: []Node{intLit("1")}},
			"(call make <int> 1)",
		},
		{
			"labeled loop",
			func() Node {
				w := &While{Cond: &Literal{LitKind: LitBool, Raw: "true"}, Body: &Block{Statements: []Node{&Break{Label: "outer"}}}}
				_ = AddTag(w, LabelTag{Label: "outer"})
				return w
			}(),
			"(while #label=outer true (block (break outer)))",
		},
		{
			"switch with default",
			&Switch{Value: ident("x"), Body: []Node{
				&Case{Value: intLit("1"), Stmt: &Break{}},
				&Case{Stmt: &Empty{}},
			}},
			"(switch x (case 1 (break)) (default (empty)))",
		},
		{
			"compound assignment",
			&Assignment{Op: OpShl, Target: ident("x"), Value: intLit("2")},
			"(<<= x 2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dump(tt.node); got != tt.expected {
				t.Errorf("expected %s\ngot      %s", tt.expected, got)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	expected := "public fn add(a: int, b: int) -> int {\n    return (a + b);\n}\n"
	if got := Format(sampleFunction()); got != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, got)
	}

	loop := &For{
		Init:  &Empty{},
		Cond:  &Empty{},
		Delta: &Empty{},
		Body:  &Block{Statements: []Node{&Continue{}}},
	}
	if got := Format(loop); got != "for (; ; ) {\n    continue;\n}\n" {
		t.Errorf("unexpected for loop rendering:\n%s", got)
	}

	deref := &Uniop{Op: OpMul, Operand: &Literal{LitKind: LitString, Raw: `"s"`}}
	if got := Format(deref); got != `(* "s")` {
		t.Errorf("dereference must not form an exact string opener, got %s", got)
	}

	if got := Format(ident("std", "int")); got != "std::@int" {
		t.Errorf("keywords in names must be escaped, got %s", got)
	}
}

func TestInspect(t *testing.T) {
	root := &TopLevelDeclarations{Decls: []Node{sampleFunction()}}

	var kinds []NodeKind
	Inspect(root, func(n Node) bool {
		if n != nil {
			kinds = append(kinds, n.Kind())
		}
		return true
	})

	expected := []NodeKind{
		KindTopLevelDeclarations, KindFunctionDefinition, KindNamedValue, KindNamedValue,
		KindBlock, KindReturnValue, KindBinop, KindIdentifier, KindIdentifier,
	}
	if len(kinds) != len(expected) {
		t.Fatalf("expected %d nodes, got %d: %v", len(expected), len(kinds), kinds)
	}
	for i := range expected {
		if kinds[i] != expected[i] {
			t.Errorf("node %d: expected %s, got %s", i, expected[i], kinds[i])
		}
	}

	count := 0
	Inspect(root, func(n Node) bool {
		if n == nil {
			return false
		}
		count++
		return n.Kind() != KindFunctionDefinition
	})
	if count != 2 {
		t.Errorf("returning false should prune children, visited %d", count)
	}
}
