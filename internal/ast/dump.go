package ast

import (
	"strings"
)

// Dump renders n as an S-expression. Tags follow the head symbol as
// `#public` or `#label=name`; absent optional parts are written as `_`.
func Dump(n Node) string {
	var d dumper
	d.node(n)
	return d.b.String()
}

type dumper struct {
	b strings.Builder
}

func (d *dumper) open(head string, n Node) {
	d.b.WriteString("(")
	d.b.WriteString(head)
	for _, t := range n.Meta().Tags.All() {
		d.b.WriteString(" #")
		d.b.WriteString(t.String())
	}
}

func (d *dumper) close() { d.b.WriteString(")") }

func (d *dumper) atom(s string) {
	d.b.WriteString(" ")
	d.b.WriteString(s)
}

func (d *dumper) child(n Node) {
	d.b.WriteString(" ")
	d.node(n)
}

func (d *dumper) optional(n Node) {
	if n == nil {
		d.atom("_")
		return
	}
	d.child(n)
}

func (d *dumper) children(nodes []Node) {
	for _, c := range nodes {
		d.child(c)
	}
}

func (d *dumper) typ(t *Type) {
	if t == nil {
		d.atom("_")
		return
	}
	d.atom(t.String())
}

func (d *dumper) generics(params []*GenericParameter) {
	if len(params) == 0 {
		return
	}
	parts := make([]string, len(params))
	for i, g := range params {
		parts[i] = g.String()
	}
	d.atom("<" + strings.Join(parts, ", ") + ">")
}

func (d *dumper) params(params []*NamedValue) {
	d.b.WriteString(" (")
	for i, p := range params {
		if i > 0 {
			d.b.WriteString(" ")
		}
		d.node(p)
	}
	d.b.WriteString(")")
}

func (d *dumper) node(n Node) {
	switch n := n.(type) {
	case nil:
		d.b.WriteString("_")
	case *Ident:
		d.leaf(n, n.Name.String())
	case *Literal:
		d.leaf(n, n.Raw)
	case *Super:
		d.leaf(n, "super")
	case *Binop:
		d.open(n.Op.String(), n)
		d.child(n.Left)
		d.child(n.Right)
		d.close()
	case *Uniop:
		d.open("unary", n)
		d.atom(n.Op.String())
		d.child(n.Operand)
		d.close()
	case *Postop:
		d.open("postfix", n)
		d.atom(n.Op.String())
		d.child(n.Operand)
		d.close()
	case *Ternary:
		d.open("?:", n)
		d.child(n.Cond)
		d.child(n.Then)
		d.child(n.Else)
		d.close()
	case *Cast:
		d.open("cast", n)
		d.child(n.Expr)
		d.typ(n.Type)
		d.close()
	case *Call:
		d.open("call", n)
		d.child(n.Callee)
		if len(n.Generics) > 0 {
			d.atom("<" + joinTypes(n.Generics) + ">")
		}
		d.children(n.Args)
		d.close()
	case *Index:
		d.open("index", n)
		d.child(n.Expr)
		d.child(n.Index)
		d.close()
	case *GetMember:
		d.open(".", n)
		d.child(n.Expr)
		d.atom(n.Member)
		d.close()
	case *ConstructorCall:
		d.open("new", n)
		d.typ(n.Type)
		d.children(n.Args)
		d.close()
	case *StructInitializer:
		d.open("struct-init", n)
		d.atom(n.Name.String())
		for _, f := range n.Fields {
			d.b.WriteString(" (")
			d.b.WriteString(f.Name)
			d.child(f.Value)
			d.b.WriteString(")")
		}
		d.close()
	case *ListInitializer:
		d.open("list", n)
		d.children(n.Values)
		d.close()
	case *RepeatedArrayInitializer:
		d.open("repeat", n)
		d.child(n.Value)
		d.child(n.Count)
		d.close()
	case *Assignment:
		d.open(n.Op.AssignSymbol(), n)
		d.child(n.Target)
		d.child(n.Value)
		d.close()
	case *Block:
		d.open("block", n)
		d.children(n.Statements)
		d.close()
	case *If:
		d.open("if", n)
		d.child(n.Cond)
		d.child(n.Then)
		if n.Else != nil {
			d.child(n.Else)
		}
		d.close()
	case *Switch:
		d.open("switch", n)
		d.child(n.Value)
		d.children(n.Body)
		d.close()
	case *Case:
		if n.Value == nil {
			d.open("default", n)
		} else {
			d.open("case", n)
			d.child(n.Value)
		}
		d.child(n.Stmt)
		d.close()
	case *While:
		d.open("while", n)
		d.child(n.Cond)
		d.child(n.Body)
		d.close()
	case *DoWhile:
		d.open("do", n)
		d.child(n.Body)
		d.child(n.Cond)
		d.close()
	case *For:
		d.open("for", n)
		d.child(n.Init)
		d.child(n.Cond)
		d.child(n.Delta)
		d.child(n.Body)
		d.close()
	case *Break:
		d.open("break", n)
		if n.Label != "" {
			d.atom(n.Label)
		}
		d.close()
	case *Continue:
		d.open("continue", n)
		d.close()
	case *ReturnValue:
		d.open("return", n)
		if n.Value != nil {
			d.child(n.Value)
		}
		d.close()
	case *Empty:
		d.open("empty", n)
		d.close()
	case *StoreVariable:
		d.open(n.Storage.String(), n)
		d.atom(n.Name)
		d.typ(n.Type)
		d.optional(n.Init)
		d.close()
	case *NamedValue:
		d.open(n.Name, n)
		d.typ(n.Type)
		d.close()
	case *FunctionDefinition:
		d.open("fn", n)
		d.atom(n.Name)
		d.generics(n.Generics)
		d.params(n.Params)
		d.typ(n.Return)
		d.child(n.Body)
		d.close()
	case *FunctionSignature:
		d.open("fn-sig", n)
		d.atom(n.Name)
		d.generics(n.Generics)
		d.params(n.Params)
		d.typ(n.Return)
		d.close()
	case *CompoundTypeDefinition:
		d.open(n.Compound.String(), n)
		d.atom(n.Name)
		d.generics(n.Generics)
		if len(n.Inherits) > 0 {
			d.atom("(: " + joinTypes(n.Inherits) + ")")
		}
		d.children(n.Members)
		d.close()
	case *Implementation:
		if n.Form == ImplementFunction {
			d.open("implement-fn", n)
			d.generics(n.Generics)
			d.typ(n.Target)
			d.child(n.Function)
		} else {
			d.open("implement", n)
			d.generics(n.Generics)
			d.typ(n.Trait)
			d.atom("for")
			d.typ(n.Target)
			d.children(n.Members)
		}
		d.close()
	case *EnumDefinition:
		d.open("enum", n)
		d.atom(n.Name)
		for _, v := range n.Variants {
			d.child(v)
		}
		d.close()
	case *EnumVariant:
		d.open(n.Name, n)
		if n.Value != nil {
			d.child(n.Value)
		}
		d.close()
	case *ExternDeclaration:
		d.open("extern", n)
		d.child(n.Decl)
		d.close()
	case *InNamespace:
		d.open("in", n)
		d.atom(n.Namespace.String())
		d.children(n.Decls)
		d.close()
	case *UsingIdentifier:
		d.open("using", n)
		d.atom(n.Import.String())
		d.close()
	case *TopLevelDeclarations:
		d.open("top", n)
		d.children(n.Decls)
		d.close()
	}
}

// leaf writes an atom, wrapping it when the node carries tags.
func (d *dumper) leaf(n Node, text string) {
	if n.Meta().Tags.Len() == 0 {
		d.b.WriteString(text)
		return
	}
	d.open("tagged", n)
	d.atom(text)
	d.close()
}
