package ast

// Visitor is called by Walk for each node. If Visit returns a non-nil
// visitor w, Walk visits the children of node with w and then calls
// w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses the tree rooted at node depth-first in source order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, c := range Children(node) {
		Walk(v, c)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect calls f for every node in depth-first order. Children of a node
// are skipped when f returns false. After the children of a node have been
// visited, f is called with nil.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Children returns the direct children of n in source order. Expressions
// nested in types, such as array sizes, are included.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *Binop:
		add(n.Left, n.Right)
	case *Uniop:
		add(n.Operand)
	case *Postop:
		add(n.Operand)
	case *Ternary:
		add(n.Cond, n.Then, n.Else)
	case *Cast:
		add(n.Expr)
		add(typeChildren(n.Type)...)
	case *Call:
		add(n.Callee)
		for _, g := range n.Generics {
			add(typeChildren(g)...)
		}
		add(n.Args...)
	case *Index:
		add(n.Expr, n.Index)
	case *GetMember:
		add(n.Expr)
	case *ConstructorCall:
		add(typeChildren(n.Type)...)
		add(n.Args...)
	case *StructInitializer:
		for _, f := range n.Fields {
			add(f.Value)
		}
	case *ListInitializer:
		add(n.Values...)
	case *RepeatedArrayInitializer:
		add(n.Value, n.Count)
	case *Assignment:
		add(n.Target, n.Value)
	case *Block:
		add(n.Statements...)
	case *If:
		add(n.Cond, n.Then, n.Else)
	case *Switch:
		add(n.Value)
		add(n.Body...)
	case *Case:
		add(n.Value, n.Stmt)
	case *While:
		add(n.Cond, n.Body)
	case *DoWhile:
		add(n.Body, n.Cond)
	case *For:
		add(n.Init, n.Cond, n.Delta, n.Body)
	case *ReturnValue:
		add(n.Value)
	case *StoreVariable:
		add(typeChildren(n.Type)...)
		add(n.Init)
	case *NamedValue:
		add(typeChildren(n.Type)...)
	case *FunctionDefinition:
		for _, p := range n.Params {
			add(p)
		}
		add(typeChildren(n.Return)...)
		if n.Body != nil {
			add(n.Body)
		}
	case *FunctionSignature:
		for _, p := range n.Params {
			add(p)
		}
		add(typeChildren(n.Return)...)
	case *CompoundTypeDefinition:
		add(n.Members...)
	case *Implementation:
		if n.Function != nil {
			add(n.Function)
		}
		add(n.Members...)
	case *EnumDefinition:
		for _, v := range n.Variants {
			add(v)
		}
	case *EnumVariant:
		add(n.Value)
	case *ExternDeclaration:
		add(n.Decl)
	case *InNamespace:
		add(n.Decls...)
	case *TopLevelDeclarations:
		add(n.Decls...)
	}
	return out
}

// typeChildren returns the expressions embedded in t.
func typeChildren(t *Type) []Node {
	if t == nil {
		return nil
	}
	var out []Node
	for _, p := range t.Params {
		out = append(out, typeChildren(p)...)
	}
	out = append(out, typeChildren(t.Return)...)
	for _, g := range t.Generics {
		out = append(out, typeChildren(g)...)
	}
	for _, tail := range t.Tails {
		if tail.Size != nil {
			out = append(out, tail.Size)
		}
	}
	return out
}
