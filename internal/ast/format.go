package ast

import (
	"strings"

	"github.com/jodin-lang/jodin/internal/lexer"
)

// Format renders n as Jodin source. Parsing the result yields a tree that
// dumps identically to n. Compound expressions are fully parenthesized.
func Format(n Node) string {
	if IsExpression(n) {
		return formatExpr(n)
	}
	p := &printer{}
	p.stmt(n)
	return p.b.String()
}

// IsExpression reports whether n is an expression node.
func IsExpression(n Node) bool {
	switch n.(type) {
	case *Ident, *Literal, *Binop, *Uniop, *Postop, *Ternary, *Cast, *Call,
		*Index, *GetMember, *ConstructorCall, *Super, *StructInitializer,
		*ListInitializer, *RepeatedArrayInitializer:
		return true
	}
	return false
}

// escapeName prefixes names that collide with keywords with `@`.
func escapeName(s string) string {
	if lexer.LookupIdent(s) != lexer.TokenIdentifier {
		return "@" + s
	}
	return s
}

func sourceIdent(id Identifier) string {
	parts := id.Segments()
	for i, s := range parts {
		parts[i] = escapeName(s)
	}
	return strings.Join(parts, "::")
}

func formatExprs(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = formatExpr(n)
	}
	return strings.Join(parts, ", ")
}

func formatExpr(n Node) string {
	switch n := n.(type) {
	case *Ident:
		return sourceIdent(n.Name)
	case *Literal:
		return n.Raw
	case *Super:
		return "super"
	case *Binop:
		return "(" + formatExpr(n.Left) + " " + n.Op.String() + " " + formatExpr(n.Right) + ")"
	case *Uniop:
		op := n.Op.String()
		if n.Op == OpMul {
			op += " "
		}
		return "(" + op + formatExpr(n.Operand) + ")"
	case *Postop:
		return "(" + formatExpr(n.Operand) + n.Op.String() + ")"
	case *Ternary:
		return "(" + formatExpr(n.Cond) + " ? " + formatExpr(n.Then) + " : " + formatExpr(n.Else) + ")"
	case *Cast:
		return "(" + formatExpr(n.Expr) + " as " + n.Type.String() + ")"
	case *Call:
		generics := ""
		if len(n.Generics) > 0 {
			generics = "<" + joinTypes(n.Generics) + ">"
		}
		return formatExpr(n.Callee) + generics + "(" + formatExprs(n.Args) + ")"
	case *Index:
		return formatExpr(n.Expr) + "[" + formatExpr(n.Index) + "]"
	case *GetMember:
		return formatExpr(n.Expr) + "." + escapeName(n.Member)
	case *ConstructorCall:
		return "new " + n.Type.String() + "(" + formatExprs(n.Args) + ")"
	case *StructInitializer:
		if len(n.Fields) == 0 {
			return sourceIdent(n.Name) + " {}"
		}
		parts := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			parts[i] = "." + escapeName(f.Name) + " = " + formatExpr(f.Value)
		}
		return sourceIdent(n.Name) + " { " + strings.Join(parts, ", ") + " }"
	case *ListInitializer:
		return "[" + formatExprs(n.Values) + "]"
	case *RepeatedArrayInitializer:
		return "[" + formatExpr(n.Value) + " : " + formatExpr(n.Count) + "]"
	}
	return ""
}

type printer struct {
	b      strings.Builder
	indent int
	prefix string // text placed before the next line's content
}

func (p *printer) line(s string) {
	p.b.WriteString(strings.Repeat("    ", p.indent))
	p.b.WriteString(p.prefix)
	p.b.WriteString(s)
	p.b.WriteString("\n")
	p.prefix = ""
}

// nested prints header followed by body, keeping a block on the header line.
func (p *printer) nested(header string, body Node) {
	if blk, ok := body.(*Block); ok && blk.Tags.Len() == 0 {
		p.line(header + " {")
		p.block(blk.Statements)
		p.line("}")
		return
	}
	p.line(header)
	p.indent++
	p.stmt(body)
	p.indent--
}

func (p *printer) block(stmts []Node) {
	p.indent++
	for _, s := range stmts {
		p.stmt(s)
	}
	p.indent--
}

func (p *printer) tags(n Node) {
	if label, ok := n.Meta().Tags.Label(); ok {
		p.prefix += escapeName(label) + ": "
	}
	if vis, ok := n.Meta().Tags.Visibility(); ok {
		p.prefix += vis.String() + " "
	}
}

func genericList(params []*GenericParameter) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, g := range params {
		parts[i] = g.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func paramList(params []*NamedValue) string {
	parts := make([]string, len(params))
	for i, v := range params {
		parts[i] = escapeName(v.Name) + ": " + v.Type.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func returnClause(t *Type) string {
	if t == nil {
		return ""
	}
	return " -> " + t.String()
}

func storeClause(n *StoreVariable) string {
	s := n.Storage.String() + " " + escapeName(n.Name)
	if n.Type != nil {
		s += ": " + n.Type.String()
	}
	if n.Init != nil {
		s += " = " + formatExpr(n.Init)
	}
	return s
}

// clause renders a for-loop clause without its terminator.
func clause(n Node) string {
	switch n := n.(type) {
	case *Empty:
		return ""
	case *StoreVariable:
		return storeClause(n)
	case *Assignment:
		return formatExpr(n.Target) + " " + n.Op.AssignSymbol() + " " + formatExpr(n.Value)
	}
	return formatExpr(n)
}

func signature(name string, generics []*GenericParameter, params []*NamedValue, ret *Type) string {
	return "fn " + escapeName(name) + genericList(generics) + paramList(params) + returnClause(ret)
}

func (p *printer) members(header string, members []Node) {
	p.line(header + " {")
	p.block(members)
	p.line("}")
}

func (p *printer) stmt(n Node) {
	p.tags(n)
	switch n := n.(type) {
	case *Assignment:
		p.line(clause(n) + ";")
	case *Block:
		p.line("{")
		p.block(n.Statements)
		p.line("}")
	case *If:
		p.nested("if ("+formatExpr(n.Cond)+")", n.Then)
		if n.Else != nil {
			p.nested("else", n.Else)
		}
	case *Switch:
		p.line("switch (" + formatExpr(n.Value) + ") {")
		p.block(n.Body)
		p.line("}")
	case *Case:
		if n.Value == nil {
			p.prefix += "default: "
		} else {
			p.prefix += "case " + formatExpr(n.Value) + ": "
		}
		p.stmt(n.Stmt)
	case *While:
		p.nested("while ("+formatExpr(n.Cond)+")", n.Body)
	case *DoWhile:
		p.nested("do", n.Body)
		p.line("while (" + formatExpr(n.Cond) + ");")
	case *For:
		p.nested("for ("+clause(n.Init)+"; "+clause(n.Cond)+"; "+clause(n.Delta)+")", n.Body)
	case *Break:
		if n.Label != "" {
			p.line("break " + escapeName(n.Label) + ";")
		} else {
			p.line("break;")
		}
	case *Continue:
		p.line("continue;")
	case *ReturnValue:
		if n.Value != nil {
			p.line("return " + formatExpr(n.Value) + ";")
		} else {
			p.line("return;")
		}
	case *Empty:
		p.line(";")
	case *StoreVariable:
		p.line(storeClause(n) + ";")
	case *NamedValue:
		p.line(escapeName(n.Name) + ": " + n.Type.String() + ";")
	case *FunctionDefinition:
		p.members(signature(n.Name, n.Generics, n.Params, n.Return), n.Body.Statements)
	case *FunctionSignature:
		p.line(signature(n.Name, n.Generics, n.Params, n.Return) + ";")
	case *CompoundTypeDefinition:
		header := n.Compound.String() + " " + escapeName(n.Name) + genericList(n.Generics)
		if len(n.Inherits) > 0 {
			header += ": " + joinTypes(n.Inherits)
		}
		p.members(header, n.Members)
	case *Implementation:
		prefix := ""
		if len(n.Generics) > 0 {
			prefix = "for" + genericList(n.Generics) + " "
		}
		if n.Form == ImplementFunction {
			f := n.Function
			header := prefix + "implement " + f.Return.String() + " " + escapeName(f.Name) +
				paramList(f.Params) + " for " + n.Target.String()
			p.members(header, f.Body.Statements)
		} else {
			p.members(prefix+"implement "+n.Trait.String()+" for "+n.Target.String(), n.Members)
		}
	case *EnumDefinition:
		parts := make([]string, len(n.Variants))
		for i, v := range n.Variants {
			parts[i] = escapeName(v.Name)
			if v.Value != nil {
				parts[i] += " = " + formatExpr(v.Value)
			}
		}
		p.line("enum " + escapeName(n.Name) + " { " + strings.Join(parts, ", ") + " }")
	case *ExternDeclaration:
		p.prefix += "extern "
		p.stmt(n.Decl)
	case *InNamespace:
		p.members("in "+sourceIdent(n.Namespace), n.Decls)
	case *UsingIdentifier:
		p.line("using " + n.Import.String() + ";")
	case *TopLevelDeclarations:
		for _, d := range n.Decls {
			p.stmt(d)
		}
	default:
		p.line(formatExpr(n) + ";")
	}
}
