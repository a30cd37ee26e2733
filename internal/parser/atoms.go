package parser

import (
	"github.com/jodin-lang/jodin/internal/ast"
	"github.com/jodin-lang/jodin/internal/lexer"
	"github.com/jodin-lang/jodin/internal/position"
)

var literalTokens = map[lexer.TokenType]ast.LiteralKind{
	lexer.TokenInteger: ast.LitInt,
	lexer.TokenFloat:   ast.LitFloat,
	lexer.TokenChar:    ast.LitChar,
	lexer.TokenString:  ast.LitString,
	lexer.TokenBool:    ast.LitBool,
}

// parseAtom parses a primary expression without postfix operators.
func (p *Parser) parseAtom() (ast.Node, error) {
	tok := p.cur()
	start := tok.Span.Start

	if kind, ok := literalTokens[tok.Type]; ok {
		p.advance()
		lit, err := ast.NewLiteral(kind, tok.Literal)
		if err != nil {
			return nil, p.literalError(tok, err)
		}
		lit.Span = tok.Span
		return lit, nil
	}

	switch tok.Type {
	case lexer.TokenIdentifier:
		id, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		if p.at(lexer.TokenLBrace) && p.peek(1).Is(lexer.TokenDot, lexer.TokenRBrace) {
			return p.parseStructInitializer(id, start)
		}
		n := &ast.Ident{Name: id}
		n.Span = p.span(start)
		return n, nil
	case lexer.TokenSuper:
		p.advance()
		n := &ast.Super{}
		n.Span = tok.Span
		return n, nil
	case lexer.TokenNew:
		return p.parseConstructorCall()
	case lexer.TokenLBracket:
		return p.parseArrayInitializer()
	case lexer.TokenLParen:
		return p.parseParenthesized()
	}
	return nil, p.unexpected("expression")
}

// parsePostfix applies calls, generic calls, member access, indexing and
// postfix increments to atom until none match.
func (p *Parser) parsePostfix(atom ast.Node, start position.Position) (ast.Node, error) {
	for {
		switch p.cur().Type {
		case lexer.TokenLParen:
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			n := &ast.Call{Callee: atom, Args: args}
			n.Span = p.span(start)
			atom = n
		case lexer.TokenLt:
			if !isGenericCallee(atom) {
				return atom, nil
			}
			call, ok, err := p.tryGenericCall(atom, start)
			if err != nil {
				return nil, err
			}
			if !ok {
				return atom, nil
			}
			atom = call
		case lexer.TokenDot, lexer.TokenArrow:
			p.advance()
			member := p.cur()
			if !member.Is(lexer.TokenIdentifier, lexer.TokenNew) {
				return nil, p.unexpected("member name")
			}
			p.advance()
			n := &ast.GetMember{Expr: atom, Member: member.Literal}
			n.Span = p.span(start)
			atom = n
		case lexer.TokenLBracket:
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenRBracket, quote("]")); err != nil {
				return nil, err
			}
			n := &ast.Index{Expr: atom, Index: index}
			n.Span = p.span(start)
			atom = n
		case lexer.TokenIncrement, lexer.TokenDecrement:
			op := ast.OpIncrement
			if p.advance().Type == lexer.TokenDecrement {
				op = ast.OpDecrement
			}
			n := &ast.Postop{Op: op, Operand: atom}
			n.Span = p.span(start)
			atom = n
		default:
			return atom, nil
		}
	}
}

func isGenericCallee(n ast.Node) bool {
	switch n.(type) {
	case *ast.Ident, *ast.GetMember:
		return true
	}
	return false
}

// tryGenericCall probes for `<Types>(args)` after callee. When the probe
// fails the cursor is rewound and `<` is left to the relational tier.
func (p *Parser) tryGenericCall(callee ast.Node, start position.Position) (ast.Node, bool, error) {
	m := p.mark()
	generics, err := p.parseTypeArguments()
	if err == nil && p.at(lexer.TokenLParen) {
		args, err := p.parseArguments()
		if err != nil {
			return nil, false, err
		}
		n := &ast.Call{Callee: callee, Generics: generics, Args: args}
		n.Span = p.span(start)
		return n, true, nil
	}
	if err == nil && anyTypeOnly(generics) {
		return nil, false, &Error{
			Kind:     AmbiguityResolutionError,
			Span:     p.cur().Span,
			Expected: []string{quote("(")},
			Found:    p.cur().Describe(),
			Message:  "generic arguments must be followed by a call",
		}
	}
	p.reset(m)
	p.debug("rewound generic call probe", "at", p.cur().Span.Start.String())
	return nil, false, nil
}

// typeOnly reports whether t contains syntax that cannot be read as an
// expression.
func typeOnly(t *ast.Type) bool {
	if t.Const || t.Spec != ast.SpecNamed {
		return true
	}
	for _, tail := range t.Tails {
		if tail.Kind != ast.TailSizedArray {
			return true
		}
	}
	return anyTypeOnly(t.Generics)
}

func anyTypeOnly(types []*ast.Type) bool {
	for _, t := range types {
		if typeOnly(t) {
			return true
		}
	}
	return false
}

// parseParenthesized handles `(Type) factor`, `(expr as Type)` and `(expr)`.
func (p *Parser) parseParenthesized() (ast.Node, error) {
	open := p.advance()
	start := open.Span.Start

	m := p.mark()
	typ, castErr := p.parseType()
	if castErr == nil && p.at(lexer.TokenRParen) {
		next := p.peek(1)
		switch {
		case typeOnly(typ):
			p.advance()
			if !startsFactor(next) {
				return nil, &Error{
					Kind:    AmbiguityResolutionError,
					Span:    next.Span,
					Found:   next.Describe(),
					Message: "parenthesized type " + quote(typ.String()) + " must be followed by an expression to cast",
				}
			}
			return p.finishCast(typ, start)
		case next.Is(castOnlyFollowers...):
			p.advance()
			return p.finishCast(typ, start)
		}
	}
	p.reset(m)
	if castErr == nil {
		p.debug("rewound cast probe", "at", p.cur().Span.Start.String())
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, furthest(castErr, err)
	}
	if p.accept(lexer.TokenAs) {
		target, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen, quote(")")); err != nil {
			return nil, err
		}
		n := &ast.Cast{Expr: expr, Type: target}
		n.Span = p.span(start)
		return p.parsePostfix(n, start)
	}
	if !p.accept(lexer.TokenRParen) {
		return nil, p.unexpected(quote(")"), quote("as"))
	}
	return p.parsePostfix(expr, start)
}

func (p *Parser) finishCast(typ *ast.Type, start position.Position) (ast.Node, error) {
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	n := &ast.Cast{Expr: operand, Type: typ}
	n.Span = p.span(start)
	return n, nil
}

// castOnlyFollowers can begin a factor but never continue an expression, so
// `(name)` followed by one of them must be a cast.
var castOnlyFollowers = []lexer.TokenType{
	lexer.TokenIdentifier, lexer.TokenInteger, lexer.TokenFloat, lexer.TokenChar,
	lexer.TokenString, lexer.TokenBool, lexer.TokenNot, lexer.TokenBitNot,
	lexer.TokenNew, lexer.TokenSuper,
}

// startsFactor reports whether tok can begin a unary expression.
func startsFactor(tok lexer.Token) bool {
	if tok.Is(castOnlyFollowers...) {
		return true
	}
	if _, ok := unaryOps[tok.Type]; ok {
		return true
	}
	return tok.Is(lexer.TokenLParen, lexer.TokenLBracket)
}

// parseArguments parses `(e, ...)`.
func (p *Parser) parseArguments() ([]ast.Node, error) {
	if _, err := p.expect(lexer.TokenLParen, quote("(")); err != nil {
		return nil, err
	}
	var args []ast.Node
	if p.accept(lexer.TokenRParen) {
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.accept(lexer.TokenComma) {
			continue
		}
		if p.accept(lexer.TokenRParen) {
			return args, nil
		}
		return nil, p.unexpected(quote(","), quote(")"))
	}
}

// parseConstructorCall parses `new Type(args)`.
func (p *Parser) parseConstructorCall() (ast.Node, error) {
	start := p.advance().Span.Start
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	n := &ast.ConstructorCall{Type: typ, Args: args}
	n.Span = p.span(start)
	return n, nil
}

// parseStructInitializer parses `{ .field = value, ... }` after a name.
func (p *Parser) parseStructInitializer(name ast.Identifier, start position.Position) (ast.Node, error) {
	p.advance()
	n := &ast.StructInitializer{Name: name}
	for !p.accept(lexer.TokenRBrace) {
		if _, err := p.expect(lexer.TokenDot, quote(".")); err != nil {
			return nil, err
		}
		field, err := p.expect(lexer.TokenIdentifier, "field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenAssign, quote("=")); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Fields = append(n.Fields, ast.FieldInit{Name: field.Literal, Value: value})
		if !p.accept(lexer.TokenComma) && !p.at(lexer.TokenRBrace) {
			return nil, p.unexpected(quote(","), quote("}"))
		}
	}
	n.Span = p.span(start)
	return n, nil
}

// parseArrayInitializer parses `[v, ...]` or `[value : count]`.
func (p *Parser) parseArrayInitializer() (ast.Node, error) {
	start := p.advance().Span.Start
	if p.accept(lexer.TokenRBracket) {
		n := &ast.ListInitializer{}
		n.Span = p.span(start)
		return n, nil
	}
	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.accept(lexer.TokenColon) {
		count, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRBracket, quote("]")); err != nil {
			return nil, err
		}
		n := &ast.RepeatedArrayInitializer{Value: first, Count: count}
		n.Span = p.span(start)
		return n, nil
	}

	n := &ast.ListInitializer{Values: []ast.Node{first}}
	for !p.accept(lexer.TokenRBracket) {
		if _, err := p.expect(lexer.TokenComma, quote(",")); err != nil {
			return nil, p.unexpected(quote(","), quote("]"))
		}
		if p.accept(lexer.TokenRBracket) {
			break
		}
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Values = append(n.Values, v)
	}
	n.Span = p.span(start)
	return n, nil
}
