package parser

import (
	"github.com/jodin-lang/jodin/internal/ast"
	"github.com/jodin-lang/jodin/internal/lexer"
)

var primitiveTokens = map[lexer.TokenType]ast.PrimitiveKind{
	lexer.TokenVoid:      ast.PrimVoid,
	lexer.TokenBoolean:   ast.PrimBoolean,
	lexer.TokenCharType:  ast.PrimChar,
	lexer.TokenByte:      ast.PrimByte,
	lexer.TokenShort:     ast.PrimShort,
	lexer.TokenInt:       ast.PrimInt,
	lexer.TokenLong:      ast.PrimLong,
	lexer.TokenFloatType: ast.PrimFloat,
	lexer.TokenDouble:    ast.PrimDouble,
}

// parseType parses `const? specifier generics? tails*`.
func (p *Parser) parseType() (*ast.Type, error) {
	start := p.cur().Span.Start
	t := &ast.Type{}

	if p.accept(lexer.TokenConst) {
		t.Const = true
	}

	switch tok := p.cur(); {
	case tok.Type == lexer.TokenUnsigned:
		p.advance()
		t.Spec = ast.SpecPrimitive
		t.Primitive = ast.PrimUnsignedInt
		if kind, ok := primitiveTokens[p.cur().Type]; ok {
			unsigned, ok := kind.Unsigned()
			if !ok {
				return nil, p.unexpected("integral type")
			}
			p.advance()
			t.Primitive = unsigned
		}
	case tok.IsPrimitive():
		p.advance()
		t.Spec = ast.SpecPrimitive
		t.Primitive = primitiveTokens[tok.Type]
	case tok.Type == lexer.TokenIdentifier:
		id, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		t.Spec = ast.SpecNamed
		t.Name = id
	case tok.Type == lexer.TokenFn:
		if err := p.parseFunctionShape(t); err != nil {
			return nil, err
		}
	default:
		return nil, p.unexpected("type")
	}

	if p.at(lexer.TokenLt) {
		generics, err := p.parseTypeArguments()
		if err != nil {
			return nil, err
		}
		t.Generics = generics
	}

	if err := p.parseTypeTails(t); err != nil {
		return nil, err
	}
	t.Span = p.span(start)
	return t, nil
}

// parseFunctionShape parses `fn(T, ...) (-> R)?`.
func (p *Parser) parseFunctionShape(t *ast.Type) error {
	p.advance()
	t.Spec = ast.SpecFunction
	if _, err := p.expect(lexer.TokenLParen, quote("(")); err != nil {
		return err
	}
	if !p.accept(lexer.TokenRParen) {
		for {
			param, err := p.parseType()
			if err != nil {
				return err
			}
			t.Params = append(t.Params, param)
			if p.accept(lexer.TokenComma) {
				continue
			}
			if p.accept(lexer.TokenRParen) {
				break
			}
			return p.unexpected(quote(","), quote(")"))
		}
	}
	if p.accept(lexer.TokenArrow) {
		ret, err := p.parseType()
		if err != nil {
			return err
		}
		t.Return = ret
	}
	return nil
}

// parseTypeTails parses any number of `*`, `[]` and `[size]` suffixes.
func (p *Parser) parseTypeTails(t *ast.Type) error {
	for {
		switch {
		case p.accept(lexer.TokenMul):
			t.Tails = append(t.Tails, ast.TypeTail{Kind: ast.TailPointer})
		case p.at(lexer.TokenLBracket):
			p.advance()
			if p.accept(lexer.TokenRBracket) {
				t.Tails = append(t.Tails, ast.TypeTail{Kind: ast.TailArray})
				continue
			}
			// The size is an ordinary expression, even inside a generic list.
			depth := p.angleDepth
			p.angleDepth = 0
			size, err := p.parseExpression()
			p.angleDepth = depth
			if err != nil {
				return err
			}
			if _, err := p.expect(lexer.TokenRBracket, quote("]")); err != nil {
				return err
			}
			t.Tails = append(t.Tails, ast.TypeTail{Kind: ast.TailSizedArray, Size: size})
		default:
			return nil
		}
	}
}

// parseTypeArguments parses `<T, ...>`.
func (p *Parser) parseTypeArguments() ([]*ast.Type, error) {
	if _, err := p.expect(lexer.TokenLt, quote("<")); err != nil {
		return nil, err
	}
	p.angleDepth++
	var args []*ast.Type
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
		if p.accept(lexer.TokenComma) {
			continue
		}
		if err := p.closeAngle(); err != nil {
			return nil, err
		}
		return args, nil
	}
}

// closeAngle consumes a `>` closing a generic list, splitting `>>`, `>=` and
// `>>=` when one of them stands in for it.
func (p *Parser) closeAngle() error {
	if p.angleDepth == 0 {
		return p.unexpected(quote(","), quote(">"))
	}
	switch p.cur().Type {
	case lexer.TokenGt:
	case lexer.TokenShr:
		p.splitCurrent(lexer.TokenGt, lexer.TokenGt)
	case lexer.TokenGe:
		p.splitCurrent(lexer.TokenGt, lexer.TokenAssign)
	case lexer.TokenShrAssign:
		p.splitCurrent(lexer.TokenGt, lexer.TokenGe)
	default:
		return p.unexpected(quote(","), quote(">"))
	}
	p.advance()
	p.angleDepth--
	return nil
}

// parseQualifiedName parses `a::b::c`. `new` is accepted as a segment after
// `::` so constructors can be named.
func (p *Parser) parseQualifiedName() (ast.Identifier, error) {
	first, err := p.expect(lexer.TokenIdentifier, "identifier")
	if err != nil {
		return ast.Identifier{}, err
	}
	segments := []string{first.Literal}
	for p.at(lexer.TokenDoubleColon) && p.peek(1).Is(lexer.TokenIdentifier, lexer.TokenNew) {
		p.advance()
		segments = append(segments, p.advance().Literal)
	}
	return ast.NewIdentifier(segments...), nil
}

// parseGenericParameters parses a declaration list `<T, U: Upper, V super Lower>`.
func (p *Parser) parseGenericParameters() ([]*ast.GenericParameter, error) {
	if _, err := p.expect(lexer.TokenLt, quote("<")); err != nil {
		return nil, err
	}
	p.angleDepth++
	var params []*ast.GenericParameter
	for {
		start := p.cur().Span.Start
		name, err := p.expect(lexer.TokenIdentifier, "generic parameter")
		if err != nil {
			return nil, err
		}
		g := &ast.GenericParameter{Name: name.Literal}
		switch {
		case p.accept(lexer.TokenColon):
			g.Variance = ast.Covariant
		case p.accept(lexer.TokenSuper):
			g.Variance = ast.Contravariant
		}
		if g.Variance != ast.Invariant {
			if g.Bound, err = p.parseType(); err != nil {
				return nil, err
			}
		}
		g.Span = p.span(start)
		if params, err = mergeGeneric(params, g); err != nil {
			return nil, err
		}
		if p.accept(lexer.TokenComma) {
			continue
		}
		if err := p.closeAngle(); err != nil {
			return nil, err
		}
		return params, nil
	}
}

// mergeGenerics combines a `for<...>` prefix list with the list declared
// after a name.
func mergeGenerics(prefix, named []*ast.GenericParameter) ([]*ast.GenericParameter, error) {
	out := append([]*ast.GenericParameter(nil), prefix...)
	var err error
	for _, g := range named {
		if out, err = mergeGeneric(out, g); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// mergeGeneric adds g to params. A parameter declared twice may carry at
// most one distinct bound; a conflict is reported over both declarations.
func mergeGeneric(params []*ast.GenericParameter, g *ast.GenericParameter) ([]*ast.GenericParameter, error) {
	for i, existing := range params {
		if existing.Name != g.Name {
			continue
		}
		switch {
		case g.Variance == ast.Invariant:
		case existing.Variance == ast.Invariant:
			params[i] = g
		case existing.Variance != g.Variance || existing.Bound.String() != g.Bound.String():
			return nil, &Error{
				Kind:    SyntaxError,
				SubKind: SubInvalidGenericBound,
				Span:    existing.Span.Union(g.Span),
				Message: "generic parameter " + quote(g.Name) + " declared with conflicting bounds " +
					quote(existing.String()) + " and " + quote(g.String()),
			}
		}
		return params, nil
	}
	return append(params, g), nil
}
