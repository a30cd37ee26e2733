package parser

import (
	"github.com/jodin-lang/jodin/internal/ast"
	"github.com/jodin-lang/jodin/internal/lexer"
)

var visibilityTokens = map[lexer.TokenType]ast.Visibility{
	lexer.TokenPublic:    ast.Public,
	lexer.TokenPrivate:   ast.Private,
	lexer.TokenProtected: ast.Protected,
}

// parseVisibility consumes an optional visibility keyword.
func (p *Parser) parseVisibility() (ast.Visibility, bool) {
	vis, ok := visibilityTokens[p.cur().Type]
	if ok {
		p.advance()
	}
	return vis, ok
}

// parseTopLevelDeclaration parses `visibility? declaration`. Declarations
// without an explicit visibility are protected.
func (p *Parser) parseTopLevelDeclaration() (ast.Node, error) {
	start := p.cur()
	vis, explicit := p.parseVisibility()
	if explicit && p.at(lexer.TokenIn, lexer.TokenSemicolon) {
		return nil, p.errorAt(SyntaxError, SubMisplacedVisibility, start.Span,
			"visibility %s must be followed by a declaration, found %s", start.Describe(), p.cur().Describe())
	}

	decl, err := p.parseDeclaration()
	if err != nil {
		return nil, err
	}
	if _, ok := decl.(*ast.Empty); ok {
		return decl, nil
	}
	if err := ast.AddTag(decl, ast.VisibilityTag{Visibility: vis}); err != nil {
		return nil, p.errorAt(SyntaxError, SubDuplicateTag, start.Span, "%v", err)
	}
	decl.Meta().Span = p.span(start.Span.Start)
	p.debug("declaration", "kind", decl.Kind().String(), "visibility", vis.String())
	return decl, nil
}

// parseDeclaration parses one declaration, optionally preceded by a
// `for<...>` generic prefix.
func (p *Parser) parseDeclaration() (ast.Node, error) {
	start := p.cur().Span.Start

	var prefix []*ast.GenericParameter
	if p.at(lexer.TokenFor) && p.peek(1).Is(lexer.TokenLt) {
		p.advance()
		var err error
		if prefix, err = p.parseGenericParameters(); err != nil {
			return nil, err
		}
		if !p.at(lexer.TokenTrait, lexer.TokenImplement, lexer.TokenFn, lexer.TokenStruct, lexer.TokenClass) {
			return nil, p.unexpected(quote("fn"), quote("struct"), quote("trait"), quote("class"), quote("implement"))
		}
	}

	var (
		n   ast.Node
		err error
	)
	switch p.cur().Type {
	case lexer.TokenTrait:
		n, err = p.parseCompound(ast.CompoundTrait, prefix)
	case lexer.TokenImplement:
		n, err = p.parseImplementation(prefix)
	case lexer.TokenUsing:
		n, err = p.parseUsing()
	case lexer.TokenFn:
		n, err = p.parseFunction(prefix)
	case lexer.TokenStruct:
		n, err = p.parseCompound(ast.CompoundStructure, prefix)
	case lexer.TokenLet, lexer.TokenConst, lexer.TokenStatic:
		n, err = p.parseVariableDeclaration()
	case lexer.TokenClass:
		n, err = p.parseCompound(ast.CompoundClass, prefix)
	case lexer.TokenEnum:
		n, err = p.parseEnum()
	case lexer.TokenExtern:
		n, err = p.parseExtern()
	case lexer.TokenSemicolon:
		p.advance()
		e := &ast.Empty{}
		e.Span = p.span(start)
		return e, nil
	default:
		return nil, p.unexpected("declaration")
	}
	if err != nil {
		return nil, err
	}
	n.Meta().Span = p.span(start)
	return n, nil
}

// parseDeclName accepts an identifier, or `new` where allowNew is set.
func (p *Parser) parseDeclName(what string, allowNew bool) (string, error) {
	if p.at(lexer.TokenIdentifier) || (allowNew && p.at(lexer.TokenNew)) {
		return p.advance().Literal, nil
	}
	return "", p.unexpected(what)
}

// parseNamedGenerics parses an optional generic list after a declared name
// and merges it with the prefix list.
func (p *Parser) parseNamedGenerics(prefix []*ast.GenericParameter) ([]*ast.GenericParameter, error) {
	if !p.at(lexer.TokenLt) {
		return prefix, nil
	}
	named, err := p.parseGenericParameters()
	if err != nil {
		return nil, err
	}
	return mergeGenerics(prefix, named)
}

// parseFunction parses `fn name Generics? (params) (-> Type)? (Block | ;)`.
func (p *Parser) parseFunction(prefix []*ast.GenericParameter) (ast.Node, error) {
	start := p.advance().Span.Start
	name, err := p.parseDeclName("function name", true)
	if err != nil {
		return nil, err
	}
	generics, err := p.parseNamedGenerics(prefix)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}
	var ret *ast.Type
	if p.accept(lexer.TokenArrow) {
		if ret, err = p.parseType(); err != nil {
			return nil, err
		}
	}

	if p.accept(lexer.TokenSemicolon) {
		n := &ast.FunctionSignature{Name: name, Generics: generics, Params: params, Return: ret}
		n.Span = p.span(start)
		return n, nil
	}
	if !p.at(lexer.TokenLBrace) {
		return nil, p.unexpected(quote("{"), quote(";"))
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	n := &ast.FunctionDefinition{Name: name, Generics: generics, Params: params, Return: ret, Body: body}
	n.Span = p.span(start)
	p.debug("function", "name", name, "params", len(params))
	return n, nil
}

// parseParameters parses `(name: Type, ...)`.
func (p *Parser) parseParameters() ([]*ast.NamedValue, error) {
	if _, err := p.expect(lexer.TokenLParen, quote("(")); err != nil {
		return nil, err
	}
	var params []*ast.NamedValue
	if p.accept(lexer.TokenRParen) {
		return params, nil
	}
	if !p.at(lexer.TokenIdentifier) {
		return nil, p.unexpected(quote(")"), "parameter")
	}
	for {
		param, err := p.parseNamedValue("parameter")
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if p.accept(lexer.TokenRParen) {
			return params, nil
		}
		if !p.accept(lexer.TokenComma) {
			return nil, p.unexpected(quote(","), quote(")"))
		}
	}
}

// parseNamedValue parses `name: Type`.
func (p *Parser) parseNamedValue(what string) (*ast.NamedValue, error) {
	name, err := p.expect(lexer.TokenIdentifier, what)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon, quote(":")); err != nil {
		return nil, err
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	n := &ast.NamedValue{Name: name.Literal, Type: t}
	n.Span = p.span(name.Span.Start)
	return n, nil
}

// parseCompound parses a struct, trait or class definition.
func (p *Parser) parseCompound(kind ast.CompoundKind, prefix []*ast.GenericParameter) (ast.Node, error) {
	start := p.advance().Span.Start
	name, err := p.parseDeclName(kind.String()+" name", false)
	if err != nil {
		return nil, err
	}
	n := &ast.CompoundTypeDefinition{Compound: kind, Name: name}
	if n.Generics, err = p.parseNamedGenerics(prefix); err != nil {
		return nil, err
	}
	if kind != ast.CompoundStructure && p.accept(lexer.TokenColon) {
		for {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			n.Inherits = append(n.Inherits, t)
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
	}
	if _, err := p.expect(lexer.TokenLBrace, quote("{")); err != nil {
		return nil, err
	}
	for !p.accept(lexer.TokenRBrace) {
		if p.at(lexer.TokenEOF) {
			return nil, p.unclosed()
		}
		member, err := p.parseMember(kind)
		if err != nil {
			return nil, err
		}
		n.Members = append(n.Members, member)
	}
	n.Span = p.span(start)
	p.debug("compound type", "kind", kind.String(), "name", name, "members", len(n.Members))
	return n, nil
}

// parseMember parses one member of a compound type body. Traits hold only
// functions and structs only fields.
func (p *Parser) parseMember(kind ast.CompoundKind) (ast.Node, error) {
	start := p.cur().Span.Start
	vis, explicit := p.parseVisibility()

	var (
		member ast.Node
		err    error
	)
	isFn := p.at(lexer.TokenFn) || (p.at(lexer.TokenFor) && p.peek(1).Is(lexer.TokenLt))
	switch {
	case isFn && kind != ast.CompoundStructure:
		member, err = p.parseMethod()
	case p.at(lexer.TokenIdentifier) && kind != ast.CompoundTrait:
		member, err = p.parseField()
	case kind == ast.CompoundTrait:
		return nil, p.unexpected(quote("fn"))
	case kind == ast.CompoundStructure:
		return nil, p.unexpected("field", quote("}"))
	default:
		return nil, p.unexpected("field", quote("fn"), quote("}"))
	}
	if err != nil {
		return nil, err
	}
	if explicit {
		if err := ast.AddTag(member, ast.VisibilityTag{Visibility: vis}); err != nil {
			return nil, err
		}
	}
	member.Meta().Span = p.span(start)
	return member, nil
}

// parseMethod parses a function member with an optional `for<...>` prefix.
func (p *Parser) parseMethod() (ast.Node, error) {
	var prefix []*ast.GenericParameter
	if p.accept(lexer.TokenFor) {
		var err error
		if prefix, err = p.parseGenericParameters(); err != nil {
			return nil, err
		}
		if !p.at(lexer.TokenFn) {
			return nil, p.unexpected(quote("fn"))
		}
	}
	return p.parseFunction(prefix)
}

// parseField parses `name: Type` ended by `,` or `;`, or by the closing
// brace of the body.
func (p *Parser) parseField() (ast.Node, error) {
	field, err := p.parseNamedValue("field name")
	if err != nil {
		return nil, err
	}
	if !p.accept(lexer.TokenComma) && !p.accept(lexer.TokenSemicolon) && !p.at(lexer.TokenRBrace) {
		return nil, p.unexpected(quote(","), quote(";"), quote("}"))
	}
	return field, nil
}

// parseImplementation parses the trait form `implement trait? Type for Type
// { fn members }` and the function form `implement Type name(params) for
// Type Block`.
func (p *Parser) parseImplementation(prefix []*ast.GenericParameter) (ast.Node, error) {
	start := p.advance().Span.Start
	forced := p.accept(lexer.TokenTrait)
	first, err := p.parseType()
	if err != nil {
		return nil, err
	}
	n := &ast.Implementation{Generics: prefix}

	switch {
	case forced || p.at(lexer.TokenFor):
		n.Form = ast.ImplementTrait
		n.Trait = first
		if _, err := p.expect(lexer.TokenFor, quote("for")); err != nil {
			return nil, err
		}
		if n.Target, err = p.parseType(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenLBrace, quote("{")); err != nil {
			return nil, err
		}
		for !p.accept(lexer.TokenRBrace) {
			if p.at(lexer.TokenEOF) {
				return nil, p.unclosed()
			}
			member, err := p.parseMember(ast.CompoundTrait)
			if err != nil {
				return nil, err
			}
			n.Members = append(n.Members, member)
		}
	case p.at(lexer.TokenIdentifier, lexer.TokenNew):
		n.Form = ast.ImplementFunction
		fnStart := p.cur().Span.Start
		f := &ast.FunctionDefinition{Name: p.advance().Literal, Return: first}
		if f.Params, err = p.parseParameters(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenFor, quote("for")); err != nil {
			return nil, err
		}
		if n.Target, err = p.parseType(); err != nil {
			return nil, err
		}
		if f.Body, err = p.parseBlock(); err != nil {
			return nil, err
		}
		f.Span = p.span(fnStart)
		n.Function = f
	default:
		return nil, p.unexpected(quote("for"), "function name")
	}
	n.Span = p.span(start)
	return n, nil
}

// parseUsing parses `using import;`.
func (p *Parser) parseUsing() (ast.Node, error) {
	start := p.advance().Span.Start
	imp, err := p.parseImport()
	if err != nil {
		return nil, err
	}
	return p.terminate(&ast.UsingIdentifier{Import: imp}, start)
}

// parseImport parses `a::b`, `a::b as c`, `a::*` or `a::{import, ...}`.
func (p *Parser) parseImport() (*ast.Import, error) {
	start := p.cur().Span.Start
	first, err := p.expect(lexer.TokenIdentifier, "import path")
	if err != nil {
		return nil, err
	}
	segments := []string{first.Literal}
	imp := &ast.Import{}

loop:
	for p.accept(lexer.TokenDoubleColon) {
		switch {
		case p.accept(lexer.TokenMul):
			imp.Wildcard = true
			break loop
		case p.accept(lexer.TokenLBrace):
			for {
				child, err := p.parseImport()
				if err != nil {
					return nil, err
				}
				imp.Children = append(imp.Children, child)
				if p.accept(lexer.TokenComma) {
					continue
				}
				if p.accept(lexer.TokenRBrace) {
					break
				}
				return nil, p.unexpected(quote(","), quote("}"))
			}
			break loop
		case p.at(lexer.TokenIdentifier, lexer.TokenNew):
			segments = append(segments, p.advance().Literal)
		default:
			return nil, p.unexpected("identifier", quote("*"), quote("{"))
		}
	}
	imp.Path = ast.NewIdentifier(segments...)

	if !imp.Wildcard && len(imp.Children) == 0 && p.accept(lexer.TokenAs) {
		alias, err := p.expect(lexer.TokenIdentifier, "alias")
		if err != nil {
			return nil, err
		}
		imp.Alias = alias.Literal
	}
	imp.Span = p.span(start)
	return imp, nil
}

// parseEnum parses `enum Name { A, B = expr, C }`.
func (p *Parser) parseEnum() (ast.Node, error) {
	start := p.advance().Span.Start
	name, err := p.parseDeclName("enum name", false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace, quote("{")); err != nil {
		return nil, err
	}
	n := &ast.EnumDefinition{Name: name}
	for !p.accept(lexer.TokenRBrace) {
		tok, err := p.expect(lexer.TokenIdentifier, "enum variant")
		if err != nil {
			return nil, err
		}
		v := &ast.EnumVariant{Name: tok.Literal}
		if p.accept(lexer.TokenAssign) {
			if v.Value, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}
		v.Span = p.span(tok.Span.Start)
		n.Variants = append(n.Variants, v)
		if !p.accept(lexer.TokenComma) && !p.at(lexer.TokenRBrace) {
			return nil, p.unexpected(quote(","), quote("}"))
		}
	}
	n.Span = p.span(start)
	return n, nil
}

// parseExtern parses `extern` followed by a variable declaration or a
// function signature.
func (p *Parser) parseExtern() (ast.Node, error) {
	start := p.advance().Span.Start
	if tok := p.cur(); tok.Is(lexer.TokenPublic, lexer.TokenPrivate, lexer.TokenProtected) {
		return nil, p.errorAt(SyntaxError, SubMisplacedVisibility, tok.Span,
			"visibility %s must come before `extern`", tok.Describe())
	}

	var (
		decl ast.Node
		err  error
	)
	switch {
	case p.at(lexer.TokenLet, lexer.TokenConst, lexer.TokenStatic):
		decl, err = p.parseVariableDeclaration()
	case p.at(lexer.TokenFn):
		fnStart := p.cur().Span.Start
		decl, err = p.parseFunction(nil)
		if err == nil {
			if _, ok := decl.(*ast.FunctionSignature); !ok {
				return nil, p.errorAt(SyntaxError, "", p.span(fnStart),
					"extern function %s cannot have a body", quote(decl.(*ast.FunctionDefinition).Name))
			}
		}
	default:
		return nil, p.unexpected("variable declaration", "function signature")
	}
	if err != nil {
		return nil, err
	}
	n := &ast.ExternDeclaration{Decl: decl}
	n.Span = p.span(start)
	return n, nil
}

func (p *Parser) unclosed() error {
	return &Error{
		Kind:     SyntaxError,
		SubKind:  SubUnclosedBlock,
		Span:     p.cur().Span,
		Expected: []string{quote("}")},
		Found:    p.cur().Describe(),
	}
}
