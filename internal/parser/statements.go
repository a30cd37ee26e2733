package parser

import (
	"errors"

	"github.com/jodin-lang/jodin/internal/ast"
	"github.com/jodin-lang/jodin/internal/lexer"
	"github.com/jodin-lang/jodin/internal/position"
)

// localDeclarationStarts are the tokens that begin a declaration inside a
// block.
var localDeclarationStarts = []lexer.TokenType{
	lexer.TokenFn, lexer.TokenStruct, lexer.TokenTrait, lexer.TokenClass,
	lexer.TokenEnum, lexer.TokenUsing, lexer.TokenImplement, lexer.TokenExtern,
}

// parseSequence parses items until end without consuming it. A namespace
// opened with `in ns;` absorbs every remaining item of the sequence.
func (p *Parser) parseSequence(end lexer.TokenType, item func() (ast.Node, error)) ([]ast.Node, error) {
	var nodes []ast.Node
	for !p.at(end) {
		if p.at(lexer.TokenEOF) {
			return nil, p.unclosed()
		}
		var (
			n   ast.Node
			err error
		)
		if p.at(lexer.TokenIn) {
			n, err = p.parseNamespace(end, item)
		} else {
			n, err = item()
		}
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// parseNamespace parses `in ns { ... }` or `in ns;`, whose body runs to the
// end of the enclosing sequence.
func (p *Parser) parseNamespace(end lexer.TokenType, item func() (ast.Node, error)) (ast.Node, error) {
	start := p.advance().Span.Start
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	n := &ast.InNamespace{Namespace: name}
	switch {
	case p.accept(lexer.TokenSemicolon):
		if n.Decls, err = p.parseSequence(end, item); err != nil {
			return nil, err
		}
	case p.accept(lexer.TokenLBrace):
		if n.Decls, err = p.parseSequence(lexer.TokenRBrace, item); err != nil {
			return nil, err
		}
		p.advance()
	default:
		return nil, p.unexpected(quote("{"), quote(";"))
	}
	n.Span = p.span(start)
	p.debug("namespace", "name", name.String(), "declarations", len(n.Decls))
	return n, nil
}

// parseBlock parses `{ statements }`.
func (p *Parser) parseBlock() (*ast.Block, error) {
	start := p.cur().Span.Start
	if _, err := p.expect(lexer.TokenLBrace, quote("{")); err != nil {
		return nil, err
	}
	stmts, err := p.parseSequence(lexer.TokenRBrace, p.parseStatement)
	if err != nil {
		return nil, err
	}
	p.advance()
	b := &ast.Block{Statements: stmts}
	b.Span = p.span(start)
	return b, nil
}

// parseStatement parses one statement, dispatching on its first token.
func (p *Parser) parseStatement() (ast.Node, error) {
	tok := p.cur()
	start := tok.Span.Start

	switch tok.Type {
	case lexer.TokenLet, lexer.TokenConst, lexer.TokenStatic:
		return p.parseVariableDeclaration()
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenSwitch:
		return p.parseSwitch()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenDo:
		return p.parseDoWhile()
	case lexer.TokenFor:
		if p.peek(1).Is(lexer.TokenLt) {
			return p.parseDeclaration()
		}
		return p.parseFor()
	case lexer.TokenForeach:
		return nil, p.parseForeach()
	case lexer.TokenBreak:
		p.advance()
		n := &ast.Break{}
		if p.at(lexer.TokenIdentifier) {
			n.Label = p.advance().Literal
		}
		return p.terminate(n, start)
	case lexer.TokenContinue:
		p.advance()
		return p.terminate(&ast.Continue{}, start)
	case lexer.TokenReturn:
		p.advance()
		n := &ast.ReturnValue{}
		if !p.at(lexer.TokenSemicolon) {
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			n.Value = value
		}
		return p.terminate(n, start)
	case lexer.TokenCase, lexer.TokenDefault:
		return p.parseCase()
	case lexer.TokenLBrace:
		return p.parseBlock()
	case lexer.TokenSemicolon:
		p.advance()
		n := &ast.Empty{}
		n.Span = tok.Span
		return n, nil
	case lexer.TokenPublic, lexer.TokenPrivate, lexer.TokenProtected:
		return nil, p.errorAt(SyntaxError, SubMisplacedVisibility, tok.Span,
			"visibility %s is not allowed on a local declaration", tok.Describe())
	case lexer.TokenIdentifier:
		if p.peek(1).Type == lexer.TokenColon {
			return p.parseLabeled()
		}
	}
	if tok.Is(localDeclarationStarts...) {
		return p.parseDeclaration()
	}

	n, err := p.parseExpressionOrAssignment()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon, quote(";")); err != nil {
		return nil, err
	}
	n.Meta().Span = p.span(start)
	return n, nil
}

// terminate consumes the `;` ending a simple statement and sets its span.
func (p *Parser) terminate(n ast.Node, start position.Position) (ast.Node, error) {
	if _, err := p.expect(lexer.TokenSemicolon, quote(";")); err != nil {
		return nil, err
	}
	n.Meta().Span = p.span(start)
	return n, nil
}

// parseLabeled parses `label: statement`.
func (p *Parser) parseLabeled() (ast.Node, error) {
	label := p.advance()
	p.advance()
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if err := ast.AddTag(stmt, ast.LabelTag{Label: label.Literal}); err != nil {
		if errors.Is(err, ast.ErrDuplicateTag) {
			return nil, p.errorAt(SyntaxError, SubDuplicateTag, label.Span,
				"statement already has a label")
		}
		return nil, err
	}
	stmt.Meta().Span = p.span(label.Span.Start)
	return stmt, nil
}

// parseVariableDeclaration parses `let name (: Type)? (= expr)? ;`.
func (p *Parser) parseVariableDeclaration() (ast.Node, error) {
	start := p.cur().Span.Start
	n, err := p.parseStore()
	if err != nil {
		return nil, err
	}
	return p.terminate(n, start)
}

// parseStore parses a variable declaration without its terminator.
func (p *Parser) parseStore() (*ast.StoreVariable, error) {
	start := p.cur().Span.Start
	n := &ast.StoreVariable{}
	switch p.advance().Type {
	case lexer.TokenConst:
		n.Storage = ast.StorageConst
	case lexer.TokenStatic:
		n.Storage = ast.StorageStatic
	default:
		n.Storage = ast.StorageLocal
	}
	name, err := p.expect(lexer.TokenIdentifier, "variable name")
	if err != nil {
		return nil, err
	}
	n.Name = name.Literal
	if p.accept(lexer.TokenColon) {
		if n.Type, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if p.accept(lexer.TokenAssign) {
		if n.Init, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	n.Span = p.span(start)
	return n, nil
}

// parseCondition parses `( expr )`.
func (p *Parser) parseCondition() (ast.Node, error) {
	if _, err := p.expect(lexer.TokenLParen, quote("(")); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRParen, quote(")")); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseIf parses `if (c) s (else s)?`. An else belongs to the innermost if.
func (p *Parser) parseIf() (ast.Node, error) {
	start := p.advance().Span.Start
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	n := &ast.If{Cond: cond, Then: then}
	if p.accept(lexer.TokenElse) {
		if n.Else, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	n.Span = p.span(start)
	return n, nil
}

func (p *Parser) parseSwitch() (ast.Node, error) {
	start := p.advance().Span.Start
	value, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace, quote("{")); err != nil {
		return nil, err
	}
	body, err := p.parseSequence(lexer.TokenRBrace, p.parseStatement)
	if err != nil {
		return nil, err
	}
	p.advance()
	n := &ast.Switch{Value: value, Body: body}
	n.Span = p.span(start)
	return n, nil
}

// parseCase parses `case expr: s` or `default: s`.
func (p *Parser) parseCase() (ast.Node, error) {
	tok := p.advance()
	n := &ast.Case{}
	if tok.Type == lexer.TokenCase {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Value = value
	}
	if _, err := p.expect(lexer.TokenColon, quote(":")); err != nil {
		return nil, err
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	n.Stmt = stmt
	n.Span = p.span(tok.Span.Start)
	return n, nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	start := p.advance().Span.Start
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	n := &ast.While{Cond: cond, Body: body}
	n.Span = p.span(start)
	return n, nil
}

func (p *Parser) parseDoWhile() (ast.Node, error) {
	start := p.advance().Span.Start
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenWhile, quote("while")); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	return p.terminate(&ast.DoWhile{Body: body, Cond: cond}, start)
}

// parseFor parses `for (init; cond; delta) s`. A missing clause is an
// Empty node.
func (p *Parser) parseFor() (ast.Node, error) {
	start := p.advance().Span.Start
	if _, err := p.expect(lexer.TokenLParen, quote("(")); err != nil {
		return nil, err
	}
	n := &ast.For{}

	var err error
	switch {
	case p.at(lexer.TokenSemicolon):
		n.Init = p.emptyClause()
	case p.at(lexer.TokenLet, lexer.TokenConst, lexer.TokenStatic):
		n.Init, err = p.parseStore()
	default:
		n.Init, err = p.parseExpressionOrAssignment()
	}
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon, quote(";")); err != nil {
		return nil, err
	}

	if p.at(lexer.TokenSemicolon) {
		n.Cond = p.emptyClause()
	} else if n.Cond, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon, quote(";")); err != nil {
		return nil, err
	}

	if p.at(lexer.TokenRParen) {
		n.Delta = p.emptyClause()
	} else if n.Delta, err = p.parseExpressionOrAssignment(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRParen, quote(")")); err != nil {
		return nil, err
	}

	if n.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}
	n.Span = p.span(start)
	return n, nil
}

func (p *Parser) emptyClause() ast.Node {
	at := p.cur().Span.Start
	n := &ast.Empty{}
	n.Span = position.Span{Start: at, End: at}
	return n
}

// parseForeach reads a `foreach (id: Type in expr)` header and reports the
// loop as unsupported.
func (p *Parser) parseForeach() error {
	start := p.advance().Span.Start
	if _, err := p.expect(lexer.TokenLParen, quote("(")); err != nil {
		return err
	}
	if _, err := p.expect(lexer.TokenIdentifier, "loop variable"); err != nil {
		return err
	}
	if p.accept(lexer.TokenColon) {
		if _, err := p.parseType(); err != nil {
			return err
		}
	}
	if _, err := p.expect(lexer.TokenIn, quote("in")); err != nil {
		return err
	}
	if _, err := p.parseExpression(); err != nil {
		return err
	}
	if _, err := p.expect(lexer.TokenRParen, quote(")")); err != nil {
		return err
	}
	return p.errorAt(UnsupportedConstructError, "", p.span(start), "foreach loops are not supported")
}
