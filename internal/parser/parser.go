// Package parser implements the Jodin recursive descent parser.
//
// The parser pulls tokens from a lexer.Source and builds an ast tree. It is
// single threaded and stops at the first error. Backtracking is limited to the
// cast and generic call probes, which mark the cursor and rewind on failure.
package parser

import (
	"context"
	"log/slog"

	"github.com/jodin-lang/jodin/internal/ast"
	"github.com/jodin-lang/jodin/internal/lexer"
	"github.com/jodin-lang/jodin/internal/position"
)

// Parser represents the recursive descent parser
type Parser struct {
	src     lexer.Source
	tokens  []lexer.Token // tokens pulled so far
	pos     int           // index of the current token
	lastEnd position.Position

	// angleDepth counts open generic argument lists. Only while it is
	// positive may `>>`, `>=` and `>>=` be split to close a list.
	angleDepth int
	splits     []split

	logger *slog.Logger
}

// split records a token that was broken in two so it can be restored when
// the cursor rewinds.
type split struct {
	index int
	orig  lexer.Token
}

// marker is a saved cursor state.
type marker struct {
	pos     int
	splits  int
	angle   int
	lastEnd position.Position
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger.With("component", "parser")
	}
}

// New creates a parser reading from src.
func New(src lexer.Source, opts ...Option) *Parser {
	p := &Parser{src: src}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseString parses a complete source unit.
func ParseString(filename, input string, opts ...Option) (*ast.TopLevelDeclarations, error) {
	return New(lexer.NewWithFilename(input, filename), opts...).ParseFile()
}

// ParseExpression parses input as a single expression.
func ParseExpression(input string, opts ...Option) (ast.Node, error) {
	p := New(lexer.New(input), opts...)
	return finish(p, p.parseExpression)
}

// ParseStatement parses input as a single statement.
func ParseStatement(input string, opts ...Option) (ast.Node, error) {
	p := New(lexer.New(input), opts...)
	return finish(p, p.parseStatement)
}

// ParseType parses input as a type.
func ParseType(input string, opts ...Option) (*ast.Type, error) {
	p := New(lexer.New(input), opts...)
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.TokenEOF) {
		return nil, p.unexpected("end of input")
	}
	return t, nil
}

func finish(p *Parser, parse func() (ast.Node, error)) (ast.Node, error) {
	n, err := parse()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.TokenEOF) {
		return nil, p.unexpected("end of input")
	}
	return n, nil
}

// ParseFile parses every declaration up to the end of input.
func (p *Parser) ParseFile() (*ast.TopLevelDeclarations, error) {
	start := p.cur().Span.Start
	decls, err := p.parseSequence(lexer.TokenEOF, p.parseTopLevelDeclaration)
	if err != nil {
		p.debug("parse failed", "error", err)
		return nil, err
	}
	root := &ast.TopLevelDeclarations{Decls: decls}
	root.Span = p.span(start)
	p.debug("parse complete", "declarations", len(decls))
	return root, nil
}

// ===== Cursor =====

// peek returns the token k places after the current one
func (p *Parser) peek(k int) lexer.Token {
	for len(p.tokens) <= p.pos+k {
		p.tokens = append(p.tokens, p.src.NextToken())
	}
	return p.tokens[p.pos+k]
}

func (p *Parser) cur() lexer.Token { return p.peek(0) }

func (p *Parser) at(types ...lexer.TokenType) bool {
	return p.cur().Is(types...)
}

// advance consumes the current token. EOF is never consumed.
func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if tok.Type != lexer.TokenEOF {
		p.pos++
		p.lastEnd = tok.Span.End
	}
	return tok
}

// accept consumes the current token if it has type tt.
func (p *Parser) accept(tt lexer.TokenType) bool {
	if p.at(tt) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of type tt or fails naming what was wanted.
func (p *Parser) expect(tt lexer.TokenType, what string) (lexer.Token, error) {
	if !p.at(tt) {
		return lexer.Token{}, p.unexpected(what)
	}
	return p.advance(), nil
}

func (p *Parser) mark() marker {
	return marker{pos: p.pos, splits: len(p.splits), angle: p.angleDepth, lastEnd: p.lastEnd}
}

// reset rewinds to m, undoing any token splits made since.
func (p *Parser) reset(m marker) {
	for len(p.splits) > m.splits {
		s := p.splits[len(p.splits)-1]
		p.splits = p.splits[:len(p.splits)-1]
		p.tokens[s.index] = s.orig
		p.tokens = append(p.tokens[:s.index+1], p.tokens[s.index+2:]...)
	}
	p.pos = m.pos
	p.angleDepth = m.angle
	p.lastEnd = m.lastEnd
}

// splitCurrent breaks the current token after its first byte, leaving the
// first part current and the remainder next.
func (p *Parser) splitCurrent(first, rest lexer.TokenType) {
	tok := p.cur()
	mid := tok.Span.Start
	mid.Column++
	mid.Offset++

	head := lexer.Token{Type: first, Literal: tok.Literal[:1], Span: position.Span{Start: tok.Span.Start, End: mid}}
	tail := lexer.Token{Type: rest, Literal: tok.Literal[1:], Span: position.Span{Start: mid, End: tok.Span.End}}

	p.splits = append(p.splits, split{index: p.pos, orig: tok})
	p.tokens[p.pos] = head
	p.tokens = append(p.tokens[:p.pos+1], append([]lexer.Token{tail}, p.tokens[p.pos+1:]...)...)
}

// span returns the span from start to the end of the last consumed token.
func (p *Parser) span(start position.Position) position.Span {
	end := p.lastEnd
	if end.Offset < start.Offset {
		end = start
	}
	return position.Span{Start: start, End: end}
}

func (p *Parser) debug(msg string, args ...any) {
	if p.logger == nil || !p.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	p.logger.Debug(msg, args...)
}
