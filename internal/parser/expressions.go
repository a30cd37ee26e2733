package parser

import (
	"github.com/jodin-lang/jodin/internal/ast"
	"github.com/jodin-lang/jodin/internal/lexer"
)

type binaryOp struct {
	tok lexer.TokenType
	op  ast.Operator
}

// binaryTiers lists the binary precedence levels, lowest first. Every level
// is left associative.
var binaryTiers = [][]binaryOp{
	{{lexer.TokenOr, ast.OpOr}},
	{{lexer.TokenAnd, ast.OpAnd}},
	{{lexer.TokenBitOr, ast.OpBitOr}},
	{{lexer.TokenBitXor, ast.OpBitXor}},
	{{lexer.TokenBitAnd, ast.OpBitAnd}},
	{{lexer.TokenEq, ast.OpEq}, {lexer.TokenNe, ast.OpNe}},
	{{lexer.TokenLt, ast.OpLt}, {lexer.TokenLe, ast.OpLe}, {lexer.TokenGt, ast.OpGt}, {lexer.TokenGe, ast.OpGe}},
	{{lexer.TokenShl, ast.OpShl}, {lexer.TokenShr, ast.OpShr}},
	{{lexer.TokenPlus, ast.OpAdd}, {lexer.TokenMinus, ast.OpSub}},
	{{lexer.TokenMul, ast.OpMul}, {lexer.TokenDiv, ast.OpDiv}, {lexer.TokenMod, ast.OpMod}},
}

var unaryOps = map[lexer.TokenType]ast.Operator{
	lexer.TokenMinus:     ast.OpSub,
	lexer.TokenPlus:      ast.OpAdd,
	lexer.TokenNot:       ast.OpNot,
	lexer.TokenBitNot:    ast.OpBitNot,
	lexer.TokenIncrement: ast.OpIncrement,
	lexer.TokenDecrement: ast.OpDecrement,
	lexer.TokenMul:       ast.OpMul,
	lexer.TokenBitAnd:    ast.OpBitAnd,
}

var assignOps = map[lexer.TokenType]ast.Operator{
	lexer.TokenAssign:       ast.OpNone,
	lexer.TokenPlusAssign:   ast.OpAdd,
	lexer.TokenMinusAssign:  ast.OpSub,
	lexer.TokenMulAssign:    ast.OpMul,
	lexer.TokenDivAssign:    ast.OpDiv,
	lexer.TokenModAssign:    ast.OpMod,
	lexer.TokenBitAndAssign: ast.OpBitAnd,
	lexer.TokenBitOrAssign:  ast.OpBitOr,
	lexer.TokenBitXorAssign: ast.OpBitXor,
	lexer.TokenShlAssign:    ast.OpShl,
	lexer.TokenShrAssign:    ast.OpShr,
}

// parseExpression parses a full expression, ternary included.
func (p *Parser) parseExpression() (ast.Node, error) {
	return p.parseTernary()
}

// parseTernary parses `cond ? then : else`, associating to the right.
func (p *Parser) parseTernary() (ast.Node, error) {
	start := p.cur().Span.Start
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if !p.accept(lexer.TokenQuestion) {
		return cond, nil
	}
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon, quote(":")); err != nil {
		return nil, err
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	n := &ast.Ternary{Cond: cond, Then: then, Else: els}
	n.Span = p.span(start)
	return n, nil
}

// parseBinary parses the tier at index level and everything above it.
func (p *Parser) parseBinary(level int) (ast.Node, error) {
	if level == len(binaryTiers) {
		return p.parseUnary()
	}
	start := p.cur().Span.Start
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := matchBinary(binaryTiers[level], p.cur().Type)
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		n := &ast.Binop{Op: op, Left: left, Right: right}
		n.Span = p.span(start)
		left = n
	}
}

func matchBinary(tier []binaryOp, tt lexer.TokenType) (ast.Operator, bool) {
	for _, b := range tier {
		if b.tok == tt {
			return b.op, true
		}
	}
	return ast.OpNone, false
}

// parseUnary parses prefix operators, casts and postfix chains.
func (p *Parser) parseUnary() (ast.Node, error) {
	start := p.cur().Span.Start
	if op, ok := unaryOps[p.cur().Type]; ok {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n := &ast.Uniop{Op: op, Operand: operand}
		n.Span = p.span(start)
		return n, nil
	}
	if p.at(lexer.TokenLParen) {
		return p.parseParenthesized()
	}
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(atom, start)
}

// parseExpressionOrAssignment parses an expression optionally followed by an
// assignment operator and a value.
func (p *Parser) parseExpressionOrAssignment() (ast.Node, error) {
	start := p.cur().Span.Start
	target, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	op, ok := assignOps[p.cur().Type]
	if !ok {
		return target, nil
	}
	if !isAssignable(target) {
		return nil, p.errorAt(SyntaxError, SubInvalidAssignmentTarget, target.GetSpan(),
			"cannot assign to %s", describeNode(target))
	}
	p.advance()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	n := &ast.Assignment{Op: op, Target: target, Value: value}
	n.Span = p.span(start)
	return n, nil
}

// isAssignable reports whether n may appear on the left of an assignment.
func isAssignable(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Ident, *ast.GetMember, *ast.Index:
		return true
	case *ast.Uniop:
		return n.Op == ast.OpMul
	}
	return false
}

func describeNode(n ast.Node) string {
	switch n.(type) {
	case *ast.Literal:
		return "a literal"
	case *ast.Call:
		return "a call result"
	case *ast.Binop, *ast.Ternary:
		return "an operator expression"
	}
	return "this expression"
}
