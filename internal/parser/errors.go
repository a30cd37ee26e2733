package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jodin-lang/jodin/internal/ast"
	"github.com/jodin-lang/jodin/internal/lexer"
	"github.com/jodin-lang/jodin/internal/position"
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	SyntaxError ErrorKind = iota
	LexicalError
	AmbiguityResolutionError
	UnsupportedConstructError
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalError:
		return "lexical error"
	case AmbiguityResolutionError:
		return "ambiguity error"
	case UnsupportedConstructError:
		return "unsupported construct"
	}
	return "syntax error"
}

// Sub-kinds reported in Error.SubKind.
const (
	SubUnclosedBlock           = "unclosed block"
	SubInvalidGenericBound     = "invalid generic bound"
	SubDuplicateTag            = "duplicate tag"
	SubInvalidAssignmentTarget = "invalid assignment target"
	SubInvalidEscape           = "invalid escape"
	SubInvalidLiteral          = "invalid literal"
	SubInvalidNumeral          = "invalid numeral"
	SubUnterminatedLiteral     = "unterminated literal"
	SubMisplacedVisibility     = "misplaced visibility"
)

// Error is a parse failure. The parser stops at the first one.
type Error struct {
	Kind     ErrorKind
	SubKind  string
	Span     position.Span
	Expected []string // constructs that would have been accepted
	Found    string   // description of the offending token
	Message  string   // detail used when Expected is empty
}

// Pos returns the position the error points at.
func (e *Error) Pos() position.Position { return e.Span.Start }

// Detail returns the message without position and kind.
func (e *Error) Detail() string {
	if len(e.Expected) > 0 {
		msg := "expected " + joinAlternatives(e.Expected)
		if e.Found != "" {
			msg += ", found " + e.Found
		}
		return msg
	}
	if e.Found != "" && e.Message == "" {
		return "unexpected " + e.Found
	}
	return e.Message
}

func (e *Error) Error() string {
	kind := e.Kind.String()
	if e.SubKind != "" {
		kind += " (" + e.SubKind + ")"
	}
	return fmt.Sprintf("%s: %s: %s", e.Span.Start, kind, e.Detail())
}

func joinAlternatives(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
}

// furthest returns whichever error points further into the input.
func furthest(a, b error) error {
	var ea, eb *Error
	if !errors.As(a, &ea) {
		return b
	}
	if !errors.As(b, &eb) {
		return a
	}
	if ea.Span.Start.Offset > eb.Span.Start.Offset {
		return a
	}
	return b
}

// unexpected reports the current token as not matching any of expected. An
// ERROR token is reported as a lexical error instead.
func (p *Parser) unexpected(expected ...string) error {
	tok := p.cur()
	if tok.Type == lexer.TokenError {
		return p.lexicalError(tok)
	}
	return &Error{
		Kind:     SyntaxError,
		Span:     tok.Span,
		Expected: expected,
		Found:    tok.Describe(),
	}
}

func (p *Parser) lexicalError(tok lexer.Token) error {
	sub := ""
	switch {
	case strings.HasPrefix(tok.Literal, "invalid numeral"):
		sub = SubInvalidNumeral
	case strings.HasPrefix(tok.Literal, "unterminated"):
		sub = SubUnterminatedLiteral
	case strings.HasPrefix(tok.Literal, "invalid literal suffix"), strings.HasPrefix(tok.Literal, "empty char"):
		sub = SubInvalidLiteral
	}
	return &Error{
		Kind:    LexicalError,
		SubKind: sub,
		Span:    tok.Span,
		Message: tok.Literal,
	}
}

func (p *Parser) literalError(tok lexer.Token, err error) error {
	sub := SubInvalidLiteral
	if errors.Is(err, ast.ErrInvalidEscape) {
		sub = SubInvalidEscape
	}
	return &Error{
		Kind:    LexicalError,
		SubKind: sub,
		Span:    tok.Span,
		Message: err.Error(),
	}
}

func (p *Parser) errorAt(kind ErrorKind, sub string, span position.Span, format string, args ...interface{}) error {
	return &Error{
		Kind:    kind,
		SubKind: sub,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}

// quote renders a token type the way it is written in source.
func quote(s string) string { return "`" + s + "`" }
