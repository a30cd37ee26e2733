// Package lexer turns Jodin source text into a stream of typed tokens.
package lexer

import (
	"fmt"
	"strings"

	"github.com/jodin-lang/jodin/internal/position"
)

// Source is a pull-based token stream. Once it has produced an EOF token it
// keeps returning EOF.
type Source interface {
	NextToken() Token
}

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	filename     string // source filename for spans and error reporting
	position     int    // current position in input (points to current char)
	readPosition int    // current reading position in input (after current char)
	ch           byte   // current char under examination
	line         int    // line of the current char
	column       int    // column of the current char
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer instance with filename for error reporting
func NewWithFilename(input, filename string) *Lexer {
	l := &Lexer{
		input:    input,
		filename: filename,
		line:     1,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.readPosition > len(l.input) {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL character represents "EOF"
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	return l.peekAt(0)
}

// peekAt returns the character n places after the next one.
func (l *Lexer) peekAt(n int) byte {
	if l.readPosition+n >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition+n]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// currentPosition returns the position of the current char
func (l *Lexer) currentPosition() position.Position {
	return position.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column,
		Offset:   l.position,
	}
}

// skipTrivia skips whitespace and comments. It returns a non-empty message
// when a block comment is left unterminated.
func (l *Lexer) skipTrivia() string {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') {
				if l.atEOF() {
					return "unterminated block comment"
				}
				l.readChar()
			}
			l.readChar()
			l.readChar()
		default:
			return ""
		}
	}
}

// NextToken scans the input and returns the next token with full position information
func (l *Lexer) NextToken() Token {
	if msg := l.skipTrivia(); msg != "" {
		return Token{Type: TokenError, Literal: msg, Span: l.spanFrom(l.currentPosition())}
	}

	start := l.currentPosition()
	if l.atEOF() {
		return Token{Type: TokenEOF, Span: position.Span{Start: start, End: start}}
	}

	switch {
	case isLetter(l.ch) || l.ch == '_':
		ident := l.readIdentifier()
		return l.tokenFrom(LookupIdent(ident), ident, start)
	case l.ch == '@':
		if !isLetter(l.peekChar()) && l.peekChar() != '_' {
			l.readChar()
			return l.tokenFrom(TokenError, "expected identifier after `@`", start)
		}
		l.readChar()
		return l.tokenFrom(TokenIdentifier, l.readIdentifier(), start)
	case isDigit(l.ch):
		return l.readNumber(start)
	case l.ch == '"':
		return l.readString(start)
	case l.ch == '\'':
		return l.readCharLiteral(start)
	case l.ch == '(' && l.peekChar() == '*' && l.peekAt(1) == '"':
		return l.readExactString(start)
	}

	if tt, width := l.matchOperator(); width > 0 {
		literal := l.input[l.position : l.position+width]
		for i := 0; i < width; i++ {
			l.readChar()
		}
		return l.tokenFrom(tt, literal, start)
	}

	ch := l.ch
	l.readChar()
	return l.tokenFrom(TokenError, fmt.Sprintf("unexpected character %q", ch), start)
}

// operators lists operator spellings grouped by length, longest first.
var operators = [][]struct {
	text string
	tt   TokenType
}{
	{
		{"<<=", TokenShlAssign}, {">>=", TokenShrAssign}, {"...", TokenEllipsis},
	},
	{
		{"++", TokenIncrement}, {"--", TokenDecrement}, {"+=", TokenPlusAssign},
		{"-=", TokenMinusAssign}, {"*=", TokenMulAssign}, {"/=", TokenDivAssign},
		{"%=", TokenModAssign}, {"==", TokenEq}, {"!=", TokenNe}, {"<=", TokenLe},
		{">=", TokenGe}, {"&&", TokenAnd}, {"||", TokenOr}, {"<<", TokenShl},
		{">>", TokenShr}, {"&=", TokenBitAndAssign}, {"|=", TokenBitOrAssign},
		{"^=", TokenBitXorAssign}, {"::", TokenDoubleColon}, {"->", TokenArrow},
	},
	{
		{"+", TokenPlus}, {"-", TokenMinus}, {"*", TokenMul}, {"/", TokenDiv},
		{"%", TokenMod}, {"=", TokenAssign}, {"<", TokenLt}, {">", TokenGt},
		{"!", TokenNot}, {"&", TokenBitAnd}, {"|", TokenBitOr}, {"^", TokenBitXor},
		{"~", TokenBitNot}, {"(", TokenLParen}, {")", TokenRParen},
		{"{", TokenLBrace}, {"}", TokenRBrace}, {"[", TokenLBracket},
		{"]", TokenRBracket}, {";", TokenSemicolon}, {",", TokenComma},
		{".", TokenDot}, {":", TokenColon}, {"?", TokenQuestion},
	},
}

// matchOperator finds the longest operator at the current position.
func (l *Lexer) matchOperator() (TokenType, int) {
	rest := l.input[l.position:]
	for _, group := range operators {
		for _, op := range group {
			if strings.HasPrefix(rest, op.text) {
				return op.tt, len(op.text)
			}
		}
	}
	return TokenError, 0
}

// readIdentifier reads an identifier starting at the current char
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads hex, decimal and floating point literals. Suffix letters
// stay part of the literal text.
func (l *Lexer) readNumber(start position.Position) Token {
	begin := l.position
	isFloat := false
	validSuffixes := intSuffixes

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		if !isHexDigit(l.ch) {
			return l.invalidNumeral(begin, start)
		}
		for isHexDigit(l.ch) {
			l.readChar()
		}
		validSuffixes = hexSuffixes
	} else {
		for isDigit(l.ch) {
			l.readChar()
		}
		if l.ch == '.' && isDigit(l.peekChar()) {
			isFloat = true
			l.readChar()
			for isDigit(l.ch) {
				l.readChar()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			next := l.peekChar()
			if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(1))) {
				isFloat = true
				l.readChar()
				if l.ch == '+' || l.ch == '-' {
					l.readChar()
				}
				for isDigit(l.ch) {
					l.readChar()
				}
			}
		}
		if isFloat {
			validSuffixes = floatSuffixes
		}
	}

	suffixStart := l.position
	for isSuffixLetter(l.ch) {
		l.readChar()
	}
	if isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		return l.invalidNumeral(begin, start)
	}

	suffix := strings.ToLower(l.input[suffixStart:l.position])
	if !validSuffixes[suffix] {
		return l.tokenFrom(TokenError,
			fmt.Sprintf("invalid literal suffix `%s`", l.input[suffixStart:l.position]), start)
	}
	if strings.Contains(suffix, "f") {
		isFloat = true
	}

	tt := TokenInteger
	if isFloat {
		tt = TokenFloat
	}
	return l.tokenFrom(tt, l.input[begin:l.position], start)
}

var (
	intSuffixes   = map[string]bool{"": true, "u": true, "l": true, "ul": true, "lu": true, "f": true}
	hexSuffixes   = map[string]bool{"": true, "u": true, "l": true, "ul": true, "lu": true}
	floatSuffixes = map[string]bool{"": true, "f": true}
)

// invalidNumeral consumes the rest of a malformed number.
func (l *Lexer) invalidNumeral(begin int, start position.Position) Token {
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.tokenFrom(TokenError, fmt.Sprintf("invalid numeral `%s`", l.input[begin:l.position]), start)
}

// readString reads a double-quoted string. The literal keeps its quotes and
// escapes raw.
func (l *Lexer) readString(start position.Position) Token {
	begin := l.position
	l.readChar()
	for l.ch != '"' {
		if l.atEOF() || l.ch == '\n' {
			return l.tokenFrom(TokenError, "unterminated string literal", start)
		}
		if l.ch == '\\' {
			l.readChar()
			if l.atEOF() {
				continue
			}
		}
		l.readChar()
	}
	l.readChar()
	return l.tokenFrom(TokenString, l.input[begin:l.position], start)
}

// readExactString reads `(*"..."*)`; the contents are not escape-processed.
func (l *Lexer) readExactString(start position.Position) Token {
	begin := l.position
	l.readChar()
	l.readChar()
	l.readChar()
	for !(l.ch == '"' && l.peekChar() == '*' && l.peekAt(1) == ')') {
		if l.atEOF() {
			return l.tokenFrom(TokenError, "unterminated exact string literal", start)
		}
		l.readChar()
	}
	l.readChar()
	l.readChar()
	l.readChar()
	return l.tokenFrom(TokenString, l.input[begin:l.position], start)
}

// readCharLiteral reads a single-quoted char literal including its quotes.
func (l *Lexer) readCharLiteral(start position.Position) Token {
	begin := l.position
	l.readChar()
	if l.ch == '\'' {
		l.readChar()
		return l.tokenFrom(TokenError, "empty char literal", start)
	}
	for l.ch != '\'' {
		if l.atEOF() || l.ch == '\n' {
			return l.tokenFrom(TokenError, "unterminated char literal", start)
		}
		if l.ch == '\\' {
			l.readChar()
			if l.atEOF() {
				continue
			}
		}
		l.readChar()
	}
	l.readChar()
	return l.tokenFrom(TokenChar, l.input[begin:l.position], start)
}

// tokenFrom creates a token spanning from start to the current char
func (l *Lexer) tokenFrom(tokenType TokenType, literal string, start position.Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Span:    l.spanFrom(start),
	}
}

func (l *Lexer) spanFrom(start position.Position) position.Span {
	return position.Span{Start: start, End: l.currentPosition()}
}

// Tokens drains a source and returns every token up to and including EOF.
func Tokens(src Source) []Token {
	var out []Token
	for {
		tok := src.NextToken()
		out = append(out, tok)
		if tok.Type == TokenEOF {
			return out
		}
	}
}

// SliceSource replays a fixed token sequence.
type SliceSource struct {
	tokens []Token
	pos    int
}

// NewSliceSource returns a source over tokens. A trailing EOF is synthesized
// when the slice does not end with one.
func NewSliceSource(tokens []Token) *SliceSource {
	return &SliceSource{tokens: tokens}
}

// NextToken implements Source.
func (s *SliceSource) NextToken() Token {
	if s.pos < len(s.tokens) {
		tok := s.tokens[s.pos]
		if tok.Type != TokenEOF {
			s.pos++
		}
		return tok
	}
	var end position.Position
	if n := len(s.tokens); n > 0 {
		end = s.tokens[n-1].Span.End
	}
	return Token{Type: TokenEOF, Span: position.Span{Start: end, End: end}}
}

// isLetter checks if character is ASCII letter
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

// isDigit checks if character is ASCII digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}

func isSuffixLetter(ch byte) bool {
	switch ch {
	case 'u', 'U', 'l', 'L', 'f', 'F':
		return true
	}
	return false
}
