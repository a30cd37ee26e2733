package lexer

import (
	"fmt"

	"github.com/jodin-lang/jodin/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types of the Jodin language
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenIdentifier
	TokenInteger
	TokenFloat
	TokenString
	TokenChar
	TokenBool

	// Keywords
	TokenFn
	TokenLet
	TokenConst
	TokenStatic
	TokenIf
	TokenElse
	TokenSwitch
	TokenCase
	TokenDefault
	TokenWhile
	TokenDo
	TokenFor
	TokenForeach
	TokenBreak
	TokenContinue
	TokenReturn
	TokenStruct
	TokenTrait
	TokenClass
	TokenEnum
	TokenImplement
	TokenIn
	TokenUsing
	TokenExtern
	TokenPublic
	TokenPrivate
	TokenProtected
	TokenNew
	TokenSuper
	TokenAs

	// Primitive type keywords
	TokenVoid
	TokenBoolean
	TokenCharType
	TokenByte
	TokenShort
	TokenInt
	TokenLong
	TokenFloatType
	TokenDouble
	TokenUnsigned

	// Operators
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenMod
	TokenIncrement
	TokenDecrement
	TokenAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenMulAssign
	TokenDivAssign
	TokenModAssign
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenShr
	TokenBitAndAssign
	TokenBitOrAssign
	TokenBitXorAssign
	TokenShlAssign
	TokenShrAssign

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenColon
	TokenDoubleColon
	TokenArrow
	TokenQuestion
	TokenEllipsis
)

// Token represents a lexical token with position information
type Token struct {
	Type    TokenType
	Literal string
	Span    position.Span // Source code span for this token
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Pos: %s}",
		t.Type, t.Literal, t.Span.Start)
}

// Describe returns the token the way diagnostics quote it.
func (t Token) Describe() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenIdentifier:
		return fmt.Sprintf("identifier `%s`", t.Literal)
	case TokenError:
		return "invalid token"
	}
	return fmt.Sprintf("`%s`", t.Literal)
}

// Is reports whether the token has one of the given types.
func (t Token) Is(types ...TokenType) bool {
	for _, tt := range types {
		if t.Type == tt {
			return true
		}
	}
	return false
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Type >= TokenFn && t.Type <= TokenUnsigned
}

// IsPrimitive reports whether the token names a primitive type.
func (t Token) IsPrimitive() bool {
	return t.Type >= TokenVoid && t.Type <= TokenUnsigned
}

// IsAssignment reports whether the token is `=` or a compound assignment.
func (t Token) IsAssignment() bool {
	switch t.Type {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenMulAssign,
		TokenDivAssign, TokenModAssign, TokenBitAndAssign, TokenBitOrAssign,
		TokenBitXorAssign, TokenShlAssign, TokenShrAssign:
		return true
	}
	return false
}

// tokenNames provides string representations for token types
var tokenNames = map[TokenType]string{
	TokenEOF:   "EOF",
	TokenError: "ERROR",

	TokenIdentifier: "IDENTIFIER",
	TokenInteger:    "INTEGER",
	TokenFloat:      "FLOAT",
	TokenString:     "STRING",
	TokenChar:       "CHAR",
	TokenBool:       "BOOL",

	TokenFn:        "FN",
	TokenLet:       "LET",
	TokenConst:     "CONST",
	TokenStatic:    "STATIC",
	TokenIf:        "IF",
	TokenElse:      "ELSE",
	TokenSwitch:    "SWITCH",
	TokenCase:      "CASE",
	TokenDefault:   "DEFAULT",
	TokenWhile:     "WHILE",
	TokenDo:        "DO",
	TokenFor:       "FOR",
	TokenForeach:   "FOREACH",
	TokenBreak:     "BREAK",
	TokenContinue:  "CONTINUE",
	TokenReturn:    "RETURN",
	TokenStruct:    "STRUCT",
	TokenTrait:     "TRAIT",
	TokenClass:     "CLASS",
	TokenEnum:      "ENUM",
	TokenImplement: "IMPLEMENT",
	TokenIn:        "IN",
	TokenUsing:     "USING",
	TokenExtern:    "EXTERN",
	TokenPublic:    "PUBLIC",
	TokenPrivate:   "PRIVATE",
	TokenProtected: "PROTECTED",
	TokenNew:       "NEW",
	TokenSuper:     "SUPER",
	TokenAs:        "AS",

	TokenVoid:      "VOID",
	TokenBoolean:   "BOOLEAN",
	TokenCharType:  "CHAR_TYPE",
	TokenByte:      "BYTE",
	TokenShort:     "SHORT",
	TokenInt:       "INT",
	TokenLong:      "LONG",
	TokenFloatType: "FLOAT_TYPE",
	TokenDouble:    "DOUBLE",
	TokenUnsigned:  "UNSIGNED",

	TokenPlus:         "PLUS",
	TokenMinus:        "MINUS",
	TokenMul:          "MUL",
	TokenDiv:          "DIV",
	TokenMod:          "MOD",
	TokenIncrement:    "INCREMENT",
	TokenDecrement:    "DECREMENT",
	TokenAssign:       "ASSIGN",
	TokenPlusAssign:   "PLUS_ASSIGN",
	TokenMinusAssign:  "MINUS_ASSIGN",
	TokenMulAssign:    "MUL_ASSIGN",
	TokenDivAssign:    "DIV_ASSIGN",
	TokenModAssign:    "MOD_ASSIGN",
	TokenEq:           "EQ",
	TokenNe:           "NE",
	TokenLt:           "LT",
	TokenLe:           "LE",
	TokenGt:           "GT",
	TokenGe:           "GE",
	TokenAnd:          "AND",
	TokenOr:           "OR",
	TokenNot:          "NOT",
	TokenBitAnd:       "BIT_AND",
	TokenBitOr:        "BIT_OR",
	TokenBitXor:       "BIT_XOR",
	TokenBitNot:       "BIT_NOT",
	TokenShl:          "SHL",
	TokenShr:          "SHR",
	TokenBitAndAssign: "BIT_AND_ASSIGN",
	TokenBitOrAssign:  "BIT_OR_ASSIGN",
	TokenBitXorAssign: "BIT_XOR_ASSIGN",
	TokenShlAssign:    "SHL_ASSIGN",
	TokenShrAssign:    "SHR_ASSIGN",

	TokenLParen:      "LPAREN",
	TokenRParen:      "RPAREN",
	TokenLBrace:      "LBRACE",
	TokenRBrace:      "RBRACE",
	TokenLBracket:    "LBRACKET",
	TokenRBracket:    "RBRACKET",
	TokenSemicolon:   "SEMICOLON",
	TokenComma:       "COMMA",
	TokenDot:         "DOT",
	TokenColon:       "COLON",
	TokenDoubleColon: "DOUBLE_COLON",
	TokenArrow:       "ARROW",
	TokenQuestion:    "QUESTION",
	TokenEllipsis:    "ELLIPSIS",
}

// keywords maps string keywords to their token types
var keywords = map[string]TokenType{
	"fn":        TokenFn,
	"let":       TokenLet,
	"const":     TokenConst,
	"static":    TokenStatic,
	"if":        TokenIf,
	"else":      TokenElse,
	"switch":    TokenSwitch,
	"case":      TokenCase,
	"default":   TokenDefault,
	"while":     TokenWhile,
	"do":        TokenDo,
	"for":       TokenFor,
	"foreach":   TokenForeach,
	"break":     TokenBreak,
	"continue":  TokenContinue,
	"return":    TokenReturn,
	"struct":    TokenStruct,
	"trait":     TokenTrait,
	"class":     TokenClass,
	"enum":      TokenEnum,
	"implement": TokenImplement,
	"in":        TokenIn,
	"using":     TokenUsing,
	"extern":    TokenExtern,
	"public":    TokenPublic,
	"private":   TokenPrivate,
	"protected": TokenProtected,
	"new":       TokenNew,
	"super":     TokenSuper,
	"as":        TokenAs,
	"void":      TokenVoid,
	"boolean":   TokenBoolean,
	"char":      TokenCharType,
	"byte":      TokenByte,
	"short":     TokenShort,
	"int":       TokenInt,
	"long":      TokenLong,
	"float":     TokenFloatType,
	"double":    TokenDouble,
	"unsigned":  TokenUnsigned,
	"true":      TokenBool,
	"false":     TokenBool,
}

// LookupIdent returns the keyword token type for ident, or TokenIdentifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}
