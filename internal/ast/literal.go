package ast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidEscape is returned for an unknown or truncated escape sequence.
	ErrInvalidEscape = errors.New("invalid escape")
	// ErrInvalidLiteral is returned for a literal that cannot be decoded.
	ErrInvalidLiteral = errors.New("invalid literal")
)

// LiteralKind is the syntactic class of a literal.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitChar
	LitString
	LitBool
)

// LiteralType is the primitive type a literal denotes, derived from its form
// and suffix.
type LiteralType int

const (
	LiteralInt LiteralType = iota
	LiteralUnsignedInt
	LiteralLong
	LiteralUnsignedLong
	LiteralFloat
	LiteralDouble
	LiteralChar
	LiteralString
	LiteralBoolean
)

var literalTypeNames = [...]string{
	LiteralInt:          "int",
	LiteralUnsignedInt:  "unsigned int",
	LiteralLong:         "long",
	LiteralUnsignedLong: "unsigned long",
	LiteralFloat:        "float",
	LiteralDouble:       "double",
	LiteralChar:         "char",
	LiteralString:       "string",
	LiteralBoolean:      "boolean",
}

func (t LiteralType) String() string {
	if int(t) < len(literalTypeNames) {
		return literalTypeNames[t]
	}
	return "unknown"
}

// NewLiteral decodes raw source text of the given kind.
func NewLiteral(kind LiteralKind, raw string) (*Literal, error) {
	lit := &Literal{LitKind: kind, Raw: raw}
	var err error
	switch kind {
	case LitInt, LitFloat:
		err = decodeNumber(lit)
	case LitChar:
		err = decodeChar(lit)
	case LitString:
		lit.Type = LiteralString
		lit.Value, err = decodeString(raw)
	case LitBool:
		lit.Type = LiteralBoolean
		switch raw {
		case "true":
			lit.Value = true
		case "false":
			lit.Value = false
		default:
			err = fmt.Errorf("%w: boolean %q", ErrInvalidLiteral, raw)
		}
	}
	if err != nil {
		return nil, err
	}
	return lit, nil
}

// splitSuffix separates trailing suffix letters from a numeral.
func splitSuffix(raw string) (string, string) {
	hex := strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X")
	i := len(raw)
	for i > 0 {
		c := raw[i-1]
		isSuffix := c == 'u' || c == 'U' || c == 'l' || c == 'L'
		if !hex {
			isSuffix = isSuffix || c == 'f' || c == 'F'
		}
		if !isSuffix {
			break
		}
		i--
	}
	return raw[:i], raw[i:]
}

func decodeNumber(lit *Literal) error {
	digits, suffix := splitSuffix(lit.Raw)
	lit.Suffix = suffix
	s := strings.ToLower(suffix)

	if lit.LitKind == LitFloat || strings.Contains(s, "f") {
		if s != "" && s != "f" {
			return fmt.Errorf("%w: suffix %q on floating literal", ErrInvalidLiteral, suffix)
		}
		v, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidLiteral, lit.Raw)
		}
		lit.LitKind = LitFloat
		lit.Value = v
		lit.Type = LiteralDouble
		if s == "f" {
			lit.Type = LiteralFloat
		}
		return nil
	}

	base := 10
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
		digits = digits[2:]
	}

	bits := 32
	switch s {
	case "":
		lit.Type = LiteralInt
	case "u":
		lit.Type = LiteralUnsignedInt
	case "l":
		lit.Type, bits = LiteralLong, 64
	case "ul", "lu":
		lit.Type, bits = LiteralUnsignedLong, 64
	default:
		return fmt.Errorf("%w: suffix %q", ErrInvalidLiteral, suffix)
	}

	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return fmt.Errorf("%w: %s out of range", ErrInvalidLiteral, lit.Raw)
	}
	if lit.Type == LiteralUnsignedInt || lit.Type == LiteralUnsignedLong {
		if bits == 32 && v > 1<<32-1 {
			return fmt.Errorf("%w: %s out of range", ErrInvalidLiteral, lit.Raw)
		}
		lit.Value = v
		return nil
	}
	// Hex literals may use the full unsigned width of their type.
	limit := uint64(1)<<(bits-1) - 1
	if base == 16 {
		limit = limit<<1 | 1
	}
	if v > limit {
		return fmt.Errorf("%w: %s out of range", ErrInvalidLiteral, lit.Raw)
	}
	lit.Value = int64(v)
	return nil
}

func decodeChar(lit *Literal) error {
	lit.Type = LiteralChar
	if len(lit.Raw) < 3 || lit.Raw[0] != '\'' || lit.Raw[len(lit.Raw)-1] != '\'' {
		return fmt.Errorf("%w: char %s", ErrInvalidLiteral, lit.Raw)
	}
	s, err := unescape(lit.Raw[1 : len(lit.Raw)-1])
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(s) != 1 {
		return fmt.Errorf("%w: char literal %s must hold one character", ErrInvalidLiteral, lit.Raw)
	}
	r, _ := utf8.DecodeRuneInString(s)
	lit.Value = r
	return nil
}

// IsExactString reports whether raw is an exact string `(*"..."*)`.
func IsExactString(raw string) bool {
	return strings.HasPrefix(raw, `(*"`) && strings.HasSuffix(raw, `"*)`) && len(raw) >= 6
}

func decodeString(raw string) (string, error) {
	if IsExactString(raw) {
		return raw[3 : len(raw)-3], nil
	}
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", fmt.Errorf("%w: string %s", ErrInvalidLiteral, raw)
	}
	return unescape(raw[1 : len(raw)-1])
}

// unescape processes \n \t \r \0 \\ \' \" and \uXXXX.
func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("%w: trailing backslash", ErrInvalidEscape)
		}
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteByte(s[i])
		case 'u':
			if i+5 > len(s) {
				return "", fmt.Errorf("%w: \\u needs four hex digits", ErrInvalidEscape)
			}
			v, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
			// Surrogate halves are not scalar values and cannot stand alone.
			if err != nil || !utf8.ValidRune(rune(v)) {
				return "", fmt.Errorf("%w: \\u%s", ErrInvalidEscape, s[i+1:i+5])
			}
			b.WriteRune(rune(v))
			i += 4
		default:
			return "", fmt.Errorf("%w: \\%c", ErrInvalidEscape, s[i])
		}
	}
	return b.String(), nil
}
