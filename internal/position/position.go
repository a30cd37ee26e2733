// Package position provides source position tracking for the Jodin front end.
// Tokens, AST nodes and diagnostics all refer back to source text through the
// Position and Span types defined here.
package position

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Position is a point in a source file. Line and Column are 1-based, Offset
// is the 0-based byte offset.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

// IsValid reports whether p was produced by the lexer. The zero Position
// is not valid.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String formats p as file:line:col, using only the base name of the file.
func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
}

// Span is the half-open range [Start, End) of one file.
type Span struct {
	Start Position
	End   Position
}

// IsValid reports whether both ends are valid, lie in the same file and are
// ordered.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() &&
		s.Start.Filename == s.End.Filename &&
		s.Start.Offset <= s.End.Offset
}

func (s Span) String() string {
	prefix := ""
	if s.Start.Filename != "" {
		prefix = filepath.Base(s.Start.Filename) + ":"
	}
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s%d:%d-%d", prefix, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s%d:%d-%d:%d", prefix, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Union returns the smallest span covering s and other. An invalid operand
// is ignored; spans of different files are not merged and s is returned.
func (s Span) Union(other Span) Span {
	switch {
	case !s.IsValid():
		return other
	case !other.IsValid(), s.Start.Filename != other.Start.Filename:
		return s
	}
	u := s
	if other.Start.Offset < u.Start.Offset {
		u.Start = other.Start
	}
	if other.End.Offset > u.End.Offset {
		u.End = other.End
	}
	return u
}

// SourceFile is the content of one file, split into lines for quoting in
// diagnostics.
type SourceFile struct {
	Filename string
	Content  string
	Lines    []string // without line terminators
}

// NewSourceFile splits content on "\n", dropping a trailing "\r" from each
// line.
func NewSourceFile(filename, content string) *SourceFile {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return &SourceFile{Filename: filename, Content: content, Lines: lines}
}

// GetLine returns line n (1-based), or "" when n is out of range.
func (sf *SourceFile) GetLine(n int) string {
	if n < 1 || n > len(sf.Lines) {
		return ""
	}
	return sf.Lines[n-1]
}

// GetSpanText returns the source text covered by span, or "" when span does
// not belong to sf or reaches past its end.
func (sf *SourceFile) GetSpanText(span Span) string {
	if !span.IsValid() || span.Start.Filename != sf.Filename || span.End.Offset > len(sf.Content) {
		return ""
	}
	return sf.Content[span.Start.Offset:span.End.Offset]
}
