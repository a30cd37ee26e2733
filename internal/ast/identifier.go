package ast

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyIdentifier is returned when an identifier has no segments.
var ErrEmptyIdentifier = errors.New("empty identifier")

// Identifier is a `::`-separated qualified name. The zero value has no
// segments and is only used to mean "absent".
type Identifier struct {
	segments []string
}

// NewIdentifier builds an identifier from its segments. It panics when given
// no segments or an empty segment.
func NewIdentifier(segments ...string) Identifier {
	if len(segments) == 0 {
		panic(ErrEmptyIdentifier)
	}
	for _, s := range segments {
		if s == "" {
			panic(ErrEmptyIdentifier)
		}
	}
	return Identifier{segments: append([]string(nil), segments...)}
}

// ParseIdentifier splits s on `::`.
func ParseIdentifier(s string) (Identifier, error) {
	if s == "" {
		return Identifier{}, ErrEmptyIdentifier
	}
	parts := strings.Split(s, "::")
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return Identifier{}, fmt.Errorf("%w in %q", ErrEmptyIdentifier, s)
		}
	}
	return Identifier{segments: parts}, nil
}

// Segments returns a copy of the segments.
func (id Identifier) Segments() []string {
	return append([]string(nil), id.segments...)
}

// Name returns the last segment.
func (id Identifier) Name() string {
	if len(id.segments) == 0 {
		return ""
	}
	return id.segments[len(id.segments)-1]
}

func (id Identifier) Len() int     { return len(id.segments) }
func (id Identifier) IsZero() bool { return len(id.segments) == 0 }

// Equal reports segment-wise equality.
func (id Identifier) Equal(other Identifier) bool {
	if len(id.segments) != len(other.segments) {
		return false
	}
	for i := range id.segments {
		if id.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// Join returns id followed by other's segments.
func (id Identifier) Join(other Identifier) Identifier {
	out := make([]string, 0, len(id.segments)+len(other.segments))
	out = append(out, id.segments...)
	out = append(out, other.segments...)
	return Identifier{segments: out}
}

func (id Identifier) String() string {
	return strings.Join(id.segments, "::")
}
