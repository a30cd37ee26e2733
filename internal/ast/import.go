package ast

import (
	"strings"

	"github.com/jodin-lang/jodin/internal/position"
)

// Import is one node of a `using` tree: `a::b`, `a::b as c`, `a::*` or
// `a::{...}`.
type Import struct {
	Span     position.Span
	Path     Identifier
	Alias    string
	Wildcard bool
	Children []*Import
}

// ImportedName is a single flattened import.
type ImportedName struct {
	Path     Identifier
	Alias    string // empty when not renamed
	Wildcard bool   // every member of Path
}

// LocalName returns the name the import binds in scope.
func (n ImportedName) LocalName() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Path.Name()
}

// Flatten expands the tree into full paths in source order.
func (imp *Import) Flatten() []ImportedName {
	return imp.flatten(Identifier{})
}

func (imp *Import) flatten(prefix Identifier) []ImportedName {
	path := prefix.Join(imp.Path)
	switch {
	case imp.Wildcard:
		return []ImportedName{{Path: path, Wildcard: true}}
	case len(imp.Children) > 0:
		var out []ImportedName
		for _, c := range imp.Children {
			out = append(out, c.flatten(path)...)
		}
		return out
	}
	return []ImportedName{{Path: path, Alias: imp.Alias}}
}

// String renders the import tree in source syntax.
func (imp *Import) String() string {
	var b strings.Builder
	b.WriteString(sourceIdent(imp.Path))
	switch {
	case imp.Wildcard:
		b.WriteString("::*")
	case len(imp.Children) > 0:
		parts := make([]string, len(imp.Children))
		for i, c := range imp.Children {
			parts[i] = c.String()
		}
		b.WriteString("::{")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("}")
	case imp.Alias != "":
		b.WriteString(" as ")
		b.WriteString(escapeName(imp.Alias))
	}
	return b.String()
}
