package ast

import (
	"errors"
	"fmt"
)

// ErrDuplicateTag is returned when a node already carries a tag of the same kind.
var ErrDuplicateTag = errors.New("duplicate tag")

// TagKind identifies a kind of tag. A node carries at most one tag per kind.
type TagKind int

const (
	TagVisibility TagKind = iota
	TagLabeledStatement
)

func (k TagKind) String() string {
	if k == TagLabeledStatement {
		return "label"
	}
	return "visibility"
}

// Tag is metadata attached to a node after it is built.
type Tag interface {
	TagKind() TagKind
	String() string
}

// Visibility controls access to a declaration.
type Visibility int

const (
	Protected Visibility = iota
	Public
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Private:
		return "private"
	}
	return "protected"
}

// VisibilityTag records the visibility of a declaration.
type VisibilityTag struct {
	Visibility Visibility
}

func (VisibilityTag) TagKind() TagKind { return TagVisibility }
func (t VisibilityTag) String() string { return t.Visibility.String() }

// LabelTag names a labeled statement.
type LabelTag struct {
	Label string
}

func (LabelTag) TagKind() TagKind { return TagLabeledStatement }
func (t LabelTag) String() string { return "label=" + t.Label }

// TagSet holds the tags of a node in insertion order.
type TagSet struct {
	tags []Tag
}

// Add attaches tag. It never replaces an existing tag of the same kind.
func (s *TagSet) Add(tag Tag) error {
	if _, ok := s.Get(tag.TagKind()); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTag, tag.TagKind())
	}
	s.tags = append(s.tags, tag)
	return nil
}

// Get returns the tag of the given kind.
func (s *TagSet) Get(kind TagKind) (Tag, bool) {
	for _, t := range s.tags {
		if t.TagKind() == kind {
			return t, true
		}
	}
	return nil, false
}

// Visibility returns the visibility tag, if present.
func (s *TagSet) Visibility() (Visibility, bool) {
	t, ok := s.Get(TagVisibility)
	if !ok {
		return Protected, false
	}
	return t.(VisibilityTag).Visibility, true
}

// Label returns the statement label, if present.
func (s *TagSet) Label() (string, bool) {
	t, ok := s.Get(TagLabeledStatement)
	if !ok {
		return "", false
	}
	return t.(LabelTag).Label, true
}

// All returns the tags in insertion order.
func (s *TagSet) All() []Tag {
	return append([]Tag(nil), s.tags...)
}

func (s *TagSet) Len() int { return len(s.tags) }

// AddTag attaches tag to n.
func AddTag(n Node, tag Tag) error {
	return n.Meta().Tags.Add(tag)
}
