package model

import (
	"fmt"
	"strings"
)

// Row represents one displayed record of a tree table.
//
// The hierarchy is never stored as pointers: ParentID is the id referenced by
// the row's child marker and children are found by scanning for it.
type Row struct {
	ID       string   `json:"id" yaml:"id"`
	ParentID string   `json:"child_of,omitempty" yaml:"child_of,omitempty"`
	Kind     Kind     `json:"kind" yaml:"kind"`
	Tag      Tag      `json:"tag,omitempty" yaml:"tag,omitempty"`
	Hidden   bool     `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Control  bool     `json:"control,omitempty" yaml:"control,omitempty"`
	Cells    []Cell   `json:"cells" yaml:"cells"`
	Classes  []string `json:"classes,omitempty" yaml:"classes,omitempty"` // Unrelated class tokens, kept verbatim
}

// Cell is a single table cell.
type Cell struct {
	Text        string `json:"text" yaml:"text"`
	PaddingLeft int    `json:"padding_left,omitempty" yaml:"padding_left,omitempty"` // Pixels
}

// Clone creates a deep copy of the row
func (r Row) Clone() Row {
	clone := r
	if r.Cells != nil {
		clone.Cells = make([]Cell, len(r.Cells))
		copy(clone.Cells, r.Cells)
	}
	if r.Classes != nil {
		clone.Classes = make([]string, len(r.Classes))
		copy(clone.Classes, r.Classes)
	}
	return clone
}

// Validate checks if the row data is logically valid
func (r *Row) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("row ID cannot be empty")
	}
	if strings.ContainsAny(r.ID, " \t\n") {
		return fmt.Errorf("row ID %q cannot contain whitespace", r.ID)
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("invalid kind: %d", r.Kind)
	}
	if !r.Tag.IsValid() {
		return fmt.Errorf("invalid tag: %s", r.Tag)
	}
	return nil
}

// IsRoot reports whether the row carries no child marker.
func (r *Row) IsRoot() bool {
	return r.ParentID == ""
}

// IsParent reports whether the row is classified as a parent.
func (r *Row) IsParent() bool {
	return r.Kind == KindParent
}

// Cell returns a pointer to the cell at column col, or nil if the row has no
// such cell.
func (r *Row) Cell(col int) *Cell {
	if col < 0 || col >= len(r.Cells) {
		return nil
	}
	return &r.Cells[col]
}

// State returns the row's combined classification.
func (r *Row) State() State {
	switch {
	case r.Kind != KindParent:
		return StateLeaf
	case r.Tag == TagExpanded:
		return StateExpanded
	case r.Tag == TagCollapsed:
		return StateCollapsed
	default:
		return StateParent
	}
}

// Kind is the structural classification of a row.
type Kind int

const (
	KindUnclassified Kind = iota // Not yet seen by the initializer
	KindLeaf                     // No children
	KindParent                   // Has children or was marked explicitly
)

// IsValid returns true if the kind is a recognized value
func (k Kind) IsValid() bool {
	switch k {
	case KindUnclassified, KindLeaf, KindParent:
		return true
	}
	return false
}

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindParent:
		return "parent"
	default:
		return "unclassified"
	}
}

// Tag is the expanded/collapsed marker of a row.
type Tag string

const (
	TagNone      Tag = ""
	TagExpanded  Tag = "expanded"
	TagCollapsed Tag = "collapsed"
)

// IsValid returns true if the tag is a recognized value
func (t Tag) IsValid() bool {
	switch t {
	case TagNone, TagExpanded, TagCollapsed:
		return true
	}
	return false
}

// ParseTag converts a user-supplied state name into a Tag.
func ParseTag(s string) (Tag, error) {
	switch Tag(strings.ToLower(strings.TrimSpace(s))) {
	case TagExpanded:
		return TagExpanded, nil
	case TagCollapsed:
		return TagCollapsed, nil
	}
	return TagNone, fmt.Errorf("invalid state %q (want expanded or collapsed)", s)
}

// State is the explicit tree state of a row: a leaf, or a parent that is
// untagged, expanded or collapsed.
type State int

const (
	StateLeaf State = iota
	StateParent
	StateExpanded
	StateCollapsed
)

func (s State) String() string {
	switch s {
	case StateParent:
		return "parent"
	case StateExpanded:
		return "parent+expanded"
	case StateCollapsed:
		return "parent+collapsed"
	default:
		return "leaf"
	}
}
