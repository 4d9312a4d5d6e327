// Package treetable turns a flat, ordered list of rows into a collapsible
// tree.
//
// Parent/child relationships come from each row's child marker
// (child-of-<parent-id>); they are re-derived by scanning the rows whenever
// children are needed and never cached as an adjacency list. A Table owns its
// Options, so two tables with different settings never interfere.
//
//	t, err := treetable.Initialize(rows, treetable.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	_ = t.Toggle("node-1")
package treetable

import (
	"errors"
	"fmt"

	"github.com/vanderheijden86/treetable/pkg/model"
)

// Default option values.
const (
	DefaultIndent     = 19
	DefaultTreeColumn = 0
)

// Common errors.
var (
	ErrRowNotFound    = errors.New("row not found")
	ErrInvalidOptions = errors.New("invalid options")
	ErrInvalidRow     = errors.New("invalid row")
	ErrDuplicateID    = errors.New("duplicate row id")
	ErrSelfParent     = errors.New("row is its own parent")
	ErrCycle          = errors.New("cyclic hierarchy")
)

// Options configures a single table. It is fixed for the table's lifetime.
type Options struct {
	Expandable   bool      // Install toggle controls and default tags
	DefaultState model.Tag // Tag for parents without an explicit one
	Indent       int       // Per-level indent of the tree column, in pixels
	TreeColumn   int       // Zero-based column that shows the tree
}

// DefaultOptions returns expandable tables with expanded parents, a 19px
// indent and the tree in the first column.
func DefaultOptions() Options {
	return Options{
		Expandable:   true,
		DefaultState: model.TagExpanded,
		Indent:       DefaultIndent,
		TreeColumn:   DefaultTreeColumn,
	}
}

// Validate checks that the options can be applied.
func (o Options) Validate() error {
	if o.DefaultState != model.TagExpanded && o.DefaultState != model.TagCollapsed {
		return fmt.Errorf("%w: default state %q must be expanded or collapsed", ErrInvalidOptions, o.DefaultState)
	}
	if o.Indent < 0 {
		return fmt.Errorf("%w: indent %d is negative", ErrInvalidOptions, o.Indent)
	}
	if o.TreeColumn < 0 {
		return fmt.Errorf("%w: tree column %d is negative", ErrInvalidOptions, o.TreeColumn)
	}
	return nil
}
