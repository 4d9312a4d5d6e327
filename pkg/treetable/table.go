package treetable

import (
	"fmt"

	"github.com/vanderheijden86/treetable/pkg/model"
)

// Table is an initialized tree table. It is not safe for concurrent use.
type Table struct {
	rows  []*model.Row   // Document order
	index map[string]int // Row ID -> position in rows, lookup only
	opts  Options
}

func newTable(rows []*model.Row, opts Options) (*Table, error) {
	t := &Table{
		rows:  make([]*model.Row, 0, len(rows)),
		index: make(map[string]int, len(rows)),
		opts:  opts,
	}
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("%w: row %d is nil", ErrInvalidRow, i)
		}
		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidRow, i, err)
		}
		if _, dup := t.index[row.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, row.ID)
		}
		t.index[row.ID] = len(t.rows)
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// Options returns the table's configuration.
func (t *Table) Options() Options {
	return t.opts
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns all rows in document order. The rows are shared with the
// table, so callers see every later state change.
func (t *Table) Rows() []*model.Row {
	out := make([]*model.Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Row returns the row with the given id, or nil.
func (t *Table) Row(id string) *model.Row {
	if i, ok := t.index[id]; ok {
		return t.rows[i]
	}
	return nil
}

func (t *Table) lookup(id string) (*model.Row, error) {
	row := t.Row(id)
	if row == nil {
		return nil, fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	return row, nil
}

// ChildrenOf returns every row whose child marker references id, in
// document order. A leaf or unknown id yields an empty slice.
func (t *Table) ChildrenOf(id string) []*model.Row {
	return t.childrenOf(id)
}

func (t *Table) childrenOf(id string) []*model.Row {
	var children []*model.Row
	if id == "" {
		return children
	}
	for _, row := range t.rows {
		if row.ParentID == id {
			children = append(children, row)
		}
	}
	return children
}

// Roots returns rows without a parent in the table, in document order. A row
// whose marker names a missing id is a root.
func (t *Table) Roots() []*model.Row {
	var roots []*model.Row
	for _, row := range t.rows {
		if t.parentOf(row) == nil {
			roots = append(roots, row)
		}
	}
	return roots
}

func (t *Table) parentOf(row *model.Row) *model.Row {
	if row.ParentID == "" {
		return nil
	}
	return t.Row(row.ParentID)
}

// Ancestors returns the ancestors of id from the root down to its parent.
func (t *Table) Ancestors(id string) ([]*model.Row, error) {
	row, err := t.lookup(id)
	if err != nil {
		return nil, err
	}
	return t.ancestors(row), nil
}

func (t *Table) ancestors(row *model.Row) []*model.Row {
	var chain []*model.Row
	for p := t.parentOf(row); p != nil; p = t.parentOf(p) {
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Depth returns the nesting level of id (0 for roots).
func (t *Table) Depth(id string) (int, error) {
	row, err := t.lookup(id)
	if err != nil {
		return 0, err
	}
	return len(t.ancestors(row)), nil
}

// IsVisible reports whether the row with the given id is shown.
func (t *Table) IsVisible(id string) bool {
	row := t.Row(id)
	return row != nil && !row.Hidden
}

// VisibleRows returns the shown rows in document order.
func (t *Table) VisibleRows() []*model.Row {
	var visible []*model.Row
	for _, row := range t.rows {
		if !row.Hidden {
			visible = append(visible, row)
		}
	}
	return visible
}

// hiddenByAncestor reports whether some ancestor of row is tagged collapsed.
func (t *Table) hiddenByAncestor(row *model.Row) bool {
	for p := t.parentOf(row); p != nil; p = t.parentOf(p) {
		if p.Tag == model.TagCollapsed {
			return true
		}
	}
	return false
}

// walk visits every row reachable from the roots in depth-first pre-order.
func (t *Table) walk(fn func(*model.Row)) {
	var visit func(row *model.Row)
	visit = func(row *model.Row) {
		fn(row)
		for _, child := range t.childrenOf(row.ID) {
			visit(child)
		}
	}
	for _, root := range t.Roots() {
		visit(root)
	}
}
