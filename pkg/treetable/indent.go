package treetable

import (
	"github.com/vanderheijden86/treetable/pkg/debug"
	"github.com/vanderheijden86/treetable/pkg/model"
)

// indentChildren sets the tree-cell padding of each direct child to the
// parent's padding plus the indent. Deeper levels compound because parents
// are visited before their children.
func (t *Table) indentChildren(parent *model.Row) {
	col := t.opts.TreeColumn
	cell := parent.Cell(col)
	if cell == nil {
		debug.Log("treetable: row %s has no column %d, children not indented", parent.ID, col)
		return
	}
	padding := cell.PaddingLeft + t.opts.Indent

	for _, child := range t.childrenOf(parent.ID) {
		c := child.Cell(col)
		if c == nil {
			debug.Log("treetable: row %s has no column %d, skipped", child.ID, col)
			continue
		}
		c.PaddingLeft = padding
	}
}
