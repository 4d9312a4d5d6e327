package treetable

import (
	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"
)

// Toggle flips a row between expanded and collapsed. A collapsed row becomes
// expanded and its children are shown; anything else becomes collapsed and
// its subtree is hidden.
//
// Toggle works on any row and regardless of Options.Expandable. Expanding a
// row that is itself hidden by a collapsed ancestor only retags it; its
// children appear once the ancestor is expanded.
func (t *Table) Toggle(id string) error {
	row, err := t.lookup(id)
	if err != nil {
		return err
	}
	defer metrics.Timer(metrics.Toggle)()

	if row.Tag == model.TagCollapsed {
		row.Tag = model.TagExpanded
		if !t.hiddenByAncestor(row) {
			t.expand(row)
		}
		return nil
	}
	row.Tag = model.TagCollapsed
	t.collapse(row)
	return nil
}

// ExpandAll tags every parent expanded and shows every row.
func (t *Table) ExpandAll() {
	t.retagParents(model.TagExpanded)
}

// CollapseAll tags every parent collapsed, leaving only the roots visible.
func (t *Table) CollapseAll() {
	t.retagParents(model.TagCollapsed)
}

func (t *Table) retagParents(tag model.Tag) {
	defer metrics.Timer(metrics.Toggle)()
	for _, row := range t.rows {
		if row.IsParent() {
			row.Tag = tag
		}
	}
	t.applyVisibility()
}

// Reveal expands every collapsed ancestor of id so the row becomes visible.
// Siblings of the path follow their own tags.
func (t *Table) Reveal(id string) error {
	row, err := t.lookup(id)
	if err != nil {
		return err
	}
	for _, a := range t.ancestors(row) {
		if a.Tag == model.TagCollapsed {
			a.Tag = model.TagExpanded
		}
		t.expand(a)
	}
	return nil
}
