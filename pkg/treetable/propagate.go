package treetable

import (
	"github.com/vanderheijden86/treetable/pkg/model"
)

// Collapse hides every descendant of id. Tags are left untouched, so a later
// Expand restores each descendant to its own last state.
func (t *Table) Collapse(id string) error {
	row, err := t.lookup(id)
	if err != nil {
		return err
	}
	t.collapse(row)
	return nil
}

// Expand shows the children of id. Children that are expanded parents are
// expanded recursively; a collapsed child is shown but its subtree stays
// hidden.
func (t *Table) Expand(id string) error {
	row, err := t.lookup(id)
	if err != nil {
		return err
	}
	t.expand(row)
	return nil
}

func (t *Table) collapse(node *model.Row) {
	for _, child := range t.childrenOf(node.ID) {
		// Descend first so the whole subtree is hidden regardless of tags
		t.collapse(child)
		child.Hidden = true
	}
}

func (t *Table) expand(node *model.Row) {
	for _, child := range t.childrenOf(node.ID) {
		if child.State() == model.StateExpanded {
			t.expand(child)
		}
		child.Hidden = false
	}
}

// applyVisibility re-derives visibility from the tags, visiting parents in
// pre-order.
func (t *Table) applyVisibility() {
	t.walk(func(row *model.Row) {
		if !row.IsParent() {
			return
		}
		switch row.Tag {
		case model.TagCollapsed:
			t.collapse(row)
		case model.TagExpanded:
			if !t.hiddenByAncestor(row) {
				t.expand(row)
			}
		}
	})
}
