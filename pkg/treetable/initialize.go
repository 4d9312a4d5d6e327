package treetable

import (
	"github.com/vanderheijden86/treetable/pkg/debug"
	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"
)

// Initialize classifies rows and applies the initial tree state. It runs once
// per table; the rows are annotated in place and stay owned by the table.
//
// Steps:
//  1. Every row is classified: a parent if it was marked as one or has at
//     least one child, otherwise a leaf.
//  2. Parents are visited in pre-order. Each indents its direct children and,
//     when opts.Expandable is set, gets a control and the default tag unless
//     it already carries expanded or collapsed.
//  3. When opts.Expandable is set, visibility is derived from the tags:
//     collapsed parents hide their subtree, expanded parents show theirs.
//     Without it no state is tracked, so every row keeps its visibility and
//     explicit tags are left as they are.
func Initialize(rows []*model.Row, opts Options) (*Table, error) {
	defer metrics.Timer(metrics.Initialize)()
	defer debug.LogEnterExit("treetable.Initialize")()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	t, err := newTable(rows, opts)
	if err != nil {
		return nil, err
	}
	if err := t.validateHierarchy(); err != nil {
		return nil, err
	}

	parents := 0
	for _, row := range t.rows {
		if row.Kind != model.KindParent {
			if len(t.childrenOf(row.ID)) > 0 {
				row.Kind = model.KindParent
			} else {
				row.Kind = model.KindLeaf
			}
		}
		row.Control = false
		if row.IsParent() {
			parents++
		}
	}

	t.walk(func(row *model.Row) {
		if row.IsParent() {
			t.initParent(row)
		}
	})
	if t.opts.Expandable {
		t.applyVisibility()
	}

	debug.Log("treetable: initialized %d rows (%d parents, %d visible)", len(t.rows), parents, len(t.VisibleRows()))
	return t, nil
}

func (t *Table) initParent(row *model.Row) {
	t.indentChildren(row)

	if !t.opts.Expandable {
		return
	}
	row.Control = true
	if row.Tag == model.TagNone {
		row.Tag = t.opts.DefaultState
	}
}
