package testutil

import (
	"reflect"
	"testing"

	"github.com/vanderheijden86/treetable/pkg/model"
)

// TB is the subset of testing.TB the assertions need. Both *testing.T and
// *rapid.T satisfy it.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
}

var _ TB = (*testing.T)(nil)

func index(rows []*model.Row) map[string]*model.Row {
	m := make(map[string]*model.Row, len(rows))
	for _, r := range rows {
		m[r.ID] = r
	}
	return m
}

// AssertVisibleIDs verifies exactly the given rows are visible, in order.
func AssertVisibleIDs(t TB, rows []*model.Row, want ...string) {
	t.Helper()
	var got []string
	for _, r := range rows {
		if !r.Hidden {
			got = append(got, r.ID)
		}
	}
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("visible rows = %v, want %v", got, want)
	}
}

// AssertVisibility verifies that a row is hidden exactly when one of its
// ancestors is tagged collapsed. Roots must be visible.
func AssertVisibility(t TB, rows []*model.Row) {
	t.Helper()
	byID := index(rows)
	for _, r := range rows {
		collapsedAncestor := false
		for p := byID[r.ParentID]; p != nil; p = byID[p.ParentID] {
			if p.Tag == model.TagCollapsed {
				collapsedAncestor = true
				break
			}
		}
		if r.Hidden != collapsedAncestor {
			t.Errorf("row %s: hidden=%v but collapsed ancestor=%v", r.ID, r.Hidden, collapsedAncestor)
		}
	}
}

// AssertParentTags verifies every parent carries exactly one of expanded or
// collapsed and that only parents carry controls.
func AssertParentTags(t TB, rows []*model.Row) {
	t.Helper()
	for _, r := range rows {
		switch r.Kind {
		case model.KindParent:
			if r.Tag != model.TagExpanded && r.Tag != model.TagCollapsed {
				t.Errorf("parent %s has tag %q", r.ID, r.Tag)
			}
			if !r.Control {
				t.Errorf("parent %s has no control", r.ID)
			}
		case model.KindLeaf:
			if r.Control {
				t.Errorf("leaf %s has a control", r.ID)
			}
		default:
			t.Errorf("row %s left unclassified", r.ID)
		}
	}
}

// AssertIndentation verifies each child's tree cell is indented exactly one
// step past its parent's.
func AssertIndentation(t TB, rows []*model.Row, col, indent int) {
	t.Helper()
	byID := index(rows)
	for _, r := range rows {
		p := byID[r.ParentID]
		if p == nil {
			continue
		}
		pc, c := p.Cell(col), r.Cell(col)
		if pc == nil || c == nil {
			continue
		}
		if c.PaddingLeft != pc.PaddingLeft+indent {
			t.Errorf("row %s padding = %d, want parent %s padding %d + %d",
				r.ID, c.PaddingLeft, p.ID, pc.PaddingLeft, indent)
		}
	}
}

// SnapshotVisibility records the hidden flag of every row.
func SnapshotVisibility(rows []*model.Row) map[string]bool {
	m := make(map[string]bool, len(rows))
	for _, r := range rows {
		m[r.ID] = r.Hidden
	}
	return m
}

// SnapshotTags records the tag of every row.
func SnapshotTags(rows []*model.Row) map[string]model.Tag {
	m := make(map[string]model.Tag, len(rows))
	for _, r := range rows {
		m[r.ID] = r.Tag
	}
	return m
}
