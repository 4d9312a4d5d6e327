package datasource

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/treetable/pkg/model"
)

// RowDiff represents differences between two loads of a source
type RowDiff struct {
	// Added contains row IDs present only in the new rows
	Added []string
	// Removed contains row IDs present only in the old rows
	Removed []string
	// Moved contains rows whose parent changed
	Moved []string
	// Changed contains rows whose cells changed
	Changed []string
}

// DiffRows compares two row lists by id. Order of the result follows the new
// rows for Added, Moved and Changed, and the old rows for Removed.
func DiffRows(oldRows, newRows []*model.Row) RowDiff {
	before := make(map[string]*model.Row, len(oldRows))
	for _, r := range oldRows {
		before[r.ID] = r
	}
	seen := make(map[string]bool, len(newRows))

	var d RowDiff
	for _, r := range newRows {
		seen[r.ID] = true
		prev, ok := before[r.ID]
		switch {
		case !ok:
			d.Added = append(d.Added, r.ID)
		case prev.ParentID != r.ParentID:
			d.Moved = append(d.Moved, r.ID)
		case !sameText(prev.Cells, r.Cells):
			d.Changed = append(d.Changed, r.ID)
		}
	}
	for _, r := range oldRows {
		if !seen[r.ID] {
			d.Removed = append(d.Removed, r.ID)
		}
	}
	return d
}

func sameText(a, b []model.Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Text != b[i].Text {
			return false
		}
	}
	return true
}

// Empty returns true if the two loads hold the same rows
func (d RowDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Moved) == 0 && len(d.Changed) == 0
}

// Summary returns a one-line description of the differences
func (d RowDiff) Summary() string {
	if d.Empty() {
		return "no changes"
	}
	var parts []string
	if n := len(d.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d", n))
	}
	if n := len(d.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("-%d", n))
	}
	if n := len(d.Moved); n > 0 {
		parts = append(parts, fmt.Sprintf("%d moved", n))
	}
	if n := len(d.Changed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", n))
	}
	return strings.Join(parts, ", ")
}
