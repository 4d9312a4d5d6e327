package ui

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/treetable/pkg/export"
	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/treetable"
)

// DefaultColumnWidth caps the width of non-tree columns.
const DefaultColumnWidth = 24

// TreeView renders the shown rows of a table with a cursor. Every change to
// the table goes through the view so its row list stays in sync.
type TreeView struct {
	table       *treetable.Table
	theme       Theme
	visible     []*model.Row
	widths      []int
	cursor      int
	offset      int
	width       int
	height      int
	columnWidth int
}

// NewTreeView creates a view of t.
func NewTreeView(t *treetable.Table, theme Theme) TreeView {
	v := TreeView{table: t, theme: theme, columnWidth: DefaultColumnWidth}
	v.refresh()
	return v
}

// SetTable replaces the table, keeping the cursor on the same row id when it
// is still shown.
func (v *TreeView) SetTable(t *treetable.Table) {
	id := v.SelectedID()
	v.table = t
	v.refresh()
	if id != "" {
		v.Select(id)
	}
}

// Table returns the table behind the view.
func (v *TreeView) Table() *treetable.Table {
	return v.table
}

// SetSize sets the size of the list area in cells.
func (v *TreeView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.ensureCursorVisible()
}

// SetColumnWidth caps non-tree columns; zero or less restores the default.
func (v *TreeView) SetColumnWidth(w int) {
	if w <= 0 {
		w = DefaultColumnWidth
	}
	v.columnWidth = w
	v.refresh()
}

// refresh rebuilds the shown rows and column widths after a state change.
func (v *TreeView) refresh() {
	v.visible = nil
	v.widths = nil
	if v.table != nil {
		v.visible = v.table.VisibleRows()
	}

	treeCol := v.treeColumn()
	for _, row := range v.visible {
		for len(v.widths) < len(row.Cells) {
			v.widths = append(v.widths, 0)
		}
		for i, c := range row.Cells {
			w := displayWidth(singleLine(c.Text))
			limit := v.columnWidth
			if i == treeCol {
				w += 2*v.level(row) + 2
				limit += 2*v.level(row) + 2
			}
			v.widths[i] = max(v.widths[i], min(w, limit))
		}
	}

	if v.cursor >= len(v.visible) {
		v.cursor = len(v.visible) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.ensureCursorVisible()
}

func (v *TreeView) treeColumn() int {
	if v.table == nil {
		return 0
	}
	return v.table.Options().TreeColumn
}

// level is the number of indent steps of row. Padding is not used: a root
// may carry its own padding from the markup.
func (v *TreeView) level(row *model.Row) int {
	depth, _ := v.table.Depth(row.ID)
	return depth
}

// VisibleCount returns the number of shown rows.
func (v *TreeView) VisibleCount() int {
	return len(v.visible)
}

// Cursor returns the cursor position among the shown rows.
func (v *TreeView) Cursor() int {
	return v.cursor
}

// Selected returns the row under the cursor, or nil for an empty table.
func (v *TreeView) Selected() *model.Row {
	if v.cursor < 0 || v.cursor >= len(v.visible) {
		return nil
	}
	return v.visible[v.cursor]
}

// SelectedID returns the id of the row under the cursor.
func (v *TreeView) SelectedID() string {
	if row := v.Selected(); row != nil {
		return row.ID
	}
	return ""
}

// Select moves the cursor to id. A hidden row selects its nearest shown
// ancestor. It reports whether id itself was selected.
func (v *TreeView) Select(id string) bool {
	if v.moveTo(id) {
		return true
	}
	ancestors, err := v.table.Ancestors(id)
	if err != nil {
		return false
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		if v.moveTo(ancestors[i].ID) {
			return false
		}
	}
	return false
}

func (v *TreeView) moveTo(id string) bool {
	for i, row := range v.visible {
		if row.ID == id {
			v.cursor = i
			v.ensureCursorVisible()
			return true
		}
	}
	return false
}

// MoveDown moves the cursor one row down.
func (v *TreeView) MoveDown() {
	if v.cursor < len(v.visible)-1 {
		v.cursor++
		v.ensureCursorVisible()
	}
}

// MoveUp moves the cursor one row up.
func (v *TreeView) MoveUp() {
	if v.cursor > 0 {
		v.cursor--
		v.ensureCursorVisible()
	}
}

// SelectFirst moves the cursor to the first row.
func (v *TreeView) SelectFirst() {
	v.cursor = 0
	v.ensureCursorVisible()
}

// SelectLast moves the cursor to the last row.
func (v *TreeView) SelectLast() {
	v.cursor = max(len(v.visible)-1, 0)
	v.ensureCursorVisible()
}

// PageDown moves the cursor down by a full page.
func (v *TreeView) PageDown() {
	v.cursor = min(v.cursor+v.pageSize(), max(len(v.visible)-1, 0))
	v.ensureCursorVisible()
}

// PageUp moves the cursor up by a full page.
func (v *TreeView) PageUp() {
	v.cursor = max(v.cursor-v.pageSize(), 0)
	v.ensureCursorVisible()
}

func (v *TreeView) pageSize() int {
	if n := v.listHeight(); n > 0 {
		return n
	}
	return 10
}

// ToggleSelected toggles the row under the cursor. Rows without a control
// are left alone; it reports whether a toggle happened.
func (v *TreeView) ToggleSelected() (bool, error) {
	row := v.Selected()
	if row == nil || !row.Control {
		return false, nil
	}
	if err := v.table.Toggle(row.ID); err != nil {
		return false, err
	}
	v.refresh()
	v.moveTo(row.ID)
	return true, nil
}

// ExpandOrMoveToChild handles the → / l key: a collapsed row with a control
// is expanded, otherwise the cursor moves to the first shown child.
func (v *TreeView) ExpandOrMoveToChild() error {
	row := v.Selected()
	if row == nil {
		return nil
	}
	if row.Control && row.Tag == model.TagCollapsed {
		_, err := v.ToggleSelected()
		return err
	}
	for _, child := range v.table.ChildrenOf(row.ID) {
		if v.moveTo(child.ID) {
			return nil
		}
	}
	return nil
}

// CollapseOrJumpToParent handles the ← / h key: an expanded row with a
// control is collapsed, otherwise the cursor jumps to the parent.
func (v *TreeView) CollapseOrJumpToParent() error {
	row := v.Selected()
	if row == nil {
		return nil
	}
	if row.Control && row.Tag != model.TagCollapsed {
		_, err := v.ToggleSelected()
		return err
	}
	if row.ParentID != "" {
		v.moveTo(row.ParentID)
	}
	return nil
}

// ExpandAll expands every parent and keeps the cursor on its row.
func (v *TreeView) ExpandAll() {
	id := v.SelectedID()
	v.table.ExpandAll()
	v.refresh()
	v.Select(id)
}

// CollapseAll collapses every parent; the cursor moves to the root of the
// row it was on.
func (v *TreeView) CollapseAll() {
	id := v.SelectedID()
	v.table.CollapseAll()
	v.refresh()
	v.Select(id)
}

// listHeight is the number of row lines that fit, leaving one line for the
// position indicator when the rows do not fit.
func (v *TreeView) listHeight() int {
	if v.height <= 0 {
		return len(v.visible)
	}
	if len(v.visible) > v.height {
		return max(v.height-1, 1)
	}
	return v.height
}

func (v *TreeView) ensureCursorVisible() {
	h := v.listHeight()
	if h <= 0 {
		v.offset = 0
		return
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+h {
		v.offset = v.cursor - h + 1
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

func (v *TreeView) visibleRange() (start, end int) {
	if len(v.visible) == 0 {
		return 0, 0
	}
	h := v.listHeight()
	start = max(v.offset, 0)
	end = start + h
	if end > len(v.visible) {
		end = len(v.visible)
		start = max(end-h, 0)
	}
	return start, end
}

// View renders the rows that fit in the list area.
func (v *TreeView) View() string {
	if len(v.visible) == 0 {
		return v.theme.MutedText.Render("  No rows to show.")
	}

	var sb strings.Builder
	start, end := v.visibleRange()
	for i := start; i < end; i++ {
		line := v.renderRow(v.visible[i])
		if i == v.cursor {
			line = v.theme.Selected.Render(line)
		} else {
			line = " " + line
		}
		sb.WriteString(line)
		if i < end-1 {
			sb.WriteString("\n")
		}
	}

	if len(v.visible) > v.listHeight() {
		sb.WriteString("\n")
		sb.WriteString(v.renderPositionIndicator(start, end))
	}
	return sb.String()
}

// renderPositionIndicator shows the 1-indexed range of rows on screen.
func (v *TreeView) renderPositionIndicator(start, end int) string {
	return v.theme.MutedText.Render(fmt.Sprintf(" %d-%d of %d", start+1, end, len(v.visible)))
}

func (v *TreeView) renderRow(row *model.Row) string {
	treeCol := v.treeColumn()
	parts := make([]string, 0, len(v.widths))
	for i, w := range v.widths {
		var text string
		if c := row.Cell(i); c != nil {
			text = singleLine(c.Text)
		}
		if i != treeCol {
			parts = append(parts, v.theme.Base.Render(fit(text, w)))
			continue
		}

		indent := strings.Repeat("  ", v.level(row))
		textStyle := v.theme.LeafText
		if row.IsParent() {
			textStyle = v.theme.ParentText
		}
		rest := max(w-displayWidth(indent)-2, 0)
		parts = append(parts, indent+v.theme.MarkerText.Render(export.Marker(row))+" "+textStyle.Render(fit(text, rest)))
	}
	line := strings.Join(parts, "  ")
	if v.width > 0 {
		line = truncateStyled(line, v.width-1)
	}
	return line
}
