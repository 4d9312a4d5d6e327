package ui

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/testutil"
	"github.com/vanderheijden86/treetable/pkg/treetable"
)

func newListingView(t *testing.T, opts treetable.Options) TreeView {
	t.Helper()
	rows := []*model.Row{
		testutil.RowWithCells("a", "", "Docs", "4 KB"),
		testutil.RowWithCells("b", "child-of-a", "readme.md", "1 KB"),
		testutil.RowWithCells("c", "child-of-a", "img", "3 KB"),
		testutil.RowWithCells("d", "child-of-c", "logo.png", "3 KB"),
	}
	tbl, err := treetable.Initialize(rows, opts)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return NewTreeView(tbl, TestTheme())
}

func TestTreeView_SelectFallsBackToAncestor(t *testing.T) {
	v := newListingView(t, treetable.DefaultOptions())
	if !v.Select("d") || v.SelectedID() != "d" {
		t.Fatalf("could not select d, cursor on %q", v.SelectedID())
	}

	if err := v.Table().Collapse("c"); err != nil {
		t.Fatal(err)
	}
	v.SetTable(v.Table())
	if v.SelectedID() != "c" {
		t.Errorf("cursor on %q after hiding d, want c", v.SelectedID())
	}
	if v.Select("d") {
		t.Error("Select reported a hidden row as selected")
	}
	if v.Select("missing") || v.SelectedID() != "c" {
		t.Errorf("unknown id moved the cursor to %q", v.SelectedID())
	}
}

func TestTreeView_ToggleOnlyRowsWithControl(t *testing.T) {
	opts := treetable.DefaultOptions()
	opts.Expandable = false
	v := newListingView(t, opts)

	toggled, err := v.ToggleSelected()
	if err != nil || toggled {
		t.Errorf("ToggleSelected() = %v, %v on a row without a control", toggled, err)
	}
	if v.VisibleCount() != 4 {
		t.Errorf("visible = %d", v.VisibleCount())
	}
}

func TestTreeView_Paging(t *testing.T) {
	tbl, err := treetable.Initialize(testutil.NewDefault().Star(30), treetable.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	v := NewTreeView(tbl, TestTheme())
	v.SetSize(80, 10)

	// 31 rows in 10 lines: one line goes to the position indicator
	v.PageDown()
	if v.Cursor() != 9 {
		t.Errorf("cursor after PageDown = %d, want 9", v.Cursor())
	}
	v.PageUp()
	if v.Cursor() != 0 {
		t.Errorf("cursor after PageUp = %d, want 0", v.Cursor())
	}

	v.SelectLast()
	view := v.View()
	if !strings.Contains(view, "23-31 of 31") {
		t.Errorf("indicator missing:\n%s", view)
	}
	if lines := strings.Count(view, "\n") + 1; lines != 10 {
		t.Errorf("view has %d lines, want 10", lines)
	}
	v.MoveDown()
	if v.Cursor() != 30 {
		t.Errorf("cursor moved past the end: %d", v.Cursor())
	}
}

func TestTreeView_IndentByDepth(t *testing.T) {
	tests := []struct {
		name   string
		indent int
	}{
		{"Pixels", 19},
		{"NoIndent", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := treetable.DefaultOptions()
			opts.Indent = tt.indent
			v := newListingView(t, opts)
			v.SetSize(60, 10)

			view := v.View()
			for _, want := range []string{"▾ Docs", "  • readme.md", "  ▾ img", "    • logo.png"} {
				if !strings.Contains(view, want) {
					t.Errorf("view missing %q:\n%s", want, view)
				}
			}
		})
	}
}

func TestTreeView_RootPaddingKeepsLevels(t *testing.T) {
	rows := []*model.Row{
		testutil.RowWithCells("a", "", "Docs", "4 KB"),
		testutil.RowWithCells("b", "child-of-a", "readme.md", "1 KB"),
		testutil.RowWithCells("c", "child-of-a", "img", "3 KB"),
		testutil.RowWithCells("d", "child-of-c", "logo.png", "3 KB"),
	}
	rows[0].Cells[0].PaddingLeft = 40
	tbl, err := treetable.Initialize(rows, treetable.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	v := NewTreeView(tbl, TestTheme())
	v.SetSize(80, 10)

	view := v.View()
	for _, want := range []string{"▾ Docs", "  • readme.md", "    • logo.png"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	for _, shifted := range []string{"  ▾ Docs", "    • readme.md", "      • logo.png"} {
		if strings.Contains(view, shifted) {
			t.Errorf("root padding shifted a row (%q):\n%s", shifted, view)
		}
	}
}

func TestTreeView_ColumnWidth(t *testing.T) {
	v := newListingView(t, treetable.DefaultOptions())
	v.SetColumnWidth(2)
	v.SetSize(60, 10)

	view := v.View()
	if strings.Contains(view, "4 KB") || !strings.Contains(view, "4…") {
		t.Errorf("second column not capped:\n%s", view)
	}
	// The tree column gets the cap plus room for its indent and marker
	if !strings.Contains(view, "• rea…") {
		t.Errorf("tree column not capped:\n%s", view)
	}
}

func TestTreeView_Empty(t *testing.T) {
	tbl, err := treetable.Initialize(nil, treetable.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	v := NewTreeView(tbl, TestTheme())

	if v.Selected() != nil || v.SelectedID() != "" {
		t.Error("empty view has a selection")
	}
	if toggled, err := v.ToggleSelected(); toggled || err != nil {
		t.Errorf("ToggleSelected() = %v, %v", toggled, err)
	}
	if err := v.ExpandOrMoveToChild(); err != nil {
		t.Error(err)
	}
	if !strings.Contains(v.View(), "No rows to show.") {
		t.Errorf("view = %q", v.View())
	}
}

func TestDetailMarkdown(t *testing.T) {
	v := newListingView(t, treetable.DefaultOptions())
	tbl := v.Table()

	md := detailMarkdown(tbl, tbl.Row("c"))
	for _, want := range []string{
		"## c",
		"| 1 | img |",
		"| 2 | 3 KB |",
		"**State:** parent+expanded",
		"**Parent:** a",
		"**Depth:** 1",
		"**Children:** 1",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("detail missing %q:\n%s", want, md)
		}
	}

	md = detailMarkdown(tbl, tbl.Row("a"))
	if !strings.Contains(md, "none (root)") {
		t.Errorf("root not described:\n%s", md)
	}
	if md = detailMarkdown(tbl, tbl.Row("d")); strings.Contains(md, "Children") {
		t.Errorf("leaf lists children:\n%s", md)
	}
}
