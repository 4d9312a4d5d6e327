package treetable

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/testutil"
)

func mustInit(t *testing.T, rows []*model.Row, opts Options) *Table {
	t.Helper()
	tbl, err := Initialize(rows, opts)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return tbl
}

// TestChildrenOfDocumentOrder verifies children come back in document order
func TestChildrenOfDocumentOrder(t *testing.T) {
	rows := []*model.Row{
		testutil.Row("x", "child-of-root"),
		testutil.Row("root", ""),
		testutil.Row("y", "child-of-other"),
		testutil.Row("z", "child-of-root"),
	}
	tbl := mustInit(t, rows, DefaultOptions())

	got := testutil.IDs(tbl.ChildrenOf("root"))
	if want := []string{"x", "z"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ChildrenOf(root) = %v, want %v", got, want)
	}
	if kids := tbl.ChildrenOf("z"); len(kids) != 0 {
		t.Errorf("expected leaf to have no children, got %v", testutil.IDs(kids))
	}
	if kids := tbl.ChildrenOf("missing"); len(kids) != 0 {
		t.Errorf("expected unknown id to have no children, got %v", testutil.IDs(kids))
	}
	if kids := tbl.ChildrenOf(""); len(kids) != 0 {
		t.Errorf("expected empty id to have no children, got %v", testutil.IDs(kids))
	}
}

// TestChildrenOfIsNotCached verifies the relation is re-derived from the rows
func TestChildrenOfIsNotCached(t *testing.T) {
	tbl := mustInit(t, testutil.Scenario(), DefaultOptions())
	if n := len(tbl.ChildrenOf("a")); n != 2 {
		t.Fatalf("expected 2 children, got %d", n)
	}

	tbl.Row("b").ParentID = "c"
	got := testutil.IDs(tbl.ChildrenOf("c"))
	if want := []string{"b", "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ChildrenOf(c) after edit = %v, want %v", got, want)
	}
}

// TestRootsAndOrphans verifies a dangling child marker makes a row a root
func TestRootsAndOrphans(t *testing.T) {
	rows := []*model.Row{
		testutil.Row("a", ""),
		testutil.Row("orphan", "child-of-nowhere"),
		testutil.Row("b", "child-of-a"),
	}
	tbl := mustInit(t, rows, DefaultOptions())

	if got, want := testutil.IDs(tbl.Roots()), []string{"a", "orphan"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Roots() = %v, want %v", got, want)
	}
	if !tbl.IsVisible("orphan") {
		t.Error("expected orphan to stay visible")
	}
	if tbl.Row("orphan").Kind != model.KindLeaf {
		t.Errorf("expected orphan to be a leaf, got %v", tbl.Row("orphan").Kind)
	}
}

func TestAncestorsAndDepth(t *testing.T) {
	tbl := mustInit(t, testutil.NewDefault().Chain(4), DefaultOptions())

	anc, err := tbl.Ancestors("row-3")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := testutil.IDs(anc), []string{"row-0", "row-1", "row-2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Ancestors = %v, want %v", got, want)
	}

	for id, want := range map[string]int{"row-0": 0, "row-2": 2, "row-3": 3} {
		d, err := tbl.Depth(id)
		if err != nil {
			t.Fatal(err)
		}
		if d != want {
			t.Errorf("Depth(%s) = %d, want %d", id, d, want)
		}
	}

	if _, err := tbl.Depth("nope"); !errors.Is(err, ErrRowNotFound) {
		t.Errorf("expected ErrRowNotFound, got %v", err)
	}
}

func TestRowsSharesState(t *testing.T) {
	rows := testutil.Scenario()
	tbl := mustInit(t, rows, DefaultOptions())

	if tbl.Len() != 4 {
		t.Errorf("Len() = %d, want 4", tbl.Len())
	}
	out := tbl.Rows()
	if out[0] != rows[0] {
		t.Error("expected Rows to return the caller's row pointers")
	}
	out[0] = nil
	if tbl.Row("a") == nil {
		t.Error("modifying the returned slice must not affect the table")
	}
	if tbl.Row("zzz") != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestOperationsOnUnknownRow(t *testing.T) {
	tbl := mustInit(t, testutil.Scenario(), DefaultOptions())

	for name, op := range map[string]func(string) error{
		"Collapse": tbl.Collapse,
		"Expand":   tbl.Expand,
		"Toggle":   tbl.Toggle,
		"Reveal":   tbl.Reveal,
	} {
		if err := op("missing"); !errors.Is(err, ErrRowNotFound) {
			t.Errorf("%s: expected ErrRowNotFound, got %v", name, err)
		}
	}
}
