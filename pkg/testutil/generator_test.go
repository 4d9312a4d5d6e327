package testutil

import (
	"testing"

	"github.com/vanderheijden86/treetable/pkg/model"
)

func TestRowParsesClasses(t *testing.T) {
	r := Row("c", "child-of-a parent collapsed odd")
	if r.ParentID != "a" || r.Kind != model.KindParent || r.Tag != model.TagCollapsed {
		t.Errorf("unexpected row: %+v", r)
	}
	if len(r.Classes) != 1 || r.Classes[0] != "odd" {
		t.Errorf("Classes = %v, want [odd]", r.Classes)
	}
	if len(r.Cells) != 1 || r.Cells[0].Text != "c" {
		t.Errorf("Cells = %v", r.Cells)
	}
}

func TestChain(t *testing.T) {
	rows := NewDefault().Chain(4)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].ParentID != "" {
		t.Error("first row should be a root")
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].ParentID != rows[i-1].ID {
			t.Errorf("row %d parent = %s, want %s", i, rows[i].ParentID, rows[i-1].ID)
		}
	}
}

func TestStar(t *testing.T) {
	rows := NewDefault().Star(3)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	for _, r := range rows[1:] {
		if r.ParentID != rows[0].ID {
			t.Errorf("row %s parent = %s, want %s", r.ID, r.ParentID, rows[0].ID)
		}
	}
}

func TestForestDeterministicAndParentsFirst(t *testing.T) {
	a := New(GeneratorConfig{Seed: 7}).Forest(40, 0.2)
	b := New(GeneratorConfig{Seed: 7}).Forest(40, 0.2)

	if len(a) != 40 {
		t.Fatalf("expected 40 rows, got %d", len(a))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].ParentID != b[i].ParentID {
			t.Fatalf("same seed produced different forests at %d", i)
		}
	}

	seen := make(map[string]bool)
	for _, r := range a {
		if r.ParentID != "" && !seen[r.ParentID] {
			t.Errorf("row %s appears before its parent %s", r.ID, r.ParentID)
		}
		seen[r.ID] = true
	}
}

func TestAssertionsOnHandBuiltRows(t *testing.T) {
	rows := Scenario()
	rows[0].Kind, rows[0].Tag, rows[0].Control = model.KindParent, model.TagCollapsed, true
	rows[2].Kind, rows[2].Tag, rows[2].Control = model.KindParent, model.TagExpanded, true
	rows[1].Kind, rows[3].Kind = model.KindLeaf, model.KindLeaf
	rows[1].Hidden, rows[2].Hidden, rows[3].Hidden = true, true, true

	AssertVisibleIDs(t, rows, "a")
	AssertVisibility(t, rows)
	AssertParentTags(t, rows)
}
