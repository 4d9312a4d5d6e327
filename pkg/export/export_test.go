package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/testutil"
	"github.com/vanderheijden86/treetable/pkg/treetable"
)

// fixtureRows is a small listing: a folder with a file and a sub folder.
func fixtureRows() []*model.Row {
	return []*model.Row{
		testutil.RowWithCells("a", "", "Docs", "4 KB"),
		testutil.RowWithCells("b", "child-of-a", "readme.md", "1 KB"),
		testutil.RowWithCells("c", "child-of-a", "img", "3 KB"),
		testutil.RowWithCells("d", "child-of-c", "logo|v2.png", "3 KB"),
	}
}

func fixture(t *testing.T) *treetable.Table {
	t.Helper()
	tbl, err := treetable.Initialize(fixtureRows(), treetable.DefaultOptions())
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return tbl
}

func TestMarker(t *testing.T) {
	tests := []struct {
		name string
		row  model.Row
		want string
	}{
		{"Expanded", model.Row{Kind: model.KindParent, Tag: model.TagExpanded, Control: true}, MarkerExpanded},
		{"Collapsed", model.Row{Kind: model.KindParent, Tag: model.TagCollapsed, Control: true}, MarkerCollapsed},
		{"Leaf", model.Row{Kind: model.KindLeaf}, MarkerLeaf},
		{"Unclassified", model.Row{}, MarkerLeaf},
		{"ParentWithoutControl", model.Row{Kind: model.KindParent, Tag: model.TagCollapsed}, " "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Marker(&tt.row); got != tt.want {
				t.Errorf("Marker() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"readme.md", 20, "readme.md"},
		{"readme.md", 6, "rea..."},
		{"readme.md", 2, "re"},
		{"readme.md", 0, ""},
		{"日本語テキスト", 7, "日本..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestWriteText(t *testing.T) {
	tbl := fixture(t)

	var buf bytes.Buffer
	if err := WriteText(&buf, tbl, TextOptions{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	for i, prefix := range []string{"▾ Docs", "  • readme.md", "  ▾ img", "    • logo|v2.png"} {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix)
		}
		if !strings.Contains(lines[i], "KB") {
			t.Errorf("line %d lost its second column: %q", i, lines[i])
		}
	}
}

func TestWriteTextFollowsToggles(t *testing.T) {
	tbl := fixture(t)
	if err := tbl.Toggle("c"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, tbl, TextOptions{ColumnWidth: 6}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "logo") {
		t.Errorf("collapsed subtree printed:\n%s", out)
	}
	if !strings.Contains(out, "  ▸ img") {
		t.Errorf("expected collapsed marker on img:\n%s", out)
	}
	if !strings.Contains(out, "rea...") {
		t.Errorf("expected truncated cell:\n%s", out)
	}
}

func TestWriteTextNilTable(t *testing.T) {
	if err := WriteText(&bytes.Buffer{}, nil, TextOptions{}); !errors.Is(err, ErrNoTable) {
		t.Errorf("expected ErrNoTable, got %v", err)
	}
}
