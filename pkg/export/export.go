// Package export writes an initialized tree table to files: annotated HTML,
// Markdown, an SVG snapshot, a plain text tree and a SQLite database that the
// sqlite source can read back.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/treetable"
)

// Markers shown in front of the tree cell.
const (
	MarkerExpanded  = "▾"
	MarkerCollapsed = "▸"
	MarkerLeaf      = "•"
)

// Common errors.
var (
	ErrNoTable    = errors.New("no table to export")
	ErrNoDocument = errors.New("html export needs an html source")
	ErrNoPath     = errors.New("output path is required")
)

// Marker returns the tree marker for row: a triangle on rows with a control,
// a bullet on leaves and a blank for parents without a control.
func Marker(row *model.Row) string {
	switch {
	case row.Control && row.Tag == model.TagCollapsed:
		return MarkerCollapsed
	case row.Control:
		return MarkerExpanded
	case !row.IsParent():
		return MarkerLeaf
	default:
		return " "
	}
}

// visibleLine is one shown row prepared for the text based exports.
type visibleLine struct {
	row   *model.Row
	depth int
	cells []string
}

// visibleLines collects the shown rows with their depth. Cells are padded to
// the widest row so every line has the same number of columns.
func visibleLines(t *treetable.Table) ([]visibleLine, int) {
	var lines []visibleLine
	columns := 0
	for _, row := range t.VisibleRows() {
		depth, err := t.Depth(row.ID)
		if err != nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = singleLine(c.Text)
		}
		if len(cells) > columns {
			columns = len(cells)
		}
		lines = append(lines, visibleLine{row: row, depth: depth, cells: cells})
	}
	for i := range lines {
		for len(lines[i].cells) < columns {
			lines[i].cells = append(lines[i].cells, "")
		}
	}
	return lines, columns
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to max display columns.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max <= 3 {
		return runewidth.Truncate(s, max, "")
	}
	return runewidth.Truncate(s, max, "...")
}

func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

func padRight(s string, width int) string {
	if w := displayWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// createFile creates path and its parent directory.
func createFile(path string) (*os.File, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create parent dir: %w", err)
	}
	return os.Create(path)
}

// writeFile runs write against a new file at path and reports the first
// error, including the one from closing the file.
func writeFile(path string, write func(f *os.File) error) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
