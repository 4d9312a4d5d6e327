package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/treetable"
)

// TextOptions controls WriteText.
type TextOptions struct {
	ColumnWidth int // Truncate cells to this many columns; 0 keeps them whole
}

// WriteText prints the visible rows of t as an aligned text tree, one row per
// line. The tree column is indented two spaces per level and prefixed with
// the row's marker.
func WriteText(w io.Writer, t *treetable.Table, opts TextOptions) error {
	if t == nil {
		return ErrNoTable
	}
	defer metrics.Timer(metrics.Export)()

	lines, columns := visibleLines(t)
	treeCol := t.Options().TreeColumn

	grid := make([][]string, len(lines))
	widths := make([]int, columns)
	for r, line := range lines {
		cells := make([]string, columns)
		for i, text := range line.cells {
			if opts.ColumnWidth > 0 {
				text = truncate(text, opts.ColumnWidth)
			}
			if i == treeCol {
				text = strings.Repeat("  ", line.depth) + Marker(line.row) + " " + text
			}
			cells[i] = text
			widths[i] = max(widths[i], displayWidth(text))
		}
		grid[r] = cells
	}

	bw := bufio.NewWriter(w)
	for _, cells := range grid {
		var sb strings.Builder
		for i, c := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(padRight(c, widths[i]))
		}
		bw.WriteString(strings.TrimRight(sb.String(), " "))
		bw.WriteString("\n")
	}
	return bw.Flush()
}
