package export

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/treetable"
)

// MarkdownOptions controls GenerateMarkdown.
type MarkdownOptions struct {
	Title   string   // Rendered as a level one heading when set
	Headers []string // Column headers; missing ones become "Column N"
	Diagram bool     // Append a Mermaid flowchart of the visible hierarchy
}

// indentUnit is one tree level inside a Markdown cell. Plain spaces would be
// collapsed by renderers.
const indentUnit = "&nbsp;&nbsp;"

// GenerateMarkdown renders the visible rows of t as a Markdown table. The
// tree column carries the indentation and marker of each row.
func GenerateMarkdown(t *treetable.Table, opts MarkdownOptions) (string, error) {
	if t == nil {
		return "", ErrNoTable
	}
	defer metrics.Timer(metrics.Export)()

	var sb strings.Builder
	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", opts.Title))
	}

	lines, columns := visibleLines(t)
	if len(lines) == 0 {
		sb.WriteString("_No visible rows._\n")
		return sb.String(), nil
	}

	treeCol := t.Options().TreeColumn
	grid := make([][]string, 0, len(lines)+1)
	header := make([]string, columns)
	for i := range header {
		if i < len(opts.Headers) && opts.Headers[i] != "" {
			header[i] = escapeMarkdownCell(opts.Headers[i])
		} else {
			header[i] = fmt.Sprintf("Column %d", i+1)
		}
	}
	grid = append(grid, header)
	for _, line := range lines {
		cells := make([]string, columns)
		for i, text := range line.cells {
			cells[i] = escapeMarkdownCell(text)
			if i == treeCol {
				cells[i] = strings.Repeat(indentUnit, line.depth) + Marker(line.row) + " " + cells[i]
			}
		}
		grid = append(grid, cells)
	}

	widths := make([]int, columns)
	for _, cells := range grid {
		for i, c := range cells {
			widths[i] = max(widths[i], displayWidth(c))
		}
	}
	for i, cells := range grid {
		writeMarkdownRow(&sb, cells, widths)
		if i == 0 {
			sep := make([]string, columns)
			for j, w := range widths {
				sep[j] = strings.Repeat("-", max(w, 3))
			}
			writeMarkdownRow(&sb, sep, widths)
		}
	}

	if opts.Diagram {
		sb.WriteString("\n## Hierarchy\n\n")
		sb.WriteString("```mermaid\n")
		sb.WriteString(hierarchyDiagram(lines, treeCol))
		sb.WriteString("```\n")
	}
	return sb.String(), nil
}

// SaveMarkdown writes GenerateMarkdown output to path.
func SaveMarkdown(path string, t *treetable.Table, opts MarkdownOptions) error {
	content, err := GenerateMarkdown(t, opts)
	if err != nil {
		return err
	}
	return writeFile(path, func(f *os.File) error {
		_, err := f.WriteString(content)
		return err
	})
}

func writeMarkdownRow(sb *strings.Builder, cells []string, widths []int) {
	sb.WriteString("|")
	for i, c := range cells {
		sb.WriteString(" ")
		sb.WriteString(padRight(c, widths[i]))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func escapeMarkdownCell(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ", "\r", "").Replace(s)
}

// hierarchyDiagram draws one node per visible row, labelled with its tree
// cell, and an edge from each row to its visible parent.
func hierarchyDiagram(lines []visibleLine, treeCol int) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	shown := make(map[string]bool, len(lines))
	for _, line := range lines {
		shown[line.row.ID] = true
	}
	for _, line := range lines {
		id := sanitizeMermaidID(line.row.ID)
		label := line.row.ID
		if treeCol < len(line.cells) && line.cells[treeCol] != "" {
			label = line.cells[treeCol]
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, sanitizeMermaidText(label)))
	}
	for _, line := range lines {
		if line.row.ParentID == "" || !shown[line.row.ParentID] {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(line.row.ParentID), sanitizeMermaidID(line.row.ID)))
	}
	return sb.String()
}

// sanitizeMermaidID keeps letters, digits, hyphens and underscores.
func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "node"
	}
	return sb.String()
}

func sanitizeMermaidText(text string) string {
	replacer := strings.NewReplacer(
		"\"", "'",
		"[", "(",
		"]", ")",
		"{", "(",
		"}", ")",
		"<", "&lt;",
		">", "&gt;",
		"\n", " ",
	)
	return strings.TrimSpace(replacer.Replace(text))
}
