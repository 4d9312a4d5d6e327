package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/treetable"
)

// DetailPane shows the selected row as rendered Markdown.
type DetailPane struct {
	vp         viewport.Model
	mdRenderer *glamour.TermRenderer
	wrap       int
	rowID      string
}

// NewDetailPane creates a pane of the given size.
func NewDetailPane(width, height int) DetailPane {
	return DetailPane{vp: viewport.New(width, height)}
}

// SetSize resizes the pane. The Markdown renderer is rebuilt on the next
// update when the wrap width changes.
func (d *DetailPane) SetSize(width, height int) {
	d.vp.Width = width
	d.vp.Height = height
}

// Show renders row into the pane.
func (d *DetailPane) Show(t *treetable.Table, row *model.Row) {
	if row == nil {
		d.rowID = ""
		d.vp.SetContent("")
		return
	}
	md := detailMarkdown(t, row)
	content := md
	if r := d.renderer(); r != nil {
		if out, err := r.Render(md); err == nil {
			content = out
		}
	}
	if row.ID != d.rowID {
		d.vp.GotoTop()
	}
	d.rowID = row.ID
	d.vp.SetContent(content)
}

func (d *DetailPane) renderer() *glamour.TermRenderer {
	wrap := max(d.vp.Width-4, 20)
	if d.mdRenderer != nil && d.wrap == wrap {
		return d.mdRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	d.mdRenderer = r
	d.wrap = wrap
	return r
}

// View renders the pane.
func (d DetailPane) View() string {
	return d.vp.View()
}

// detailMarkdown describes row: its cells, tree state and relatives.
func detailMarkdown(t *treetable.Table, row *model.Row) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", row.ID))

	if len(row.Cells) > 0 {
		sb.WriteString("| # | Value |\n|---|-------|\n")
		for i, c := range row.Cells {
			text := strings.ReplaceAll(singleLine(c.Text), "|", "\\|")
			sb.WriteString(fmt.Sprintf("| %d | %s |\n", i+1, text))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("- **State:** %s\n", row.State()))
	if parent := row.ParentID; parent != "" && t.Row(parent) != nil {
		sb.WriteString(fmt.Sprintf("- **Parent:** %s\n", parent))
	} else {
		sb.WriteString("- **Parent:** none (root)\n")
	}
	if depth, err := t.Depth(row.ID); err == nil {
		sb.WriteString(fmt.Sprintf("- **Depth:** %d\n", depth))
	}
	if n := len(t.ChildrenOf(row.ID)); n > 0 {
		sb.WriteString(fmt.Sprintf("- **Children:** %d\n", n))
	}
	if len(row.Classes) > 0 {
		sb.WriteString(fmt.Sprintf("- **Classes:** `%s`\n", strings.Join(row.Classes, " ")))
	}
	return sb.String()
}
