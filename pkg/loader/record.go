package loader

import (
	"strings"

	"github.com/vanderheijden86/treetable/pkg/model"
)

// Record is the on-disk form of a row in JSONL, JSON and YAML files.
//
// Classes use the markup token convention, so "child-of-a", "parent",
// "expanded" and "collapsed" are understood there too. ChildOf wins over a
// child marker in Classes. Padding is the left padding of the tree column.
type Record struct {
	ID      string   `json:"id" yaml:"id"`
	ChildOf string   `json:"child_of,omitempty" yaml:"child_of,omitempty"`
	Classes []string `json:"classes,omitempty" yaml:"classes,omitempty"`
	Cells   []string `json:"cells,omitempty" yaml:"cells,omitempty"`
	Padding int      `json:"padding,omitempty" yaml:"padding,omitempty"`

	// Hidden is written for annotated output only. Visibility is always
	// derived from the tags, so it is ignored when reading.
	Hidden bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// Row converts the record to a model row. treeColumn selects the cell that
// receives Padding; when the row is shorter the padding is dropped.
func (rec Record) Row(treeColumn int) *model.Row {
	row := &model.Row{ID: strings.TrimSpace(rec.ID)}
	var tokens []string
	for _, c := range rec.Classes {
		tokens = append(tokens, strings.Fields(c)...)
	}
	model.ParseClasses(row, tokens)
	if p := strings.TrimSpace(rec.ChildOf); p != "" {
		row.ParentID = p
	}
	for _, text := range rec.Cells {
		row.Cells = append(row.Cells, model.Cell{Text: text})
	}
	if c := row.Cell(treeColumn); c != nil {
		c.PaddingLeft = rec.Padding
	}
	return row
}

// RecordFrom is the inverse of Record.Row and carries the row's current
// state: its class tokens, tree-column padding and visibility.
func RecordFrom(row *model.Row, treeColumn int) Record {
	rec := Record{
		ID:      row.ID,
		ChildOf: row.ParentID,
		Hidden:  row.Hidden,
	}
	for _, tok := range row.ClassTokens() {
		if row.ParentID != "" && tok == model.ChildMarker(row.ParentID) {
			continue
		}
		rec.Classes = append(rec.Classes, tok)
	}
	for _, c := range row.Cells {
		rec.Cells = append(rec.Cells, c.Text)
	}
	if c := row.Cell(treeColumn); c != nil {
		rec.Padding = c.PaddingLeft
	}
	return rec
}
