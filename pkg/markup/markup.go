// Package markup translates an HTML table to and from tree rows.
//
// Parse reads the first <table> of a document into model rows. After the
// engine has annotated the rows, Apply writes the state back into the markup
// (class tokens, display, tree-cell padding and expander controls) and Render
// serializes the document.
package markup

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vanderheijden86/treetable/pkg/debug"
	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/treetable"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Class names written into the markup.
const (
	TableClass    = "treetable"
	ExpanderClass = "expander"
)

// ErrNoTable is returned when the document has no <table> element.
var ErrNoTable = errors.New("no table element found")

// Document is a parsed HTML document with one tree table.
type Document struct {
	root     *html.Node
	table    *html.Node
	rows     []*model.Row
	elements []rowElement
}

type rowElement struct {
	tr    *html.Node
	cells []*html.Node
}

// Parse reads r and extracts the rows of its first table. Only <tr> elements
// directly inside a <tbody> are rows; header and footer rows are left alone.
// Rows without an id attribute get a generated one so they can still take
// part in the tree as leaves. Generated ids are never written back.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	table := findFirst(root, atom.Table)
	if table == nil {
		return nil, ErrNoTable
	}

	doc := &Document{root: root, table: table}
	taken := make(map[string]bool)
	var anonymous []int

	for body := table.FirstChild; body != nil; body = body.NextSibling {
		if body.Type != html.ElementNode || body.DataAtom != atom.Tbody {
			continue
		}
		for tr := body.FirstChild; tr != nil; tr = tr.NextSibling {
			if tr.Type != html.ElementNode || tr.DataAtom != atom.Tr {
				continue
			}
			row, el := parseRow(tr)
			if row.ID == "" {
				anonymous = append(anonymous, len(doc.rows))
			} else {
				taken[row.ID] = true
			}
			doc.rows = append(doc.rows, row)
			doc.elements = append(doc.elements, el)
		}
	}

	for _, i := range anonymous {
		id := "row-" + strconv.Itoa(i+1)
		for n := 2; taken[id]; n++ {
			id = fmt.Sprintf("row-%d-%d", i+1, n)
		}
		taken[id] = true
		doc.rows[i].ID = id
	}

	debug.Log("markup: parsed %d rows (%d without id)", len(doc.rows), len(anonymous))
	return doc, nil
}

func parseRow(tr *html.Node) (*model.Row, rowElement) {
	row := &model.Row{ID: strings.TrimSpace(attr(tr, "id"))}
	model.ParseClasses(row, strings.Fields(attr(tr, "class")))
	el := rowElement{tr: tr}

	for td := tr.FirstChild; td != nil; td = td.NextSibling {
		if td.Type != html.ElementNode || (td.DataAtom != atom.Td && td.DataAtom != atom.Th) {
			continue
		}
		cell := model.Cell{Text: textContent(td)}
		if v, ok := parseStyle(attr(td, "style")).get("padding-left"); ok {
			if px, ok := pixels(v); ok {
				cell.PaddingLeft = px
			}
		}
		row.Cells = append(row.Cells, cell)
		el.cells = append(el.cells, td)
	}
	return row, el
}

// Rows returns the parsed rows in document order. Visibility is not read from
// the markup; it is derived from the tags. The engine annotates these
// rows in place; call Apply to copy the annotations into the markup.
func (d *Document) Rows() []*model.Row {
	return d.rows
}

// Apply writes the current row state into the markup. It can be called any
// number of times; expanders are never duplicated. opts must be the options
// the rows were initialized with: the tree column gets the padding and the
// expander, which is pulled back into the indent gutter.
func (d *Document) Apply(opts treetable.Options) {
	addClass(d.table, TableClass)
	treeColumn := opts.TreeColumn
	gutter := expanderStyle(opts.Indent)

	for i, row := range d.rows {
		el := d.elements[i]
		setOrRemove(el.tr, "class", row.ClassAttr())

		st := parseStyle(attr(el.tr, "style"))
		if row.Hidden {
			st = st.set("display", "none")
		} else {
			st = st.remove("display")
		}
		setOrRemove(el.tr, "style", st.String())

		if treeColumn >= len(el.cells) {
			continue
		}
		td := el.cells[treeColumn]
		cell := row.Cells[treeColumn]
		cst := parseStyle(attr(td, "style"))
		if _, had := cst.get("padding-left"); had || cell.PaddingLeft != 0 {
			cst = cst.set("padding-left", strconv.Itoa(cell.PaddingLeft)+"px")
		}
		setOrRemove(td, "style", cst.String())

		exp := expander(td)
		switch {
		case row.Control && exp == nil:
			span := &html.Node{
				Type:     html.ElementNode,
				Data:     "span",
				DataAtom: atom.Span,
				Attr: []html.Attribute{
					{Key: "style", Val: gutter},
					{Key: "class", Val: ExpanderClass},
				},
			}
			td.InsertBefore(span, td.FirstChild)
		case row.Control:
			setOrRemove(exp, "style", gutter)
		case exp != nil:
			td.RemoveChild(exp)
		}
	}
}

// Render serializes the whole document.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// expanderStyle shifts the expander left by one indent and pads it by the
// same amount, so the icon sits in the gutter without moving the cell text.
func expanderStyle(indent int) string {
	px := strconv.Itoa(indent) + "px"
	return style{}.set("margin-left", "-"+px).set("padding-left", px).String()
}

func expander(td *html.Node) *html.Node {
	for c := td.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Span && hasClass(c, ExpanderClass) {
			return c
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setOrRemove(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			if val == "" {
				n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			} else {
				n.Attr[i].Val = val
			}
			return
		}
	}
	if val != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	setOrRemove(n, "class", strings.TrimSpace(attr(n, "class")+" "+class))
}
