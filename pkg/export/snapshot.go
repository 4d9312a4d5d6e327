package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/treetable"
)

// SnapshotOptions controls snapshot export.
type SnapshotOptions struct {
	Path     string // Output path
	Format   string // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title    string // Rendered in the header; defaults to "Tree table"
	MaxChars int    // Truncate cells to this width; defaults to 40
}

// Snapshot formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Layout in pixels.
const (
	snapMargin    = 16
	snapHeader    = 64
	snapRowHeight = 24
	snapCharWidth = 8
	snapCellPad   = 12
	snapMarkerW   = 16
	snapMinWidth  = 320
)

var (
	colorBackdrop  = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG  = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorStripe    = color.RGBA{0xee, 0xf2, 0xf7, 0xff}
	colorParentRow = color.RGBA{0xe3, 0xed, 0xfa, 0xff}
	colorMarker    = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	colorStroke    = color.RGBA{0xd0, 0xd5, 0xdd, 0xff}
	colorText      = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle    = color.RGBA{0x66, 0x66, 0x66, 0xff}
)

type snapshotLayout struct {
	title   string
	lines   []visibleLine
	treeCol int
	total   int
	colX    []int
	colW    []int
	width   int
	height  int
}

// SaveSnapshot renders the visible rows of t as an image at opts.Path. The
// format comes from opts.Format, or from the path extension when empty; a
// path that is not .png gets SVG.
func SaveSnapshot(t *treetable.Table, opts SnapshotOptions) error {
	if t == nil {
		return ErrNoTable
	}
	format, err := snapshotFormat(opts)
	if err != nil {
		return err
	}
	return writeFile(opts.Path, func(f *os.File) error {
		if format == FormatPNG {
			return WriteSnapshotPNG(f, t, opts)
		}
		return WriteSnapshot(f, t, opts)
	})
}

func snapshotFormat(opts SnapshotOptions) (string, error) {
	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		if strings.EqualFold(filepath.Ext(opts.Path), ".png") {
			return FormatPNG, nil
		}
		return FormatSVG, nil
	}
	if format != FormatSVG && format != FormatPNG {
		return "", fmt.Errorf("unsupported snapshot format %q (want svg or png)", opts.Format)
	}
	return format, nil
}

// WriteSnapshot renders the visible rows of t as SVG to w. Each row keeps its
// tree-cell padding as a horizontal offset so the image shows the same
// indentation as the annotated markup.
func WriteSnapshot(w io.Writer, t *treetable.Table, opts SnapshotOptions) error {
	if t == nil {
		return ErrNoTable
	}
	defer metrics.Timer(metrics.Export)()

	layout := buildSnapshotLayout(t, opts)
	canvas := svg.New(w)
	canvas.Start(layout.width, layout.height)
	canvas.Rect(0, 0, layout.width, layout.height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(snapMargin, snapMargin, layout.width-2*snapMargin, snapHeader-snapMargin-8, 10, 10,
		fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(snapMargin+16, snapMargin+20, layout.title,
		fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(snapMargin+16, snapMargin+36, fmt.Sprintf("%d of %d rows visible", len(layout.lines), layout.total),
		fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))

	for i, line := range layout.lines {
		drawSnapshotRow(canvas, layout, i, line)
	}

	canvas.End()
	return nil
}

func buildSnapshotLayout(t *treetable.Table, opts SnapshotOptions) snapshotLayout {
	maxChars := opts.MaxChars
	if maxChars <= 0 {
		maxChars = 40
	}
	title := opts.Title
	if title == "" {
		title = "Tree table"
	}

	lines, columns := visibleLines(t)
	layout := snapshotLayout{
		title:   title,
		lines:   lines,
		treeCol: t.Options().TreeColumn,
		total:   t.Len(),
		colX:    make([]int, columns),
		colW:    make([]int, columns),
	}
	for i := range lines {
		for c, text := range lines[i].cells {
			lines[i].cells[c] = truncate(text, maxChars)
		}
	}

	x := snapMargin
	for c := 0; c < columns; c++ {
		w := 0
		for _, line := range lines {
			cw := displayWidth(line.cells[c]) * snapCharWidth
			if c == layout.treeCol {
				cw += treePadding(line.row, c) + snapMarkerW
			}
			w = max(w, cw)
		}
		layout.colX[c] = x
		layout.colW[c] = w + 2*snapCellPad
		x += layout.colW[c]
	}
	layout.width = max(x+snapMargin, snapMinWidth)
	layout.height = snapHeader + len(lines)*snapRowHeight + snapMargin
	return layout
}

func rowFill(row *model.Row, i int) color.RGBA {
	switch {
	case row.IsParent():
		return colorParentRow
	case i%2 == 1:
		return colorStripe
	}
	return colorBackdrop
}

func drawSnapshotRow(canvas *svg.SVG, layout snapshotLayout, i int, line visibleLine) {
	y := snapHeader + i*snapRowHeight
	canvas.Rect(snapMargin, y, layout.width-2*snapMargin, snapRowHeight,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:0.5", css(rowFill(line.row, i)), css(colorStroke)))

	baseline := y + snapRowHeight - 8
	for c, text := range line.cells {
		x := layout.colX[c] + snapCellPad
		if c == layout.treeCol {
			x += treePadding(line.row, c)
			drawMarker(canvas, line.row, x, y+snapRowHeight/2)
			x += snapMarkerW
		}
		weight := ""
		if line.row.IsParent() && c == layout.treeCol {
			weight = ";font-weight:bold"
		}
		canvas.Text(x, baseline, text,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace%s", css(colorText), weight))
	}
}

// drawMarker draws a triangle for rows with a control (pointing down when
// expanded) and a dot for leaves, centred vertically on cy.
func drawMarker(canvas *svg.SVG, row *model.Row, x, cy int) {
	style := fmt.Sprintf("fill:%s", css(colorMarker))
	switch Marker(row) {
	case MarkerExpanded:
		canvas.Polygon([]int{x, x + 10, x + 5}, []int{cy - 3, cy - 3, cy + 4}, style)
	case MarkerCollapsed:
		canvas.Polygon([]int{x + 2, x + 9, x + 2}, []int{cy - 5, cy, cy + 5}, style)
	case MarkerLeaf:
		canvas.Circle(x+5, cy, 2, style)
	}
}

// WriteSnapshotPNG renders the same picture as WriteSnapshot as a PNG image.
// Text uses a fixed 7x13 bitmap font, so glyphs outside ASCII come out as
// placeholders.
func WriteSnapshotPNG(w io.Writer, t *treetable.Table, opts SnapshotOptions) error {
	if t == nil {
		return ErrNoTable
	}
	defer metrics.Timer(metrics.Export)()

	layout := buildSnapshotLayout(t, opts)
	dc := gg.NewContext(layout.width, layout.height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(snapMargin, snapMargin, float64(layout.width-2*snapMargin), snapHeader-snapMargin-8, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.title, snapMargin+16, snapMargin+14, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("%d of %d rows visible", len(layout.lines), layout.total),
		snapMargin+16, snapMargin+32, 0, 0.5)

	for i, line := range layout.lines {
		drawSnapshotRowPNG(dc, layout, i, line)
	}
	return dc.EncodePNG(w)
}

func drawSnapshotRowPNG(dc *gg.Context, layout snapshotLayout, i int, line visibleLine) {
	y := float64(snapHeader + i*snapRowHeight)
	rowW := float64(layout.width - 2*snapMargin)
	dc.SetColor(rowFill(line.row, i))
	dc.DrawRectangle(snapMargin, y, rowW, snapRowHeight)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.SetLineWidth(0.5)
	dc.DrawRectangle(snapMargin, y, rowW, snapRowHeight)
	dc.Stroke()

	cy := y + snapRowHeight/2
	for c, text := range line.cells {
		x := float64(layout.colX[c] + snapCellPad)
		if c == layout.treeCol {
			x += float64(treePadding(line.row, c))
			drawMarkerPNG(dc, line.row, x, cy)
			x += snapMarkerW
		}
		dc.SetColor(colorText)
		dc.DrawStringAnchored(text, x, cy, 0, 0.5)
	}
}

func drawMarkerPNG(dc *gg.Context, row *model.Row, x, cy float64) {
	dc.SetColor(colorMarker)
	switch Marker(row) {
	case MarkerExpanded:
		dc.NewSubPath()
		dc.MoveTo(x, cy-3)
		dc.LineTo(x+10, cy-3)
		dc.LineTo(x+5, cy+4)
		dc.ClosePath()
	case MarkerCollapsed:
		dc.NewSubPath()
		dc.MoveTo(x+2, cy-5)
		dc.LineTo(x+9, cy)
		dc.LineTo(x+2, cy+5)
		dc.ClosePath()
	case MarkerLeaf:
		dc.DrawCircle(x+5, cy, 2)
	default:
		return
	}
	dc.Fill()
}

func treePadding(row *model.Row, col int) int {
	if cell := row.Cell(col); cell != nil {
		return cell.PaddingLeft
	}
	return 0
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
