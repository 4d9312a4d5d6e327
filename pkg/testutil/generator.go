// Package testutil provides row fixtures and tree assertions for tests.
// Generators are deterministic for a given seed.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/vanderheijden86/treetable/pkg/model"
	"pgregory.net/rapid"
)

// Row builds a row with a single cell holding its id. classes uses the
// markup token convention, e.g. "child-of-a parent collapsed".
func Row(id string, classes string) *model.Row {
	r := &model.Row{
		ID:    id,
		Cells: []model.Cell{{Text: id}},
	}
	model.ParseClasses(r, strings.Fields(classes))
	return r
}

// RowWithCells is like Row but with the given cell texts.
func RowWithCells(id, classes string, cells ...string) *model.Row {
	r := Row(id, classes)
	r.Cells = r.Cells[:0]
	for _, text := range cells {
		r.Cells = append(r.Cells, model.Cell{Text: text})
	}
	return r
}

// Scenario returns the reference table: a root A with a leaf B and a parent
// C, and D under C.
func Scenario() []*model.Row {
	return []*model.Row{
		Row("a", ""),
		Row("b", "child-of-a"),
		Row("c", "child-of-a"),
		Row("d", "child-of-c"),
	}
}

// GeneratorConfig controls row generation.
type GeneratorConfig struct {
	Seed     int64       // Random seed for determinism (0 = use current time)
	IDPrefix string      // Prefix for row IDs (default: "row")
	Columns  int         // Cells per row (default: 2)
	TagMix   []model.Tag // Pre-set tags to draw from (nil = untagged)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42,
		IDPrefix: "row",
		Columns:  2,
	}
}

// Generator creates row fixtures with various shapes.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "row"
	}
	if cfg.Columns <= 0 {
		cfg.Columns = 2
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) row(i int, parent string) *model.Row {
	id := fmt.Sprintf("%s-%d", g.cfg.IDPrefix, i)
	r := &model.Row{ID: id, ParentID: parent}
	for c := 0; c < g.cfg.Columns; c++ {
		r.Cells = append(r.Cells, model.Cell{Text: fmt.Sprintf("%s/%d", id, c)})
	}
	if len(g.cfg.TagMix) > 0 {
		r.Tag = g.cfg.TagMix[g.rng.Intn(len(g.cfg.TagMix))]
	}
	return r
}

// Chain generates n rows where each row is the child of the previous one.
func (g *Generator) Chain(n int) []*model.Row {
	rows := make([]*model.Row, 0, n)
	parent := ""
	for i := 0; i < n; i++ {
		r := g.row(i, parent)
		rows = append(rows, r)
		parent = r.ID
	}
	return rows
}

// Star generates a root followed by n leaf children.
func (g *Generator) Star(n int) []*model.Row {
	rows := []*model.Row{g.row(0, "")}
	for i := 1; i <= n; i++ {
		rows = append(rows, g.row(i, rows[0].ID))
	}
	return rows
}

// Forest generates n rows in pre-order: each row is a root with probability
// rootProb, otherwise the child of a random earlier row.
func (g *Generator) Forest(n int, rootProb float64) []*model.Row {
	rows := make([]*model.Row, 0, n)
	for i := 0; i < n; i++ {
		parent := ""
		if i > 0 && g.rng.Float64() >= rootProb {
			parent = rows[g.rng.Intn(len(rows))].ID
		}
		rows = append(rows, g.row(i, parent))
	}
	return preorder(rows)
}

// preorder reorders rows so every parent precedes its children, keeping
// siblings in their original order.
func preorder(rows []*model.Row) []*model.Row {
	children := make(map[string][]*model.Row)
	var roots []*model.Row
	for _, r := range rows {
		if r.ParentID == "" {
			roots = append(roots, r)
		} else {
			children[r.ParentID] = append(children[r.ParentID], r)
		}
	}
	out := make([]*model.Row, 0, len(rows))
	var visit func(r *model.Row)
	visit = func(r *model.Row) {
		out = append(out, r)
		for _, c := range children[r.ID] {
			visit(c)
		}
	}
	for _, r := range roots {
		visit(r)
	}
	return out
}

// DrawForest draws a random forest for property tests. Rows are in document
// order with parents first; some rows are pre-marked parents or carry a tag.
func DrawForest(t *rapid.T, maxRows int) []*model.Row {
	n := rapid.IntRange(1, maxRows).Draw(t, "rows")
	rows := make([]*model.Row, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("r%d", i)
		r := &model.Row{ID: id, Cells: []model.Cell{{Text: id}, {Text: "x"}}}
		if i > 0 && rapid.Bool().Draw(t, "has_parent_"+id) {
			r.ParentID = fmt.Sprintf("r%d", rapid.IntRange(0, i-1).Draw(t, "parent_"+id))
		}
		r.Tag = rapid.SampledFrom([]model.Tag{model.TagNone, model.TagNone, model.TagExpanded, model.TagCollapsed}).Draw(t, "tag_"+id)
		if rapid.IntRange(0, 9).Draw(t, "premark_"+id) == 0 {
			r.Kind = model.KindParent
		}
		r.Cells[0].PaddingLeft = rapid.IntRange(0, 4).Draw(t, "pad_"+id)
		rows = append(rows, r)
	}
	return preorder(rows)
}

// IDs returns the ids of rows in order.
func IDs(rows []*model.Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}
