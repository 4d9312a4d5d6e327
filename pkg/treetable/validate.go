package treetable

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/treetable/pkg/debug"
)

// validateHierarchy rejects rows that reference themselves and parent chains
// that loop, so every later traversal is bounded by the tree depth.
func (t *Table) validateHierarchy() error {
	g := simple.NewDirectedGraph()
	for i := range t.rows {
		g.AddNode(simple.Node(int64(i)))
	}

	for i, row := range t.rows {
		if row.ParentID == "" {
			continue
		}
		if row.ParentID == row.ID {
			return fmt.Errorf("%w: %s", ErrSelfParent, row.ID)
		}
		p, ok := t.index[row.ParentID]
		if !ok {
			debug.Log("treetable: row %s names missing parent %s, treated as a root", row.ID, row.ParentID)
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(int64(p)), simple.Node(int64(i))))
	}

	if _, err := topo.Sort(g); err != nil {
		var unorderable topo.Unorderable
		if !errors.As(err, &unorderable) {
			return fmt.Errorf("%w: %v", ErrCycle, err)
		}
		var ids []string
		for _, component := range unorderable {
			for _, n := range component {
				ids = append(ids, t.rows[n.ID()].ID)
			}
		}
		sort.Strings(ids)
		return fmt.Errorf("%w: %s", ErrCycle, strings.Join(ids, ", "))
	}
	return nil
}
