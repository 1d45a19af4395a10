package chart

import (
	"errors"

	"mandala-cli/internal/model"
)

// SkipChildren may be returned by a Walk callback to skip a node's descendants.
var SkipChildren = errors.New("skip children")

// Walk visits every materialized node depth-first, parents before children and
// siblings in block order. The path passed to fn must not be retained.
func Walk(t Tree, fn func(path model.Path, n Node) error) error {
	t = t.ensure()
	var visit func(path model.Path, id NodeID) error
	visit = func(path model.Path, id NodeID) error {
		n := t.view(id)
		if err := fn(path, n); err != nil {
			if errors.Is(err, SkipChildren) {
				return nil
			}
			return err
		}
		for k, c := range n.Children {
			if !c.Materialized() {
				continue
			}
			if err := visit(append(path, k), c.ID()); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(make(model.Path, 0, 8), t.root)
}

// Equal reports deep structural equality: same cells, same absent/present children.
func Equal(a, b Tree) bool {
	a, b = a.ensure(), b.ensure()
	var eq func(x, y NodeID) bool
	eq = func(x, y NodeID) bool {
		if a.a == b.a && x == y {
			return true
		}
		nx, ny := a.a.get(x), b.a.get(y)
		if nx.grid != ny.grid {
			return false
		}
		for k := range nx.children {
			cx, cy := nx.children[k], ny.children[k]
			if (cx == absent) != (cy == absent) {
				return false
			}
			if cx != absent && !eq(cx, cy) {
				return false
			}
		}
		return true
	}
	return eq(a.root, b.root)
}

// Stats summarizes a tree.
type Stats struct {
	Nodes    int `json:"nodes"`
	MaxDepth int `json:"maxDepth"`
	// Filled counts non-empty cells across all nodes.
	Filled int `json:"filled"`
	// Inconsistent counts nodes whose center block does not mirror the block centers
	// (only possible for charts imported from elsewhere).
	Inconsistent int `json:"inconsistent"`
}

func Summarize(t Tree) Stats {
	var s Stats
	_ = Walk(t, func(path model.Path, n Node) error {
		s.Nodes++
		if len(path) > s.MaxDepth {
			s.MaxDepth = len(path)
		}
		for _, row := range n.Grid {
			for _, v := range row {
				if v != "" {
					s.Filled++
				}
			}
		}
		if !Consistent(n.Grid) {
			s.Inconsistent++
		}
		return nil
	})
	return s
}
