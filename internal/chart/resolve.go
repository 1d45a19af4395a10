package chart

import (
	"fmt"

	"mandala-cli/internal/model"
)

// Resolution describes how Resolve reached its node.
type Resolution struct {
	Node Node
	// Filled lists the depths (1-based) whose node was absent and was created empty.
	Filled []int
}

// Touched reports whether resolution had to create nodes.
func (r Resolution) Touched() bool { return len(r.Filled) > 0 }

func validatePath(path model.Path) error {
	for i, k := range path {
		if !model.ValidBlock(k) {
			return AddressError{Kind: fmt.Sprintf("path[%d]", i), Value: k, Max: model.BlockCount - 1}
		}
	}
	return nil
}

func validateCell(row, col int) error {
	if !model.ValidCoord(row) {
		return AddressError{Kind: "row", Value: row, Max: model.GridSize - 1}
	}
	if !model.ValidCoord(col) {
		return AddressError{Kind: "col", Value: col, Max: model.GridSize - 1}
	}
	return nil
}

func validateBlock(k int) error {
	if !model.ValidBlock(k) {
		return AddressError{Kind: "block", Value: k, Max: model.BlockCount - 1}
	}
	return nil
}

// Resolve returns the node at path. Absent nodes along the path are materialized as
// empty grids (touch semantics, not the copy rule used by Descend); the returned tree
// contains them. When nothing was absent the input tree is returned as is.
func Resolve(t Tree, path model.Path) (Tree, Resolution, error) {
	t = t.ensure()
	if err := validatePath(path); err != nil {
		return t, Resolution{}, err
	}
	spine := t.spine(path)
	target := spine[len(spine)-1]
	if target != absent {
		return t, Resolution{Node: t.view(target)}, nil
	}

	var filled []int
	for depth, id := range spine {
		if id == absent {
			filled = append(filled, depth)
		}
	}
	next := t.commit(spine, path, &node{})
	return next, Resolution{Node: next.view(next.spine(path)[len(path)]), Filled: filled}, nil
}

// Lookup is the read-only counterpart of Resolve. It never materializes; ok is false
// when some node on the path is absent.
func Lookup(t Tree, path model.Path) (Node, bool, error) {
	t = t.ensure()
	if err := validatePath(path); err != nil {
		return Node{}, false, err
	}
	id := t.spine(path)[len(path)]
	if id == absent {
		return Node{}, false, nil
	}
	return t.view(id), true, nil
}

// View returns the grid shown at path. An absent node reads as an empty grid.
func View(t Tree, path model.Path) (model.Grid, bool, error) {
	n, ok, err := Lookup(t, path)
	if err != nil {
		return model.Grid{}, false, err
	}
	return n.Grid, ok, nil
}
