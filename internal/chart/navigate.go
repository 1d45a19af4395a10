package chart

import "mandala-cli/internal/model"

// Descend moves one level deeper into peripheral block k of the grid at path.
//
// The first entry materializes the child with the copy rule (see Materialize); any
// absent ancestors on path are created empty. Entering an existing child is a pure
// path change: the input tree is returned unchanged.
func Descend(t Tree, path model.Path, k int) (Tree, model.Path, error) {
	t = t.ensure()
	if err := validatePath(path); err != nil {
		return t, path, err
	}
	if err := validateBlock(k); err != nil {
		return t, path, err
	}
	spine := t.spine(path)
	parentID := spine[len(spine)-1]
	if parentID != absent && t.a.get(parentID).children[k] != absent {
		return t, path.Child(k), nil
	}

	parent := t.load(parentID)
	parent.children[k] = t.a.add(&node{grid: Materialize(parent.grid, k)})
	return t.commit(spine, path, parent), path.Child(k), nil
}

// Preview is what a navigation into block k will show, computed without touching
// the tree. Presentation layers use it to animate before calling CommitNavigation.
type Preview struct {
	From  model.Path  `json:"from"`
	To    model.Path  `json:"to"`
	Block int         `json:"block"`
	Label string      `json:"label"`
	Cells model.Block `json:"cells"`
	// Materialized is true when the child already exists and the commit will only
	// change the path.
	Materialized bool `json:"materialized"`
}

// Named reports whether the block's representative cell has content.
func (p Preview) Named() bool { return p.Label != "" }

// BeginNavigation is the read-only first phase of a navigation.
func BeginNavigation(t Tree, path model.Path, k int) (Preview, error) {
	t = t.ensure()
	if err := validatePath(path); err != nil {
		return Preview{}, err
	}
	if err := validateBlock(k); err != nil {
		return Preview{}, err
	}
	parentID := t.spine(path)[len(path)]
	parent := t.view(parentID)
	p := Preview{
		From:  path.Clone(),
		To:    path.Child(k),
		Block: k,
		Label: parent.Grid.At(model.BlockCenter(k)),
		Cells: parent.Grid.Block(k),
	}
	if parentID != absent && parent.Children[k].Materialized() {
		p.Materialized = true
		p.Cells = t.view(parent.Children[k].ID()).Grid.CenterBlock()
	}
	return p, nil
}

// CommitNavigation is the second phase; it is Descend.
func CommitNavigation(t Tree, path model.Path, k int) (Tree, model.Path, error) {
	return Descend(t, path, k)
}
