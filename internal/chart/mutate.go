package chart

import "mandala-cli/internal/model"

// SetCell sets (row, col) of the grid at path and returns the new tree.
//
// Absent nodes on the path are created empty. A peripheral block center and its
// center-block cell are one logical value: writing either writes both, so the center
// block keeps mirroring the eight block centers. (4,4) is linked to itself.
func SetCell(t Tree, path model.Path, row, col int, value string) (Tree, error) {
	t = t.ensure()
	if err := validatePath(path); err != nil {
		return t, err
	}
	if err := validateCell(row, col); err != nil {
		return t, err
	}
	spine := t.spine(path)
	target := t.load(spine[len(spine)-1])
	setLinked(&target.grid, row, col, value)
	return t.commit(spine, path, target), nil
}

func setLinked(g *model.Grid, row, col int, value string) {
	g[row][col] = value
	if k, ok := model.PeripheralCenterIndex(row, col); ok {
		c := model.CenterLink(k)
		g[c.Row][c.Col] = value
	}
	if k, ok := model.CenterLinkIndex(row, col); ok {
		c := model.BlockCenter(k)
		g[c.Row][c.Col] = value
	}
}

// Propagate pushes every center-block link out to its peripheral block center.
func Propagate(g model.Grid) model.Grid {
	for k := 0; k < model.BlockCount; k++ {
		from := model.CenterLink(k)
		to := model.BlockCenter(k)
		g[to.Row][to.Col] = g[from.Row][from.Col]
	}
	return g
}

// Consistent reports whether g satisfies the center propagation invariant.
func Consistent(g model.Grid) bool {
	for k := 0; k < model.BlockCount; k++ {
		if g.At(model.CenterLink(k)) != g.At(model.BlockCenter(k)) {
			return false
		}
	}
	return true
}

// Materialize builds the grid a child gets when block k of parent is entered for the
// first time: the block's 3x3 content becomes the child's center block, then the
// center is propagated outwards.
func Materialize(parent model.Grid, k int) model.Grid {
	var g model.Grid
	b := parent.Block(k)
	for i := 0; i < model.BlockSize; i++ {
		for j := 0; j < model.BlockSize; j++ {
			g[model.CenterStart+i][model.CenterStart+j] = b[i][j]
		}
	}
	return Propagate(g)
}
