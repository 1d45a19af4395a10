package chart

import (
	"fmt"
	"math/rand"
	"testing"

	"mandala-cli/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSet(t *testing.T, tr Tree, path model.Path, row, col int, v string) Tree {
	t.Helper()
	next, err := SetCell(tr, path, row, col, v)
	require.NoError(t, err)
	return next
}

func rootGrid(t *testing.T, tr Tree) model.Grid {
	t.Helper()
	g, ok, err := View(tr, model.Path{})
	require.NoError(t, err)
	require.True(t, ok)
	return g
}

func TestSetCell_TrueCenterOnlyChangesItself(t *testing.T) {
	tr := mustSet(t, New(), nil, 4, 4, "GOAL")
	g := rootGrid(t, tr)

	for r := model.CenterStart; r <= model.CenterEnd; r++ {
		for c := model.CenterStart; c <= model.CenterEnd; c++ {
			if r == 4 && c == 4 {
				assert.Equal(t, "GOAL", g[r][c])
				continue
			}
			assert.Equal(t, "", g[r][c], "center cell (%d,%d)", r, c)
		}
	}
	for k := 0; k < model.BlockCount; k++ {
		assert.Equal(t, "", g.At(model.BlockCenter(k)))
	}
}

func TestSetCell_PeripheralCenterMirrorsIntoCenterBlock(t *testing.T) {
	tr := mustSet(t, New(), nil, 1, 1, "Plan")
	g := rootGrid(t, tr)

	assert.Equal(t, "Plan", g[3][3])
	for k := 1; k < model.BlockCount; k++ {
		assert.Equal(t, model.Block{}, g.Block(k), "block %d must stay untouched", k)
	}
}

func TestSetCell_CenterBlockEditPropagatesOutward(t *testing.T) {
	tr := New()
	for k := 0; k < model.BlockCount; k++ {
		c := model.CenterLink(k)
		tr = mustSet(t, tr, nil, c.Row, c.Col, fmt.Sprintf("goal-%d", k))
	}
	g := rootGrid(t, tr)
	for k := 0; k < model.BlockCount; k++ {
		assert.Equal(t, fmt.Sprintf("goal-%d", k), g.At(model.BlockCenter(k)))
	}
	assert.True(t, Consistent(g))
}

func TestSetCell_NonLinkedCellLeavesCenterAlone(t *testing.T) {
	tr := mustSet(t, New(), nil, 0, 0, "corner")
	g := rootGrid(t, tr)
	assert.Equal(t, "corner", g[0][0])
	assert.Equal(t, model.Block{}, g.CenterBlock())
}

func TestSetCell_InvariantHoldsUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := New()
	paths := []model.Path{{}, {0}, {3, 5}, {7, 7, 2}}
	for i := 0; i < 500; i++ {
		p := paths[rng.Intn(len(paths))]
		row, col := rng.Intn(9), rng.Intn(9)
		tr = mustSet(t, tr, p, row, col, fmt.Sprintf("v%d", rng.Intn(5)))

		g, ok, err := View(tr, p)
		require.NoError(t, err)
		require.True(t, ok)
		require.True(t, Consistent(g), "invariant broken after edit %d at %v (%d,%d)", i, p, row, col)
	}
}

func TestSetCell_SameValueIsIdempotent(t *testing.T) {
	tr := mustSet(t, New(), nil, 2, 2, "x")
	again := mustSet(t, tr, nil, 2, 2, "x")
	assert.True(t, Equal(tr, again))
}

func TestSetCell_RejectsOutOfRange(t *testing.T) {
	tr := New()
	cases := []struct {
		name     string
		path     model.Path
		row, col int
	}{
		{"row high", nil, 9, 0},
		{"row negative", nil, -1, 0},
		{"col high", nil, 0, 9},
		{"path component", model.Path{8}, 0, 0},
		{"nested path component", model.Path{1, -1}, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := SetCell(tr, tc.path, tc.row, tc.col, "x")
			require.Error(t, err)
			assert.True(t, IsAddressError(err))
			assert.Equal(t, tr, next)
		})
	}
}

func TestSetCell_AutoCreatesEmptyNodesAlongPath(t *testing.T) {
	tr := mustSet(t, New(), model.Path{2, 6}, 0, 0, "deep")

	mid, ok, err := Lookup(tr, model.Path{2})
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mid.Grid.IsEmpty(), "touch-created nodes start empty, not copied")
	assert.True(t, mid.Child(6).Materialized())

	g, ok, err := View(tr, model.Path{2, 6})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "deep", g[0][0])
}

func TestSetCell_OldTreeIsUnchangedAndSiblingsShared(t *testing.T) {
	base := New()
	base, _, err := Descend(mustSet(t, base, nil, 1, 1, "a"), nil, 0)
	require.NoError(t, err)
	base, _, err = Descend(mustSet(t, base, nil, 1, 4, "b"), nil, 1)
	require.NoError(t, err)

	next := mustSet(t, base, model.Path{0}, 0, 0, "edit")

	oldChild, _, _ := Lookup(base, model.Path{0})
	assert.Equal(t, "", oldChild.Grid[0][0], "prior snapshot must not observe the edit")

	oldSibling, _, _ := Lookup(base, model.Path{1})
	newSibling, _, _ := Lookup(next, model.Path{1})
	assert.Equal(t, oldSibling.ID, newSibling.ID, "unrelated subtree is shared by id")

	newChild, _, _ := Lookup(next, model.Path{0})
	assert.NotEqual(t, oldChild.ID, newChild.ID)
}

func TestResolve_FillsAbsentNodesAndReportsThem(t *testing.T) {
	tr := New()
	next, res, err := Resolve(tr, model.Path{4, 1})
	require.NoError(t, err)
	assert.True(t, res.Touched())
	assert.Equal(t, []int{1, 2}, res.Filled)
	assert.True(t, res.Node.Grid.IsEmpty())

	_, ok, _ := Lookup(tr, model.Path{4})
	assert.False(t, ok, "input tree is not modified")

	again, res2, err := Resolve(next, model.Path{4, 1})
	require.NoError(t, err)
	assert.False(t, res2.Touched())
	assert.Equal(t, next, again)
}

func TestResolve_RootIsNeverFilled(t *testing.T) {
	tr := New()
	next, res, err := Resolve(tr, nil)
	require.NoError(t, err)
	assert.False(t, res.Touched())
	assert.Equal(t, tr, next)
}

func TestDescend_CopiesBlockIntoChildCenter(t *testing.T) {
	tr := New()
	for k := 0; k < model.BlockCount; k++ {
		o := model.BlockOrigin(k)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				tr = mustSet(t, tr, nil, o.Row+i, o.Col+j, fmt.Sprintf("%d:%d%d", k, i, j))
			}
		}
	}
	parent := rootGrid(t, tr)

	for k := 0; k < model.BlockCount; k++ {
		next, path, err := Descend(tr, nil, k)
		require.NoError(t, err)
		assert.Equal(t, model.Path{k}, path)

		child, ok, err := View(next, path)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, parent.Block(k), child.CenterBlock(), "block %d", k)
		assert.True(t, Consistent(child))
	}
}

func TestDescend_ScenarioPlan(t *testing.T) {
	tr := mustSet(t, New(), nil, 1, 1, "Plan")
	next, path, err := Descend(tr, model.Path{}, 0)
	require.NoError(t, err)
	assert.Equal(t, model.Path{0}, path)

	child, ok, err := View(next, path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Plan", child[4][4])
}

func TestDescend_MaterializesOnce(t *testing.T) {
	tr := mustSet(t, New(), nil, 1, 4, "first")
	once, p1, err := Descend(tr, nil, 1)
	require.NoError(t, err)
	assert.NotEqual(t, tr, once)

	// A later edit of the parent block must not re-seed the existing child.
	edited := mustSet(t, once, nil, 1, 4, "second")
	twice, p2, err := Descend(edited, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, edited, twice, "re-entering is a pure path change")
	assert.Equal(t, p1, p2)

	child, _, _ := View(twice, p2)
	assert.Equal(t, "first", child[4][4])
}

func TestDescend_SiblingsMaterializeIndependently(t *testing.T) {
	tr := mustSet(t, New(), nil, 1, 1, "a")
	tr = mustSet(t, tr, nil, 7, 7, "h")
	tr, _, err := Descend(tr, nil, 0)
	require.NoError(t, err)

	root := tr.Root()
	assert.True(t, root.Child(0).Materialized())
	assert.False(t, root.Child(7).Materialized())

	tr2, _, err := Descend(tr, nil, 7)
	require.NoError(t, err)
	root2 := tr2.Root()
	assert.Equal(t, root.Child(0).ID(), root2.Child(0).ID())
	assert.True(t, root2.Child(7).Materialized())
}

func TestDescend_FromAbsentParentCreatesEmptySpine(t *testing.T) {
	tr, path, err := Descend(New(), model.Path{5}, 2)
	require.NoError(t, err)
	assert.Equal(t, model.Path{5, 2}, path)
	n, ok, err := Lookup(tr, path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, n.Grid.IsEmpty())
}

func TestDescend_RejectsBadBlock(t *testing.T) {
	_, _, err := Descend(New(), nil, 8)
	require.Error(t, err)
	var ae AddressError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "block", ae.Kind)
}

func TestBeginNavigation_IsReadOnly(t *testing.T) {
	tr := mustSet(t, New(), nil, 7, 4, "Health")
	tr = mustSet(t, tr, nil, 6, 3, "Sleep")

	p, err := BeginNavigation(tr, nil, 6)
	require.NoError(t, err)
	assert.Equal(t, "Health", p.Label)
	assert.True(t, p.Named())
	assert.False(t, p.Materialized)
	assert.Equal(t, "Sleep", p.Cells[0][0])
	assert.Equal(t, model.Path{6}, p.To)

	_, ok, _ := Lookup(tr, model.Path{6})
	assert.False(t, ok)

	next, path, err := CommitNavigation(tr, p.From, p.Block)
	require.NoError(t, err)
	assert.Equal(t, p.To, path)
	g, _, _ := View(next, path)
	assert.Equal(t, p.Cells, g.CenterBlock())

	p2, err := BeginNavigation(next, nil, 6)
	require.NoError(t, err)
	assert.True(t, p2.Materialized)
}

func TestAscendTo_Truncates(t *testing.T) {
	full := model.Path{3, 1, 4, 1, 5}
	for d := 0; d < len(full); d++ {
		got, err := AscendTo(full, d)
		require.NoError(t, err)
		assert.Equal(t, full[:d+1], got)
	}
	_, err := AscendTo(full, len(full))
	assert.True(t, IsAddressError(err))
	_, err = AscendTo(full, -1)
	assert.True(t, IsAddressError(err))
	_, err = AscendTo(model.Path{}, 0)
	assert.True(t, IsAddressError(err))
}

func TestAscendTo_DoesNotAliasInput(t *testing.T) {
	full := model.Path{1, 2, 3}
	got, err := AscendTo(full, 1)
	require.NoError(t, err)
	got = append(got, 7)
	assert.Equal(t, model.Path{1, 2, 3}, full)
	assert.Equal(t, model.Path{1, 2, 7}, got)
}

func TestAscendAndRoot_LeaveTreeUntouched(t *testing.T) {
	tr := mustSet(t, New(), nil, 1, 1, "Plan")
	before := rootGrid(t, tr)
	tr, path, err := Descend(tr, nil, 0)
	require.NoError(t, err)

	same, err := AscendTo(path, 0)
	require.NoError(t, err)
	assert.Equal(t, model.Path{0}, same)

	assert.Equal(t, model.Path{}, ToRoot(path))
	assert.Equal(t, model.Path{}, Ascend(path))
	assert.Equal(t, model.Path{}, Ascend(model.Path{}))

	_, res, err := Resolve(tr, ToRoot(path))
	require.NoError(t, err)
	assert.Equal(t, before, res.Node.Grid)
}

func TestDescribePath_LabelsAndPlaceholders(t *testing.T) {
	tr := mustSet(t, New(), nil, 1, 7, "Career")
	tr, path, err := Descend(tr, nil, 2)
	require.NoError(t, err)
	// Block 0 of the child is empty.
	tr, path, err = Descend(tr, path, 0)
	require.NoError(t, err)
	// An absent tail must not be materialized by describing it.
	path = path.Child(5)

	crumbs, err := DescribePath(tr, path)
	require.NoError(t, err)
	require.Len(t, crumbs, 3)
	assert.Equal(t, Crumb{Depth: 0, Block: 2, Label: "Career"}, crumbs[0])
	assert.True(t, crumbs[1].Placeholder)
	assert.Equal(t, "Unnamed 2", crumbs[1].Display(""))
	assert.Equal(t, "Anonymous 3", crumbs[2].Display("Anonymous"))

	_, ok, _ := Lookup(tr, path)
	assert.False(t, ok)
}

func TestEqualAndCompact(t *testing.T) {
	tr := mustSet(t, New(), nil, 1, 1, "a")
	tr, _, err := Descend(tr, nil, 0)
	require.NoError(t, err)
	tr = mustSet(t, tr, model.Path{0}, 0, 0, "b")

	c := Compact(tr)
	assert.True(t, Equal(tr, c))
	assert.Equal(t, 2, ArenaSize(c))
	assert.Greater(t, ArenaSize(tr), ArenaSize(c))

	other := mustSet(t, c, model.Path{0}, 0, 0, "z")
	assert.False(t, Equal(tr, other))
}

func TestZeroTreeBehavesAsEmptyChart(t *testing.T) {
	var zero Tree
	g, ok, err := View(zero, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, g.IsEmpty())

	next, err := SetCell(zero, nil, 4, 4, "x")
	require.NoError(t, err)
	assert.Equal(t, "x", rootGrid(t, next)[4][4])
}

func TestSummarize(t *testing.T) {
	tr := mustSet(t, New(), nil, 1, 1, "a")
	tr, _, err := Descend(tr, nil, 0)
	require.NoError(t, err)
	tr, _, err = Resolve(tr, model.Path{0, 3})
	require.NoError(t, err)

	s := Summarize(tr)
	assert.Equal(t, 3, s.Nodes)
	assert.Equal(t, 2, s.MaxDepth)
	// root (1,1) and (3,3), child (4,4)
	assert.Equal(t, 3, s.Filled)
	assert.Equal(t, 0, s.Inconsistent)
}
