package chart

import (
	"strconv"

	"mandala-cli/internal/model"
)

// DefaultPlaceholder prefixes generated labels for blocks whose center cell is empty.
const DefaultPlaceholder = "Unnamed"

// AscendTo truncates path to depth+1 elements: the node reached after depth+1 descents.
// depth must be in [0, len(path)-1]; depth == len(path)-1 returns the same path.
func AscendTo(path model.Path, depth int) (model.Path, error) {
	if depth < 0 || depth >= len(path) {
		return path, AddressError{Kind: "depth", Value: depth, Max: len(path) - 1}
	}
	return path[:depth+1].Clone(), nil
}

// Ascend drops the last path element. At the root it returns the root.
func Ascend(path model.Path) model.Path {
	if len(path) == 0 {
		return model.Path{}
	}
	return path[:len(path)-1].Clone()
}

// ToRoot always returns the empty path.
func ToRoot(model.Path) model.Path { return model.Path{} }

// Crumb is one breadcrumb entry: the block taken at Depth and its label in the parent.
type Crumb struct {
	Depth       int    `json:"depth"`
	Block       int    `json:"block"`
	Label       string `json:"label"`
	Placeholder bool   `json:"placeholder"`
}

// Display returns the label, or "<prefix> N" (N = depth+1) when the label is empty.
func (c Crumb) Display(prefix string) string {
	if !c.Placeholder {
		return c.Label
	}
	if prefix == "" {
		prefix = DefaultPlaceholder
	}
	return prefix + " " + strconv.Itoa(c.Depth+1)
}

// DescribePath reports, for each step of path, the block taken and the entered block's
// center cell in the parent grid. It never materializes: an absent node reads as empty.
func DescribePath(t Tree, path model.Path) ([]Crumb, error) {
	t = t.ensure()
	if err := validatePath(path); err != nil {
		return nil, err
	}
	out := make([]Crumb, 0, len(path))
	id := t.root
	for depth, k := range path {
		label := ""
		if id != absent {
			n := t.a.get(id)
			label = n.grid.At(model.BlockCenter(k))
			id = n.children[k]
		}
		out = append(out, Crumb{Depth: depth, Block: k, Label: label, Placeholder: label == ""})
	}
	return out, nil
}
