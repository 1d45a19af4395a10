// Package snapshot converts chart trees to and from their nested record form and the
// file formats that carry it.
package snapshot

import (
	"fmt"
	"strconv"

	"mandala-cli/internal/chart"
	"mandala-cli/internal/model"
)

// FormatError reports a snapshot or file that does not have the expected shape.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e FormatError) Error() string {
	where := e.Path
	if where == "" {
		where = "snapshot"
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", where, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", where, e.Reason)
}

func (e FormatError) Unwrap() error { return e.Err }

// Encode returns the nested record of t. Absent children encode as nil entries and the
// center slot is always nil.
func Encode(t chart.Tree) *model.ChartSnapshot {
	return encodeNode(t, t.Root())
}

func encodeNode(t chart.Tree, n chart.Node) *model.ChartSnapshot {
	out := &model.ChartSnapshot{
		Cells:     n.Grid.Rows(),
		SubCharts: make([]*model.ChartSnapshot, model.SubChartSlots),
	}
	for k, c := range n.Children {
		if c.Materialized() {
			out.SubCharts[k] = encodeNode(t, t.Get(c))
		}
	}
	return out
}

// Decode rebuilds a tree from its nested record. The input is checked completely
// before anything is returned; on error the caller's state should be left alone.
func Decode(s *model.ChartSnapshot) (chart.Tree, error) {
	b := chart.NewBuilder()
	root, err := decodeNode(b, s, "data")
	if err != nil {
		return chart.Tree{}, err
	}
	return b.Tree(root), nil
}

func decodeNode(b *chart.Builder, s *model.ChartSnapshot, at string) (chart.Slot, error) {
	if s == nil {
		return chart.Slot{}, FormatError{Path: at, Reason: "missing chart"}
	}
	var g model.Grid
	if len(s.Cells) != model.GridSize {
		return chart.Slot{}, FormatError{Path: at + ".cells", Reason: fmt.Sprintf("want %d rows, got %d", model.GridSize, len(s.Cells))}
	}
	for r, row := range s.Cells {
		if len(row) != model.GridSize {
			return chart.Slot{}, FormatError{
				Path:   at + ".cells[" + strconv.Itoa(r) + "]",
				Reason: fmt.Sprintf("want %d columns, got %d", model.GridSize, len(row)),
			}
		}
		copy(g[r][:], row)
	}
	if len(s.SubCharts) != model.SubChartSlots {
		return chart.Slot{}, FormatError{Path: at + ".subCharts", Reason: fmt.Sprintf("want %d slots, got %d", model.SubChartSlots, len(s.SubCharts))}
	}
	if s.SubCharts[model.CenterSlot] != nil {
		return chart.Slot{}, FormatError{Path: at + ".subCharts[8]", Reason: "center slot must be null"}
	}
	var children [model.BlockCount]chart.Slot
	for k := 0; k < model.BlockCount; k++ {
		sub := s.SubCharts[k]
		if sub == nil {
			continue
		}
		slot, err := decodeNode(b, sub, at+".subCharts["+strconv.Itoa(k)+"]")
		if err != nil {
			return chart.Slot{}, err
		}
		children[k] = slot
	}
	return b.Add(g, children), nil
}
