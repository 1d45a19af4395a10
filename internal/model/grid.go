package model

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	GridSize   = 9
	BlockSize  = 3
	BlockCount = 8

	// CenterStart/CenterEnd bound the center block (inclusive).
	CenterStart = 3
	CenterEnd   = 5
)

// Grid is a 9x9 matrix of text cells. The zero value is an empty grid.
type Grid [GridSize][GridSize]string

// Cell addresses one grid position.
type Cell struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Block is a 3x3 slice of a grid in row-major order.
type Block [BlockSize][BlockSize]string

// Peripheral block origins (top-left cell), in canonical order:
// top-left, top-mid, top-right, mid-left, mid-right, bottom-left, bottom-mid, bottom-right.
var blockOrigins = [BlockCount]Cell{
	{0, 0}, {0, 3}, {0, 6},
	{3, 0}, {3, 6},
	{6, 0}, {6, 3}, {6, 6},
}

var blockNames = [BlockCount]string{
	"top-left", "top-mid", "top-right",
	"mid-left", "mid-right",
	"bottom-left", "bottom-mid", "bottom-right",
}

// TrueCenter is the grid's own center cell; it is linked to itself.
var TrueCenter = Cell{Row: 4, Col: 4}

func ValidBlock(k int) bool { return k >= 0 && k < BlockCount }

func ValidCoord(n int) bool { return n >= 0 && n < GridSize }

// BlockOrigin returns the top-left cell of peripheral block k.
func BlockOrigin(k int) Cell { return blockOrigins[k] }

// BlockCenter returns the representative (center) cell of peripheral block k.
func BlockCenter(k int) Cell {
	o := blockOrigins[k]
	return Cell{Row: o.Row + 1, Col: o.Col + 1}
}

// CenterLink returns the center-block cell that mirrors the center of peripheral block k.
//
// The center block is a 3x3 downsampling of the grid: block k's center lands at the
// position block k occupies in the 3x3 layout of blocks.
func CenterLink(k int) Cell {
	o := blockOrigins[k]
	return Cell{Row: CenterStart + o.Row/BlockSize, Col: CenterStart + o.Col/BlockSize}
}

func BlockName(k int) string {
	if !ValidBlock(k) {
		return ""
	}
	return blockNames[k]
}

// ParseBlock accepts a block index ("0".."7") or a block name ("top-left").
func ParseBlock(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if k, err := strconv.Atoi(s); err == nil {
		if !ValidBlock(k) {
			return -1, fmt.Errorf("block out of range: %d (want 0-%d)", k, BlockCount-1)
		}
		return k, nil
	}
	for k, name := range blockNames {
		if name == s {
			return k, nil
		}
	}
	return -1, fmt.Errorf("unknown block %q", s)
}

// InCenterBlock reports whether (row, col) lies in rows 3-5 / cols 3-5.
func InCenterBlock(row, col int) bool {
	return row >= CenterStart && row <= CenterEnd && col >= CenterStart && col <= CenterEnd
}

// BlockAt returns the peripheral block containing (row, col), or -1 for the center block.
func BlockAt(row, col int) int {
	for k, o := range blockOrigins {
		if row >= o.Row && row < o.Row+BlockSize && col >= o.Col && col < o.Col+BlockSize {
			return k
		}
	}
	return -1
}

// PeripheralCenterIndex returns k when (row, col) is the center of peripheral block k.
func PeripheralCenterIndex(row, col int) (int, bool) {
	for k := range blockOrigins {
		if c := BlockCenter(k); c.Row == row && c.Col == col {
			return k, true
		}
	}
	return -1, false
}

// CenterLinkIndex returns k when (row, col) is the center-block cell linked to block k.
func CenterLinkIndex(row, col int) (int, bool) {
	for k := range blockOrigins {
		if c := CenterLink(k); c.Row == row && c.Col == col {
			return k, true
		}
	}
	return -1, false
}

func (g Grid) At(c Cell) string { return g[c.Row][c.Col] }

// Block copies the 3x3 content of peripheral block k.
func (g Grid) Block(k int) Block {
	var b Block
	o := blockOrigins[k]
	for i := 0; i < BlockSize; i++ {
		for j := 0; j < BlockSize; j++ {
			b[i][j] = g[o.Row+i][o.Col+j]
		}
	}
	return b
}

// CenterBlock copies rows 3-5 / cols 3-5.
func (g Grid) CenterBlock() Block {
	var b Block
	for i := 0; i < BlockSize; i++ {
		for j := 0; j < BlockSize; j++ {
			b[i][j] = g[CenterStart+i][CenterStart+j]
		}
	}
	return b
}

// IsEmpty reports whether every cell is "".
func (g Grid) IsEmpty() bool {
	for _, row := range g {
		for _, v := range row {
			if v != "" {
				return false
			}
		}
	}
	return true
}

// Rows returns the grid as nested slices (wire shape).
func (g Grid) Rows() [][]string {
	out := make([][]string, GridSize)
	for i := range g {
		out[i] = append([]string(nil), g[i][:]...)
	}
	return out
}
