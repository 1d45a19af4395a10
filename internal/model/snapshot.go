package model

import "time"

// SubChartSlots is the wire length of ChartSnapshot.SubCharts: one slot per block,
// including the center block whose slot is always null.
const SubChartSlots = 9

// CenterSlot is the SubCharts index reserved for the center block.
const CenterSlot = 8

// ChartSnapshot is the format-agnostic nested record of a chart tree.
// A nil entry in SubCharts is a block that was never entered.
type ChartSnapshot struct {
	Cells     [][]string       `json:"cells" yaml:"cells" validate:"required"`
	SubCharts []*ChartSnapshot `json:"subCharts" yaml:"subCharts" validate:"required"`
}

// SavedChart is one entry of the saved-chart collection.
type SavedChart struct {
	ID          string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string         `json:"name" yaml:"name" validate:"required"`
	Data        *ChartSnapshot `json:"data" yaml:"data" validate:"required"`
	Date        time.Time      `json:"date" yaml:"date"`
	Fingerprint string         `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
}

// ExportFile is the single-chart file format ({name, data}, no date).
type ExportFile struct {
	Name string         `json:"name" yaml:"name" validate:"required"`
	Data *ChartSnapshot `json:"data" yaml:"data" validate:"required"`
}

// Event is one entry of the workspace activity log.
type Event struct {
	ID      string    `json:"id"`
	TS      time.Time `json:"ts"`
	Type    string    `json:"type"`
	Chart   string    `json:"chart,omitempty"`
	Path    string    `json:"path"`
	Payload any       `json:"payload,omitempty"`
}
