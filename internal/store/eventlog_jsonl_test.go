package store

import (
	"os"
	"testing"

	"mandala-cli/internal/model"
)

func TestEvents_AppendAndReadNewestFirst(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	evs, err := s.ReadEvents(0)
	if err != nil || len(evs) != 0 {
		t.Fatalf("expected no events, got %v (%v)", evs, err)
	}

	if err := s.AppendEvent("cell.set", "Goals", model.Path{}, map[string]any{"row": 4, "col": 4, "value": "x"}); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := s.AppendEvent("chart.enter", "Goals", model.Path{3}, map[string]any{"block": 3}); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := s.AppendEvent("chart.save", "Goals", model.Path{3}, nil); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	evs, err = s.ReadEvents(2)
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(evs) != 2 || evs[0].Type != "chart.save" || evs[1].Type != "chart.enter" {
		t.Fatalf("unexpected events: %#v", evs)
	}
	if evs[1].Path != "3" || evs[1].Chart != "Goals" || evs[1].ID == "" {
		t.Fatalf("unexpected event fields: %#v", evs[1])
	}
}

func TestEvents_SkipsCorruptLines(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	if err := os.WriteFile(s.eventsPath(), []byte("garbage\n\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.AppendEvent("chart.new", "", nil, nil); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	evs, err := s.ReadEvents(0)
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(evs) != 1 || evs[0].Type != "chart.new" {
		t.Fatalf("unexpected events: %#v", evs)
	}
}

func TestAppendEvent_RequiresType(t *testing.T) {
	if err := (Store{Dir: t.TempDir()}).AppendEvent(" ", "", nil, nil); err == nil {
		t.Fatalf("expected error for empty type")
	}
}
