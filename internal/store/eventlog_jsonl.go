package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"mandala-cli/internal/model"
)

// AppendEvent adds one line to the workspace activity log.
func (s Store) AppendEvent(typ, chartName string, path model.Path, payload any) error {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return errors.New("event: missing type")
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	ev := model.Event{
		ID:      uuid.NewString(),
		TS:      time.Now().UTC(),
		Type:    typ,
		Chart:   chartName,
		Path:    path.String(),
		Payload: payload,
	}
	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.eventsPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return nil
}

// ReadEvents returns the most recent events, newest first. limit <= 0 returns all.
// Lines that do not parse are skipped.
func (s Store) ReadEvents(limit int) ([]model.Event, error) {
	out := []model.Event{}
	f, err := os.Open(s.eventsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ev model.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
