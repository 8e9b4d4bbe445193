package tables

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jusunglee/station-hours/internal/models"
	"github.com/jusunglee/station-hours/internal/store"
)

const validTables = `
schedule:
  - station_id: 10
    weekday: 1
    start: "09:30:00"
    end: "13:00:00"
  - station_id: 10
    weekday: 1
    start: "13:30:00"
    end: "19:00:00"
  - station_id: 20
    weekday: 7
    start: "10:00:00"
    end: "12:00:00"
exceptions:
  - station_id: 10
    start: "2020-07-09 09:30:00"
    end: "2020-07-11 09:30:00"
`

func TestSeed(t *testing.T) {
	schedule, exceptions := Seed()

	counts := make(map[int]int)
	for _, entry := range schedule {
		counts[entry.StationID]++
		if entry.Start >= entry.End {
			t.Errorf("Seed entry %+v has start not before end", entry)
		}
	}
	expected := map[int]int{10: 10, 11: 12, 12: 6}
	for id, n := range expected {
		if counts[id] != n {
			t.Errorf("Station %d: expected %d entries, got %d", id, n, counts[id])
		}
	}

	if len(exceptions) != 3 {
		t.Fatalf("Expected 3 exceptions, got %d", len(exceptions))
	}
	for _, exc := range exceptions {
		if !exc.Start.Before(exc.End) {
			t.Errorf("Seed exception %+v has start not before end", exc)
		}
	}
}

func TestDecode(t *testing.T) {
	schedule, exceptions, err := Decode(strings.NewReader(validTables))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(schedule) != 3 {
		t.Fatalf("Expected 3 schedule entries, got %d", len(schedule))
	}
	first := schedule[0]
	if first.StationID != 10 || first.Weekday != 1 || first.Start != models.NewTimeOfDay(9, 30, 0) || first.End != models.NewTimeOfDay(13, 0, 0) {
		t.Errorf("Unexpected first entry: %+v", first)
	}
	if schedule[2].StationID != 20 {
		t.Errorf("Expected row order to be kept, got %+v", schedule[2])
	}

	if len(exceptions) != 1 {
		t.Fatalf("Expected 1 exception, got %d", len(exceptions))
	}
	want := time.Date(2020, 7, 11, 9, 30, 0, 0, time.Local)
	if !exceptions[0].End.Equal(want) {
		t.Errorf("Expected exception end %s, got %s", want, exceptions[0].End)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "bad time format",
			input: "schedule:\n  - {station_id: 1, weekday: 1, start: \"09/30/00\", end: \"13:00:00\"}\n",
		},
		{
			name:  "weekday out of range",
			input: "schedule:\n  - {station_id: 1, weekday: 8, start: \"09:30:00\", end: \"13:00:00\"}\n",
		},
		{
			name:  "start after end",
			input: "schedule:\n  - {station_id: 1, weekday: 1, start: \"13:00:00\", end: \"09:30:00\"}\n",
		},
		{
			name:  "zero length window",
			input: "schedule:\n  - {station_id: 1, weekday: 1, start: \"13:00:00\", end: \"13:00:00\"}\n",
		},
		{
			name:  "bad exception time",
			input: "exceptions:\n  - {station_id: 1, start: \"2020-07-09:09/30/00\", end: \"2020-07-11 09:30:00\"}\n",
		},
		{
			name:  "exception ends before it starts",
			input: "exceptions:\n  - {station_id: 1, start: \"2020-07-11 09:30:00\", end: \"2020-07-09 09:30:00\"}\n",
		},
		{
			name:  "not yaml mapping",
			input: "- just\n- a list\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Decode(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	schedule, exceptions, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(schedule) != 0 || len(exceptions) != 0 {
		t.Errorf("Expected empty tables, got %d/%d", len(schedule), len(exceptions))
	}
}

func TestLoadFile(t *testing.T) {
	path := writeTables(t, validTables)

	schedule, exceptions, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(schedule) != 3 || len(exceptions) != 1 {
		t.Errorf("Expected 3/1 entries, got %d/%d", len(schedule), len(exceptions))
	}

	if _, _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, _, err := LoadFile(""); err == nil {
		t.Error("Expected error for empty path")
	}
}

// recordingMetrics implements Metrics for testing
type recordingMetrics struct {
	reloads  int
	failures int
	schedule int
}

func (r *recordingMetrics) ReloadObserve(err error) {
	r.reloads++
	if err != nil {
		r.failures++
	}
}

func (r *recordingMetrics) TablesLoaded(schedule, exceptions int) {
	r.schedule = schedule
}

func TestManager(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("seed when no path", func(t *testing.T) {
		s := store.NewStore()
		rec := &recordingMetrics{}
		m := NewManager("", "@every 1m", s, logger, rec)
		if err := m.Load(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got := s.Stations(); len(got) != 3 {
			t.Errorf("Expected 3 seeded stations, got %v", got)
		}
		if rec.reloads != 1 || rec.schedule != 28 {
			t.Errorf("Unexpected metrics: %+v", rec)
		}
		// Without a file there is nothing to reload
		if err := m.Start(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		m.Stop()
	})

	t.Run("file and failed reload keeps tables", func(t *testing.T) {
		path := writeTables(t, validTables)
		s := store.NewStore()
		rec := &recordingMetrics{}
		m := NewManager(path, "", s, logger, rec)
		if err := m.Load(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(s.Schedule(20)) != 1 {
			t.Fatal("Expected station 20 from file")
		}

		if err := os.WriteFile(path, []byte("schedule: [{weekday: 9}]"), 0o600); err != nil {
			t.Fatal(err)
		}
		if err := m.Load(); err == nil {
			t.Fatal("Expected reload error")
		}
		if len(s.Schedule(20)) != 1 {
			t.Error("Expected previous tables to survive a failed reload")
		}
		if rec.reloads != 2 || rec.failures != 1 {
			t.Errorf("Unexpected metrics: %+v", rec)
		}
	})

	t.Run("invalid schedule", func(t *testing.T) {
		path := writeTables(t, validTables)
		m := NewManager(path, "not a cron spec", store.NewStore(), logger, nil)
		err := m.Start()
		if err == nil {
			t.Fatal("Expected error for invalid schedule")
		}
		if errors.Unwrap(err) == nil {
			t.Error("Expected wrapped parser error")
		}
	})
}

func writeTables(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write tables: %v", err)
	}
	return path
}

func TestDataFileMatchesSeed(t *testing.T) {
	schedule, exceptions, err := LoadFile(filepath.Join("..", "..", "data", "tables.yaml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	seedSchedule, seedExceptions := Seed()

	if len(schedule) != len(seedSchedule) {
		t.Fatalf("Expected %d schedule entries, got %d", len(seedSchedule), len(schedule))
	}
	for i := range schedule {
		if schedule[i] != seedSchedule[i] {
			t.Errorf("Row %d: expected %+v, got %+v", i, seedSchedule[i], schedule[i])
		}
	}

	if len(exceptions) != len(seedExceptions) {
		t.Fatalf("Expected %d exceptions, got %d", len(seedExceptions), len(exceptions))
	}
	for i := range exceptions {
		if !exceptions[i].Start.Equal(seedExceptions[i].Start) || !exceptions[i].End.Equal(seedExceptions[i].End) {
			t.Errorf("Exception %d: expected %+v, got %+v", i, seedExceptions[i], exceptions[i])
		}
	}
}
