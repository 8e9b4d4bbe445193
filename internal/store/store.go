package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jusunglee/station-hours/internal/models"
)

// ScheduleSource provides the weekly schedule table
type ScheduleSource interface {
	Schedule(stationID int) []models.ScheduleEntry
}

// ExceptionSource provides the exception table
type ExceptionSource interface {
	Exceptions(stationID int) []models.ExceptionEntry
}

// Store manages the in-memory schedule and exception tables.
// Entries keep their table order; lookups never reorder them.
type Store struct {
	mu         sync.RWMutex
	schedule   []models.ScheduleEntry
	exceptions []models.ExceptionEntry
	byStation  map[int][]models.ScheduleEntry
	stations   []int
	lastUpdate time.Time
}

// NewStore creates a new store instance
func NewStore() *Store {
	return &Store{
		byStation: make(map[int][]models.ScheduleEntry),
	}
}

// Update replaces both tables at once
func (s *Store) Update(schedule []models.ScheduleEntry, exceptions []models.ExceptionEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.schedule = schedule
	s.exceptions = exceptions
	s.lastUpdate = time.Now()

	// Rebuild indices
	s.byStation = make(map[int][]models.ScheduleEntry)
	for _, entry := range schedule {
		s.byStation[entry.StationID] = append(s.byStation[entry.StationID], entry)
	}

	s.stations = make([]int, 0, len(s.byStation))
	for id := range s.byStation {
		s.stations = append(s.stations, id)
	}
	sort.Ints(s.stations)
}

// Schedule returns the station's entries in table order
func (s *Store) Schedule(stationID int) []models.ScheduleEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.byStation[stationID]
	result := make([]models.ScheduleEntry, len(entries))
	copy(result, entries)
	return result
}

// Exceptions returns the station's exceptions in table order
func (s *Store) Exceptions(stationID int) []models.ExceptionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.ExceptionEntry, 0)
	for _, exc := range s.exceptions {
		if exc.StationID == stationID {
			result = append(result, exc)
		}
	}
	return result
}

// Stations returns the ids of all stations with at least one schedule entry
func (s *Store) Stations() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]int, len(s.stations))
	copy(result, s.stations)
	return result
}

// StationSchedule returns the full table view of one station
func (s *Store) StationSchedule(stationID int) (models.StationSchedule, error) {
	entries := s.Schedule(stationID)
	exceptions := s.Exceptions(stationID)
	if len(entries) == 0 && len(exceptions) == 0 {
		return models.StationSchedule{}, fmt.Errorf("station %d not found", stationID)
	}
	return models.StationSchedule{
		StationID:  stationID,
		Entries:    entries,
		Exceptions: exceptions,
	}, nil
}

// Counts returns the number of schedule and exception entries loaded
func (s *Store) Counts() (schedule, exceptions int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.schedule), len(s.exceptions)
}

// GetLastUpdate returns the last update time
func (s *Store) GetLastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}
