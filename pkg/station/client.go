package station

import (
	"time"

	"github.com/jusunglee/station-hours/internal/models"
)

// Client defines the interface for querying station status
// Every query is a pure function of station id, instant and the loaded tables
type Client interface {
	IsOpen(stationID int) (bool, error)
	NextAction(stationID int) (models.NextAction, error)

	IsOpenAt(stationID int, at time.Time) (bool, error)
	NextActionAt(stationID int, at time.Time) (models.NextAction, error)

	Stations() ([]int, error)
	Schedule(stationID int) (models.StationSchedule, error)

	GetLastUpdate() time.Time
}

// Clock supplies the current instant
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Config holds configuration for the station client
// An empty TablesFile selects the built-in tables
type Config struct {
	TablesFile     string
	ReloadSchedule string
	Clock          Clock
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		ReloadSchedule: "@every 1m",
		Clock:          ClockFunc(time.Now),
	}
}
