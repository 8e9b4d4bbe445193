package station

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jusunglee/station-hours/internal/models"
	"github.com/jusunglee/station-hours/internal/schedule"
	"github.com/jusunglee/station-hours/internal/store"
	"github.com/jusunglee/station-hours/internal/tables"
)

// LocalClient implements the Client interface for local usage
// Evaluates queries against in-memory tables kept fresh by a tables manager
type LocalClient struct {
	store     *store.Store
	evaluator *schedule.Evaluator
	tables    *tables.Manager
	clock     Clock
}

// NewLocal creates a new local station client
// Loads the tables once and schedules reloads when a tables file is set
func NewLocal(config Config, logger *slog.Logger, m tables.Metrics) (*LocalClient, error) {
	s := store.NewStore()

	tm := tables.NewManager(config.TablesFile, config.ReloadSchedule, s, logger, m)
	if err := tm.Load(); err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	if err := tm.Start(); err != nil {
		return nil, err
	}

	clock := config.Clock
	if clock == nil {
		clock = ClockFunc(time.Now)
	}

	return &LocalClient{
		store:     s,
		evaluator: schedule.NewEvaluator(s, s),
		tables:    tm,
		clock:     clock,
	}, nil
}

// Close stops the reload schedule
func (c *LocalClient) Close() {
	c.tables.Stop()
}

func (c *LocalClient) IsOpen(stationID int) (bool, error) {
	return c.IsOpenAt(stationID, c.clock.Now())
}

func (c *LocalClient) NextAction(stationID int) (models.NextAction, error) {
	return c.NextActionAt(stationID, c.clock.Now())
}

func (c *LocalClient) IsOpenAt(stationID int, at time.Time) (bool, error) {
	return c.evaluator.IsOpen(stationID, at), nil
}

func (c *LocalClient) NextActionAt(stationID int, at time.Time) (models.NextAction, error) {
	return c.evaluator.NextAction(stationID, at), nil
}

func (c *LocalClient) Stations() ([]int, error) {
	return c.store.Stations(), nil
}

func (c *LocalClient) Schedule(stationID int) (models.StationSchedule, error) {
	return c.store.StationSchedule(stationID)
}

func (c *LocalClient) GetLastUpdate() time.Time {
	return c.store.GetLastUpdate()
}
