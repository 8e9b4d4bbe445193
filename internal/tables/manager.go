package tables

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/jusunglee/station-hours/internal/store"
)

// Metrics receives table load outcomes
type Metrics interface {
	ReloadObserve(err error)
	TablesLoaded(schedule, exceptions int)
}

// Manager loads the tables into the store and keeps them in sync with the
// tables file on a cron schedule
type Manager struct {
	path    string
	spec    string
	store   *store.Store
	cron    *cron.Cron
	logger  *slog.Logger
	metrics Metrics
}

// NewManager creates a new tables manager. An empty path selects the
// built-in seed tables; an empty spec disables periodic reloads.
func NewManager(path, spec string, s *store.Store, logger *slog.Logger, m Metrics) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		path:    path,
		spec:    spec,
		store:   s,
		cron:    cron.New(),
		logger:  logger,
		metrics: m,
	}
}

// Load fills the store once
func (m *Manager) Load() error {
	err := m.update()
	if m.metrics != nil {
		m.metrics.ReloadObserve(err)
	}
	return err
}

// Start schedules periodic reloads of the tables file
func (m *Manager) Start() error {
	if m.path == "" || m.spec == "" {
		return nil
	}
	_, err := m.cron.AddFunc(m.spec, func() {
		if err := m.Load(); err != nil {
			m.logger.Error("tables reload failed, keeping previous tables", "path", m.path, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reload schedule %q: %w", m.spec, err)
	}
	m.cron.Start()
	m.logger.Info("tables reload scheduled", "path", m.path, "schedule", m.spec)
	return nil
}

// Stop stops the reload schedule and waits for a running reload
func (m *Manager) Stop() {
	<-m.cron.Stop().Done()
}

func (m *Manager) update() error {
	schedule, exceptions := Seed()
	source := "seed"
	if m.path != "" {
		var err error
		schedule, exceptions, err = LoadFile(m.path)
		if err != nil {
			return err
		}
		source = m.path
	}

	m.store.Update(schedule, exceptions)
	if m.metrics != nil {
		m.metrics.TablesLoaded(len(schedule), len(exceptions))
	}
	m.logger.Info("tables loaded", "source", source, "schedule", len(schedule), "exceptions", len(exceptions))
	return nil
}
