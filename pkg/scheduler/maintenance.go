package scheduler

import (
	"context"
	"time"

	"github.com/fadedpez/neobank/internal/logging"
)

// Pruner removes history older than a cutoff
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// Refresher re-reads the account in the background. Implementations
// swallow transient failures themselves.
type Refresher interface {
	BackgroundRefresh(ctx context.Context) error
}

// MaintenanceConfig holds the intervals of the maintenance tasks. A zero
// interval disables the task.
type MaintenanceConfig struct {
	RefreshInterval  time.Duration
	HistoryRetention time.Duration
	PruneInterval    time.Duration
}

// MaintenanceScheduler runs the client's periodic background work
type MaintenanceScheduler struct {
	scheduler *Scheduler
	pruner    Pruner
	refresher Refresher
	config    MaintenanceConfig
	logger    *logging.Logger
}

// NewMaintenanceScheduler creates a maintenance scheduler. pruner and
// refresher may be nil.
func NewMaintenanceScheduler(scheduler *Scheduler, pruner Pruner, refresher Refresher, config MaintenanceConfig) *MaintenanceScheduler {
	if config.PruneInterval <= 0 {
		config.PruneInterval = 24 * time.Hour
	}
	return &MaintenanceScheduler{
		scheduler: scheduler,
		pruner:    pruner,
		refresher: refresher,
		config:    config,
		logger:    scheduler.logger,
	}
}

// Start registers the enabled tasks and starts the scheduler
func (m *MaintenanceScheduler) Start(ctx context.Context) {
	if m.refresher != nil && m.config.RefreshInterval > 0 {
		m.scheduler.AddTask("account_refresh", m.config.RefreshInterval, m.refresher.BackgroundRefresh)
	}
	if m.pruner != nil && m.config.HistoryRetention > 0 {
		m.scheduler.AddTask("history_pruning", m.config.PruneInterval, m.pruneHistory)
	}

	m.scheduler.Start(ctx)
}

// Stop stops the maintenance scheduler
func (m *MaintenanceScheduler) Stop() {
	m.scheduler.Stop()
}

// pruneHistory drops rounds older than the retention period
func (m *MaintenanceScheduler) pruneHistory(ctx context.Context) error {
	cutoff := m.scheduler.clock.Now().Add(-m.config.HistoryRetention)
	removed, err := m.pruner.Prune(ctx, cutoff)
	if err != nil {
		return err
	}
	if removed > 0 {
		m.logger.Info("[SCHEDULER] Pruned %d rounds settled before %s", removed, cutoff.Format(time.RFC3339))
	}
	return nil
}
