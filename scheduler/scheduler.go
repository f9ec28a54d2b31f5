// Package scheduler keeps the therapy catalog loaded: an initial load at
// start-up, reloads at fixed clock times via gocron, and a staleness
// monitor that warns when reloads stop succeeding.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/giygas/cvdrisk-api/interfaces"
	"github.com/giygas/cvdrisk-api/logging"
	"github.com/giygas/cvdrisk-api/metrics"
	"github.com/go-co-op/gocron"
)

// StaleAfter is how old the catalog may get before the monitor warns
const StaleAfter = 25 * time.Hour

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler reloads the catalog into the store using injected dependencies
type Scheduler struct {
	store     interfaces.CatalogStore
	parser    interfaces.CatalogParser
	reloadAt  string
	scheduler *gocron.Scheduler

	monitorInterval time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

// NewScheduler creates a scheduler reloading at the times in reloadAt,
// a gocron At() spec such as "06:00;18:00"
func NewScheduler(store interfaces.CatalogStore, parser interfaces.CatalogParser, reloadAt string) *Scheduler {
	return &Scheduler{
		store:           store,
		parser:          parser,
		reloadAt:        reloadAt,
		scheduler:       gocron.NewScheduler(time.Local),
		monitorInterval: time.Hour,
		stop:            make(chan struct{}),
	}
}

// Start loads the catalog once and schedules reloads. A failed initial
// load is returned: the service cannot answer LDL queries without it.
func (s *Scheduler) Start() error {
	if err := s.Reload(); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At(s.reloadAt).Do(func() {
		if err := s.Reload(); err != nil {
			logging.Error("Failed to reload catalog, keeping the previous one", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule catalog reloads", "error", err)
		return fmt.Errorf("failed to schedule catalog reloads: %w", err)
	}

	s.scheduler.StartAsync()
	s.startHealthMonitoring()

	return nil
}

// Stop stops reloads and the staleness monitor
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.stopOnce.Do(func() { close(s.stop) })
}

// Reload parses the catalog and swaps it into the store. On failure the
// previous catalog stays active. A reload already in progress is skipped.
func (s *Scheduler) Reload() error {
	if !s.store.BeginUpdate() {
		logging.Info("Catalog reload already in progress, skipping...")
		return nil
	}
	defer s.store.EndUpdate()

	start := time.Now()
	source := s.parser.Source()
	logging.Info("Starting catalog reload", "source", source)

	catalog, err := s.parser.ParseCatalog()
	if err != nil {
		metrics.ObserveCatalog(err, 0, 0)
		return fmt.Errorf("failed to parse catalog from %s: %w", source, err)
	}

	s.store.UpdateCatalog(catalog, source)
	statins, addOns := len(catalog.Statins()), len(catalog.AddOns())
	metrics.ObserveCatalog(nil, statins, addOns)

	logging.Info("Catalog reload completed",
		"duration", time.Since(start).String(),
		"source", source,
		"statins", statins,
		"add_ons", addOns,
	)
	return nil
}

// startHealthMonitoring warns when the catalog has not been refreshed for StaleAfter
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(s.monitorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.checkStaleness(time.Now())
			}
		}
	}()
}

// checkStaleness reports whether the catalog is older than StaleAfter
func (s *Scheduler) checkStaleness(now time.Time) bool {
	age := now.Sub(s.store.GetLastUpdated())
	if age > StaleAfter {
		logging.Warn("Therapy catalog hasn't been reloaded in over 25 hours", "age", age.Round(time.Minute).String())
		return true
	}
	return false
}
