// Package scheduler runs the periodic catalog cache warming.
package scheduler

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Invalidator is the subset of the refresh controller the scheduler needs.
type Invalidator interface {
	Invalidate()
}

// CatalogRefresh invalidates the given catalog controllers on a cron
// schedule so the next read after the tick fetches fresh data.
type CatalogRefresh struct {
	schedule string
	targets  []Invalidator
	log      *zap.Logger

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

func NewCatalogRefresh(schedule string, log *zap.Logger, targets ...Invalidator) *CatalogRefresh {
	return &CatalogRefresh{
		schedule: schedule,
		targets:  targets,
		log:      log,
		cron:     cron.New(),
	}
}

// Start begins the schedule. Calling Start on a running scheduler is a no-op.
func (s *CatalogRefresh) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, s.runRefresh)
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	s.log.Info("periodic catalog refresh started", zap.String("schedule", s.schedule))
	return nil
}

// Stop halts the schedule and waits for a tick in progress to finish.
func (s *CatalogRefresh) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.log.Info("periodic catalog refresh stopped")
}

func (s *CatalogRefresh) runRefresh() {
	s.log.Debug("catalog refresh tick", zap.Int("targets", len(s.targets)))
	for _, target := range s.targets {
		target.Invalidate()
	}
}
