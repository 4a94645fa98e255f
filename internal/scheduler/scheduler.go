// Package scheduler runs the recurring maintenance jobs: rating decay,
// upstream result and fixture sync, and settlement of pending predictions.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yourusername/soccer-predictor/internal/models"
	"github.com/yourusername/soccer-predictor/internal/ratings"
	"github.com/yourusername/soccer-predictor/internal/repository"
	"github.com/yourusername/soccer-predictor/internal/service"
	"github.com/yourusername/soccer-predictor/internal/tracker"
)

// Scheduler manages the recurring background jobs
type Scheduler struct {
	cron            *cron.Cron
	syncSvc         *service.SyncService
	elo             *ratings.System
	predictions     *tracker.Tracker
	matches         repository.MatchRepository
	logger          *log.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(
	syncSvc *service.SyncService,
	elo *ratings.System,
	predictions *tracker.Tracker,
	matches repository.MatchRepository,
	logger *log.Logger,
) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		syncSvc:         syncSvc,
		elo:             elo,
		predictions:     predictions,
		matches:         matches,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleRatingDecay schedules the inactivity decay pass. Teams without
// a recorded match for longer than inactiveAfter drift back toward the
// league baseline.
func (s *Scheduler) ScheduleRatingDecay(cronExpression string, inactiveAfter time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		decayed := s.elo.ApplyDecay(inactiveAfter)
		if decayed > 0 {
			s.logger.Printf("Rating decay applied to %d inactive teams", decayed)
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled rating decay job with cron expression: %s", cronExpression)

	return nil
}

// ScheduleUpstreamSync schedules result and fixture synchronization for
// the given leagues.
func (s *Scheduler) ScheduleUpstreamSync(cronExpression string, leagues []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if s.syncSvc == nil {
		return fmt.Errorf("sync service not configured")
	}

	if len(leagues) == 0 {
		return fmt.Errorf("no leagues to sync")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()

		// Results first so ratings are fresh before new fixtures land.
		since := time.Now().Add(-7 * 24 * time.Hour)

		for _, league := range leagues {
			metrics, err := s.syncSvc.SyncResults(ctx, league, since)
			if err != nil {
				s.logger.Printf("Error syncing results for %s: %v", league, err)
			} else {
				s.logger.Printf("Result sync for %s: %s", league, metrics.String())
			}

			if _, err := s.syncSvc.SyncFixtures(ctx, league); err != nil {
				s.logger.Printf("Error syncing fixtures for %s: %v", league, err)
			}
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled upstream sync job for %d leagues with cron expression: %s", len(leagues), cronExpression)

	return nil
}

// ScheduleSettlePending schedules settlement of predictions whose match
// has since been played.
func (s *Scheduler) ScheduleSettlePending(cronExpression string, batchSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if s.predictions == nil || s.matches == nil {
		return fmt.Errorf("prediction tracker not configured")
	}

	if batchSize <= 0 {
		batchSize = 100
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		settled, err := s.SettlePending(ctx, batchSize)
		if err != nil {
			s.logger.Printf("Error settling pending predictions: %v", err)
			return
		}
		if settled > 0 {
			s.logger.Printf("Settled %d pending predictions", settled)
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled settlement job with cron expression: %s", cronExpression)

	return nil
}

// SettlePending walks pending predictions and settles the ones whose
// match now has a final score. Returns the number settled.
func (s *Scheduler) SettlePending(ctx context.Context, limit int) (int, error) {
	pending, err := s.predictions.Pending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending predictions: %w", err)
	}

	settled := 0
	for i := range pending {
		record := &pending[i]
		if record.MatchID == 0 {
			continue
		}

		match, err := s.matches.GetByID(ctx, record.MatchID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return settled, err
		}

		if !match.IsPlayed() {
			continue
		}

		if _, err := s.predictions.Settle(ctx, record.ID, *match.HomeGoals, *match.AwayGoals); err != nil {
			s.logger.Printf("Failed to settle prediction %s: %v", record.ID, err)
			continue
		}
		settled++
	}

	return settled, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Printf("Scheduler started with %d jobs", len(s.jobIDs))

	return nil
}

// Stop gracefully stops the scheduler, waiting for in-flight jobs up to
// the graceful timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.gracefulTimeout):
		s.logger.Printf("Scheduler stop timed out after %v", s.gracefulTimeout)
	}

	s.isRunning = false
	s.logger.Printf("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	s.logger.Printf("Removed job: %d", jobID)

	return nil
}
