package scheduler

import (
	"context"
	"fmt"
	"time"

	"nhlfantasy/internal/config"
	"nhlfantasy/internal/ingest"
	"nhlfantasy/internal/metrics"
	"nhlfantasy/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the daily stat update in the background. Each run syncs
// yesterday's games, recomputes aggregates via the merge pipeline, and
// reconciles the stat tables against the player roster.
type Scheduler struct {
	cfg     *config.Config
	fetcher *ingest.Fetcher
	db      *repository.Database
	cron    *cron.Cron
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, fetcher *ingest.Fetcher, db *repository.Database) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		fetcher: fetcher,
		db:      db,
		cron:    cron.New(),
	}
}

// Start registers the daily update job and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.DailyUpdateCron, func() {
		log.Info().Msg("Running daily stat update...")
		if err := s.RunDailyUpdate(ctx); err != nil {
			log.Error().Err(err).Msg("Daily stat update failed")
			metrics.RecordError("scheduler", "daily_update")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule daily update: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.DailyUpdateCron).
		Msg("Daily stat update scheduled")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	if s.cron != nil {
		s.cron.Stop()
	}
	log.Info().Msg("Scheduler stopped")
}

// RunDailyUpdate syncs yesterday's and today's games so late finishes and
// stat corrections both land, then reports any players the roster is
// missing.
func (s *Scheduler) RunDailyUpdate(ctx context.Context) error {
	start := time.Now()

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	today := time.Now().UTC()

	summary, err := s.fetcher.SyncRange(ctx, yesterday, today)
	if err != nil {
		return fmt.Errorf("daily sync failed: %w", err)
	}

	unmapped, err := ingest.NewProcessor(s.db).Reconcile(ctx)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	metrics.LastSuccessfulSync.SetToCurrentTime()
	log.Info().
		Int("games", summary.Games).
		Int("failed_games", summary.FailedGames).
		Int("skaters", summary.Skaters).
		Int("goalies", summary.Goalies).
		Int("unmapped_players", len(unmapped)).
		Dur("duration", time.Since(start)).
		Msg("Daily stat update complete")

	return nil
}
