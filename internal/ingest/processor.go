package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nhlfantasy/internal/metrics"
	"nhlfantasy/internal/models"
	"nhlfantasy/internal/repository"

	"github.com/rs/zerolog/log"
)

// Processor merges converted game lines into storage and keeps player
// season aggregates consistent with the stat tables.
type Processor struct {
	db             *repository.Database
	skipAggregates bool
}

// NewProcessor creates a stat merge processor
func NewProcessor(db *repository.Database) *Processor {
	return &Processor{db: db}
}

// NewBackfillProcessor creates a processor for loading a past season. Stat
// rows are merged as usual, but the pro_players season counters track the
// current season only and are left untouched.
func NewBackfillProcessor(db *repository.Database) *Processor {
	return &Processor{db: db, skipAggregates: true}
}

// BatchResult summarizes one merged batch
type BatchResult struct {
	Skaters        int
	Goalies        int
	UnknownPlayers []int
	Recomputed     int
}

// MergeBatch writes one date's converted stat lines in a single
// transaction, then recomputes season aggregates for every known player the
// batch touched. Unknown players still get their stat rows stored; they are
// reported so a roster sync can pick them up.
func (p *Processor) MergeBatch(ctx context.Context, season string, skaters []*models.PlayerGameStat, goalies []*models.GoalieGameStat) (*BatchResult, error) {
	start := time.Now()

	tx, err := p.db.Pool.Begin(ctx)
	if err != nil {
		metrics.RecordMergeBatch("error", 0, 0, time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to begin merge transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range skaters {
		if err := p.db.GameStats.UpsertSkaterTx(ctx, tx, s); err != nil {
			metrics.RecordMergeBatch("error", 0, 0, time.Since(start).Seconds())
			return nil, err
		}
	}
	for _, g := range goalies {
		if err := p.db.GameStats.UpsertGoalieTx(ctx, tx, g); err != nil {
			metrics.RecordMergeBatch("error", 0, 0, time.Since(start).Seconds())
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		metrics.RecordMergeBatch("error", 0, 0, time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to commit merge batch: %w", err)
	}

	touched := make(map[int]bool, len(skaters)+len(goalies))
	for _, s := range skaters {
		touched[s.PlayerID] = true
	}
	for _, g := range goalies {
		touched[g.PlayerID] = true
	}

	result := &BatchResult{Skaters: len(skaters), Goalies: len(goalies)}
	for playerID := range touched {
		if _, err := p.db.Players.GetByID(ctx, playerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				result.UnknownPlayers = append(result.UnknownPlayers, playerID)
			} else {
				log.Error().Err(err).Int("player_id", playerID).Msg("Failed to look up player")
				metrics.RecordError("processor", "player_lookup")
			}
			continue
		}
		if p.skipAggregates {
			continue
		}
		if err := p.db.Players.RecomputeSeasonAggregates(ctx, playerID, season); err != nil {
			log.Error().Err(err).Int("player_id", playerID).Msg("Failed to recompute season aggregates")
			metrics.RecordError("processor", "aggregate_recompute")
			continue
		}
		result.Recomputed++
	}

	metrics.RecordMergeBatch("success", result.Skaters, result.Goalies, time.Since(start).Seconds())
	if len(result.UnknownPlayers) > 0 {
		metrics.RecordUnknownPlayers(len(result.UnknownPlayers))
		log.Warn().
			Ints("player_ids", result.UnknownPlayers).
			Msg("Merged stats for players missing from pro_players")
	}

	log.Info().
		Int("skaters", result.Skaters).
		Int("goalies", result.Goalies).
		Int("recomputed", result.Recomputed).
		Dur("duration", time.Since(start)).
		Msg("Merge batch complete")

	return result, nil
}

// Reconcile reports player ids that have stat rows but no pro_players row
func (p *Processor) Reconcile(ctx context.Context) ([]int, error) {
	ids, err := p.db.Players.UnmappedPlayerIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		log.Warn().Ints("player_ids", ids).Msg("Stat tables reference unknown players")
	}
	return ids, nil
}
