// Command seedprior populates every player's prior-season baseline. With
// -sync it first backfills the prior season's game stats from the API;
// without it, it recomputes from whatever prior-season rows are stored.
package main

import (
	"context"
	"flag"
	"time"

	"nhlfantasy/internal/cache"
	"nhlfantasy/internal/client"
	"nhlfantasy/internal/config"
	"nhlfantasy/internal/features"
	"nhlfantasy/internal/ingest"
	"nhlfantasy/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	var doSync bool
	flag.BoolVar(&doSync, "sync", false, "fetch the prior season's games before recomputing")
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	if doSync {
		redisCache, err := cache.NewRedisCache(cache.Config{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
			redisCache = nil
		} else {
			defer redisCache.Close()
		}

		nhlClient := client.NewClient(cfg.NHLBaseURL, cfg.NHLTimeout, redisCache, client.Options{
			Concurrency: cfg.ConcurrencyLimit,
			BoxscoreTTL: time.Duration(cfg.CacheTTLBoxscore) * time.Second,
			ScheduleTTL: time.Duration(cfg.CacheTTLSchedule) * time.Second,
		})

		from, err := features.SeasonStart(cfg.PriorSeasonID)
		if err != nil {
			log.Fatal().Err(err).Str("season", cfg.PriorSeasonID).Msg("Invalid prior season id")
		}
		// Regular seasons end by late June
		to := from.AddDate(0, 9, 0)

		fetcher := ingest.NewBackfillFetcher(nhlClient, db, cfg.PriorSeasonID)
		summary, err := fetcher.SyncRange(ctx, from, to)
		if err != nil {
			log.Fatal().Err(err).Msg("Prior season sync failed")
		}
		log.Info().
			Int("games", summary.Games).
			Int("skaters", summary.Skaters).
			Int("goalies", summary.Goalies).
			Msg("Prior season synced")
	}

	// Recompute baselines for every player with prior-season stats
	skaterIDs, err := db.GameStats.SkaterPlayerIDs(ctx, cfg.PriorSeasonID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list prior-season skaters")
	}
	goalieIDs, err := db.GameStats.GoaliePlayerIDs(ctx, cfg.PriorSeasonID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list prior-season goalies")
	}

	seen := make(map[int]bool)
	recomputed, failed := 0, 0
	for _, playerID := range append(skaterIDs, goalieIDs...) {
		if seen[playerID] {
			continue
		}
		seen[playerID] = true
		if err := db.Players.RecomputePriorSeason(ctx, playerID, cfg.PriorSeasonID); err != nil {
			log.Error().Err(err).Int("player_id", playerID).Msg("Failed to recompute prior season")
			failed++
			continue
		}
		recomputed++
	}

	log.Info().
		Str("prior_season", cfg.PriorSeasonID).
		Int("recomputed", recomputed).
		Int("failed", failed).
		Msg("Prior season baselines seeded")
}
