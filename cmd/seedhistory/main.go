// Command seedhistory backfills the current season from its first game day
// through today and optionally derives weekly team schedules. Re-running it
// is safe: every write is a keyed upsert.
package main

import (
	"context"
	"flag"
	"strings"
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
	var fromFlag, teamsFlag string
	flag.StringVar(&fromFlag, "from", "", "start date YYYY-MM-DD (default season opening month)")
	flag.StringVar(&teamsFlag, "teams", "", "comma-separated team abbrevs whose weekly schedules to seed")
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad()

	from, err := features.SeasonStart(cfg.SeasonID)
	if err != nil {
		log.Fatal().Err(err).Str("season", cfg.SeasonID).Msg("Invalid season id")
	}
	if fromFlag != "" {
		if from, err = time.Parse("2006-01-02", fromFlag); err != nil {
			log.Fatal().Err(err).Str("from", fromFlag).Msg("Invalid -from date")
		}
	}
	to := time.Now().UTC()

	db, err := repository.NewDatabase(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

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

	fetcher := ingest.NewFetcher(nhlClient, db, cfg.SeasonID)

	log.Info().
		Str("season", cfg.SeasonID).
		Str("from", from.Format("2006-01-02")).
		Str("to", to.Format("2006-01-02")).
		Msg("Starting historical backfill")

	summary, err := fetcher.SyncRange(ctx, from, to)
	if err != nil {
		log.Fatal().Err(err).Msg("Historical backfill failed")
	}

	// Seed weekly schedules after stats so roster rows exist either way
	scheduleWeeks := 0
	if teamsFlag != "" {
		for _, team := range strings.Split(teamsFlag, ",") {
			team = strings.ToUpper(strings.TrimSpace(team))
			if team == "" {
				continue
			}
			weeks, err := fetcher.SyncClubSchedule(ctx, team)
			if err != nil {
				log.Error().Err(err).Str("team", team).Msg("Failed to seed club schedule")
				continue
			}
			scheduleWeeks += weeks
		}
	}

	unmapped, err := ingest.NewProcessor(db).Reconcile(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Reconciliation failed")
	}

	log.Info().
		Int("dates", summary.Dates).
		Int("games", summary.Games).
		Int("failed_games", summary.FailedGames).
		Int("skaters", summary.Skaters).
		Int("goalies", summary.Goalies).
		Int("schedule_weeks", scheduleWeeks).
		Int("unmapped_players", len(unmapped)).
		Msg("Historical backfill complete")
}
