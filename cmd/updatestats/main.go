// Command updatestats syncs recent game stats into the database. By default
// it covers yesterday and today so late finishes and corrections both land;
// explicit -from/-to flags backfill a range.
package main

import (
	"context"
	"flag"
	"time"

	"nhlfantasy/internal/cache"
	"nhlfantasy/internal/client"
	"nhlfantasy/internal/config"
	"nhlfantasy/internal/ingest"
	"nhlfantasy/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	var fromFlag, toFlag string
	flag.StringVar(&fromFlag, "from", "", "start date YYYY-MM-DD (default yesterday)")
	flag.StringVar(&toFlag, "to", "", "end date YYYY-MM-DD inclusive (default today)")
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad()

	from := time.Now().UTC().AddDate(0, 0, -1)
	to := time.Now().UTC()
	var err error
	if fromFlag != "" {
		if from, err = time.Parse("2006-01-02", fromFlag); err != nil {
			log.Fatal().Err(err).Str("from", fromFlag).Msg("Invalid -from date")
		}
	}
	if toFlag != "" {
		if to, err = time.Parse("2006-01-02", toFlag); err != nil {
			log.Fatal().Err(err).Str("to", toFlag).Msg("Invalid -to date")
		}
	}

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

	summary, err := fetcher.SyncRange(ctx, from, to)
	if err != nil {
		log.Fatal().Err(err).Msg("Stat sync failed")
	}

	unmapped, err := ingest.NewProcessor(db).Reconcile(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Reconciliation failed")
	}

	log.Info().
		Str("from", from.Format("2006-01-02")).
		Str("to", to.Format("2006-01-02")).
		Int("games", summary.Games).
		Int("failed_games", summary.FailedGames).
		Int("skaters", summary.Skaters).
		Int("goalies", summary.Goalies).
		Int("unmapped_players", len(unmapped)).
		Msg("Stat update complete")
}
