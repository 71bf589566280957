// Command runpredictions scores every active player with a game on the
// target date and writes predicted_fpts back to pro_players. A feature-name
// mismatch between the artifact and the current feature order is fatal.
package main

import (
	"context"
	"flag"
	"time"

	"nhlfantasy/internal/cache"
	"nhlfantasy/internal/client"
	"nhlfantasy/internal/config"
	"nhlfantasy/internal/features"
	"nhlfantasy/internal/metrics"
	"nhlfantasy/internal/ml"
	"nhlfantasy/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.MustLoad()

	var date string
	flag.StringVar(&date, "date", time.Now().UTC().Format("2006-01-02"), "game date YYYY-MM-DD")
	flag.Parse()

	targetDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		log.Fatal().Err(err).Str("date", date).Msg("Invalid -date")
	}

	ctx := context.Background()

	db, err := repository.NewDatabase(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	model, err := ml.LoadLatest(cfg.ModelDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.ModelDir).Msg("Failed to load model artifact")
	}
	log.Info().Str("version", model.Version).Float64("mae", model.MAE).Msg("Model loaded")

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

	sched, err := nhlClient.FetchScheduleByDate(ctx, date)
	if err != nil {
		log.Fatal().Err(err).Str("date", date).Msg("Failed to fetch schedule")
	}

	games := sched.GamesOn(date)
	if len(games) == 0 {
		log.Info().Str("date", date).Msg("No games on date, nothing to predict")
		return
	}

	builder := features.NewBuilder(db)

	written, skipped, failed := 0, 0, 0
	for _, game := range games {
		if !game.IsRegularSeason() {
			continue
		}

		sides := []struct {
			team     string
			opponent string
			isHome   bool
		}{
			{game.HomeTeam.Abbrev, game.AwayTeam.Abbrev, true},
			{game.AwayTeam.Abbrev, game.HomeTeam.Abbrev, false},
		}

		for _, side := range sides {
			players, err := db.Players.GetByTeamAbbrev(ctx, side.team)
			if err != nil {
				log.Error().Err(err).Str("team", side.team).Msg("Failed to load team players")
				failed++
				continue
			}

			target := features.TargetGame{
				Date:           targetDate,
				OpponentAbbrev: side.opponent,
				IsHome:         side.isHome,
			}

			for _, player := range players {
				input, err := builder.NextGameVector(ctx, player.PlayerID, cfg.SeasonID, target)
				if err != nil {
					log.Warn().Err(err).Int("player_id", player.PlayerID).Msg("Failed to build features, skipping")
					skipped++
					continue
				}

				// Wrong feature shape means the artifact predates the
				// current feature set, refuse to write garbage
				predicted, err := model.Predict(features.FeatureNames, input.Vector)
				if err != nil {
					log.Fatal().Err(err).Msg("Model feature mismatch")
				}

				if err := db.Players.UpdatePredictedFpts(ctx, player.PlayerID, predicted); err != nil {
					log.Error().Err(err).Int("player_id", player.PlayerID).Msg("Failed to write prediction")
					failed++
					continue
				}
				written++
			}
		}
	}

	metrics.RecordPredictions(written)
	log.Info().
		Str("date", date).
		Str("model", model.Version).
		Int("written", written).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("Prediction run complete")
}
