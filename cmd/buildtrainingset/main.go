// Command buildtrainingset writes the labeled training CSV from stored game
// stats. Each row is one historical game with features built only from
// games before it.
package main

import (
	"context"
	"flag"

	"nhlfantasy/internal/config"
	"nhlfantasy/internal/features"
	"nhlfantasy/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.MustLoad()

	var out, season string
	flag.StringVar(&out, "out", cfg.TrainingSetPath, "output CSV path")
	flag.StringVar(&season, "season", cfg.SeasonID, "season to build from")
	flag.Parse()

	ctx := context.Background()

	db, err := repository.NewDatabase(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	rows, err := features.NewBuilder(db).BuildSeason(ctx, season)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build training set")
	}
	if len(rows) == 0 {
		log.Fatal().Str("season", season).Msg("No stored games to build from")
	}

	if err := features.WriteCSV(out, rows); err != nil {
		log.Fatal().Err(err).Msg("Failed to write training set")
	}

	log.Info().
		Str("season", season).
		Str("path", out).
		Int("rows", len(rows)).
		Msg("Training set complete")
}
