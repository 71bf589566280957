// Command waiverwire ranks free agents by recent production over a trailing
// window, the default being the last 14 days.
package main

import (
	"context"
	"flag"
	"fmt"

	"nhlfantasy/internal/config"
	"nhlfantasy/internal/repository"
	"nhlfantasy/internal/waiver"

	"github.com/rs/zerolog/log"
)

func main() {
	var days, minGames, limit int
	flag.IntVar(&days, "days", waiver.DefaultWindowDays, "trailing window in days")
	flag.IntVar(&minGames, "min-games", waiver.DefaultMinGames, "minimum games in the window")
	flag.IntVar(&limit, "limit", waiver.DefaultLimit, "number of candidates to show")
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ranked, err := waiver.NewRanker(db).Report(ctx, waiver.Options{
		Season:     cfg.SeasonID,
		WindowDays: days,
		MinGames:   minGames,
		Limit:      limit,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build waiver wire report")
	}

	if len(ranked) == 0 {
		fmt.Printf("No free agents with %d+ games in the last %d days\n", minGames, days)
		return
	}

	fmt.Printf("Top free agents, last %d days (min %d games)\n\n", days, minGames)
	fmt.Printf("%-4s %-10s %-24s %-4s %-4s %4s %8s %4s %4s %6s\n",
		"#", "ID", "PLAYER", "TEAM", "POS", "GP", "AVG FPTS", "G", "A", "SCORE")
	for i, c := range ranked {
		l := c.Line
		fmt.Printf("%-4d %-10d %-24s %-4s %-4s %4d %8.2f %4d %4d %6.2f\n",
			i+1, l.PlayerID, l.PlayerName, l.TeamAbbrev, l.Position,
			l.Games, l.AvgFpts, l.Goals, l.Assists, c.Score)
	}
}
