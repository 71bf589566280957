// Command playeranalyzer shows one player's season line, recent games, and
// current prediction. Lookup is by -id or a case-insensitive -name search.
package main

import (
	"context"
	"flag"
	"fmt"

	"nhlfantasy/internal/config"
	"nhlfantasy/internal/models"
	"nhlfantasy/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	var playerID, games int
	var name string
	flag.IntVar(&playerID, "id", 0, "NHL player id")
	flag.StringVar(&name, "name", "", "player name substring")
	flag.IntVar(&games, "games", 10, "recent games to show")
	flag.Parse()

	if playerID == 0 && name == "" {
		log.Fatal().Msg("one of -id or -name is required")
	}

	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	player := resolvePlayer(ctx, db, playerID, name)

	fmt.Printf("%s  #%d  %s %s\n", player.PlayerName, player.JerseyNumber.Int32,
		player.TeamAbbrev.String, player.Position.String)
	if player.InjuryStatus.Valid {
		fmt.Printf("Injury status: %s\n", player.InjuryStatus.String)
	}
	if player.FantasyTeamID.Valid {
		fmt.Printf("Fantasy team: %d\n", player.FantasyTeamID.Int32)
	} else {
		fmt.Println("Free agent")
	}
	fmt.Println()

	if player.IsGoalie {
		printGoalieSeason(player)
	} else {
		printSkaterSeason(player)
	}

	fmt.Printf("\nPrior season: %d GP, %.2f avg fpts\n",
		player.PriorSeasonGamesPlayed, player.PriorSeasonAvgFpts)
	fmt.Printf("Predicted next-game fpts: %.2f\n\n", player.PredictedFpts)

	printRecentGames(ctx, db, player, cfg.SeasonID, games)
}

func resolvePlayer(ctx context.Context, db *repository.Database, playerID int, name string) *models.ProPlayer {
	if playerID != 0 {
		player, err := db.Players.GetByID(ctx, playerID)
		if err != nil {
			log.Fatal().Err(err).Int("player_id", playerID).Msg("Player not found")
		}
		return player
	}

	matches, err := db.Players.SearchByName(ctx, name)
	if err != nil {
		log.Fatal().Err(err).Msg("Search failed")
	}
	if len(matches) == 0 {
		log.Fatal().Str("name", name).Msg("No players match")
	}
	if len(matches) > 1 {
		fmt.Printf("%d players match %q:\n", len(matches), name)
		for _, p := range matches {
			fmt.Printf("  %-10d %-24s %-4s %s\n", p.PlayerID, p.PlayerName, p.TeamAbbrev.String, p.Position.String)
		}
		log.Fatal().Msg("Narrow the search or use -id")
	}
	return matches[0]
}

func printSkaterSeason(p *models.ProPlayer) {
	fmt.Printf("Season: %d GP, %.1f fpts (%.2f/game)\n", p.SeasonGamesPlayed, p.SeasonTotalFpts, perGame(p.SeasonTotalFpts, p.SeasonGamesPlayed))
	fmt.Printf("  %d G, %d A, %.0f PPP, %.0f SHP, %d SOG, %d BLK, %d HIT",
		p.SeasonGoals, p.SeasonAssists, p.SeasonPPPoints, p.SeasonSHPoints,
		p.SeasonShots, p.SeasonBlockedShots, p.SeasonHits)
	if p.SeasonShootingPct.Valid {
		fmt.Printf(", %.1f%% shooting", p.SeasonShootingPct.Float64)
	}
	fmt.Println()
}

func printGoalieSeason(p *models.ProPlayer) {
	fmt.Printf("Season: %d GP, %.1f fpts (%.2f/game)\n", p.SeasonGamesPlayed, p.SeasonTotalFpts, perGame(p.SeasonTotalFpts, p.SeasonGamesPlayed))
	fmt.Printf("  %d W, %d SO, %d OTL, %d SV, %d GA",
		p.SeasonWins, p.SeasonShutouts, p.SeasonOTLosses, p.SeasonSaves, p.SeasonGoalsAgainst)
	if p.SeasonSavePct.Valid {
		fmt.Printf(", %.1f%% save", p.SeasonSavePct.Float64)
	}
	fmt.Println()
}

func perGame(total float64, games int) float64 {
	if games == 0 {
		return 0
	}
	return total / float64(games)
}

func printRecentGames(ctx context.Context, db *repository.Database, player *models.ProPlayer, season string, n int) {
	fmt.Printf("Last %d games:\n", n)

	if player.IsGoalie {
		stats, err := db.GameStats.GetGoalieGameLog(ctx, player.PlayerID, season)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load game log")
		}
		if len(stats) > n {
			stats = stats[len(stats)-n:]
		}
		fmt.Printf("%-12s %-4s %-3s %4s %4s %8s\n", "DATE", "OPP", "DEC", "SV", "GA", "FPTS")
		for i := len(stats) - 1; i >= 0; i-- {
			g := stats[i]
			fmt.Printf("%-12s %-4s %-3s %4d %4d %8.1f\n",
				g.GameDate.Format("2006-01-02"), g.OpponentAbbrev, g.Decision.String,
				g.Saves, g.GoalsAgainst, g.TotalFpts)
		}
		return
	}

	stats, err := db.GameStats.GetPlayerGameLog(ctx, player.PlayerID, season)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load game log")
	}
	if len(stats) > n {
		stats = stats[len(stats)-n:]
	}
	fmt.Printf("%-12s %-4s %3s %3s %4s %4s %4s %8s\n", "DATE", "OPP", "G", "A", "SOG", "BLK", "HIT", "FPTS")
	for i := len(stats) - 1; i >= 0; i-- {
		s := stats[i]
		fmt.Printf("%-12s %-4s %3d %3d %4d %4d %4d %8.1f\n",
			s.GameDate.Format("2006-01-02"), s.OpponentAbbrev,
			s.Goals, s.Assists, s.Shots, s.BlockedShots, s.Hits, s.TotalFpts)
	}
}
