// Command fantasyteams manages fantasy rosters:
//
//	fantasyteams list
//	fantasyteams create -name "Puck Dynasty" -owner "Sam"
//	fantasyteams roster -team 1
//	fantasyteams add -team 1 -player 8471214
//	fantasyteams drop -team 1 -player 8471214
//	fantasyteams trade -team 1 -player 8471214 -other-team 2 -other-player 8478402
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"nhlfantasy/internal/config"
	"nhlfantasy/internal/models"
	"nhlfantasy/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	command := os.Args[1]

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	name := fs.String("name", "", "team name")
	owner := fs.String("owner", "", "owner name")
	teamID := fs.Int("team", 0, "fantasy team id")
	playerID := fs.Int("player", 0, "NHL player id")
	otherTeamID := fs.Int("other-team", 0, "other fantasy team id (trade)")
	otherPlayerID := fs.Int("other-player", 0, "other NHL player id (trade)")
	fs.Parse(os.Args[2:])

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

	switch command {
	case "list":
		listTeams(ctx, db)
	case "create":
		if *name == "" || *owner == "" {
			log.Fatal().Msg("create requires -name and -owner")
		}
		team := &models.FantasyTeam{TeamName: *name, OwnerName: *owner}
		if err := db.Teams.Create(ctx, team); err != nil {
			log.Fatal().Err(err).Msg("Failed to create team")
		}
		log.Info().Int("team_id", team.TeamID).Str("name", team.TeamName).Msg("Team created")
	case "roster":
		requireTeam(*teamID)
		showRoster(ctx, db, *teamID)
	case "add":
		requireTeam(*teamID)
		requirePlayer(*playerID)
		if err := db.Players.AssignToTeam(ctx, *playerID, *teamID); err != nil {
			log.Fatal().Err(err).Msg("Add failed")
		}
	case "drop":
		requireTeam(*teamID)
		requirePlayer(*playerID)
		if err := db.Players.DropFromTeam(ctx, *playerID, *teamID); err != nil {
			log.Fatal().Err(err).Msg("Drop failed")
		}
	case "trade":
		requireTeam(*teamID)
		requirePlayer(*playerID)
		if *otherTeamID == 0 || *otherPlayerID == 0 {
			log.Fatal().Msg("trade requires -other-team and -other-player")
		}
		if err := db.Players.Trade(ctx, *playerID, *teamID, *otherPlayerID, *otherTeamID); err != nil {
			log.Fatal().Err(err).Msg("Trade failed")
		}
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: fantasyteams <list|create|roster|add|drop|trade> [flags]")
	os.Exit(2)
}

func requireTeam(id int) {
	if id == 0 {
		log.Fatal().Msg("-team is required")
	}
}

func requirePlayer(id int) {
	if id == 0 {
		log.Fatal().Msg("-player is required")
	}
}

func listTeams(ctx context.Context, db *repository.Database) {
	teams, err := db.Teams.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list teams")
	}
	if len(teams) == 0 {
		fmt.Println("No fantasy teams yet")
		return
	}

	fmt.Printf("%-6s %-24s %-20s\n", "ID", "TEAM", "OWNER")
	for _, team := range teams {
		fmt.Printf("%-6d %-24s %-20s\n", team.TeamID, team.TeamName, team.OwnerName)
	}
}

func showRoster(ctx context.Context, db *repository.Database, teamID int) {
	team, err := db.Teams.GetByID(ctx, teamID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get team")
	}

	roster, err := db.Players.GetRoster(ctx, teamID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get roster")
	}

	fmt.Printf("%s (owner %s), %d players\n\n", team.TeamName, team.OwnerName, len(roster))
	fmt.Printf("%-10s %-24s %-4s %-4s %6s %8s %9s\n", "ID", "PLAYER", "TEAM", "POS", "GP", "FPTS", "PREDICTED")
	for _, p := range roster {
		fmt.Printf("%-10d %-24s %-4s %-4s %6d %8.1f %9.2f\n",
			p.PlayerID, p.PlayerName, p.TeamAbbrev.String, p.Position.String,
			p.SeasonGamesPlayed, p.SeasonTotalFpts, p.PredictedFpts)
	}
}
