package models

import (
	"database/sql"
	"time"
)

// ProPlayer is the master row for a unique NHL player. It links the NHL
// player_id to the ESPN id, carries roster/fantasy ownership, and holds the
// denormalized season-to-date counters that are recomputed from the game
// stat tables after every merge.
type ProPlayer struct {
	PlayerID     int             `db:"player_id"` // NHL id, primary key
	ESPNID       sql.NullInt64   `db:"espn_id"`
	PlayerName   string          `db:"player_name"`
	TeamAbbrev   sql.NullString  `db:"team_abbrev"`
	Position     sql.NullString  `db:"position"`
	JerseyNumber sql.NullInt32   `db:"jersey_number"`
	IsActive     bool            `db:"is_active"`
	IsGoalie     bool            `db:"is_goalie"`
	InjuryStatus sql.NullString  `db:"injury_status"`

	// NULL means free agent
	FantasyTeamID sql.NullInt32 `db:"fantasy_team_id"`

	// Season-to-date skater counters
	SeasonGamesPlayed  int             `db:"season_games_played"`
	SeasonTotalFpts    float64         `db:"season_total_fpts"`
	SeasonGoals        int             `db:"season_goals"`
	SeasonAssists      int             `db:"season_assists"`
	SeasonPPPoints     float64         `db:"season_pp_points"`
	SeasonSHPoints     float64         `db:"season_sh_points"`
	SeasonShots        int             `db:"season_shots"`
	SeasonBlockedShots int             `db:"season_blocked_shots"`
	SeasonHits         int             `db:"season_hits"`
	SeasonShootingPct  sql.NullFloat64 `db:"season_shooting_pct"`

	// Season-to-date goalie counters
	SeasonWins         int             `db:"season_wins"`
	SeasonShutouts     int             `db:"season_shutouts"`
	SeasonOTLosses     int             `db:"season_ot_losses"`
	SeasonSaves        int             `db:"season_saves"`
	SeasonGoalsAgainst int             `db:"season_goals_against"`
	SeasonSavePct      sql.NullFloat64 `db:"season_save_pct"`

	// Prior-season reputation, used as the cold-start feature baseline
	PriorSeasonAvgFpts     float64 `db:"prior_season_avg_fpts"`
	PriorSeasonGamesPlayed int     `db:"prior_season_games_played"`

	// Latest model output
	PredictedFpts float64 `db:"predicted_fpts"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsFreeAgent reports whether the player is unowned.
func (p *ProPlayer) IsFreeAgent() bool {
	return !p.FantasyTeamID.Valid
}
