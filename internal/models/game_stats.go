package models

import (
	"database/sql"
	"time"
)

// PlayerGameStat is one skater's line for one game, keyed by
// (game_id, player_id). Rows are immutable except for boxscore corrections,
// which overwrite by key.
type PlayerGameStat struct {
	GameID   int `db:"game_id"`
	PlayerID int `db:"player_id"`

	GameDate       time.Time `db:"game_date"`
	Season         string    `db:"season"`
	TeamAbbrev     string    `db:"team_abbrev"`
	TeamName       string    `db:"team_name"`
	OpponentAbbrev string    `db:"opponent_abbrev"`
	OpponentName   string    `db:"opponent_name"`
	IsHome         bool      `db:"is_home"`

	PlayerName   sql.NullString `db:"player_name"`
	JerseyNumber sql.NullInt32  `db:"jersey_number"`
	Position     sql.NullString `db:"position"`

	Goals        int             `db:"goals"`
	Assists      int             `db:"assists"`
	PPPoints     float64         `db:"pp_points"`
	SHPoints     float64         `db:"sh_points"`
	Shots        int             `db:"shots"`
	ShootingPct  sql.NullFloat64 `db:"shooting_pct"` // NULL when shots == 0
	BlockedShots int             `db:"blocked_shots"`
	Hits         int             `db:"hits"`
	TOISeconds   int             `db:"toi_seconds"`
	Shifts       int             `db:"shifts"`

	TotalFpts float64 `db:"total_fpts"`
}

// GoalieGameStat is one goalie's line for one game, keyed by
// (game_id, player_id).
type GoalieGameStat struct {
	GameID   int `db:"game_id"`
	PlayerID int `db:"player_id"`

	GameDate       time.Time `db:"game_date"`
	Season         string    `db:"season"`
	TeamAbbrev     string    `db:"team_abbrev"`
	TeamName       string    `db:"team_name"`
	OpponentAbbrev string    `db:"opponent_abbrev"`
	OpponentName   string    `db:"opponent_name"`
	IsHome         bool      `db:"is_home"`

	PlayerName   sql.NullString `db:"player_name"`
	JerseyNumber sql.NullInt32  `db:"jersey_number"`
	Position     sql.NullString `db:"position"`

	Saves        int             `db:"saves"`
	GoalsAgainst int             `db:"goals_against"`
	SavePct      sql.NullFloat64 `db:"save_pct"` // NULL when no shots faced
	Decision     sql.NullString  `db:"decision"` // W, L, or O

	Wins     int `db:"wins"`
	Shutouts int `db:"shutouts"`
	OTLosses int `db:"ot_losses"`

	TotalFpts float64 `db:"total_fpts"`
}

// FreeAgentLine is an aggregated recent-window stat line for one unowned
// player, used to rank the waiver wire.
type FreeAgentLine struct {
	PlayerID     int
	PlayerName   string
	TeamAbbrev   string
	Position     string
	Games        int
	AvgFpts      float64
	Goals        int
	Assists      int
	Shots        int
	Hits         int
	BlockedShots int
}
