package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// schemaDDL creates the five core tables and their secondary indexes.
// Statements are idempotent so Migrate can run on every startup.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS team_schedule (
		id SERIAL PRIMARY KEY,
		team TEXT NOT NULL,
		week TEXT NOT NULL,
		monday_date DATE NOT NULL,
		sunday_date DATE NOT NULL,
		game_count INT NOT NULL DEFAULT 0,
		opponents TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (team, week)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_team_schedule_team ON team_schedule (team)`,
	`CREATE INDEX IF NOT EXISTS idx_team_schedule_week ON team_schedule (week)`,

	`CREATE TABLE IF NOT EXISTS fantasy_team (
		team_id SERIAL PRIMARY KEY,
		espn_team_id INT UNIQUE,
		team_name TEXT NOT NULL,
		owner_name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fantasy_team_owner ON fantasy_team (owner_name)`,

	`CREATE TABLE IF NOT EXISTS pro_players (
		player_id INT PRIMARY KEY,
		espn_id BIGINT UNIQUE,
		player_name TEXT NOT NULL,
		team_abbrev TEXT,
		position TEXT,
		jersey_number INT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		is_goalie BOOLEAN NOT NULL DEFAULT FALSE,
		injury_status TEXT,
		fantasy_team_id INT REFERENCES fantasy_team (team_id),
		season_games_played INT NOT NULL DEFAULT 0,
		season_total_fpts DOUBLE PRECISION NOT NULL DEFAULT 0,
		season_goals INT NOT NULL DEFAULT 0,
		season_assists INT NOT NULL DEFAULT 0,
		season_pp_points DOUBLE PRECISION NOT NULL DEFAULT 0,
		season_sh_points DOUBLE PRECISION NOT NULL DEFAULT 0,
		season_shots INT NOT NULL DEFAULT 0,
		season_blocked_shots INT NOT NULL DEFAULT 0,
		season_hits INT NOT NULL DEFAULT 0,
		season_shooting_pct DOUBLE PRECISION,
		season_wins INT NOT NULL DEFAULT 0,
		season_shutouts INT NOT NULL DEFAULT 0,
		season_ot_losses INT NOT NULL DEFAULT 0,
		season_saves INT NOT NULL DEFAULT 0,
		season_goals_against INT NOT NULL DEFAULT 0,
		season_save_pct DOUBLE PRECISION,
		prior_season_avg_fpts DOUBLE PRECISION NOT NULL DEFAULT 0,
		prior_season_games_played INT NOT NULL DEFAULT 0,
		predicted_fpts DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pro_players_name ON pro_players (player_name)`,
	`CREATE INDEX IF NOT EXISTS idx_pro_players_team ON pro_players (team_abbrev)`,
	`CREATE INDEX IF NOT EXISTS idx_pro_players_position ON pro_players (position)`,
	`CREATE INDEX IF NOT EXISTS idx_pro_players_fantasy_team ON pro_players (fantasy_team_id)`,

	`CREATE TABLE IF NOT EXISTS player_game_stats (
		game_id INT NOT NULL,
		player_id INT NOT NULL,
		game_date DATE NOT NULL,
		season TEXT NOT NULL,
		team_abbrev TEXT NOT NULL,
		team_name TEXT NOT NULL DEFAULT '',
		opponent_abbrev TEXT NOT NULL,
		opponent_name TEXT NOT NULL DEFAULT '',
		is_home BOOLEAN NOT NULL DEFAULT FALSE,
		player_name TEXT,
		jersey_number INT,
		position TEXT,
		goals INT NOT NULL DEFAULT 0,
		assists INT NOT NULL DEFAULT 0,
		pp_points DOUBLE PRECISION NOT NULL DEFAULT 0,
		sh_points DOUBLE PRECISION NOT NULL DEFAULT 0,
		shots INT NOT NULL DEFAULT 0,
		shooting_pct DOUBLE PRECISION,
		blocked_shots INT NOT NULL DEFAULT 0,
		hits INT NOT NULL DEFAULT 0,
		toi_seconds INT NOT NULL DEFAULT 0,
		shifts INT NOT NULL DEFAULT 0,
		total_fpts DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (game_id, player_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_player_stats_player_date ON player_game_stats (player_id, game_date)`,
	`CREATE INDEX IF NOT EXISTS idx_player_stats_date ON player_game_stats (game_date)`,
	`CREATE INDEX IF NOT EXISTS idx_player_stats_team ON player_game_stats (team_abbrev)`,
	`CREATE INDEX IF NOT EXISTS idx_player_stats_season ON player_game_stats (season)`,
	`CREATE INDEX IF NOT EXISTS idx_player_stats_position ON player_game_stats (position)`,

	`CREATE TABLE IF NOT EXISTS goalie_game_stats (
		game_id INT NOT NULL,
		player_id INT NOT NULL,
		game_date DATE NOT NULL,
		season TEXT NOT NULL,
		team_abbrev TEXT NOT NULL,
		team_name TEXT NOT NULL DEFAULT '',
		opponent_abbrev TEXT NOT NULL,
		opponent_name TEXT NOT NULL DEFAULT '',
		is_home BOOLEAN NOT NULL DEFAULT FALSE,
		player_name TEXT,
		jersey_number INT,
		position TEXT,
		saves INT NOT NULL DEFAULT 0,
		goals_against INT NOT NULL DEFAULT 0,
		save_pct DOUBLE PRECISION,
		decision TEXT,
		wins INT NOT NULL DEFAULT 0,
		shutouts INT NOT NULL DEFAULT 0,
		ot_losses INT NOT NULL DEFAULT 0,
		total_fpts DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (game_id, player_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_goalie_stats_player_date ON goalie_game_stats (player_id, game_date)`,
	`CREATE INDEX IF NOT EXISTS idx_goalie_stats_date ON goalie_game_stats (game_date)`,
	`CREATE INDEX IF NOT EXISTS idx_goalie_stats_team ON goalie_game_stats (team_abbrev)`,
	`CREATE INDEX IF NOT EXISTS idx_goalie_stats_season ON goalie_game_stats (season)`,
}

// Migrate applies the schema. Safe to run repeatedly.
func (db *Database) Migrate(ctx context.Context) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	log.Info().Msg("Database schema up to date")
	return nil
}
