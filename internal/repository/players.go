package repository

import (
	"context"
	"fmt"

	"nhlfantasy/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// PlayerRepository handles pro_players database operations
type PlayerRepository struct {
	db *Database
}

const playerColumns = `
	player_id, espn_id, player_name, team_abbrev, position, injury_status,
	jersey_number, is_active, is_goalie, fantasy_team_id,
	season_games_played, season_total_fpts, season_goals, season_assists,
	season_pp_points, season_sh_points, season_shots, season_shooting_pct,
	season_blocked_shots, season_hits,
	season_wins, season_shutouts, season_ot_losses, season_saves,
	season_goals_against, season_save_pct,
	prior_season_avg_fpts, prior_season_games_played,
	predicted_fpts, created_at, updated_at
`

func scanPlayer(row pgx.Row) (*models.ProPlayer, error) {
	var p models.ProPlayer
	err := row.Scan(
		&p.PlayerID, &p.ESPNID, &p.PlayerName, &p.TeamAbbrev, &p.Position, &p.InjuryStatus,
		&p.JerseyNumber, &p.IsActive, &p.IsGoalie, &p.FantasyTeamID,
		&p.SeasonGamesPlayed, &p.SeasonTotalFpts, &p.SeasonGoals, &p.SeasonAssists,
		&p.SeasonPPPoints, &p.SeasonSHPoints, &p.SeasonShots, &p.SeasonShootingPct,
		&p.SeasonBlockedShots, &p.SeasonHits,
		&p.SeasonWins, &p.SeasonShutouts, &p.SeasonOTLosses, &p.SeasonSaves,
		&p.SeasonGoalsAgainst, &p.SeasonSavePct,
		&p.PriorSeasonAvgFpts, &p.PriorSeasonGamesPlayed,
		&p.PredictedFpts, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert inserts or updates a player's identity fields. Season aggregates
// are never written here, they are owned by RecomputeSeasonAggregates.
func (r *PlayerRepository) Upsert(ctx context.Context, player *models.ProPlayer) error {
	query := `
		INSERT INTO pro_players (
			player_id, espn_id, player_name, team_abbrev, position,
			injury_status, jersey_number, is_active, is_goalie
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (player_id)
		DO UPDATE SET
			espn_id = COALESCE(EXCLUDED.espn_id, pro_players.espn_id),
			player_name = EXCLUDED.player_name,
			team_abbrev = EXCLUDED.team_abbrev,
			position = EXCLUDED.position,
			injury_status = EXCLUDED.injury_status,
			jersey_number = EXCLUDED.jersey_number,
			is_active = EXCLUDED.is_active,
			is_goalie = EXCLUDED.is_goalie,
			updated_at = NOW()
	`

	_, err := r.db.Pool.Exec(ctx, query,
		player.PlayerID, player.ESPNID, player.PlayerName, player.TeamAbbrev,
		player.Position, player.InjuryStatus, player.JerseyNumber,
		player.IsActive, player.IsGoalie,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert player %d: %w", player.PlayerID, err)
	}

	return nil
}

// GetByID retrieves a player by NHL player id
func (r *PlayerRepository) GetByID(ctx context.Context, playerID int) (*models.ProPlayer, error) {
	query := `SELECT ` + playerColumns + ` FROM pro_players WHERE player_id = $1`

	p, err := scanPlayer(r.db.Pool.QueryRow(ctx, query, playerID))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("player not found: player_id=%d: %w", playerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return p, nil
}

// SearchByName performs a case-insensitive substring search over player names
func (r *PlayerRepository) SearchByName(ctx context.Context, name string) ([]*models.ProPlayer, error) {
	query := `SELECT ` + playerColumns + ` FROM pro_players
		WHERE player_name ILIKE '%' || $1 || '%'
		ORDER BY player_name ASC`

	rows, err := r.db.Pool.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	defer rows.Close()

	return collectPlayers(rows)
}

// GetByTeamAbbrev retrieves a pro team's active players
func (r *PlayerRepository) GetByTeamAbbrev(ctx context.Context, abbrev string) ([]*models.ProPlayer, error) {
	query := `SELECT ` + playerColumns + ` FROM pro_players
		WHERE team_abbrev = $1 AND is_active = TRUE
		ORDER BY player_name ASC`

	rows, err := r.db.Pool.Query(ctx, query, abbrev)
	if err != nil {
		return nil, fmt.Errorf("failed to get players for %s: %w", abbrev, err)
	}
	defer rows.Close()

	return collectPlayers(rows)
}

// GetRoster retrieves all players assigned to a fantasy team
func (r *PlayerRepository) GetRoster(ctx context.Context, fantasyTeamID int) ([]*models.ProPlayer, error) {
	query := `SELECT ` + playerColumns + ` FROM pro_players
		WHERE fantasy_team_id = $1
		ORDER BY is_goalie ASC, position ASC, player_name ASC`

	rows, err := r.db.Pool.Query(ctx, query, fantasyTeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	defer rows.Close()

	return collectPlayers(rows)
}

func collectPlayers(rows pgx.Rows) ([]*models.ProPlayer, error) {
	var players []*models.ProPlayer
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	return players, nil
}

// RecomputeSeasonAggregates rebuilds one player's season totals from the
// game stat tables. Running it twice for the same state is a no-op, so
// re-merged games never double count. Percentages collapse to NULL when
// the denominator is zero.
func (r *PlayerRepository) RecomputeSeasonAggregates(ctx context.Context, playerID int, season string) error {
	skaterQuery := `
		UPDATE pro_players p SET
			season_games_played = s.games,
			season_total_fpts = s.fpts,
			season_goals = s.goals,
			season_assists = s.assists,
			season_pp_points = s.pp_points,
			season_sh_points = s.sh_points,
			season_shots = s.shots,
			season_shooting_pct = CASE WHEN s.shots > 0
				THEN ROUND(s.goals::numeric / s.shots * 100, 2) ELSE NULL END,
			season_blocked_shots = s.blocked_shots,
			season_hits = s.hits,
			updated_at = NOW()
		FROM (
			SELECT
				COUNT(*) AS games,
				COALESCE(SUM(total_fpts), 0) AS fpts,
				COALESCE(SUM(goals), 0) AS goals,
				COALESCE(SUM(assists), 0) AS assists,
				COALESCE(SUM(pp_points), 0) AS pp_points,
				COALESCE(SUM(sh_points), 0) AS sh_points,
				COALESCE(SUM(shots), 0) AS shots,
				COALESCE(SUM(blocked_shots), 0) AS blocked_shots,
				COALESCE(SUM(hits), 0) AS hits
			FROM player_game_stats
			WHERE player_id = $1 AND season = $2
		) s
		WHERE p.player_id = $1
	`

	goalieQuery := `
		UPDATE pro_players p SET
			season_games_played = g.games,
			season_total_fpts = g.fpts,
			season_wins = g.wins,
			season_shutouts = g.shutouts,
			season_ot_losses = g.ot_losses,
			season_saves = g.saves,
			season_goals_against = g.goals_against,
			season_save_pct = CASE WHEN g.saves + g.goals_against > 0
				THEN ROUND(g.saves::numeric / (g.saves + g.goals_against) * 100, 2) ELSE NULL END,
			updated_at = NOW()
		FROM (
			SELECT
				COUNT(*) AS games,
				COALESCE(SUM(total_fpts), 0) AS fpts,
				COALESCE(SUM(wins), 0) AS wins,
				COALESCE(SUM(shutouts), 0) AS shutouts,
				COALESCE(SUM(ot_losses), 0) AS ot_losses,
				COALESCE(SUM(saves), 0) AS saves,
				COALESCE(SUM(goals_against), 0) AS goals_against
			FROM goalie_game_stats
			WHERE player_id = $1 AND season = $2
		) g
		WHERE p.player_id = $1
	`

	player, err := r.GetByID(ctx, playerID)
	if err != nil {
		return err
	}

	query := skaterQuery
	if player.IsGoalie {
		query = goalieQuery
	}

	if _, err := r.db.Pool.Exec(ctx, query, playerID, season); err != nil {
		return fmt.Errorf("failed to recompute season aggregates for player %d: %w", playerID, err)
	}

	return nil
}

// RecomputePriorSeason rebuilds a player's prior-season baseline from the
// game stat tables for the given season id.
func (r *PlayerRepository) RecomputePriorSeason(ctx context.Context, playerID int, priorSeason string) error {
	query := `
		UPDATE pro_players p SET
			prior_season_games_played = s.games,
			prior_season_avg_fpts = CASE WHEN s.games > 0
				THEN ROUND((s.fpts / s.games)::numeric, 2) ELSE 0 END,
			updated_at = NOW()
		FROM (
			SELECT COUNT(*) AS games, COALESCE(SUM(total_fpts), 0) AS fpts
			FROM (
				SELECT total_fpts FROM player_game_stats WHERE player_id = $1 AND season = $2
				UNION ALL
				SELECT total_fpts FROM goalie_game_stats WHERE player_id = $1 AND season = $2
			) u
		) s
		WHERE p.player_id = $1
	`

	if _, err := r.db.Pool.Exec(ctx, query, playerID, priorSeason); err != nil {
		return fmt.Errorf("failed to recompute prior season for player %d: %w", playerID, err)
	}

	return nil
}

// UpdatePredictedFpts stores a model prediction for a player
func (r *PlayerRepository) UpdatePredictedFpts(ctx context.Context, playerID int, fpts float64) error {
	query := `UPDATE pro_players SET predicted_fpts = $2, updated_at = NOW() WHERE player_id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, playerID, fpts)
	if err != nil {
		return fmt.Errorf("failed to update predicted fpts for player %d: %w", playerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player not found: player_id=%d: %w", playerID, ErrNotFound)
	}

	return nil
}

// FreeAgents retrieves active players with no fantasy team, ranked by
// predicted fantasy points.
func (r *PlayerRepository) FreeAgents(ctx context.Context, limit int) ([]*models.ProPlayer, error) {
	query := `SELECT ` + playerColumns + ` FROM pro_players
		WHERE fantasy_team_id IS NULL AND is_active = TRUE
		ORDER BY predicted_fpts DESC, player_id ASC
		LIMIT $1`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get free agents: %w", err)
	}
	defer rows.Close()

	return collectPlayers(rows)
}

// UnmappedPlayerIDs returns player ids present in the game stat tables but
// missing from pro_players. A non-empty result means a merge stored stats
// for players the roster sync has not seen yet.
func (r *PlayerRepository) UnmappedPlayerIDs(ctx context.Context) ([]int, error) {
	query := `
		SELECT DISTINCT player_id FROM (
			SELECT player_id FROM player_game_stats
			UNION
			SELECT player_id FROM goalie_game_stats
		) s
		WHERE player_id NOT IN (SELECT player_id FROM pro_players)
		ORDER BY player_id ASC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find unmapped players: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan player id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unmapped players: %w", err)
	}

	return ids, nil
}

// AssignToTeam puts a player on a fantasy roster. Fails if the player is
// already rostered elsewhere.
func (r *PlayerRepository) AssignToTeam(ctx context.Context, playerID, fantasyTeamID int) error {
	query := `
		UPDATE pro_players SET fantasy_team_id = $2, updated_at = NOW()
		WHERE player_id = $1 AND (fantasy_team_id IS NULL OR fantasy_team_id = $2)
	`

	tag, err := r.db.Pool.Exec(ctx, query, playerID, fantasyTeamID)
	if err != nil {
		return fmt.Errorf("failed to assign player %d: %w", playerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player %d is not available to add", playerID)
	}

	log.Info().Int("player_id", playerID).Int("team_id", fantasyTeamID).Msg("Player added to roster")
	return nil
}

// DropFromTeam releases a player back to free agency. Fails if the player
// is not on the given roster.
func (r *PlayerRepository) DropFromTeam(ctx context.Context, playerID, fantasyTeamID int) error {
	query := `
		UPDATE pro_players SET fantasy_team_id = NULL, updated_at = NOW()
		WHERE player_id = $1 AND fantasy_team_id = $2
	`

	tag, err := r.db.Pool.Exec(ctx, query, playerID, fantasyTeamID)
	if err != nil {
		return fmt.Errorf("failed to drop player %d: %w", playerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player %d is not on team %d", playerID, fantasyTeamID)
	}

	log.Info().Int("player_id", playerID).Int("team_id", fantasyTeamID).Msg("Player dropped from roster")
	return nil
}

// Trade swaps two players between rosters in a single transaction. Either
// both moves happen or neither does, and each side must actually own the
// player it is sending.
func (r *PlayerRepository) Trade(ctx context.Context, playerA, teamA, playerB, teamB int) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin trade transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	move := `
		UPDATE pro_players SET fantasy_team_id = $3, updated_at = NOW()
		WHERE player_id = $1 AND fantasy_team_id = $2
	`

	tag, err := tx.Exec(ctx, move, playerA, teamA, teamB)
	if err != nil {
		return fmt.Errorf("failed to move player %d: %w", playerA, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player %d is not on team %d", playerA, teamA)
	}

	tag, err = tx.Exec(ctx, move, playerB, teamB, teamA)
	if err != nil {
		return fmt.Errorf("failed to move player %d: %w", playerB, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player %d is not on team %d", playerB, teamB)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit trade: %w", err)
	}

	log.Info().
		Int("player_a", playerA).Int("team_a", teamA).
		Int("player_b", playerB).Int("team_b", teamB).
		Msg("Trade completed")

	return nil
}
