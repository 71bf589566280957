package repository

import (
	"context"
	"fmt"
	"time"

	"nhlfantasy/internal/models"

	"github.com/jackc/pgx/v5"
)

// GameStatsRepository handles player_game_stats and goalie_game_stats
// database operations
type GameStatsRepository struct {
	db *Database
}

const skaterUpsert = `
	INSERT INTO player_game_stats (
		game_id, player_id, game_date, season, team_abbrev, team_name,
		opponent_abbrev, opponent_name, is_home, player_name, jersey_number,
		position, goals, assists, pp_points, sh_points, shots, shooting_pct,
		blocked_shots, hits, toi_seconds, shifts, total_fpts
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
	)
	ON CONFLICT (game_id, player_id)
	DO UPDATE SET
		game_date = EXCLUDED.game_date,
		season = EXCLUDED.season,
		team_abbrev = EXCLUDED.team_abbrev,
		team_name = EXCLUDED.team_name,
		opponent_abbrev = EXCLUDED.opponent_abbrev,
		opponent_name = EXCLUDED.opponent_name,
		is_home = EXCLUDED.is_home,
		player_name = EXCLUDED.player_name,
		jersey_number = EXCLUDED.jersey_number,
		position = EXCLUDED.position,
		goals = EXCLUDED.goals,
		assists = EXCLUDED.assists,
		pp_points = EXCLUDED.pp_points,
		sh_points = EXCLUDED.sh_points,
		shots = EXCLUDED.shots,
		shooting_pct = EXCLUDED.shooting_pct,
		blocked_shots = EXCLUDED.blocked_shots,
		hits = EXCLUDED.hits,
		toi_seconds = EXCLUDED.toi_seconds,
		shifts = EXCLUDED.shifts,
		total_fpts = EXCLUDED.total_fpts,
		updated_at = NOW()
`

const goalieUpsert = `
	INSERT INTO goalie_game_stats (
		game_id, player_id, game_date, season, team_abbrev, team_name,
		opponent_abbrev, opponent_name, is_home, player_name, jersey_number,
		position, saves, goals_against, save_pct, decision, wins, shutouts,
		ot_losses, total_fpts
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		$12, $13, $14, $15, $16, $17, $18, $19, $20
	)
	ON CONFLICT (game_id, player_id)
	DO UPDATE SET
		game_date = EXCLUDED.game_date,
		season = EXCLUDED.season,
		team_abbrev = EXCLUDED.team_abbrev,
		team_name = EXCLUDED.team_name,
		opponent_abbrev = EXCLUDED.opponent_abbrev,
		opponent_name = EXCLUDED.opponent_name,
		is_home = EXCLUDED.is_home,
		player_name = EXCLUDED.player_name,
		jersey_number = EXCLUDED.jersey_number,
		position = EXCLUDED.position,
		saves = EXCLUDED.saves,
		goals_against = EXCLUDED.goals_against,
		save_pct = EXCLUDED.save_pct,
		decision = EXCLUDED.decision,
		wins = EXCLUDED.wins,
		shutouts = EXCLUDED.shutouts,
		ot_losses = EXCLUDED.ot_losses,
		total_fpts = EXCLUDED.total_fpts,
		updated_at = NOW()
`

func skaterArgs(s *models.PlayerGameStat) []interface{} {
	return []interface{}{
		s.GameID, s.PlayerID, s.GameDate, s.Season, s.TeamAbbrev, s.TeamName,
		s.OpponentAbbrev, s.OpponentName, s.IsHome, s.PlayerName, s.JerseyNumber,
		s.Position, s.Goals, s.Assists, s.PPPoints, s.SHPoints, s.Shots,
		s.ShootingPct, s.BlockedShots, s.Hits, s.TOISeconds, s.Shifts, s.TotalFpts,
	}
}

func goalieArgs(g *models.GoalieGameStat) []interface{} {
	return []interface{}{
		g.GameID, g.PlayerID, g.GameDate, g.Season, g.TeamAbbrev, g.TeamName,
		g.OpponentAbbrev, g.OpponentName, g.IsHome, g.PlayerName, g.JerseyNumber,
		g.Position, g.Saves, g.GoalsAgainst, g.SavePct, g.Decision, g.Wins,
		g.Shutouts, g.OTLosses, g.TotalFpts,
	}
}

// UpsertSkater inserts or replaces a single skater game line
func (r *GameStatsRepository) UpsertSkater(ctx context.Context, stat *models.PlayerGameStat) error {
	if _, err := r.db.Pool.Exec(ctx, skaterUpsert, skaterArgs(stat)...); err != nil {
		return fmt.Errorf("failed to upsert skater stat game=%d player=%d: %w", stat.GameID, stat.PlayerID, err)
	}
	return nil
}

// UpsertGoalie inserts or replaces a single goalie game line
func (r *GameStatsRepository) UpsertGoalie(ctx context.Context, stat *models.GoalieGameStat) error {
	if _, err := r.db.Pool.Exec(ctx, goalieUpsert, goalieArgs(stat)...); err != nil {
		return fmt.Errorf("failed to upsert goalie stat game=%d player=%d: %w", stat.GameID, stat.PlayerID, err)
	}
	return nil
}

// UpsertSkaterTx is UpsertSkater inside a caller-owned transaction
func (r *GameStatsRepository) UpsertSkaterTx(ctx context.Context, tx pgx.Tx, stat *models.PlayerGameStat) error {
	if _, err := tx.Exec(ctx, skaterUpsert, skaterArgs(stat)...); err != nil {
		return fmt.Errorf("failed to upsert skater stat game=%d player=%d: %w", stat.GameID, stat.PlayerID, err)
	}
	return nil
}

// UpsertGoalieTx is UpsertGoalie inside a caller-owned transaction
func (r *GameStatsRepository) UpsertGoalieTx(ctx context.Context, tx pgx.Tx, stat *models.GoalieGameStat) error {
	if _, err := tx.Exec(ctx, goalieUpsert, goalieArgs(stat)...); err != nil {
		return fmt.Errorf("failed to upsert goalie stat game=%d player=%d: %w", stat.GameID, stat.PlayerID, err)
	}
	return nil
}

const skaterSelect = `
	SELECT game_id, player_id, game_date, season, team_abbrev, team_name,
		opponent_abbrev, opponent_name, is_home, player_name, jersey_number,
		position, goals, assists, pp_points, sh_points, shots, shooting_pct,
		blocked_shots, hits, toi_seconds, shifts, total_fpts
	FROM player_game_stats
`

const goalieSelect = `
	SELECT game_id, player_id, game_date, season, team_abbrev, team_name,
		opponent_abbrev, opponent_name, is_home, player_name, jersey_number,
		position, saves, goals_against, save_pct, decision, wins, shutouts,
		ot_losses, total_fpts
	FROM goalie_game_stats
`

func scanSkater(row pgx.Row) (*models.PlayerGameStat, error) {
	var s models.PlayerGameStat
	err := row.Scan(
		&s.GameID, &s.PlayerID, &s.GameDate, &s.Season, &s.TeamAbbrev, &s.TeamName,
		&s.OpponentAbbrev, &s.OpponentName, &s.IsHome, &s.PlayerName, &s.JerseyNumber,
		&s.Position, &s.Goals, &s.Assists, &s.PPPoints, &s.SHPoints, &s.Shots,
		&s.ShootingPct, &s.BlockedShots, &s.Hits, &s.TOISeconds, &s.Shifts, &s.TotalFpts,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanGoalie(row pgx.Row) (*models.GoalieGameStat, error) {
	var g models.GoalieGameStat
	err := row.Scan(
		&g.GameID, &g.PlayerID, &g.GameDate, &g.Season, &g.TeamAbbrev, &g.TeamName,
		&g.OpponentAbbrev, &g.OpponentName, &g.IsHome, &g.PlayerName, &g.JerseyNumber,
		&g.Position, &g.Saves, &g.GoalsAgainst, &g.SavePct, &g.Decision, &g.Wins,
		&g.Shutouts, &g.OTLosses, &g.TotalFpts,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetPlayerGameLog retrieves a skater's games for a season ordered oldest first
func (r *GameStatsRepository) GetPlayerGameLog(ctx context.Context, playerID int, season string) ([]*models.PlayerGameStat, error) {
	query := skaterSelect + ` WHERE player_id = $1 AND season = $2 ORDER BY game_date ASC, game_id ASC`

	rows, err := r.db.Pool.Query(ctx, query, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get game log for player %d: %w", playerID, err)
	}
	defer rows.Close()

	var stats []*models.PlayerGameStat
	for rows.Next() {
		s, err := scanSkater(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan skater stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skater stats: %w", err)
	}

	return stats, nil
}

// GetGoalieGameLog retrieves a goalie's games for a season ordered oldest first
func (r *GameStatsRepository) GetGoalieGameLog(ctx context.Context, playerID int, season string) ([]*models.GoalieGameStat, error) {
	query := goalieSelect + ` WHERE player_id = $1 AND season = $2 ORDER BY game_date ASC, game_id ASC`

	rows, err := r.db.Pool.Query(ctx, query, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get goalie game log for player %d: %w", playerID, err)
	}
	defer rows.Close()

	var stats []*models.GoalieGameStat
	for rows.Next() {
		g, err := scanGoalie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goalie stat: %w", err)
		}
		stats = append(stats, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goalie stats: %w", err)
	}

	return stats, nil
}

// SkaterPlayerIDs returns the distinct skater ids with at least one game in
// the season
func (r *GameStatsRepository) SkaterPlayerIDs(ctx context.Context, season string) ([]int, error) {
	return r.distinctPlayerIDs(ctx, `SELECT DISTINCT player_id FROM player_game_stats WHERE season = $1 ORDER BY player_id ASC`, season)
}

// GoaliePlayerIDs returns the distinct goalie ids with at least one game in
// the season
func (r *GameStatsRepository) GoaliePlayerIDs(ctx context.Context, season string) ([]int, error) {
	return r.distinctPlayerIDs(ctx, `SELECT DISTINCT player_id FROM goalie_game_stats WHERE season = $1 ORDER BY player_id ASC`, season)
}

func (r *GameStatsRepository) distinctPlayerIDs(ctx context.Context, query, season string) ([]int, error) {
	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list player ids: %w", err)
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
		return nil, fmt.Errorf("error iterating player ids: %w", err)
	}

	return ids, nil
}

// TeamFptsAllowed returns, per opposing team abbreviation, the average
// fantasy points and goals that skaters have scored against it this season.
func (r *GameStatsRepository) TeamFptsAllowed(ctx context.Context, season string) (map[string][2]float64, error) {
	query := `
		SELECT opponent_abbrev, AVG(total_fpts), AVG(goals::float)
		FROM player_game_stats
		WHERE season = $1
		GROUP BY opponent_abbrev
	`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to compute team fpts allowed: %w", err)
	}
	defer rows.Close()

	out := make(map[string][2]float64)
	for rows.Next() {
		var team string
		var fpts, goals float64
		if err := rows.Scan(&team, &fpts, &goals); err != nil {
			return nil, fmt.Errorf("failed to scan team strength row: %w", err)
		}
		out[team] = [2]float64{fpts, goals}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team strength rows: %w", err)
	}

	return out, nil
}

// FreeAgentLines aggregates recent production for unrostered skaters. Only
// players with at least minGames games since the cutoff are included.
func (r *GameStatsRepository) FreeAgentLines(ctx context.Context, since time.Time, season string, minGames int) ([]*models.FreeAgentLine, error) {
	query := `
		SELECT s.player_id,
			COALESCE(p.player_name, MAX(COALESCE(s.player_name, ''))) AS player_name,
			COALESCE(p.team_abbrev, MAX(s.team_abbrev)) AS team_abbrev,
			COALESCE(p.position, MAX(COALESCE(s.position, ''))) AS position,
			COUNT(*) AS games,
			ROUND(AVG(s.total_fpts)::numeric, 2) AS avg_fpts,
			COALESCE(SUM(s.goals), 0) AS goals,
			COALESCE(SUM(s.assists), 0) AS assists,
			COALESCE(SUM(s.shots), 0) AS shots,
			COALESCE(SUM(s.hits), 0) AS hits,
			COALESCE(SUM(s.blocked_shots), 0) AS blocked_shots
		FROM player_game_stats s
		JOIN pro_players p ON p.player_id = s.player_id
		WHERE s.game_date >= $1
			AND s.season = $2
			AND p.fantasy_team_id IS NULL
			AND p.is_active = TRUE
		GROUP BY s.player_id, p.player_name, p.team_abbrev, p.position
		HAVING COUNT(*) >= $3
		ORDER BY avg_fpts DESC, s.player_id ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, since, season, minGames)
	if err != nil {
		return nil, fmt.Errorf("failed to get free agent lines: %w", err)
	}
	defer rows.Close()

	var lines []*models.FreeAgentLine
	for rows.Next() {
		var l models.FreeAgentLine
		err := rows.Scan(
			&l.PlayerID, &l.PlayerName, &l.TeamAbbrev, &l.Position,
			&l.Games, &l.AvgFpts, &l.Goals, &l.Assists, &l.Shots,
			&l.Hits, &l.BlockedShots,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan free agent line: %w", err)
		}
		lines = append(lines, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating free agent lines: %w", err)
	}

	return lines, nil
}
