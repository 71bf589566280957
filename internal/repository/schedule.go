package repository

import (
	"context"
	"fmt"

	"nhlfantasy/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// ScheduleRepository handles team_schedule database operations
type ScheduleRepository struct {
	db *Database
}

// Upsert inserts or updates a team's week row keyed by (team, week). The
// row invariant (game_count matches the opponent list) is checked before
// anything is written.
func (r *ScheduleRepository) Upsert(ctx context.Context, entry *models.TeamSchedule) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO team_schedule (team, week, monday_date, sunday_date, game_count, opponents)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (team, week) DO UPDATE SET
			monday_date = EXCLUDED.monday_date,
			sunday_date = EXCLUDED.sunday_date,
			game_count = EXCLUDED.game_count,
			opponents = EXCLUDED.opponents,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		entry.Team, entry.Week, entry.MondayDate, entry.SundayDate,
		entry.GameCount, entry.Opponents,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert team schedule: %w", err)
	}

	log.Debug().
		Str("team", entry.Team).
		Str("week", entry.Week).
		Int("games", entry.GameCount).
		Msg("Team schedule row upserted")

	return nil
}

// GetByTeamAndWeek retrieves one team's row for a fantasy week
func (r *ScheduleRepository) GetByTeamAndWeek(ctx context.Context, team, week string) (*models.TeamSchedule, error) {
	query := `
		SELECT id, team, week, monday_date, sunday_date, game_count, opponents, created_at, updated_at
		FROM team_schedule
		WHERE team = $1 AND week = $2
	`

	var entry models.TeamSchedule
	err := r.db.Pool.QueryRow(ctx, query, team, week).Scan(
		&entry.ID, &entry.Team, &entry.Week, &entry.MondayDate, &entry.SundayDate,
		&entry.GameCount, &entry.Opponents, &entry.CreatedAt, &entry.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("schedule not found: team=%s week=%s: %w", team, week, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team schedule: %w", err)
	}

	return &entry, nil
}

// GetByWeek retrieves all teams' rows for a fantasy week ordered by game
// count, busiest teams first
func (r *ScheduleRepository) GetByWeek(ctx context.Context, week string) ([]*models.TeamSchedule, error) {
	query := `
		SELECT id, team, week, monday_date, sunday_date, game_count, opponents, created_at, updated_at
		FROM team_schedule
		WHERE week = $1
		ORDER BY game_count DESC, team ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get week schedule: %w", err)
	}
	defer rows.Close()

	var entries []*models.TeamSchedule
	for rows.Next() {
		var entry models.TeamSchedule
		err := rows.Scan(
			&entry.ID, &entry.Team, &entry.Week, &entry.MondayDate, &entry.SundayDate,
			&entry.GameCount, &entry.Opponents, &entry.CreatedAt, &entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule row: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule rows: %w", err)
	}

	return entries, nil
}

// DeleteAll clears the table for an explicit reseed
func (r *ScheduleRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM team_schedule`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear team schedule: %w", err)
	}
	return result.RowsAffected(), nil
}
