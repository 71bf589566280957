package repository

import (
	"context"
	"fmt"

	"nhlfantasy/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// FantasyTeamRepository handles fantasy_team database operations
type FantasyTeamRepository struct {
	db *Database
}

// Create inserts a new fantasy team and fills in its generated id
func (r *FantasyTeamRepository) Create(ctx context.Context, team *models.FantasyTeam) error {
	query := `
		INSERT INTO fantasy_team (espn_team_id, team_name, owner_name)
		VALUES ($1, $2, $3)
		RETURNING team_id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query, team.ESPNTeamID, team.TeamName, team.OwnerName).
		Scan(&team.TeamID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create fantasy team: %w", err)
	}

	log.Debug().
		Int("team_id", team.TeamID).
		Str("team_name", team.TeamName).
		Msg("Fantasy team created")

	return nil
}

// GetByID retrieves a fantasy team by its id
func (r *FantasyTeamRepository) GetByID(ctx context.Context, teamID int) (*models.FantasyTeam, error) {
	query := `
		SELECT team_id, espn_team_id, team_name, owner_name, created_at, updated_at
		FROM fantasy_team
		WHERE team_id = $1
	`

	var team models.FantasyTeam
	err := r.db.Pool.QueryRow(ctx, query, teamID).Scan(
		&team.TeamID, &team.ESPNTeamID, &team.TeamName, &team.OwnerName,
		&team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("fantasy team not found: team_id=%d: %w", teamID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fantasy team: %w", err)
	}

	return &team, nil
}

// GetByName retrieves a fantasy team by its exact name
func (r *FantasyTeamRepository) GetByName(ctx context.Context, teamName string) (*models.FantasyTeam, error) {
	query := `
		SELECT team_id, espn_team_id, team_name, owner_name, created_at, updated_at
		FROM fantasy_team
		WHERE team_name = $1
	`

	var team models.FantasyTeam
	err := r.db.Pool.QueryRow(ctx, query, teamName).Scan(
		&team.TeamID, &team.ESPNTeamID, &team.TeamName, &team.OwnerName,
		&team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("fantasy team not found: %s: %w", teamName, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fantasy team: %w", err)
	}

	return &team, nil
}

// List retrieves all fantasy teams ordered by name
func (r *FantasyTeamRepository) List(ctx context.Context) ([]*models.FantasyTeam, error) {
	query := `
		SELECT team_id, espn_team_id, team_name, owner_name, created_at, updated_at
		FROM fantasy_team
		ORDER BY team_name ASC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list fantasy teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.FantasyTeam
	for rows.Next() {
		var team models.FantasyTeam
		err := rows.Scan(
			&team.TeamID, &team.ESPNTeamID, &team.TeamName, &team.OwnerName,
			&team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fantasy team: %w", err)
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fantasy teams: %w", err)
	}

	return teams, nil
}

// DeleteAll removes every team and releases all rostered players back to
// free agency. Used only by the explicit force-refresh path.
func (r *FantasyTeamRepository) DeleteAll(ctx context.Context) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE pro_players SET fantasy_team_id = NULL, updated_at = NOW() WHERE fantasy_team_id IS NOT NULL`); err != nil {
		return fmt.Errorf("failed to release rostered players: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM fantasy_team`); err != nil {
		return fmt.Errorf("failed to delete fantasy teams: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit fantasy team refresh: %w", err)
	}

	log.Info().Msg("Fantasy teams cleared and rosters released")
	return nil
}
