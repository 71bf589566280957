package models

import (
	"database/sql"
	"time"
)

// FantasyTeam is a user-managed roster in the league. Players reference it
// through pro_players.fantasy_team_id; a NULL reference means free agent.
type FantasyTeam struct {
	TeamID     int           `db:"team_id"`
	ESPNTeamID sql.NullInt32 `db:"espn_team_id"` // unique when present
	TeamName   string        `db:"team_name"`
	OwnerName  string        `db:"owner_name"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
