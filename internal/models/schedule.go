package models

import (
	"fmt"
	"strings"
	"time"
)

// TeamSchedule is one NHL team's fantasy-week schedule: which days it plays
// and against whom. Exactly one row exists per (team, week).
type TeamSchedule struct {
	ID         int       `db:"id"`
	Team       string    `db:"team"`
	Week       string    `db:"week"` // the Monday's date, e.g. "2025-10-13"
	MondayDate time.Time `db:"monday_date"`
	SundayDate time.Time `db:"sunday_date"`
	GameCount  int       `db:"game_count"`
	Opponents  string    `db:"opponents"` // comma-joined abbrevs, e.g. "DAL,VGK,WPG"

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate checks the schedule-row invariant: game_count must equal the
// number of opponent entries.
func (s *TeamSchedule) Validate() error {
	count := 0
	if strings.TrimSpace(s.Opponents) != "" {
		count = len(strings.Split(s.Opponents, ","))
	}
	if count != s.GameCount {
		return fmt.Errorf("team_schedule %s/%s: game_count=%d but %d opponents listed",
			s.Team, s.Week, s.GameCount, count)
	}
	return nil
}
