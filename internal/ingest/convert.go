package ingest

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nhlfantasy/internal/models"
	"nhlfantasy/internal/scoring"
)

// SpecialTeamsPoints carries a player's power-play and short-handed points
// for one game, sourced from the game-log endpoint.
type SpecialTeamsPoints struct {
	PPPoints float64
	SHPoints float64
}

// ParseTOI converts the API's "MM:SS" ice-time string to seconds. Minutes
// can exceed 59 for goalies in overtime games.
func ParseTOI(toi string) (int, error) {
	if toi == "" {
		return 0, nil
	}
	parts := strings.Split(toi, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed toi %q", toi)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed toi %q: %w", toi, err)
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("malformed toi %q", toi)
	}
	return minutes*60 + seconds, nil
}

// ConvertBoxscore flattens a boxscore into storable skater and goalie game
// lines with fantasy points computed. specialTeams supplies per-player
// power-play and short-handed points keyed by player id; players missing
// from the map score those categories as zero.
func ConvertBoxscore(box *models.BoxscoreResponse, specialTeams map[int]SpecialTeamsPoints) ([]*models.PlayerGameStat, []*models.GoalieGameStat, error) {
	if err := box.Validate(); err != nil {
		return nil, nil, err
	}

	gameDate, err := time.Parse("2006-01-02", box.GameDate)
	if err != nil {
		return nil, nil, fmt.Errorf("boxscore %d has malformed game date %q: %w", box.ID, box.GameDate, err)
	}

	var skaters []*models.PlayerGameStat
	var goalies []*models.GoalieGameStat

	sides := []struct {
		team     models.BoxscoreTeam
		opponent models.BoxscoreTeam
		stats    models.TeamBoxscoreStats
		isHome   bool
	}{
		{box.HomeTeam, box.AwayTeam, box.PlayerByGameStats.HomeTeam, true},
		{box.AwayTeam, box.HomeTeam, box.PlayerByGameStats.AwayTeam, false},
	}

	for _, side := range sides {
		lines := append([]models.SkaterBoxscoreStats{}, side.stats.Forwards...)
		lines = append(lines, side.stats.Defense...)

		for _, line := range lines {
			stat, err := convertSkater(box, line, side.team, side.opponent, side.isHome, gameDate, specialTeams[line.PlayerID])
			if err != nil {
				return nil, nil, err
			}
			skaters = append(skaters, stat)
		}

		for _, line := range side.stats.Goalies {
			// Goalies who dressed but never played have no decision and
			// no shots faced
			if line.Saves == 0 && line.GoalsAgainst == 0 && line.Decision == "" {
				continue
			}
			goalies = append(goalies, convertGoalie(box, line, side.team, side.opponent, side.isHome, gameDate))
		}
	}

	return skaters, goalies, nil
}

func convertSkater(box *models.BoxscoreResponse, line models.SkaterBoxscoreStats, team, opponent models.BoxscoreTeam, isHome bool, gameDate time.Time, st SpecialTeamsPoints) (*models.PlayerGameStat, error) {
	toiSeconds, err := ParseTOI(line.TOI)
	if err != nil {
		return nil, fmt.Errorf("player %d in game %d: %w", line.PlayerID, box.ID, err)
	}

	fpts := scoring.SkaterFpts(scoring.SkaterLine{
		Goals:        line.Goals,
		Assists:      line.Assists,
		PPPoints:     st.PPPoints,
		SHPoints:     st.SHPoints,
		Shots:        line.SOG,
		BlockedShots: line.BlockedShots,
		Hits:         line.Hits,
	})

	var shootingPct sql.NullFloat64
	if line.SOG > 0 {
		shootingPct = sql.NullFloat64{Float64: float64(line.Goals) / float64(line.SOG) * 100, Valid: true}
	}

	return &models.PlayerGameStat{
		GameID:         box.ID,
		PlayerID:       line.PlayerID,
		GameDate:       gameDate,
		Season:         box.SeasonID(),
		TeamAbbrev:     team.Abbrev,
		TeamName:       team.CommonName.Default,
		OpponentAbbrev: opponent.Abbrev,
		OpponentName:   opponent.CommonName.Default,
		IsHome:         isHome,
		PlayerName:     sql.NullString{String: line.Name.Default, Valid: line.Name.Default != ""},
		JerseyNumber:   sql.NullInt32{Int32: int32(line.SweaterNumber), Valid: line.SweaterNumber > 0},
		Position:       sql.NullString{String: line.Position, Valid: line.Position != ""},
		Goals:          line.Goals,
		Assists:        line.Assists,
		PPPoints:       st.PPPoints,
		SHPoints:       st.SHPoints,
		Shots:          line.SOG,
		ShootingPct:    shootingPct,
		BlockedShots:   line.BlockedShots,
		Hits:           line.Hits,
		TOISeconds:     toiSeconds,
		Shifts:         line.Shifts,
		TotalFpts:      fpts,
	}, nil
}

func convertGoalie(box *models.BoxscoreResponse, line models.GoalieBoxscoreStats, team, opponent models.BoxscoreTeam, isHome bool, gameDate time.Time) *models.GoalieGameStat {
	fpts := scoring.GoalieFpts(scoring.GoalieLine{
		Saves:        line.Saves,
		GoalsAgainst: line.GoalsAgainst,
		Decision:     line.Decision,
	})

	shotsFaced := line.Saves + line.GoalsAgainst
	var savePct sql.NullFloat64
	if shotsFaced > 0 {
		savePct = sql.NullFloat64{Float64: float64(line.Saves) / float64(shotsFaced) * 100, Valid: true}
	}

	wins, shutouts, otLosses := 0, 0, 0
	if line.Decision == scoring.DecisionWin {
		wins = 1
	}
	if line.Decision == scoring.DecisionOTLoss {
		otLosses = 1
	}
	if line.GoalsAgainst == 0 && line.Saves > 0 {
		shutouts = 1
	}

	return &models.GoalieGameStat{
		GameID:         box.ID,
		PlayerID:       line.PlayerID,
		GameDate:       gameDate,
		Season:         box.SeasonID(),
		TeamAbbrev:     team.Abbrev,
		TeamName:       team.CommonName.Default,
		OpponentAbbrev: opponent.Abbrev,
		OpponentName:   opponent.CommonName.Default,
		IsHome:         isHome,
		PlayerName:     sql.NullString{String: line.Name.Default, Valid: line.Name.Default != ""},
		JerseyNumber:   sql.NullInt32{Int32: int32(line.SweaterNumber), Valid: line.SweaterNumber > 0},
		Position:       sql.NullString{String: line.Position, Valid: line.Position != ""},
		Saves:          line.Saves,
		GoalsAgainst:   line.GoalsAgainst,
		SavePct:        savePct,
		Decision:       sql.NullString{String: line.Decision, Valid: line.Decision != ""},
		Wins:           wins,
		Shutouts:       shutouts,
		OTLosses:       otLosses,
		TotalFpts:      fpts,
	}
}
