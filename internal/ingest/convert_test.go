package ingest

import (
	"testing"

	"nhlfantasy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBoxscore() *models.BoxscoreResponse {
	return &models.BoxscoreResponse{
		ID:       2025020100,
		Season:   20252026,
		GameType: 2,
		GameDate: "2025-11-09",
		HomeTeam: models.BoxscoreTeam{ID: 15, Abbrev: "WSH", CommonName: models.LocalizedName{Default: "Capitals"}},
		AwayTeam: models.BoxscoreTeam{ID: 5, Abbrev: "PIT", CommonName: models.LocalizedName{Default: "Penguins"}},
		PlayerByGameStats: models.PlayerByGameStats{
			HomeTeam: models.TeamBoxscoreStats{
				Forwards: []models.SkaterBoxscoreStats{
					{
						PlayerID: 8471214, Name: models.LocalizedName{Default: "Alex Ovechkin"},
						SweaterNumber: 8, Position: "L",
						Goals: 2, Assists: 1, SOG: 6, BlockedShots: 1, Hits: 3,
						Shifts: 21, TOI: "19:42",
					},
				},
				Defense: []models.SkaterBoxscoreStats{
					{
						PlayerID: 8476880, Name: models.LocalizedName{Default: "John Carlson"},
						SweaterNumber: 74, Position: "D",
						Goals: 0, Assists: 0, SOG: 0, BlockedShots: 4, Hits: 1,
						Shifts: 26, TOI: "24:03",
					},
				},
				Goalies: []models.GoalieBoxscoreStats{
					{
						PlayerID: 8480313, Name: models.LocalizedName{Default: "Logan Thompson"},
						SweaterNumber: 48, Position: "G",
						Saves: 30, GoalsAgainst: 0, Decision: "W",
					},
					{
						// Backup who never entered the game
						PlayerID: 8477970, Name: models.LocalizedName{Default: "Charlie Lindgren"},
						SweaterNumber: 79, Position: "G",
						Saves: 0, GoalsAgainst: 0, Decision: "",
					},
				},
			},
			AwayTeam: models.TeamBoxscoreStats{
				Forwards: []models.SkaterBoxscoreStats{
					{
						PlayerID: 8471675, Name: models.LocalizedName{Default: "Sidney Crosby"},
						SweaterNumber: 87, Position: "C",
						Goals: 0, Assists: 0, SOG: 3, BlockedShots: 0, Hits: 2,
						Shifts: 22, TOI: "20:15",
					},
				},
				Goalies: []models.GoalieBoxscoreStats{
					{
						PlayerID: 8478009, Name: models.LocalizedName{Default: "Tristan Jarry"},
						SweaterNumber: 35, Position: "G",
						Saves: 28, GoalsAgainst: 3, Decision: "L",
					},
				},
			},
		},
	}
}

func TestConvertBoxscore(t *testing.T) {
	specialTeams := map[int]SpecialTeamsPoints{
		8471214: {PPPoints: 2, SHPoints: 0},
	}

	skaters, goalies, err := ConvertBoxscore(testBoxscore(), specialTeams)
	require.NoError(t, err, "Should convert boxscore")
	require.Len(t, skaters, 3, "Both sides' skaters flattened")
	require.Len(t, goalies, 2, "Backup goalie without a decision excluded")

	var ovechkin *models.PlayerGameStat
	for _, s := range skaters {
		if s.PlayerID == 8471214 {
			ovechkin = s
		}
	}
	require.NotNil(t, ovechkin, "Ovechkin line present")
	assert.Equal(t, "20252026", ovechkin.Season)
	assert.Equal(t, "WSH", ovechkin.TeamAbbrev)
	assert.Equal(t, "PIT", ovechkin.OpponentAbbrev)
	assert.True(t, ovechkin.IsHome, "Home side flagged")
	assert.Equal(t, 19*60+42, ovechkin.TOISeconds, "TOI parsed to seconds")
	assert.InDelta(t, 2.0, ovechkin.PPPoints, 0.001, "Game-log pp points applied")
	// 2*2 + 1*1 + 2*0.5 + 6*0.1 + 1*0.5 + 3*0.1 = 7.4
	assert.InDelta(t, 7.4, ovechkin.TotalFpts, 0.001, "Skater fantasy points")
	require.True(t, ovechkin.ShootingPct.Valid, "Shooting pct set when shots > 0")
	assert.InDelta(t, 33.333, ovechkin.ShootingPct.Float64, 0.01, "2/6 shooting")

	var carlson *models.PlayerGameStat
	for _, s := range skaters {
		if s.PlayerID == 8476880 {
			carlson = s
		}
	}
	require.NotNil(t, carlson, "Carlson line present")
	assert.False(t, carlson.ShootingPct.Valid, "Shooting pct NULL with zero shots")
	// 4*0.5 + 1*0.1 = 2.1
	assert.InDelta(t, 2.1, carlson.TotalFpts, 0.001, "Blocked shots and hits only")

	var thompson *models.GoalieGameStat
	for _, g := range goalies {
		if g.PlayerID == 8480313 {
			thompson = g
		}
	}
	require.NotNil(t, thompson, "Thompson line present")
	assert.Equal(t, 1, thompson.Wins, "Win from decision")
	assert.Equal(t, 1, thompson.Shutouts, "Shutout on zero goals against with saves")
	// 4 + 30*0.2 + 3 = 13
	assert.InDelta(t, 13.0, thompson.TotalFpts, 0.001, "Goalie fantasy points")
	require.True(t, thompson.SavePct.Valid, "Save pct set")
	assert.InDelta(t, 100.0, thompson.SavePct.Float64, 0.001, "Perfect save pct")

	var jarry *models.GoalieGameStat
	for _, g := range goalies {
		if g.PlayerID == 8478009 {
			jarry = g
		}
	}
	require.NotNil(t, jarry, "Jarry line present")
	assert.False(t, jarry.IsHome, "Away side flagged")
	assert.Equal(t, 0, jarry.Wins, "No win on a loss")
	assert.Equal(t, 0, jarry.Shutouts, "No shutout with goals against")
	// 28*0.2 + 3*-2 = -0.4
	assert.InDelta(t, -0.4, jarry.TotalFpts, 0.001, "Negative fantasy points possible")
}

func TestConvertBoxscore_InvalidRejected(t *testing.T) {
	box := testBoxscore()
	box.HomeTeam.Abbrev = ""

	_, _, err := ConvertBoxscore(box, nil)
	assert.Error(t, err, "Missing team abbrev should be rejected")
}

func TestParseTOI(t *testing.T) {
	tests := []struct {
		toi     string
		seconds int
		wantErr bool
	}{
		{"19:42", 1182, false},
		{"0:00", 0, false},
		{"65:00", 3900, false},
		{"", 0, false},
		{"19", 0, true},
		{"19:xx", 0, true},
		{"19:75", 0, true},
	}

	for _, tc := range tests {
		got, err := ParseTOI(tc.toi)
		if tc.wantErr {
			assert.Error(t, err, "toi %q should fail", tc.toi)
			continue
		}
		require.NoError(t, err, "toi %q should parse", tc.toi)
		assert.Equal(t, tc.seconds, got, "toi %q", tc.toi)
	}
}
