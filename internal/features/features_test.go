package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 10, d, 0, 0, 0, 0, time.UTC)
}

func TestVectorLength(t *testing.T) {
	player := PlayerContext{PlayerID: 1, Position: "C"}
	v := Vector(player, nil, TargetGame{Date: day(10)}, OpponentStrength{})
	assert.Len(t, v, len(FeatureNames), "Vector length matches feature names")
}

func TestVectorRollingAverages(t *testing.T) {
	player := PlayerContext{PlayerID: 1, Position: "C", PriorSeasonAvgFpts: 2.5, PriorSeasonGamesPlayed: 80}
	history := []GameLine{
		{GameID: 1, Date: day(1), Fpts: 1.0},
		{GameID: 2, Date: day(3), Fpts: 2.0},
		{GameID: 3, Date: day(5), Fpts: 3.0},
		{GameID: 4, Date: day(7), Fpts: 4.0},
		{GameID: 5, Date: day(9), Fpts: 5.0},
		{GameID: 6, Date: day(11), Fpts: 6.0},
	}

	v := Vector(player, history, TargetGame{Date: day(13), OpponentAbbrev: "PIT", IsHome: true}, OpponentStrength{AvgFptsAllowed: 3.3, AvgGoalsAllowed: 2.8})

	assert.InDelta(t, 2.5, v[0], 0.001, "prior_season_avg_fpts")
	assert.InDelta(t, 80, v[1], 0.001, "prior_season_games_played")
	assert.InDelta(t, 5.0, v[2], 0.001, "avg of last 3 (4,5,6)")
	assert.InDelta(t, 4.0, v[3], 0.001, "avg of last 5 (2..6)")
	assert.InDelta(t, 2.0, v[4], 0.001, "days rest")
	assert.InDelta(t, 0.0, v[5], 0.001, "not back to back")
	assert.InDelta(t, 1.0, v[6], 0.001, "is home")
	assert.InDelta(t, 3.3, v[7], 0.001, "opp fpts allowed")
	assert.InDelta(t, 2.8, v[8], 0.001, "opp goals allowed")
	assert.InDelta(t, 1.0, v[9], 0.001, "pos_C one-hot")
	assert.InDelta(t, 0.0, v[10], 0.001, "pos_D zero")
}

func TestVectorShortHistory(t *testing.T) {
	player := PlayerContext{PlayerID: 1, Position: "D", PriorSeasonAvgFpts: 1.8}
	history := []GameLine{{GameID: 1, Date: day(1), Fpts: 4.0}}

	v := Vector(player, history, TargetGame{Date: day(2)}, OpponentStrength{})

	assert.InDelta(t, 4.0, v[2], 0.001, "one game averages to itself")
	assert.InDelta(t, 4.0, v[3], 0.001, "window shrinks to available games")
	assert.InDelta(t, 1.0, v[4], 0.001, "one day of rest")
	assert.InDelta(t, 1.0, v[5], 0.001, "back to back")
}

func TestVectorNoHistoryFallsBackToPriorSeason(t *testing.T) {
	player := PlayerContext{PlayerID: 1, Position: "R", PriorSeasonAvgFpts: 3.2, PriorSeasonGamesPlayed: 70}

	v := Vector(player, nil, TargetGame{Date: day(8)}, OpponentStrength{})

	assert.InDelta(t, 3.2, v[2], 0.001, "L3 falls back to prior season average")
	assert.InDelta(t, 3.2, v[3], 0.001, "L5 falls back to prior season average")
	assert.InDelta(t, float64(MaxDaysRest), v[4], 0.001, "rest capped with no prior game")
	assert.InDelta(t, 0.0, v[5], 0.001, "no back to back without a prior game")
}

func TestVectorGoalieOneHot(t *testing.T) {
	player := PlayerContext{PlayerID: 1, Position: "G"}
	v := Vector(player, nil, TargetGame{Date: day(8)}, OpponentStrength{})

	assert.InDelta(t, 0.0, v[9], 0.001, "pos_C")
	assert.InDelta(t, 0.0, v[10], 0.001, "pos_D")
	assert.InDelta(t, 0.0, v[11], 0.001, "pos_L")
	assert.InDelta(t, 0.0, v[12], 0.001, "pos_R")
	assert.InDelta(t, 1.0, v[13], 0.001, "pos_G")
}

func TestVectorDeterministic(t *testing.T) {
	player := PlayerContext{PlayerID: 1, Position: "L", PriorSeasonAvgFpts: 2.0}
	history := []GameLine{
		{GameID: 1, Date: day(1), Fpts: 1.5},
		{GameID: 2, Date: day(4), Fpts: 2.5},
	}
	target := TargetGame{Date: day(6), OpponentAbbrev: "BOS", IsHome: false}
	opp := OpponentStrength{AvgFptsAllowed: 2.2, AvgGoalsAllowed: 3.1}

	a := Vector(player, history, target, opp)
	b := Vector(player, history, target, opp)
	assert.Equal(t, a, b, "Same inputs produce the same vector")
}

func TestTrainingRowsUseOnlyPriorGames(t *testing.T) {
	player := PlayerContext{PlayerID: 7, Position: "C", PriorSeasonAvgFpts: 2.0}
	games := []GameLine{
		{GameID: 1, Date: day(1), Fpts: 1.0},
		{GameID: 2, Date: day(3), Fpts: 2.0},
		{GameID: 3, Date: day(5), Fpts: 6.0},
	}
	targets := []TargetGame{
		{Date: day(1), OpponentAbbrev: "PIT", IsHome: true},
		{Date: day(3), OpponentAbbrev: "NYR", IsHome: false},
		{Date: day(5), OpponentAbbrev: "BOS", IsHome: true},
	}

	rows := TrainingRows(player, games, targets, nil)
	require.Len(t, rows, 3, "One row per game")

	// First game has no history, so rolling stats fall back
	assert.InDelta(t, 2.0, rows[0].Features[2], 0.001, "First row uses prior-season fallback")
	assert.InDelta(t, 1.0, rows[0].Label, 0.001, "Label is the game's own fpts")

	// Third row averages only the first two games, never its own outcome
	assert.InDelta(t, 1.5, rows[2].Features[2], 0.001, "Rolling average excludes the labeled game")
	assert.InDelta(t, 6.0, rows[2].Label, 0.001, "Label for third game")
}
