package features

import (
	"time"

	"nhlfantasy/internal/scoring"
)

// FeatureNames is the canonical feature order. Training and prediction both
// key off this slice, and the model artifact records it so a stale model
// cannot silently score differently shaped vectors.
var FeatureNames = []string{
	"prior_season_avg_fpts",
	"prior_season_games_played",
	"avg_fpts_l3",
	"avg_fpts_l5",
	"days_rest",
	"is_b2b",
	"is_home",
	"opp_avg_fpts_allowed",
	"opp_avg_goals_allowed",
	"pos_C",
	"pos_D",
	"pos_L",
	"pos_R",
	"pos_G",
}

// MaxDaysRest caps the rest feature when a player has no prior game on
// record, keeping season openers away from the ordinary rest range.
const MaxDaysRest = 99

// GameLine is the slice of a stored game a feature vector needs
type GameLine struct {
	GameID int
	Date   time.Time
	Fpts   float64
	Goals  int
}

// PlayerContext carries the per-player inputs that do not vary per game
type PlayerContext struct {
	PlayerID               int
	Position               string
	PriorSeasonAvgFpts     float64
	PriorSeasonGamesPlayed int
}

// TargetGame describes the game being predicted or labeled
type TargetGame struct {
	Date           time.Time
	OpponentAbbrev string
	IsHome         bool
}

// OpponentStrength is the average production a team has allowed this season
type OpponentStrength struct {
	AvgFptsAllowed  float64
	AvgGoalsAllowed float64
}

// Vector builds the feature vector for one target game. history must hold
// only games strictly before the target, ordered oldest first. With no
// history the rolling averages fall back to the prior-season baseline, so
// early-season players still get predictions.
func Vector(player PlayerContext, history []GameLine, target TargetGame, opp OpponentStrength) []float64 {
	v := make([]float64, 0, len(FeatureNames))

	v = append(v, player.PriorSeasonAvgFpts)
	v = append(v, float64(player.PriorSeasonGamesPlayed))
	v = append(v, rollingAvg(history, 3, player.PriorSeasonAvgFpts))
	v = append(v, rollingAvg(history, 5, player.PriorSeasonAvgFpts))

	daysRest, isB2B := rest(history, target.Date)
	v = append(v, float64(daysRest))
	v = append(v, boolFeature(isB2B))
	v = append(v, boolFeature(target.IsHome))

	v = append(v, opp.AvgFptsAllowed)
	v = append(v, opp.AvgGoalsAllowed)

	v = append(v, boolFeature(player.Position == scoring.PositionCenter))
	v = append(v, boolFeature(player.Position == scoring.PositionDefense))
	v = append(v, boolFeature(player.Position == scoring.PositionLeftWing))
	v = append(v, boolFeature(player.Position == scoring.PositionRightWing))
	v = append(v, boolFeature(player.Position == scoring.PositionGoalie))

	return v
}

// rollingAvg averages fantasy points over the last n games of history,
// falling back when no games exist yet.
func rollingAvg(history []GameLine, n int, fallback float64) float64 {
	if len(history) == 0 {
		return fallback
	}
	start := len(history) - n
	if start < 0 {
		start = 0
	}
	window := history[start:]
	sum := 0.0
	for _, g := range window {
		sum += g.Fpts
	}
	return sum / float64(len(window))
}

func rest(history []GameLine, target time.Time) (int, bool) {
	if len(history) == 0 {
		return MaxDaysRest, false
	}
	last := history[len(history)-1].Date
	days := int(target.Sub(last).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, days == 1
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// TrainingRow is one labeled example for model training
type TrainingRow struct {
	PlayerID int
	GameID   int
	GameDate time.Time
	Features []float64
	Label    float64
}

// TrainingRows expands a player's season into labeled rows, one per game,
// each built only from games before it. strength maps opponent abbrev to
// season averages; unknown opponents contribute zeros.
func TrainingRows(player PlayerContext, games []GameLine, targets []TargetGame, strength map[string]OpponentStrength) []TrainingRow {
	rows := make([]TrainingRow, 0, len(games))
	for i, game := range games {
		target := targets[i]
		rows = append(rows, TrainingRow{
			PlayerID: player.PlayerID,
			GameID:   game.GameID,
			GameDate: game.Date,
			Features: Vector(player, games[:i], target, strength[target.OpponentAbbrev]),
			Label:    game.Fpts,
		})
	}
	return rows
}
