package scoring

import "math"

// League scoring weights. These mirror the league settings exactly and are
// shared by every command so seeded history and daily updates always agree.

// Skater category weights
const (
	WeightGoals        = 2.0
	WeightAssists      = 1.0
	WeightPPPoints     = 0.5
	WeightSHPoints     = 0.5
	WeightShots        = 0.1
	WeightBlockedShots = 0.5
	WeightHits         = 0.1
)

// Goalie category weights
const (
	WeightWins         = 4.0
	WeightGoalsAgainst = -2.0
	WeightSaves        = 0.2
	WeightShutouts     = 3.0
	WeightOTLosses     = 1.0
)

// Goalie decision codes as reported by the NHL API
const (
	DecisionWin    = "W"
	DecisionLoss   = "L"
	DecisionOTLoss = "O"
)

// Position codes
const (
	PositionCenter    = "C"
	PositionLeftWing  = "L"
	PositionRightWing = "R"
	PositionDefense   = "D"
	PositionGoalie    = "G"
)

// SkaterLine holds the raw counting stats that feed skater scoring.
type SkaterLine struct {
	Goals        int
	Assists      int
	PPPoints     float64
	SHPoints     float64
	Shots        int
	BlockedShots int
	Hits         int
}

// GoalieLine holds the raw counting stats that feed goalie scoring.
type GoalieLine struct {
	Saves        int
	GoalsAgainst int
	Decision     string
}

// SkaterFpts computes fantasy points for a single skater game, rounded to
// two decimals.
func SkaterFpts(line SkaterLine) float64 {
	fpts := float64(line.Goals)*WeightGoals +
		float64(line.Assists)*WeightAssists +
		line.PPPoints*WeightPPPoints +
		line.SHPoints*WeightSHPoints +
		float64(line.Shots)*WeightShots +
		float64(line.BlockedShots)*WeightBlockedShots +
		float64(line.Hits)*WeightHits
	return round2(fpts)
}

// GoalieFpts computes fantasy points for a single goalie game, rounded to
// two decimals. A shutout requires zero goals against and at least one save
// so that a goalie who never faced a shot is not credited.
func GoalieFpts(line GoalieLine) float64 {
	wins := 0
	if line.Decision == DecisionWin {
		wins = 1
	}
	otLosses := 0
	if line.Decision == DecisionOTLoss {
		otLosses = 1
	}
	shutouts := 0
	if line.GoalsAgainst == 0 && line.Saves > 0 {
		shutouts = 1
	}

	fpts := float64(wins)*WeightWins +
		float64(line.GoalsAgainst)*WeightGoalsAgainst +
		float64(line.Saves)*WeightSaves +
		float64(shutouts)*WeightShutouts +
		float64(otLosses)*WeightOTLosses
	return round2(fpts)
}

// IsGoaliePosition reports whether a position code denotes a goalie.
func IsGoaliePosition(position string) bool {
	return position == PositionGoalie
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
