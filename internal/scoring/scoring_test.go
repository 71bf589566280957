package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkaterFpts(t *testing.T) {
	// 2 goals, 1 assist, 1 pp point, 3 shots, 2 blocks, 4 hits
	// = 4.0 + 1.0 + 0.5 + 0.3 + 1.0 + 0.4 = 7.2
	line := SkaterLine{
		Goals:        2,
		Assists:      1,
		PPPoints:     1,
		Shots:        3,
		BlockedShots: 2,
		Hits:         4,
	}
	assert.Equal(t, 7.2, SkaterFpts(line))
}

func TestSkaterFpts_ZeroLine(t *testing.T) {
	assert.Equal(t, 0.0, SkaterFpts(SkaterLine{}))
}

func TestGoalieFpts_WinWithShutout(t *testing.T) {
	// Win (4.0) + 30 saves (6.0) + shutout (3.0) = 13.0
	line := GoalieLine{Saves: 30, GoalsAgainst: 0, Decision: DecisionWin}
	assert.Equal(t, 13.0, GoalieFpts(line))
}

func TestGoalieFpts_NoShutoutWithoutSaves(t *testing.T) {
	// A goalie with zero saves and zero goals against gets no shutout credit.
	line := GoalieLine{Saves: 0, GoalsAgainst: 0, Decision: DecisionWin}
	assert.Equal(t, 4.0, GoalieFpts(line))
}

func TestGoalieFpts_OTLoss(t *testing.T) {
	// OT loss (1.0) + 25 saves (5.0) + 3 GA (-6.0) = 0.0
	line := GoalieLine{Saves: 25, GoalsAgainst: 3, Decision: DecisionOTLoss}
	assert.Equal(t, 0.0, GoalieFpts(line))
}

func TestGoalieFpts_RegulationLoss(t *testing.T) {
	// 20 saves (4.0) + 4 GA (-8.0) = -4.0
	line := GoalieLine{Saves: 20, GoalsAgainst: 4, Decision: DecisionLoss}
	assert.Equal(t, -4.0, GoalieFpts(line))
}

func TestIsGoaliePosition(t *testing.T) {
	assert.True(t, IsGoaliePosition("G"))
	assert.False(t, IsGoaliePosition("C"))
	assert.False(t, IsGoaliePosition("D"))
}
