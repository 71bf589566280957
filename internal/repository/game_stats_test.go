//go:build integration

package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameStatsRepository_UpsertIdempotent(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	insertTestPlayer(t, db, ctx, 700, "Idempotent Player", false)

	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	insertSkaterGame(t, db, ctx, 50, 700, day, 2, 1, 5, 5.5)
	insertSkaterGame(t, db, ctx, 50, 700, day, 2, 1, 5, 5.5)

	log, err := db.GameStats.GetPlayerGameLog(ctx, 700, "20252026")
	require.NoError(t, err, "Should get game log")
	require.Len(t, log, 1, "Re-merging the same game must not duplicate rows")
	assert.Equal(t, 2, log[0].Goals, "Goals preserved")
}

func TestGameStatsRepository_GameLogOrdering(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	insertTestPlayer(t, db, ctx, 710, "Ordered Player", false)

	day := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	insertSkaterGame(t, db, ctx, 62, 710, day.AddDate(0, 0, 4), 0, 0, 1, 0.1)
	insertSkaterGame(t, db, ctx, 60, 710, day, 1, 0, 2, 2.2)
	insertSkaterGame(t, db, ctx, 61, 710, day.AddDate(0, 0, 2), 0, 1, 3, 1.3)

	log, err := db.GameStats.GetPlayerGameLog(ctx, 710, "20252026")
	require.NoError(t, err, "Should get game log")
	require.Len(t, log, 3, "Should have three games")
	assert.Equal(t, 60, log[0].GameID, "Oldest game first")
	assert.Equal(t, 62, log[2].GameID, "Newest game last")
}

func TestGameStatsRepository_AggregateAfterNewGame(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	insertTestPlayer(t, db, ctx, 720, "Streak Player", false)

	day := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	insertSkaterGame(t, db, ctx, 70, 720, day, 1, 0, 3, 1.0)
	insertSkaterGame(t, db, ctx, 71, 720, day.AddDate(0, 0, 2), 2, 0, 4, 2.0)
	require.NoError(t, db.Players.RecomputeSeasonAggregates(ctx, 720, "20252026"), "Recompute after two games")

	// Third game lands, recompute picks it up
	insertSkaterGame(t, db, ctx, 72, 720, day.AddDate(0, 0, 4), 3, 0, 5, 6.0)
	require.NoError(t, db.Players.RecomputeSeasonAggregates(ctx, 720, "20252026"), "Recompute after third game")

	p, err := db.Players.GetByID(ctx, 720)
	require.NoError(t, err, "Should retrieve player")
	assert.Equal(t, 6, p.SeasonGoals, "1+2+3 goals")
	assert.Equal(t, 3, p.SeasonGamesPlayed, "Three games played")

	// Rolling window over the two games strictly before the third
	log, err := db.GameStats.GetPlayerGameLog(ctx, 720, "20252026")
	require.NoError(t, err, "Should get game log")
	require.Len(t, log, 3, "Three games in log")
	priorAvg := (log[0].TotalFpts + log[1].TotalFpts) / 2
	assert.InDelta(t, 1.5, priorAvg, 0.001, "Average of games before the latest")
}

func TestGameStatsRepository_TeamFptsAllowed(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	insertTestPlayer(t, db, ctx, 730, "Opponent A Player", false)
	insertTestPlayer(t, db, ctx, 731, "Opponent B Player", false)

	day := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	insertSkaterGame(t, db, ctx, 80, 730, day, 2, 0, 4, 4.0)
	insertSkaterGame(t, db, ctx, 81, 731, day.AddDate(0, 0, 1), 1, 0, 2, 2.0)

	strength, err := db.GameStats.TeamFptsAllowed(ctx, "20252026")
	require.NoError(t, err, "Should compute team strength")
	require.Contains(t, strength, "PIT", "All games were against PIT")
	assert.InDelta(t, 3.0, strength["PIT"][0], 0.001, "Average fpts allowed")
	assert.InDelta(t, 1.5, strength["PIT"][1], 0.001, "Average goals allowed")
}

func TestGameStatsRepository_FreeAgentLines(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	insertTestPlayer(t, db, ctx, 740, "Hot Free Agent", false)
	insertTestPlayer(t, db, ctx, 741, "Single Game Player", false)

	day := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	insertSkaterGame(t, db, ctx, 90, 740, day, 1, 1, 3, 3.3)
	insertSkaterGame(t, db, ctx, 91, 740, day.AddDate(0, 0, 2), 2, 0, 5, 4.5)
	insertSkaterGame(t, db, ctx, 92, 741, day, 0, 1, 1, 1.1)

	since := day.AddDate(0, 0, -7)
	lines, err := db.GameStats.FreeAgentLines(ctx, since, "20252026", 2)
	require.NoError(t, err, "Should get free agent lines")
	require.Len(t, lines, 1, "Minimum games filter should exclude the one-game player")
	assert.Equal(t, 740, lines[0].PlayerID, "Hot free agent included")
	assert.Equal(t, 2, lines[0].Games, "Two games in window")
	assert.InDelta(t, 3.9, lines[0].AvgFpts, 0.001, "Average fantasy points")

	// Rostered players never show up on the wire
	team, err := createTestTeam(t, db, ctx, "Claimers")
	require.NoError(t, err, "Should create team")
	require.NoError(t, db.Players.AssignToTeam(ctx, 740, team), "Should roster the player")

	lines, err = db.GameStats.FreeAgentLines(ctx, since, "20252026", 2)
	require.NoError(t, err, "Should get free agent lines")
	assert.Empty(t, lines, "Rostered player excluded")
}
