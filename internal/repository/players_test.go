//go:build integration

package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"nhlfantasy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertTestPlayer(t *testing.T, db *Database, ctx context.Context, id int, name string, isGoalie bool) {
	position := "C"
	if isGoalie {
		position = "G"
	}
	player := &models.ProPlayer{
		PlayerID:   id,
		PlayerName: name,
		TeamAbbrev: sql.NullString{String: "WSH", Valid: true},
		Position:   sql.NullString{String: position, Valid: true},
		IsActive:   true,
		IsGoalie:   isGoalie,
	}
	require.NoError(t, db.Players.Upsert(ctx, player), "Should insert player")
}

func insertSkaterGame(t *testing.T, db *Database, ctx context.Context, gameID, playerID int, date time.Time, goals, assists, shots int, fpts float64) {
	stat := &models.PlayerGameStat{
		GameID:         gameID,
		PlayerID:       playerID,
		GameDate:       date,
		Season:         "20252026",
		TeamAbbrev:     "WSH",
		TeamName:       "Capitals",
		OpponentAbbrev: "PIT",
		OpponentName:   "Penguins",
		IsHome:         true,
		Goals:          goals,
		Assists:        assists,
		Shots:          shots,
		TotalFpts:      fpts,
	}
	require.NoError(t, db.GameStats.UpsertSkater(ctx, stat), "Should insert skater game")
}

func TestPlayerRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	insertTestPlayer(t, db, ctx, 8471214, "Alex Ovechkin", false)

	retrieved, err := db.Players.GetByID(ctx, 8471214)
	require.NoError(t, err, "Should retrieve inserted player")
	assert.Equal(t, "Alex Ovechkin", retrieved.PlayerName, "Names should match")
	assert.False(t, retrieved.IsGoalie, "Should be a skater")

	// Update identity fields
	player := &models.ProPlayer{
		PlayerID:     8471214,
		PlayerName:   "Alex Ovechkin",
		TeamAbbrev:   sql.NullString{String: "WSH", Valid: true},
		Position:     sql.NullString{String: "L", Valid: true},
		InjuryStatus: sql.NullString{String: "DTD", Valid: true},
		IsActive:     true,
	}
	require.NoError(t, db.Players.Upsert(ctx, player), "Should update player")

	updated, err := db.Players.GetByID(ctx, 8471214)
	require.NoError(t, err, "Should retrieve updated player")
	assert.Equal(t, "L", updated.Position.String, "Position should be updated")
	assert.Equal(t, "DTD", updated.InjuryStatus.String, "Injury status should be updated")

	_, err = db.Players.GetByID(ctx, 1)
	assert.True(t, errors.Is(err, ErrNotFound), "Missing player is a not-found error")
}

func TestPlayerRepository_RecomputeSeasonAggregates(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	insertTestPlayer(t, db, ctx, 100, "Test Skater", false)

	day := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	insertSkaterGame(t, db, ctx, 1, 100, day, 1, 0, 4, 2.4)
	insertSkaterGame(t, db, ctx, 2, 100, day.AddDate(0, 0, 2), 2, 1, 6, 5.6)
	insertSkaterGame(t, db, ctx, 3, 100, day.AddDate(0, 0, 4), 3, 0, 10, 7.0)

	err := db.Players.RecomputeSeasonAggregates(ctx, 100, "20252026")
	require.NoError(t, err, "Should recompute aggregates")

	p, err := db.Players.GetByID(ctx, 100)
	require.NoError(t, err, "Should retrieve player")
	assert.Equal(t, 3, p.SeasonGamesPlayed, "Should count 3 games")
	assert.Equal(t, 6, p.SeasonGoals, "Should sum 6 goals")
	assert.Equal(t, 1, p.SeasonAssists, "Should sum 1 assist")
	assert.Equal(t, 20, p.SeasonShots, "Should sum 20 shots")
	assert.InDelta(t, 15.0, p.SeasonTotalFpts, 0.001, "Should sum fantasy points")
	require.True(t, p.SeasonShootingPct.Valid, "Shooting pct should be set")
	assert.InDelta(t, 30.0, p.SeasonShootingPct.Float64, 0.001, "6/20 shooting")

	// Recomputing again must not change anything
	err = db.Players.RecomputeSeasonAggregates(ctx, 100, "20252026")
	require.NoError(t, err, "Second recompute should succeed")

	p2, err := db.Players.GetByID(ctx, 100)
	require.NoError(t, err, "Should retrieve player")
	assert.Equal(t, 3, p2.SeasonGamesPlayed, "Games should not double count")
	assert.Equal(t, 6, p2.SeasonGoals, "Goals should not double count")

	// Re-merging a corrected game then recomputing reflects the correction
	insertSkaterGame(t, db, ctx, 3, 100, day.AddDate(0, 0, 4), 2, 0, 10, 5.0)
	err = db.Players.RecomputeSeasonAggregates(ctx, 100, "20252026")
	require.NoError(t, err, "Recompute after correction should succeed")

	p3, err := db.Players.GetByID(ctx, 100)
	require.NoError(t, err, "Should retrieve player")
	assert.Equal(t, 5, p3.SeasonGoals, "Corrected goal total")
}

func TestPlayerRepository_ShootingPctNullOnZeroShots(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	insertTestPlayer(t, db, ctx, 200, "No Shot Player", false)

	day := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	insertSkaterGame(t, db, ctx, 10, 200, day, 0, 1, 0, 1.0)

	err := db.Players.RecomputeSeasonAggregates(ctx, 200, "20252026")
	require.NoError(t, err, "Should recompute aggregates")

	p, err := db.Players.GetByID(ctx, 200)
	require.NoError(t, err, "Should retrieve player")
	assert.False(t, p.SeasonShootingPct.Valid, "Shooting pct should be NULL with zero shots")
}

func TestPlayerRepository_GoalieAggregates(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	insertTestPlayer(t, db, ctx, 300, "Test Goalie", true)

	day := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	stat := &models.GoalieGameStat{
		GameID:         20,
		PlayerID:       300,
		GameDate:       day,
		Season:         "20252026",
		TeamAbbrev:     "WSH",
		TeamName:       "Capitals",
		OpponentAbbrev: "PIT",
		OpponentName:   "Penguins",
		Saves:          30,
		GoalsAgainst:   0,
		Decision:       sql.NullString{String: "W", Valid: true},
		Wins:           1,
		Shutouts:       1,
		TotalFpts:      13.0,
	}
	require.NoError(t, db.GameStats.UpsertGoalie(ctx, stat), "Should insert goalie game")

	err := db.Players.RecomputeSeasonAggregates(ctx, 300, "20252026")
	require.NoError(t, err, "Should recompute goalie aggregates")

	p, err := db.Players.GetByID(ctx, 300)
	require.NoError(t, err, "Should retrieve goalie")
	assert.Equal(t, 1, p.SeasonWins, "Should count the win")
	assert.Equal(t, 1, p.SeasonShutouts, "Should count the shutout")
	assert.Equal(t, 30, p.SeasonSaves, "Should sum saves")
	require.True(t, p.SeasonSavePct.Valid, "Save pct should be set")
	assert.InDelta(t, 100.0, p.SeasonSavePct.Float64, 0.001, "Perfect save pct")
}

func TestPlayerRepository_RecomputePriorSeason(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	insertTestPlayer(t, db, ctx, 400, "Prior Season Player", false)

	day := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	stat := &models.PlayerGameStat{
		GameID: 30, PlayerID: 400, GameDate: day, Season: "20242025",
		TeamAbbrev: "WSH", TeamName: "Capitals",
		OpponentAbbrev: "NYR", OpponentName: "Rangers",
		TotalFpts: 4.0,
	}
	require.NoError(t, db.GameStats.UpsertSkater(ctx, stat), "Should insert prior game")
	stat.GameID = 31
	stat.TotalFpts = 2.0
	require.NoError(t, db.GameStats.UpsertSkater(ctx, stat), "Should insert prior game")

	err := db.Players.RecomputePriorSeason(ctx, 400, "20242025")
	require.NoError(t, err, "Should recompute prior season")

	p, err := db.Players.GetByID(ctx, 400)
	require.NoError(t, err, "Should retrieve player")
	assert.Equal(t, 2, p.PriorSeasonGamesPlayed, "Two prior games")
	assert.InDelta(t, 3.0, p.PriorSeasonAvgFpts, 0.001, "Prior season average")
}

func TestPlayerRepository_UnmappedPlayerIDs(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	insertTestPlayer(t, db, ctx, 500, "Known Player", false)

	day := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	insertSkaterGame(t, db, ctx, 40, 500, day, 1, 0, 2, 2.2)
	// Stats for a player the roster sync has not seen
	insertSkaterGame(t, db, ctx, 40, 501, day, 0, 1, 1, 1.1)

	ids, err := db.Players.UnmappedPlayerIDs(ctx)
	require.NoError(t, err, "Should find unmapped players")
	assert.Equal(t, []int{501}, ids, "Only the unknown player should be reported")
}

func TestPlayerRepository_SearchByName(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	insertTestPlayer(t, db, ctx, 600, "Connor McDavid", false)
	insertTestPlayer(t, db, ctx, 601, "Connor Bedard", false)
	insertTestPlayer(t, db, ctx, 602, "Sidney Crosby", false)

	results, err := db.Players.SearchByName(ctx, "connor")
	require.NoError(t, err, "Should search players")
	assert.Len(t, results, 2, "Should match both Connors")
	assert.Equal(t, "Connor Bedard", results[0].PlayerName, "Results ordered by name")
}
