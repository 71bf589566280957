//go:build integration

package repository

import (
	"testing"
	"time"

	"nhlfantasy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	entry := &models.TeamSchedule{
		Team:       "WSH",
		Week:       "2025-10-13",
		MondayDate: monday,
		SundayDate: monday.AddDate(0, 0, 6),
		GameCount:  3,
		Opponents:  "PIT,NYR,BOS",
	}

	require.NoError(t, db.Schedule.Upsert(ctx, entry), "Should insert schedule entry")

	retrieved, err := db.Schedule.GetByTeamAndWeek(ctx, "WSH", "2025-10-13")
	require.NoError(t, err, "Should retrieve entry")
	assert.Equal(t, 3, retrieved.GameCount, "Game counts should match")
	assert.Equal(t, "PIT,NYR,BOS", retrieved.Opponents, "Opponents should match")

	// Update the same team-week
	entry.GameCount = 4
	entry.Opponents = "PIT,NYR,BOS,CAR"
	require.NoError(t, db.Schedule.Upsert(ctx, entry), "Should update entry")

	updated, err := db.Schedule.GetByTeamAndWeek(ctx, "WSH", "2025-10-13")
	require.NoError(t, err, "Should retrieve updated entry")
	assert.Equal(t, 4, updated.GameCount, "Game count should be updated")
}

func TestScheduleRepository_UpsertRejectsMismatch(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	entry := &models.TeamSchedule{
		Team:       "WSH",
		Week:       "2025-10-13",
		MondayDate: monday,
		SundayDate: monday.AddDate(0, 0, 6),
		GameCount:  2,
		Opponents:  "PIT,NYR,BOS",
	}

	err := db.Schedule.Upsert(ctx, entry)
	assert.Error(t, err, "Game count must match opponent list length")
}

func TestScheduleRepository_GetByWeek(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	entries := []*models.TeamSchedule{
		{Team: "WSH", Week: "2025-10-13", MondayDate: monday, SundayDate: monday.AddDate(0, 0, 6), GameCount: 2, Opponents: "PIT,NYR"},
		{Team: "COL", Week: "2025-10-13", MondayDate: monday, SundayDate: monday.AddDate(0, 0, 6), GameCount: 4, Opponents: "DAL,VGK,SEA,EDM"},
		{Team: "BOS", Week: "2025-10-13", MondayDate: monday, SundayDate: monday.AddDate(0, 0, 6), GameCount: 3, Opponents: "MTL,TOR,OTT"},
	}
	for _, e := range entries {
		require.NoError(t, db.Schedule.Upsert(ctx, e), "Should insert entry")
	}

	week, err := db.Schedule.GetByWeek(ctx, "2025-10-13")
	require.NoError(t, err, "Should get week")
	require.Len(t, week, 3, "All teams returned")
	assert.Equal(t, "COL", week[0].Team, "Busiest team first")
}
