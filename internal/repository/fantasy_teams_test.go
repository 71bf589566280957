//go:build integration

package repository

import (
	"context"
	"testing"

	"nhlfantasy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTeam(t *testing.T, db *Database, ctx context.Context, name string) (int, error) {
	team := &models.FantasyTeam{
		TeamName:  name,
		OwnerName: "Test Owner",
	}
	err := db.Teams.Create(ctx, team)
	return team.TeamID, err
}

func TestFantasyTeamRepository_CreateAndGet(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	id, err := createTestTeam(t, db, ctx, "Puck Dynasty")
	require.NoError(t, err, "Should create team")
	assert.Greater(t, id, 0, "Should assign a team id")

	byID, err := db.Teams.GetByID(ctx, id)
	require.NoError(t, err, "Should get team by id")
	assert.Equal(t, "Puck Dynasty", byID.TeamName, "Names should match")

	byName, err := db.Teams.GetByName(ctx, "Puck Dynasty")
	require.NoError(t, err, "Should get team by name")
	assert.Equal(t, id, byName.TeamID, "IDs should match")

	_, err = db.Teams.GetByID(ctx, 99999)
	assert.Error(t, err, "Should return error for missing team")
}

func TestFantasyTeamRepository_RosterMoves(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	teamA, err := createTestTeam(t, db, ctx, "Team A")
	require.NoError(t, err, "Should create team A")
	teamB, err := createTestTeam(t, db, ctx, "Team B")
	require.NoError(t, err, "Should create team B")

	insertTestPlayer(t, db, ctx, 800, "Rostered Player", false)

	require.NoError(t, db.Players.AssignToTeam(ctx, 800, teamA), "Should add free agent")

	// Another team cannot add a rostered player
	err = db.Players.AssignToTeam(ctx, 800, teamB)
	assert.Error(t, err, "Rostered player is not available")

	roster, err := db.Players.GetRoster(ctx, teamA)
	require.NoError(t, err, "Should get roster")
	require.Len(t, roster, 1, "One player rostered")
	assert.Equal(t, 800, roster[0].PlayerID, "Correct player")

	// Dropping from the wrong team fails
	err = db.Players.DropFromTeam(ctx, 800, teamB)
	assert.Error(t, err, "Cannot drop a player you do not own")

	require.NoError(t, db.Players.DropFromTeam(ctx, 800, teamA), "Owner can drop")

	p, err := db.Players.GetByID(ctx, 800)
	require.NoError(t, err, "Should get player")
	assert.True(t, p.IsFreeAgent(), "Player back to free agency")
}

func TestFantasyTeamRepository_TradeAtomic(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	teamA, err := createTestTeam(t, db, ctx, "Team A")
	require.NoError(t, err, "Should create team A")
	teamB, err := createTestTeam(t, db, ctx, "Team B")
	require.NoError(t, err, "Should create team B")

	insertTestPlayer(t, db, ctx, 810, "Player A", false)
	insertTestPlayer(t, db, ctx, 811, "Player B", false)

	require.NoError(t, db.Players.AssignToTeam(ctx, 810, teamA), "Should roster player A")
	require.NoError(t, db.Players.AssignToTeam(ctx, 811, teamB), "Should roster player B")

	err = db.Players.Trade(ctx, 810, teamA, 811, teamB)
	require.NoError(t, err, "Trade should succeed")

	pA, err := db.Players.GetByID(ctx, 810)
	require.NoError(t, err, "Should get player A")
	assert.Equal(t, int32(teamB), pA.FantasyTeamID.Int32, "Player A moved to team B")

	pB, err := db.Players.GetByID(ctx, 811)
	require.NoError(t, err, "Should get player B")
	assert.Equal(t, int32(teamA), pB.FantasyTeamID.Int32, "Player B moved to team A")
}

func TestFantasyTeamRepository_FailedTradeMutatesNothing(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	teamA, err := createTestTeam(t, db, ctx, "Team A")
	require.NoError(t, err, "Should create team A")
	teamB, err := createTestTeam(t, db, ctx, "Team B")
	require.NoError(t, err, "Should create team B")

	insertTestPlayer(t, db, ctx, 820, "Owned Player", false)
	insertTestPlayer(t, db, ctx, 821, "Unowned Player", false)

	require.NoError(t, db.Players.AssignToTeam(ctx, 820, teamA), "Should roster player")
	// Player 821 is a free agent, so team B cannot send them

	err = db.Players.Trade(ctx, 820, teamA, 821, teamB)
	require.Error(t, err, "Trade with an unowned player must fail")

	pA, err := db.Players.GetByID(ctx, 820)
	require.NoError(t, err, "Should get player")
	assert.Equal(t, int32(teamA), pA.FantasyTeamID.Int32, "First move rolled back")

	pB, err := db.Players.GetByID(ctx, 821)
	require.NoError(t, err, "Should get player")
	assert.True(t, pB.IsFreeAgent(), "Unowned player untouched")
}

func TestFantasyTeamRepository_DeleteAllReleasesRosters(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	truncateTables(t, db, ctx)

	teamA, err := createTestTeam(t, db, ctx, "Doomed Team")
	require.NoError(t, err, "Should create team")

	insertTestPlayer(t, db, ctx, 830, "Released Player", false)
	require.NoError(t, db.Players.AssignToTeam(ctx, 830, teamA), "Should roster player")

	require.NoError(t, db.Teams.DeleteAll(ctx), "Should delete all teams")

	teams, err := db.Teams.List(ctx)
	require.NoError(t, err, "Should list teams")
	assert.Empty(t, teams, "No teams remain")

	p, err := db.Players.GetByID(ctx, 830)
	require.NoError(t, err, "Should get player")
	assert.True(t, p.IsFreeAgent(), "Player released on refresh")
}
