package features

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainingSetCSVRoundTrip(t *testing.T) {
	rows := []TrainingRow{
		{PlayerID: 1, GameID: 100, GameDate: day(5), Features: Vector(PlayerContext{Position: "C", PriorSeasonAvgFpts: 2.0}, nil, TargetGame{Date: day(5)}, OpponentStrength{}), Label: 3.5},
		{PlayerID: 2, GameID: 101, GameDate: day(6), Features: Vector(PlayerContext{Position: "G"}, nil, TargetGame{Date: day(6), IsHome: true}, OpponentStrength{AvgFptsAllowed: 2.1}), Label: -0.4},
	}

	path := filepath.Join(t.TempDir(), "training_set.csv")
	require.NoError(t, WriteCSV(path, rows), "Should write training set")

	X, y, err := ReadCSV(path)
	require.NoError(t, err, "Should read training set")
	require.Len(t, X, 2, "Two rows round-tripped")
	assert.InDeltaSlice(t, rows[0].Features, X[0], 1e-12, "Features preserved")
	assert.InDelta(t, 3.5, y[0], 1e-12, "Label preserved")
	assert.InDelta(t, -0.4, y[1], 1e-12, "Negative labels preserved")
}

func TestReadCSVRejectsWrongColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "player_id,game_id,game_date,wrong_feature,total_fpts\n1,100,2025-10-05,1.0,2.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Should write file")

	_, _, err := ReadCSV(path)
	require.Error(t, err, "Wrong column set rejected")
	assert.True(t, strings.Contains(err.Error(), "columns"), "Error names the column problem")
}

func TestReadCSVFailsOnMalformedRow(t *testing.T) {
	rows := []TrainingRow{
		{PlayerID: 1, GameID: 100, GameDate: day(5), Features: Vector(PlayerContext{Position: "C"}, nil, TargetGame{Date: day(5)}, OpponentStrength{}), Label: 1.0},
		{PlayerID: 2, GameID: 101, GameDate: day(6), Features: Vector(PlayerContext{Position: "D"}, nil, TargetGame{Date: day(6)}, OpponentStrength{}), Label: 2.0},
		{PlayerID: 3, GameID: 102, GameDate: day(7), Features: Vector(PlayerContext{Position: "L"}, nil, TargetGame{Date: day(7)}, OpponentStrength{}), Label: 3.0},
	}

	path := filepath.Join(t.TempDir(), "training_set.csv")
	require.NoError(t, WriteCSV(path, rows), "Should write training set")

	// Corrupt the middle data row with a stray quote
	content, err := os.ReadFile(path)
	require.NoError(t, err, "Should read file back")
	lines := strings.Split(string(content), "\n")
	require.Greater(t, len(lines), 3, "File has header plus data rows")
	lines[2] = `"` + lines[2]
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644), "Should rewrite file")

	X, _, err := ReadCSV(path)
	require.Error(t, err, "Malformed row must fail the read, not truncate it")
	assert.Nil(t, X, "No partial training set returned")
}

func TestSeasonStart(t *testing.T) {
	start, err := SeasonStart("20252026")
	require.NoError(t, err, "Valid season id")
	assert.Equal(t, 2025, start.Year(), "Season starts in the first year")
	assert.Equal(t, 10, int(start.Month()), "Season starts in October")

	_, err = SeasonStart("2025")
	assert.Error(t, err, "Malformed season id rejected")
}
