package features

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"nhlfantasy/internal/models"
	"nhlfantasy/internal/repository"
	"nhlfantasy/internal/scoring"

	"github.com/rs/zerolog/log"
)

// Builder assembles labeled training rows from stored game stats
type Builder struct {
	db *repository.Database
}

// NewBuilder creates a training set builder
func NewBuilder(db *repository.Database) *Builder {
	return &Builder{db: db}
}

// BuildSeason produces one training row per stored game in the season,
// skaters and goalies both. Opponent strength comes from the same season's
// stat tables.
func (b *Builder) BuildSeason(ctx context.Context, season string) ([]TrainingRow, error) {
	strength, err := b.opponentStrength(ctx, season)
	if err != nil {
		return nil, err
	}

	var rows []TrainingRow

	skaterIDs, err := b.db.GameStats.SkaterPlayerIDs(ctx, season)
	if err != nil {
		return nil, err
	}
	for _, playerID := range skaterIDs {
		playerRows, err := b.skaterRows(ctx, playerID, season, strength)
		if err != nil {
			log.Warn().Err(err).Int("player_id", playerID).Msg("Skipping skater in training set")
			continue
		}
		rows = append(rows, playerRows...)
	}

	goalieIDs, err := b.db.GameStats.GoaliePlayerIDs(ctx, season)
	if err != nil {
		return nil, err
	}
	for _, playerID := range goalieIDs {
		playerRows, err := b.goalieRows(ctx, playerID, season, strength)
		if err != nil {
			log.Warn().Err(err).Int("player_id", playerID).Msg("Skipping goalie in training set")
			continue
		}
		rows = append(rows, playerRows...)
	}

	log.Info().Str("season", season).Int("rows", len(rows)).Msg("Training set built")
	return rows, nil
}

func (b *Builder) opponentStrength(ctx context.Context, season string) (map[string]OpponentStrength, error) {
	raw, err := b.db.GameStats.TeamFptsAllowed(ctx, season)
	if err != nil {
		return nil, err
	}
	strength := make(map[string]OpponentStrength, len(raw))
	for team, vals := range raw {
		strength[team] = OpponentStrength{AvgFptsAllowed: vals[0], AvgGoalsAllowed: vals[1]}
	}
	return strength, nil
}

func (b *Builder) playerContext(ctx context.Context, playerID int) (PlayerContext, error) {
	player, err := b.db.Players.GetByID(ctx, playerID)
	if err != nil {
		return PlayerContext{}, err
	}

	position := ""
	if player.Position.Valid {
		position = player.Position.String
	}
	if player.IsGoalie {
		position = scoring.PositionGoalie
	}

	return PlayerContext{
		PlayerID:               player.PlayerID,
		Position:               position,
		PriorSeasonAvgFpts:     player.PriorSeasonAvgFpts,
		PriorSeasonGamesPlayed: player.PriorSeasonGamesPlayed,
	}, nil
}

func (b *Builder) skaterRows(ctx context.Context, playerID int, season string, strength map[string]OpponentStrength) ([]TrainingRow, error) {
	player, err := b.playerContext(ctx, playerID)
	if err != nil {
		return nil, err
	}

	stats, err := b.db.GameStats.GetPlayerGameLog(ctx, playerID, season)
	if err != nil {
		return nil, err
	}

	games := make([]GameLine, len(stats))
	targets := make([]TargetGame, len(stats))
	for i, s := range stats {
		games[i] = GameLine{GameID: s.GameID, Date: s.GameDate, Fpts: s.TotalFpts, Goals: s.Goals}
		targets[i] = TargetGame{Date: s.GameDate, OpponentAbbrev: s.OpponentAbbrev, IsHome: s.IsHome}
	}

	return TrainingRows(player, games, targets, strength), nil
}

func (b *Builder) goalieRows(ctx context.Context, playerID int, season string, strength map[string]OpponentStrength) ([]TrainingRow, error) {
	player, err := b.playerContext(ctx, playerID)
	if err != nil {
		return nil, err
	}

	stats, err := b.db.GameStats.GetGoalieGameLog(ctx, playerID, season)
	if err != nil {
		return nil, err
	}

	games := make([]GameLine, len(stats))
	targets := make([]TargetGame, len(stats))
	for i, g := range stats {
		games[i] = GameLine{GameID: g.GameID, Date: g.GameDate, Fpts: g.TotalFpts}
		targets[i] = TargetGame{Date: g.GameDate, OpponentAbbrev: g.OpponentAbbrev, IsHome: g.IsHome}
	}

	return TrainingRows(player, games, targets, strength), nil
}

// PredictionInput carries everything needed to score one player's next game
type PredictionInput struct {
	Player *models.ProPlayer
	Vector []float64
}

// NextGameVector builds the feature vector for a player's upcoming game
func (b *Builder) NextGameVector(ctx context.Context, playerID int, season string, target TargetGame) (*PredictionInput, error) {
	player, err := b.db.Players.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	pctx, err := b.playerContext(ctx, playerID)
	if err != nil {
		return nil, err
	}

	strength, err := b.opponentStrength(ctx, season)
	if err != nil {
		return nil, err
	}

	var games []GameLine
	if player.IsGoalie {
		stats, err := b.db.GameStats.GetGoalieGameLog(ctx, playerID, season)
		if err != nil {
			return nil, err
		}
		for _, g := range stats {
			games = append(games, GameLine{GameID: g.GameID, Date: g.GameDate, Fpts: g.TotalFpts})
		}
	} else {
		stats, err := b.db.GameStats.GetPlayerGameLog(ctx, playerID, season)
		if err != nil {
			return nil, err
		}
		for _, s := range stats {
			games = append(games, GameLine{GameID: s.GameID, Date: s.GameDate, Fpts: s.TotalFpts, Goals: s.Goals})
		}
	}

	return &PredictionInput{
		Player: player,
		Vector: Vector(pctx, games, target, strength[target.OpponentAbbrev]),
	}, nil
}

// WriteCSV persists training rows with a header of id columns, the feature
// names in canonical order, then the label.
func WriteCSV(path string, rows []TrainingRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create training set dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create training set file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"player_id", "game_id", "game_date"}, FeatureNames...)
	header = append(header, "total_fpts")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.PlayerID),
			strconv.Itoa(row.GameID),
			row.GameDate.Format("2006-01-02"),
		}
		for _, v := range row.Features {
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		record = append(record, strconv.FormatFloat(row.Label, 'f', -1, 64))
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush training set: %w", err)
	}

	log.Info().Str("path", path).Int("rows", len(rows)).Msg("Training set written")
	return nil
}

// ReadCSV loads a training set written by WriteCSV, verifying the feature
// columns match the canonical order.
func ReadCSV(path string) ([][]float64, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open training set: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	want := len(FeatureNames) + 4
	if len(header) != want {
		return nil, nil, fmt.Errorf("training set has %d columns, want %d", len(header), want)
	}
	for i, name := range FeatureNames {
		if header[3+i] != name {
			return nil, nil, fmt.Errorf("training set column %d is %q, want %q", 3+i, header[3+i], name)
		}
	}

	var X [][]float64
	var y []float64
	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read training set at line %d: %w", line+1, err)
		}
		line++

		row := make([]float64, len(FeatureNames))
		for i := range FeatureNames {
			v, err := strconv.ParseFloat(record[3+i], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value at line %d column %d: %w", line, 3+i, err)
			}
			row[i] = v
		}
		label, err := strconv.ParseFloat(record[len(record)-1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("bad label at line %d: %w", line, err)
		}

		X = append(X, row)
		y = append(y, label)
	}

	return X, y, nil
}

// SeasonStart returns October 1st of the season's first year, a safe lower
// bound for date-range syncs.
func SeasonStart(season string) (time.Time, error) {
	if len(season) != 8 {
		return time.Time{}, fmt.Errorf("malformed season id %q", season)
	}
	year, err := strconv.Atoi(season[:4])
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed season id %q", season)
	}
	return time.Date(year, 10, 1, 0, 0, 0, 0, time.UTC), nil
}
