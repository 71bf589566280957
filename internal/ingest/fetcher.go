package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"nhlfantasy/internal/client"
	"nhlfantasy/internal/metrics"
	"nhlfantasy/internal/models"
	"nhlfantasy/internal/repository"
	"nhlfantasy/internal/scoring"

	"github.com/rs/zerolog/log"
)

// Fetcher drives the fetch-convert-merge pipeline for game dates
type Fetcher struct {
	client    *client.Client
	processor *Processor
	db        *repository.Database
	season    string

	mu       sync.Mutex
	gameLogs map[int]*models.GameLogResponse
}

// NewFetcher creates a stat sync pipeline
func NewFetcher(nhl *client.Client, db *repository.Database, season string) *Fetcher {
	return &Fetcher{
		client:    nhl,
		processor: NewProcessor(db),
		db:        db,
		season:    season,
		gameLogs:  make(map[int]*models.GameLogResponse),
	}
}

// NewBackfillFetcher creates a pipeline for loading a past season. Stat rows
// are stored as usual but the pro_players season counters are not recomputed;
// they track the current season only.
func NewBackfillFetcher(nhl *client.Client, db *repository.Database, season string) *Fetcher {
	f := NewFetcher(nhl, db, season)
	f.processor = NewBackfillProcessor(db)
	return f
}

// Summary reports what a sync run accomplished
type Summary struct {
	Dates          int
	Games          int
	FailedGames    int
	Skaters        int
	Goalies        int
	UnknownPlayers int
}

// SyncDate fetches every regular-season boxscore for a date, converts the
// lines, and merges them as one batch. Individual game failures are logged
// and counted without aborting the date.
func (f *Fetcher) SyncDate(ctx context.Context, date string) (*Summary, error) {
	sched, err := f.client.FetchScheduleByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for %s: %w", date, err)
	}

	var gameIDs []int
	for _, game := range sched.GamesOn(date) {
		if game.IsRegularSeason() {
			gameIDs = append(gameIDs, game.ID)
		}
	}

	summary := &Summary{Dates: 1}
	if len(gameIDs) == 0 {
		log.Info().Str("date", date).Msg("No regular-season games on date")
		return summary, nil
	}

	type gameResult struct {
		skaters []*models.PlayerGameStat
		goalies []*models.GoalieGameStat
		err     error
	}

	results := make([]gameResult, len(gameIDs))
	var wg sync.WaitGroup
	for i, gameID := range gameIDs {
		wg.Add(1)
		go func(i, gameID int) {
			defer wg.Done()
			skaters, goalies, err := f.fetchGame(ctx, gameID)
			results[i] = gameResult{skaters: skaters, goalies: goalies, err: err}
		}(i, gameID)
	}
	wg.Wait()

	var allSkaters []*models.PlayerGameStat
	var allGoalies []*models.GoalieGameStat
	for i, res := range results {
		if res.err != nil {
			log.Error().Err(res.err).Int("game_id", gameIDs[i]).Msg("Failed to fetch game")
			metrics.RecordError("fetcher", "game_fetch")
			summary.FailedGames++
			continue
		}
		summary.Games++
		allSkaters = append(allSkaters, res.skaters...)
		allGoalies = append(allGoalies, res.goalies...)
	}

	if len(allSkaters) == 0 && len(allGoalies) == 0 {
		return summary, nil
	}

	f.seedPlayers(ctx, allSkaters, allGoalies)

	batch, err := f.processor.MergeBatch(ctx, f.season, allSkaters, allGoalies)
	if err != nil {
		return summary, fmt.Errorf("failed to merge batch for %s: %w", date, err)
	}

	summary.Skaters = batch.Skaters
	summary.Goalies = batch.Goalies
	summary.UnknownPlayers = len(batch.UnknownPlayers)
	return summary, nil
}

// SyncRange runs SyncDate for each day in [from, to] inclusive
func (f *Fetcher) SyncRange(ctx context.Context, from, to time.Time) (*Summary, error) {
	total := &Summary{}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		s, err := f.SyncDate(ctx, date)
		if err != nil {
			return total, err
		}
		total.Dates += s.Dates
		total.Games += s.Games
		total.FailedGames += s.FailedGames
		total.Skaters += s.Skaters
		total.Goalies += s.Goalies
		total.UnknownPlayers += s.UnknownPlayers
	}

	log.Info().
		Int("dates", total.Dates).
		Int("games", total.Games).
		Int("failed_games", total.FailedGames).
		Int("skaters", total.Skaters).
		Int("goalies", total.Goalies).
		Msg("Sync range complete")

	return total, nil
}

func (f *Fetcher) fetchGame(ctx context.Context, gameID int) ([]*models.PlayerGameStat, []*models.GoalieGameStat, error) {
	box, err := f.client.FetchBoxscore(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	specialTeams, err := f.specialTeamsFor(ctx, box)
	if err != nil {
		return nil, nil, err
	}

	return ConvertBoxscore(box, specialTeams)
}

// specialTeamsFor fetches game logs for skaters who recorded points in this
// game, since the boxscore does not break points down by strength. Game
// logs are memoized for the run so multi-point players cost one request.
func (f *Fetcher) specialTeamsFor(ctx context.Context, box *models.BoxscoreResponse) (map[int]SpecialTeamsPoints, error) {
	out := make(map[int]SpecialTeamsPoints)

	for _, side := range []models.TeamBoxscoreStats{box.PlayerByGameStats.HomeTeam, box.PlayerByGameStats.AwayTeam} {
		lines := append([]models.SkaterBoxscoreStats{}, side.Forwards...)
		lines = append(lines, side.Defense...)
		for _, line := range lines {
			if line.Goals+line.Assists == 0 {
				continue
			}
			gameLog, err := f.gameLog(ctx, line.PlayerID)
			if err != nil {
				// Missing game log only costs special-teams precision
				log.Warn().Err(err).Int("player_id", line.PlayerID).Msg("Failed to fetch game log")
				continue
			}
			for _, entry := range gameLog.GameLog {
				if entry.GameID == box.ID {
					out[line.PlayerID] = SpecialTeamsPoints{
						PPPoints: float64(entry.PowerPlayPoints),
						SHPoints: float64(entry.ShorthandedPoints),
					}
					break
				}
			}
		}
	}

	return out, nil
}

func (f *Fetcher) gameLog(ctx context.Context, playerID int) (*models.GameLogResponse, error) {
	f.mu.Lock()
	cached, ok := f.gameLogs[playerID]
	f.mu.Unlock()
	if ok {
		return cached, nil
	}

	gameLog, err := f.client.FetchPlayerGameLog(ctx, playerID, f.season)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.gameLogs[playerID] = gameLog
	f.mu.Unlock()
	return gameLog, nil
}

// seedPlayers upserts identity rows for every player in the batch so season
// aggregates have a home. Roster fields are never touched here.
func (f *Fetcher) seedPlayers(ctx context.Context, skaters []*models.PlayerGameStat, goalies []*models.GoalieGameStat) {
	seen := make(map[int]bool, len(skaters)+len(goalies))

	for _, s := range skaters {
		if seen[s.PlayerID] || !s.PlayerName.Valid {
			continue
		}
		seen[s.PlayerID] = true
		player := &models.ProPlayer{
			PlayerID:     s.PlayerID,
			PlayerName:   s.PlayerName.String,
			TeamAbbrev:   nullString(s.TeamAbbrev),
			Position:     s.Position,
			JerseyNumber: s.JerseyNumber,
			IsActive:     true,
			IsGoalie:     false,
		}
		if err := f.db.Players.Upsert(ctx, player); err != nil {
			log.Warn().Err(err).Int("player_id", s.PlayerID).Msg("Failed to seed player")
		}
	}

	for _, g := range goalies {
		if seen[g.PlayerID] || !g.PlayerName.Valid {
			continue
		}
		seen[g.PlayerID] = true
		player := &models.ProPlayer{
			PlayerID:     g.PlayerID,
			PlayerName:   g.PlayerName.String,
			TeamAbbrev:   nullString(g.TeamAbbrev),
			Position:     nullString(scoring.PositionGoalie),
			JerseyNumber: g.JerseyNumber,
			IsActive:     true,
			IsGoalie:     true,
		}
		if err := f.db.Players.Upsert(ctx, player); err != nil {
			log.Warn().Err(err).Int("player_id", g.PlayerID).Msg("Failed to seed goalie")
		}
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
