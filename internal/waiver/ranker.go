package waiver

import (
	"context"
	"sort"
	"time"

	"nhlfantasy/internal/models"
	"nhlfantasy/internal/repository"

	"github.com/rs/zerolog/log"
)

// Defaults for the waiver wire report
const (
	DefaultWindowDays = 14
	DefaultMinGames   = 3
	DefaultLimit      = 25
)

// Weights scores a free agent's trailing window. Counting-stat weights
// apply per game so short and long windows stay comparable.
type Weights struct {
	AvgFpts      float64
	Goals        float64
	Assists      float64
	Shots        float64
	Hits         float64
	BlockedShots float64
	Games        float64
}

// DefaultWeights ranks purely on average fantasy points with a small
// volume bonus so steady producers outrank one hot outing.
func DefaultWeights() Weights {
	return Weights{AvgFpts: 1.0, Games: 0.1}
}

// Candidate is a ranked free agent
type Candidate struct {
	Line  *models.FreeAgentLine
	Score float64
}

// Score applies the weights to one free-agent line
func (w Weights) Score(line *models.FreeAgentLine) float64 {
	perGame := func(total int) float64 {
		if line.Games == 0 {
			return 0
		}
		return float64(total) / float64(line.Games)
	}

	return w.AvgFpts*line.AvgFpts +
		w.Goals*perGame(line.Goals) +
		w.Assists*perGame(line.Assists) +
		w.Shots*perGame(line.Shots) +
		w.Hits*perGame(line.Hits) +
		w.BlockedShots*perGame(line.BlockedShots) +
		w.Games*float64(line.Games)
}

// Rank orders free-agent lines by score descending, breaking ties on
// ascending player id so output is stable, and keeps the top limit.
func Rank(lines []*models.FreeAgentLine, weights Weights, limit int) []Candidate {
	candidates := make([]Candidate, 0, len(lines))
	for _, line := range lines {
		candidates = append(candidates, Candidate{Line: line, Score: weights.Score(line)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Line.PlayerID < candidates[j].Line.PlayerID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// Ranker produces waiver wire reports from stored game stats
type Ranker struct {
	db *repository.Database
}

// NewRanker creates a waiver wire ranker
func NewRanker(db *repository.Database) *Ranker {
	return &Ranker{db: db}
}

// Options controls one report. Zero values fall back to defaults.
type Options struct {
	Season     string
	WindowDays int
	MinGames   int
	Limit      int
	Weights    Weights
	Now        time.Time
}

// Report ranks free agents by recent production over the trailing window
func (r *Ranker) Report(ctx context.Context, opts Options) ([]Candidate, error) {
	if opts.WindowDays == 0 {
		opts.WindowDays = DefaultWindowDays
	}
	if opts.MinGames == 0 {
		opts.MinGames = DefaultMinGames
	}
	if opts.Limit == 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Weights == (Weights{}) {
		opts.Weights = DefaultWeights()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}

	since := opts.Now.AddDate(0, 0, -opts.WindowDays)
	lines, err := r.db.GameStats.FreeAgentLines(ctx, since, opts.Season, opts.MinGames)
	if err != nil {
		return nil, err
	}

	ranked := Rank(lines, opts.Weights, opts.Limit)
	log.Info().
		Int("candidates", len(lines)).
		Int("ranked", len(ranked)).
		Int("window_days", opts.WindowDays).
		Msg("Waiver wire report built")

	return ranked, nil
}
