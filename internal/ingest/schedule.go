package ingest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"nhlfantasy/internal/models"

	"github.com/rs/zerolog/log"
)

// BuildWeeklySchedule buckets a team's regular-season games into
// Monday-to-Sunday weeks. The week key is the Monday's date.
func BuildWeeklySchedule(team string, games []models.ScheduleGame) ([]*models.TeamSchedule, error) {
	type week struct {
		monday    time.Time
		opponents []string
	}
	weeks := make(map[string]*week)

	for _, game := range games {
		if !game.IsRegularSeason() {
			continue
		}

		gameDate, err := time.Parse("2006-01-02", game.GameDate)
		if err != nil {
			return nil, fmt.Errorf("game %d has malformed date %q: %w", game.ID, game.GameDate, err)
		}

		opponent := game.HomeTeam.Abbrev
		if game.HomeTeam.Abbrev == team {
			opponent = game.AwayTeam.Abbrev
		}

		monday := mondayOf(gameDate)
		key := monday.Format("2006-01-02")
		if weeks[key] == nil {
			weeks[key] = &week{monday: monday}
		}
		weeks[key].opponents = append(weeks[key].opponents, opponent)
	}

	var entries []*models.TeamSchedule
	for key, w := range weeks {
		entries = append(entries, &models.TeamSchedule{
			Team:       team,
			Week:       key,
			MondayDate: w.monday,
			SundayDate: w.monday.AddDate(0, 0, 6),
			GameCount:  len(w.opponents),
			Opponents:  strings.Join(w.opponents, ","),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Week < entries[j].Week })
	return entries, nil
}

func mondayOf(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}

// SyncClubSchedule fetches one team's season schedule and upserts its
// weekly rows.
func (f *Fetcher) SyncClubSchedule(ctx context.Context, team string) (int, error) {
	sched, err := f.client.FetchClubSchedule(ctx, team, f.season)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch club schedule for %s: %w", team, err)
	}

	entries, err := BuildWeeklySchedule(team, sched.Games)
	if err != nil {
		return 0, err
	}

	saved := 0
	for _, entry := range entries {
		if err := f.db.Schedule.Upsert(ctx, entry); err != nil {
			log.Error().Err(err).Str("team", team).Str("week", entry.Week).Msg("Failed to save schedule week")
			continue
		}
		saved++
	}

	log.Info().Str("team", team).Int("weeks", saved).Msg("Club schedule synced")
	return saved, nil
}
