package models

import "fmt"

// Typed shapes for NHL web API responses. Only the fields the pipeline
// consumes are declared; decoding validates the parts we depend on.

// LocalizedName is the API's localized string wrapper.
type LocalizedName struct {
	Default string `json:"default"`
}

// ScheduleTeam identifies one side of a scheduled game.
type ScheduleTeam struct {
	ID         int           `json:"id"`
	Abbrev     string        `json:"abbrev"`
	CommonName LocalizedName `json:"commonName"`
}

// ScheduleGame is a single game from a schedule endpoint.
type ScheduleGame struct {
	ID           int          `json:"id"`
	GameType     int          `json:"gameType"`
	GameDate     string       `json:"gameDate"` // "2025-11-09"
	StartTimeUTC string       `json:"startTimeUTC"`
	HomeTeam     ScheduleTeam `json:"homeTeam"`
	AwayTeam     ScheduleTeam `json:"awayTeam"`
}

// RegularSeasonGameType is the gameType code for regular-season games.
const RegularSeasonGameType = 2

// IsRegularSeason reports whether the game counts for fantasy scoring.
func (g *ScheduleGame) IsRegularSeason() bool {
	return g.GameType == RegularSeasonGameType
}

// ClubScheduleResponse is the club-schedule-season endpoint payload.
type ClubScheduleResponse struct {
	Games []ScheduleGame `json:"games"`
}

// GameDay groups a date's games inside a weekly schedule payload.
type GameDay struct {
	Date  string         `json:"date"`
	Games []ScheduleGame `json:"games"`
}

// DateScheduleResponse is the schedule/{date} endpoint payload.
type DateScheduleResponse struct {
	GameWeek []GameDay `json:"gameWeek"`
}

// GamesOn returns the games scheduled for an exact date.
func (r *DateScheduleResponse) GamesOn(date string) []ScheduleGame {
	for _, day := range r.GameWeek {
		if day.Date == date {
			return day.Games
		}
	}
	return nil
}

// SkaterBoxscoreStats is one skater's line inside a boxscore. Power-play and
// short-handed points are not present here; they come from the player game
// log endpoint.
type SkaterBoxscoreStats struct {
	PlayerID      int           `json:"playerId"`
	Name          LocalizedName `json:"name"`
	SweaterNumber int           `json:"sweaterNumber"`
	Position      string        `json:"position"`
	Goals         int           `json:"goals"`
	Assists       int           `json:"assists"`
	SOG           int           `json:"sog"`
	BlockedShots  int           `json:"blockedShots"`
	Hits          int           `json:"hits"`
	Shifts        int           `json:"shifts"`
	TOI           string        `json:"toi"` // "MM:SS"
}

// GoalieBoxscoreStats is one goalie's line inside a boxscore.
type GoalieBoxscoreStats struct {
	PlayerID      int           `json:"playerId"`
	Name          LocalizedName `json:"name"`
	SweaterNumber int           `json:"sweaterNumber"`
	Position      string        `json:"position"`
	Saves         int           `json:"saves"`
	GoalsAgainst  int           `json:"goalsAgainst"`
	Decision      string        `json:"decision"` // "W", "L", "O", or empty
}

// TeamBoxscoreStats holds one team's player lines.
type TeamBoxscoreStats struct {
	Forwards []SkaterBoxscoreStats `json:"forwards"`
	Defense  []SkaterBoxscoreStats `json:"defense"`
	Goalies  []GoalieBoxscoreStats `json:"goalies"`
}

// PlayerByGameStats splits boxscore lines by side.
type PlayerByGameStats struct {
	AwayTeam TeamBoxscoreStats `json:"awayTeam"`
	HomeTeam TeamBoxscoreStats `json:"homeTeam"`
}

// BoxscoreTeam identifies a boxscore side.
type BoxscoreTeam struct {
	ID         int           `json:"id"`
	Abbrev     string        `json:"abbrev"`
	CommonName LocalizedName `json:"commonName"`
}

// BoxscoreResponse is the gamecenter boxscore payload.
type BoxscoreResponse struct {
	ID                int               `json:"id"`
	Season            int               `json:"season"` // e.g. 20252026
	GameType          int               `json:"gameType"`
	GameDate          string            `json:"gameDate"`
	HomeTeam          BoxscoreTeam      `json:"homeTeam"`
	AwayTeam          BoxscoreTeam      `json:"awayTeam"`
	PlayerByGameStats PlayerByGameStats `json:"playerByGameStats"`
}

// Validate checks the response shape before it enters the merge pipeline.
func (b *BoxscoreResponse) Validate() error {
	if b.ID == 0 {
		return fmt.Errorf("boxscore missing game id")
	}
	if b.GameDate == "" {
		return fmt.Errorf("boxscore %d missing game date", b.ID)
	}
	if b.HomeTeam.Abbrev == "" || b.AwayTeam.Abbrev == "" {
		return fmt.Errorf("boxscore %d missing team abbrevs", b.ID)
	}
	return nil
}

// SeasonID renders the season as the API's eight-digit identifier.
func (b *BoxscoreResponse) SeasonID() string {
	return fmt.Sprintf("%d", b.Season)
}

// GameLogEntry is one game from a player's season game log. Used to pick up
// power-play and short-handed points, which the boxscore omits.
type GameLogEntry struct {
	GameID            int    `json:"gameId"`
	GameDate          string `json:"gameDate"`
	TeamAbbrev        string `json:"teamAbbrev"`
	PowerPlayPoints   int    `json:"powerPlayPoints"`
	ShorthandedPoints int    `json:"shorthandedPoints"`
}

// GameLogResponse is the player game-log endpoint payload.
type GameLogResponse struct {
	GameLog []GameLogEntry `json:"gameLog"`
}
