package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"nhlfantasy/internal/cache"
	"nhlfantasy/internal/metrics"
	"nhlfantasy/internal/models"
)

// Client is the NHL web API client. Requests are rate limited, retried with
// exponential backoff on transient failures, and served from the fetch
// cache when a prior run already stored the response.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter chan struct{} // Rate limiting semaphore
	maxRetries  int
	retryDelay  time.Duration

	cache       *cache.RedisCache // nil disables caching
	boxscoreTTL time.Duration
	scheduleTTL time.Duration
}

// Options tunes the client beyond its defaults.
type Options struct {
	Concurrency int
	BoxscoreTTL time.Duration
	ScheduleTTL time.Duration
}

// NewClient creates a new NHL API client. cache may be nil, in which case
// every request goes to the network.
func NewClient(baseURL string, timeout time.Duration, fetchCache *cache.RedisCache, opts Options) *Client {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 20
	}

	rateLimiter := make(chan struct{}, concurrency)
	for i := 0; i < concurrency; i++ {
		rateLimiter <- struct{}{}
	}

	return &Client{
		baseURL:     baseURL,
		rateLimiter: rateLimiter,
		maxRetries:  3,
		retryDelay:  1 * time.Second,
		cache:       fetchCache,
		boxscoreTTL: opts.BoxscoreTTL,
		scheduleTTL: opts.ScheduleTTL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request with retry logic and rate limiting. When ttl
// is set and a cache is attached, the response is looked up by the request
// path first; a hit short-circuits the network call entirely. endpoint is
// the metric label for the endpoint family, never the full path.
func (c *Client) get(ctx context.Context, endpoint, path string, ttl time.Duration, cacheable bool) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)
	cacheKey := "nhl:" + path

	if cacheable && c.cache != nil {
		body, hit, err := c.cache.Get(ctx, cacheKey)
		if err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("Cache lookup failed, falling through to network")
		} else if hit {
			log.Debug().Str("key", cacheKey).Msg("Fetch cache hit")
			return body, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying API request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, retryable, err := c.doOnce(ctx, endpoint, url, attempt)
		if err == nil {
			if cacheable && c.cache != nil {
				if cerr := c.cache.Set(ctx, cacheKey, body, ttl); cerr != nil {
					log.Warn().Err(cerr).Str("key", cacheKey).Msg("Failed to write fetch cache")
				}
			}
			return body, nil
		}

		lastErr = err
		if !retryable || attempt == c.maxRetries {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

// doOnce issues a single attempt under the rate-limit semaphore. The bool
// return reports whether the failure is retryable.
func (c *Client) doOnce(ctx context.Context, endpoint, url string, attempt int) ([]byte, bool, error) {
	// Rate limiting: acquire semaphore
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-c.rateLimiter:
	}
	defer func() { c.rateLimiter <- struct{}{} }()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "nhl-fantasy-tool/1.0")

	log.Debug().
		Str("url", url).
		Int("attempt", attempt+1).
		Msg("Making API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(endpoint, "network_error", time.Since(start).Seconds())
		return nil, true, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordAPICall(endpoint, "read_error", time.Since(start).Seconds())
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	metrics.RecordAPICall(endpoint, fmt.Sprintf("%d", resp.StatusCode), time.Since(start).Seconds())

	switch resp.StatusCode {
	case http.StatusOK:
		log.Debug().
			Str("url", url).
			Int("status", resp.StatusCode).
			Int("size", len(body)).
			Msg("API request successful")
		return body, false, nil

	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		log.Warn().
			Str("url", url).
			Int("status", resp.StatusCode).
			Int("attempt", attempt+1).
			Msg("Received retryable error, will retry")
		return nil, true, fmt.Errorf("API returned retryable status %d: %s", resp.StatusCode, string(body))

	case http.StatusUnauthorized, http.StatusForbidden:
		// Don't retry auth errors
		return nil, false, fmt.Errorf("API authentication failed (status %d): %s", resp.StatusCode, string(body))

	default:
		// Other errors - don't retry
		return nil, false, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
}

// FetchClubSchedule fetches a team's full season schedule
func (c *Client) FetchClubSchedule(ctx context.Context, teamAbbrev, seasonID string) (*models.ClubScheduleResponse, error) {
	path := fmt.Sprintf("club-schedule-season/%s/%s", teamAbbrev, seasonID)
	body, err := c.get(ctx, "club_schedule", path, c.scheduleTTL, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch club schedule for %s: %w", teamAbbrev, err)
	}

	var schedule models.ClubScheduleResponse
	if err := json.Unmarshal(body, &schedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal club schedule for %s: %w", teamAbbrev, err)
	}

	return &schedule, nil
}

// FetchScheduleByDate fetches the league schedule week containing a date
func (c *Client) FetchScheduleByDate(ctx context.Context, date string) (*models.DateScheduleResponse, error) {
	path := fmt.Sprintf("schedule/%s", date)
	body, err := c.get(ctx, "schedule", path, c.scheduleTTL, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for %s: %w", date, err)
	}

	var schedule models.DateScheduleResponse
	if err := json.Unmarshal(body, &schedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule for %s: %w", date, err)
	}

	return &schedule, nil
}

// FetchBoxscore fetches the full boxscore for a single game
func (c *Client) FetchBoxscore(ctx context.Context, gameID int) (*models.BoxscoreResponse, error) {
	path := fmt.Sprintf("gamecenter/%d/boxscore", gameID)
	body, err := c.get(ctx, "boxscore", path, c.boxscoreTTL, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch boxscore %d: %w", gameID, err)
	}

	var boxscore models.BoxscoreResponse
	if err := json.Unmarshal(body, &boxscore); err != nil {
		return nil, fmt.Errorf("failed to unmarshal boxscore %d: %w", gameID, err)
	}
	if err := boxscore.Validate(); err != nil {
		return nil, fmt.Errorf("invalid boxscore %d: %w", gameID, err)
	}

	return &boxscore, nil
}

// FetchPlayerGameLog fetches a player's regular-season game log. The log is
// the only source for power-play and short-handed points.
func (c *Client) FetchPlayerGameLog(ctx context.Context, playerID int, seasonID string) (*models.GameLogResponse, error) {
	path := fmt.Sprintf("player/%d/game-log/%s/%d", playerID, seasonID, models.RegularSeasonGameType)
	body, err := c.get(ctx, "gamelog", path, c.scheduleTTL, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game log for player %d: %w", playerID, err)
	}

	var gameLog models.GameLogResponse
	if err := json.Unmarshal(body, &gameLog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game log for player %d: %w", playerID, err)
	}

	return &gameLog, nil
}
