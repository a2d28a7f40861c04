package mlbstats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

// Client talks to the public MLB Stats API. It covers the three lookups the
// pick pipeline needs: today's schedule, a pitcher's season WHIP, and the
// final result of a game.
type Client struct {
	host       string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mlbstats API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host string, rps float64) *Client {
	if host == "" {
		host = "https://statsapi.mlb.com"
	}
	host = strings.TrimRight(host, "/")
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		host:       host,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	fullURL := c.host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// ListTodayGames returns the schedule for the given date ("2006-01-02"),
// hydrated with probable pitchers and series status.
func (c *Client) ListTodayGames(ctx context.Context, date string) ([]Game, error) {
	query := url.Values{}
	query.Set("sportId", "1")
	query.Set("hydrate", "probablePitcher,seriesStatus,team")
	query.Set("date", date)
	body, err := c.doRequest(ctx, "/api/v1/schedule", query)
	if err != nil {
		return nil, err
	}
	return parseSchedule(body)
}

// GetPitcherSeasonWHIP returns the pitcher's season WHIP, or nil when the
// stats feed has no season splits for them yet. Absence is data, not an error.
func (c *Client) GetPitcherSeasonWHIP(ctx context.Context, pitcherID int64, season int) (*float64, error) {
	if pitcherID <= 0 {
		return nil, nil
	}
	query := url.Values{}
	query.Set("stats", "season")
	query.Set("season", fmt.Sprintf("%d", season))
	query.Set("group", "pitching")
	body, err := c.doRequest(ctx, fmt.Sprintf("/api/v1/people/%d/stats", pitcherID), query)
	if err != nil {
		return nil, err
	}
	return parseSeasonWHIP(body)
}

// GetGameResult returns the final outcome of a game. A game that has not
// finished (or has no linescore yet) comes back with Final=false.
func (c *Client) GetGameResult(ctx context.Context, gamePk int64) (*GameResult, error) {
	if gamePk <= 0 {
		return &GameResult{Final: false}, nil
	}
	body, err := c.doRequest(ctx, fmt.Sprintf("/api/v1.1/game/%d/feed/live", gamePk), nil)
	if err != nil {
		return nil, err
	}
	return parseGameResult(body)
}
