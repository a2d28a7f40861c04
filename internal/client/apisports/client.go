package apisports

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the API-Sports american-football API for NFL schedules and
// final scores. The key travels in a header; it is never baked into URLs.
type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apisports API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host, apiKey string) *Client {
	if host == "" {
		host = "https://v1.american-football.api-sports.io"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *Client) Configured() bool {
	return c != nil && strings.TrimSpace(c.apiKey) != ""
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-apisports-key", c.apiKey)
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

// Game is one scheduled NFL game.
type Game struct {
	ID       int64
	HomeTeam string
	AwayTeam string
	Kickoff  *time.Time
}

// GameResult is a final NFL score. Final is false until the game reaches the
// finished status.
type GameResult struct {
	Final     bool
	HomeName  string
	AwayName  string
	HomeScore int
	AwayScore int
}

type gamesResponse struct {
	Response []gameEntry `json:"response"`
}

type gameEntry struct {
	Game struct {
		ID   int64 `json:"id"`
		Date struct {
			Date string `json:"date"`
			Time string `json:"time"`
		} `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"game"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Scores struct {
		Home struct {
			Total *int `json:"total"`
		} `json:"home"`
		Away struct {
			Total *int `json:"total"`
		} `json:"away"`
	} `json:"scores"`
}

// ListWeekGames returns the NFL slate for one regular-season week.
func (c *Client) ListWeekGames(ctx context.Context, season, week int) ([]Game, error) {
	if !c.Configured() {
		return nil, &APIError{Status: http.StatusUnauthorized, Body: "api key not configured"}
	}
	query := url.Values{}
	query.Set("league", "1")
	query.Set("season", fmt.Sprintf("%d", season))
	query.Set("week", fmt.Sprintf("%d", week))
	body, err := c.doRequest(ctx, "/games", query)
	if err != nil {
		return nil, err
	}
	var parsed gamesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	games := make([]Game, 0, len(parsed.Response))
	for _, entry := range parsed.Response {
		game := Game{
			ID:       entry.Game.ID,
			HomeTeam: entry.Teams.Home.Name,
			AwayTeam: entry.Teams.Away.Name,
		}
		if entry.Game.Date.Date != "" {
			stamp := entry.Game.Date.Date
			if entry.Game.Date.Time != "" {
				stamp += "T" + entry.Game.Date.Time + ":00Z"
			} else {
				stamp += "T00:00:00Z"
			}
			if ts, err := time.Parse(time.RFC3339, stamp); err == nil {
				t := ts.UTC()
				game.Kickoff = &t
			}
		}
		games = append(games, game)
	}
	return games, nil
}

// GetGameResult looks up one game by its API-Sports id.
func (c *Client) GetGameResult(ctx context.Context, gameID int64) (*GameResult, error) {
	if !c.Configured() {
		return nil, &APIError{Status: http.StatusUnauthorized, Body: "api key not configured"}
	}
	if gameID <= 0 {
		return &GameResult{Final: false}, nil
	}
	query := url.Values{}
	query.Set("id", fmt.Sprintf("%d", gameID))
	body, err := c.doRequest(ctx, "/games", query)
	if err != nil {
		return nil, err
	}
	var parsed gamesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Response) == 0 {
		return &GameResult{Final: false}, nil
	}
	entry := parsed.Response[0]
	// "FT" is a regulation finish, "AOT" a game decided after overtime.
	short := entry.Game.Status.Short
	if !strings.EqualFold(short, "FT") && !strings.EqualFold(short, "AOT") {
		return &GameResult{Final: false}, nil
	}
	if entry.Scores.Home.Total == nil || entry.Scores.Away.Total == nil {
		return &GameResult{Final: false}, nil
	}
	return &GameResult{
		Final:     true,
		HomeName:  entry.Teams.Home.Name,
		AwayName:  entry.Teams.Away.Name,
		HomeScore: *entry.Scores.Home.Total,
		AwayScore: *entry.Scores.Away.Total,
	}, nil
}
