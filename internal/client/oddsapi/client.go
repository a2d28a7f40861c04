package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Sport keys recognized by The Odds API.
const (
	SportKeyMLB = "baseball_mlb"
	SportKeyNFL = "americanfootball_nfl"
)

// Client fetches moneyline prices from The Odds API. Region and market are
// fixed at construction so every lookup prices the same book.
type Client struct {
	host       string
	apiKey     string
	region     string
	market     string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("oddsapi API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host, apiKey, region, market string) *Client {
	if host == "" {
		host = "https://api.the-odds-api.com"
	}
	host = strings.TrimRight(host, "/")
	if region == "" {
		region = "us"
	}
	if market == "" {
		market = "h2h"
	}
	return &Client{
		host:       host,
		apiKey:     apiKey,
		region:     region,
		market:     market,
		httpClient: httpClient,
	}
}

// Configured reports whether an API key was provided. Without one every
// lookup would fail auth, so callers skip the odds step entirely.
func (c *Client) Configured() bool {
	return c != nil && strings.TrimSpace(c.apiKey) != ""
}

type oddsEvent struct {
	Bookmakers []struct {
		Markets []struct {
			Key      string `json:"key"`
			Outcomes []struct {
				Name  string   `json:"name"`
				Price *float64 `json:"price"`
			} `json:"outcomes"`
		} `json:"markets"`
	} `json:"bookmakers"`
}

// GetMoneylineOdds returns the American price for the named selection in the
// given event, or nil when no book has posted a market yet. The provider
// answers 422 for events it does not (yet) carry; that is "no market", not
// a failure.
func (c *Client) GetMoneylineOdds(ctx context.Context, sportKey string, eventRef int64, selection string) (*int, error) {
	if !c.Configured() {
		return nil, &APIError{Status: http.StatusUnauthorized, Body: "api key not configured"}
	}
	query := url.Values{}
	query.Set("apiKey", c.apiKey)
	query.Set("regions", c.region)
	query.Set("markets", c.market)
	query.Set("eventIds", fmt.Sprintf("%d", eventRef))
	query.Set("oddsFormat", "american")

	fullURL := fmt.Sprintf("%s/v4/sports/%s/odds?%s", c.host, url.PathEscape(sportKey), query.Encode())
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
	if resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	var events []oddsEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	for _, bm := range events[0].Bookmakers {
		for _, mkt := range bm.Markets {
			if mkt.Key != c.market {
				continue
			}
			for _, outcome := range mkt.Outcomes {
				if outcome.Price != nil && strings.EqualFold(outcome.Name, selection) {
					price := int(*outcome.Price)
					return &price, nil
				}
			}
		}
	}
	return nil, nil
}
