package mlbstats

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Game is one scheduled game, normalized from the schedule feed.
type Game struct {
	GamePk           int64
	HomeTeam         string
	AwayTeam         string
	HomeTeamID       int64
	AwayTeamID       int64
	HomePitcherID    int64 // 0 when no probable pitcher announced
	AwayPitcherID    int64
	SeriesGameNumber int // 0 when no series metadata
	HomeSeriesWins   int
	AwaySeriesWins   int
	GameTime         *time.Time
}

// GameResult is the outcome of a finished game.
type GameResult struct {
	Final      bool
	HomeName   string
	AwayName   string
	HomeScore  int
	AwayScore  int
	WinnerTeam string
	Push       bool
}

type scheduleResponse struct {
	Dates []struct {
		Games []scheduleGame `json:"games"`
	} `json:"dates"`
}

type scheduleGame struct {
	GamePk   int64  `json:"gamePk"`
	GameDate string `json:"gameDate"`
	Teams    struct {
		Home scheduleSide `json:"home"`
		Away scheduleSide `json:"away"`
	} `json:"teams"`
	SeriesStatus *struct {
		SeriesGameNumber int `json:"seriesGameNumber"`
		HomeWins         int `json:"homeWins"`
		AwayWins         int `json:"awayWins"`
	} `json:"seriesStatus"`
}

type scheduleSide struct {
	Team struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	ProbablePitcher *struct {
		ID int64 `json:"id"`
	} `json:"probablePitcher"`
}

func parseSchedule(body []byte) ([]Game, error) {
	var sched scheduleResponse
	if err := json.Unmarshal(body, &sched); err != nil {
		return nil, err
	}
	if len(sched.Dates) == 0 {
		return nil, nil
	}
	games := make([]Game, 0, len(sched.Dates[0].Games))
	for _, g := range sched.Dates[0].Games {
		game := Game{
			GamePk:     g.GamePk,
			HomeTeam:   g.Teams.Home.Team.Name,
			AwayTeam:   g.Teams.Away.Team.Name,
			HomeTeamID: g.Teams.Home.Team.ID,
			AwayTeamID: g.Teams.Away.Team.ID,
		}
		if g.Teams.Home.ProbablePitcher != nil {
			game.HomePitcherID = g.Teams.Home.ProbablePitcher.ID
		}
		if g.Teams.Away.ProbablePitcher != nil {
			game.AwayPitcherID = g.Teams.Away.ProbablePitcher.ID
		}
		if g.SeriesStatus != nil {
			game.SeriesGameNumber = g.SeriesStatus.SeriesGameNumber
			game.HomeSeriesWins = g.SeriesStatus.HomeWins
			game.AwaySeriesWins = g.SeriesStatus.AwayWins
		}
		if ts, err := time.Parse(time.RFC3339, g.GameDate); err == nil {
			t := ts.UTC()
			game.GameTime = &t
		}
		games = append(games, game)
	}
	return games, nil
}

type statsResponse struct {
	Stats []struct {
		Splits []struct {
			Stat struct {
				WHIP string `json:"whip"`
			} `json:"stat"`
		} `json:"splits"`
	} `json:"stats"`
}

func parseSeasonWHIP(body []byte) (*float64, error) {
	var stats statsResponse
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, err
	}
	if len(stats.Stats) == 0 || len(stats.Stats[0].Splits) == 0 {
		return nil, nil
	}
	raw := strings.TrimSpace(stats.Stats[0].Splits[0].Stat.WHIP)
	if raw == "" {
		return nil, nil
	}
	whip, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, nil
	}
	return &whip, nil
}

type liveFeedResponse struct {
	GameData struct {
		Status struct {
			AbstractGameState string `json:"abstractGameState"`
		} `json:"status"`
		Teams struct {
			Home liveFeedTeam `json:"home"`
			Away liveFeedTeam `json:"away"`
		} `json:"teams"`
	} `json:"gameData"`
	LiveData struct {
		Linescore struct {
			Teams struct {
				Home struct {
					Runs *int `json:"runs"`
				} `json:"home"`
				Away struct {
					Runs *int `json:"runs"`
				} `json:"away"`
			} `json:"teams"`
		} `json:"linescore"`
	} `json:"liveData"`
}

type liveFeedTeam struct {
	Name     string `json:"name"`
	TeamName string `json:"teamName"`
}

func (t liveFeedTeam) displayName() string {
	if t.TeamName != "" {
		return t.TeamName
	}
	return t.Name
}

func parseGameResult(body []byte) (*GameResult, error) {
	var feed liveFeedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, err
	}
	if feed.GameData.Status.AbstractGameState != "Final" {
		return &GameResult{Final: false}, nil
	}
	homeRuns := feed.LiveData.Linescore.Teams.Home.Runs
	awayRuns := feed.LiveData.Linescore.Teams.Away.Runs
	if homeRuns == nil || awayRuns == nil {
		return &GameResult{Final: false}, nil
	}

	result := &GameResult{
		Final:     true,
		HomeName:  feed.GameData.Teams.Home.displayName(),
		AwayName:  feed.GameData.Teams.Away.displayName(),
		HomeScore: *homeRuns,
		AwayScore: *awayRuns,
		Push:      *homeRuns == *awayRuns,
	}
	if result.HomeScore > result.AwayScore {
		result.WinnerTeam = result.HomeName
	} else if result.AwayScore > result.HomeScore {
		result.WinnerTeam = result.AwayName
	}
	return result, nil
}
