package pick

import (
	"fmt"
	"time"
)

// SeriesGame is one scheduled game with its series standing. Zero values mean
// the schedule feed carried no series metadata for the game.
type SeriesGame struct {
	GameRef          int64
	HomeTeam         string
	AwayTeam         string
	SeriesGameNumber int
	HomeSeriesWins   int
	AwaySeriesWins   int
	GameTime         *time.Time
}

// EvaluateSeriesSweep finds the first game 3 where one side is down 0-2 and
// backs the trailing team to avoid the sweep. The home side is checked before
// the away side within a game. Series picks carry no star rating.
func EvaluateSeriesSweep(games []SeriesGame) *Selection {
	for _, g := range games {
		if g.SeriesGameNumber != 3 {
			continue
		}
		var pickHome bool
		switch {
		case g.HomeSeriesWins == 0 && g.AwaySeriesWins == 2:
			pickHome = true
		case g.AwaySeriesWins == 0 && g.HomeSeriesWins == 2:
			pickHome = false
		default:
			continue
		}
		team := g.AwayTeam
		if pickHome {
			team = g.HomeTeam
		}
		return &Selection{
			GameRef:      g.GameRef,
			HomeTeam:     g.HomeTeam,
			AwayTeam:     g.AwayTeam,
			SelectedSide: sideFor(pickHome),
			PickTeam:     team,
			Label:        fmt.Sprintf("%s Game 3 ML", team),
			StarRating:   0,
			Rationale:    "Down 0-2 angle.",
			Metrics: map[string]any{
				"series_game_number": g.SeriesGameNumber,
				"home_series_wins":   g.HomeSeriesWins,
				"away_series_wins":   g.AwaySeriesWins,
			},
			GameTime: g.GameTime,
		}
	}
	return nil
}
