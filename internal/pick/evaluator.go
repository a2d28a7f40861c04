// Package pick holds the heuristic evaluators. Each evaluator is a pure
// function over one slate of games: no clocks, no I/O, no storage. The
// generation service feeds them provider data and persists whatever they
// select.
package pick

import (
	"time"

	"sportspicks/internal/models"
)

// Selection is an evaluator's choice for the day: one game, one side, with a
// confidence rating and the inputs that produced it.
type Selection struct {
	GameRef      int64
	HomeTeam     string
	AwayTeam     string
	SelectedSide string
	PickTeam     string
	Label        string
	StarRating   int
	Rationale    string
	Metrics      map[string]any
	GameTime     *time.Time
}

func sideFor(pickHome bool) string {
	if pickHome {
		return models.SideHome
	}
	return models.SideAway
}
