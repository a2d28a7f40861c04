package pick

import (
	"fmt"
	"time"

	"sportspicks/internal/teams"
)

// unrankedValue is assigned to teams absent from the ranking table. It keeps
// unknown teams at the bottom without making them an automatic max-disparity
// pick against a ranked opponent.
const unrankedValue = 99

// DefaultNFLRankings is the static team-strength table used when none is
// configured. Lower is stronger.
func DefaultNFLRankings() map[string]int {
	return map[string]int{
		"Eagles":     1,
		"Packers":    2,
		"Bills":      3,
		"Ravens":     4,
		"Lions":      5,
		"Rams":       6,
		"Chargers":   7,
		"Colts":      8,
		"Chiefs":     9,
		"Buccaneers": 10,
		"Broncos":    11,
		"49ers":      12,
		"Commanders": 13,
		"Falcons":    14,
		"Vikings":    15,
		"Cardinals":  16,
		"Steelers":   17,
		"Seahawks":   18,
		"Bengals":    19,
		"Texans":     20,
		"Cowboys":    21,
		"Patriots":   22,
		"Jaguars":    23,
		"Raiders":    24,
		"Bears":      25,
		"Browns":     26,
		"Titans":     27,
		"Jets":       28,
		"Giants":     29,
		"Dolphins":   30,
		"Saints":     31,
		"Panthers":   32,
	}
}

var rankStarBands = []struct {
	floor int
	stars int
}{
	{24, 5},
	{13, 4},
	{8, 3},
	{5, 2},
	{1, 1},
}

// RankStars maps a rank disparity to a 0-5 confidence rating. Zero disparity
// means no edge and gets zero stars.
func RankStars(disparity int) int {
	for _, band := range rankStarBands {
		if disparity >= band.floor {
			return band.stars
		}
	}
	return 0
}

// RankedGame is one scheduled game for the rank-disparity evaluator.
type RankedGame struct {
	GameRef  int64
	HomeTeam string
	AwayTeam string
	GameTime *time.Time
}

// Ranking wraps a team-strength table with fuzzy name lookup, so provider
// names ("Philadelphia Eagles") resolve against table keys ("Eagles").
type Ranking struct {
	byName map[string]int
}

func NewRanking(table map[string]int) *Ranking {
	if len(table) == 0 {
		table = DefaultNFLRankings()
	}
	byName := make(map[string]int, len(table))
	for name, rank := range table {
		byName[teams.Normalize(name)] = rank
	}
	return &Ranking{byName: byName}
}

// Rank resolves a team name to its rank, or unrankedValue when unknown.
func (r *Ranking) Rank(team string) int {
	norm := teams.Normalize(team)
	if rank, ok := r.byName[norm]; ok {
		return rank
	}
	for key, rank := range r.byName {
		if teams.Match(key, norm) {
			return rank
		}
	}
	return unrankedValue
}

// EvaluateRankDisparity scans the slate for the game with the widest rank gap
// and backs the stronger team. Ties keep the first game encountered. Returns
// nil for an empty slate.
func EvaluateRankDisparity(games []RankedGame, ranking *Ranking) *Selection {
	if ranking == nil {
		ranking = NewRanking(nil)
	}
	best := -1
	var selection *Selection
	for _, g := range games {
		homeRank := ranking.Rank(g.HomeTeam)
		awayRank := ranking.Rank(g.AwayTeam)
		disparity := homeRank - awayRank
		if disparity < 0 {
			disparity = -disparity
		}
		if disparity <= best {
			continue
		}
		best = disparity
		pickHome := homeRank < awayRank
		team := g.AwayTeam
		if pickHome {
			team = g.HomeTeam
		}
		selection = &Selection{
			GameRef:      g.GameRef,
			HomeTeam:     g.HomeTeam,
			AwayTeam:     g.AwayTeam,
			SelectedSide: sideFor(pickHome),
			PickTeam:     team,
			Label:        team + " ML",
			StarRating:   RankStars(disparity),
			Rationale:    fmt.Sprintf("%s holds a %d-spot ranking edge in this matchup.", team, disparity),
			Metrics: map[string]any{
				"home_rank": homeRank,
				"away_rank": awayRank,
				"disparity": disparity,
			},
			GameTime: g.GameTime,
		}
	}
	return selection
}
