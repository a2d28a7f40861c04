package pick

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PitcherMatchup is one game with both probable pitchers' season WHIP. A nil
// WHIP means the pitcher is unannounced or has no season splits yet; such
// games are excluded rather than guessed at.
type PitcherMatchup struct {
	GameRef  int64
	HomeTeam string
	AwayTeam string
	HomeWHIP *float64
	AwayWHIP *float64
	GameTime *time.Time
}

var (
	whipEdgeFloor = decimal.NewFromFloat(0.25)

	whipStarBands = []struct {
		floor decimal.Decimal
		stars int
	}{
		{decimal.NewFromFloat(0.71), 5},
		{decimal.NewFromFloat(0.47), 4},
		{decimal.NewFromFloat(0.36), 3},
		{decimal.NewFromFloat(0.25), 2},
	}
)

// WHIPStars maps a WHIP gap to a 1-5 confidence rating.
func WHIPStars(gap decimal.Decimal) int {
	for _, band := range whipStarBands {
		if gap.GreaterThanOrEqual(band.floor) {
			return band.stars
		}
	}
	return 1
}

type whipCandidate struct {
	matchup   PitcherMatchup
	gap       decimal.Decimal
	lowerWHIP decimal.Decimal
	pickHome  bool
}

// EvaluateWHIP selects the day's WHIP-differential pick. Among matchups with
// a gap of at least 0.25 it takes the widest gap; when no matchup clears the
// floor it falls back to the game containing the single lowest WHIP on the
// slate. Ties keep the first candidate encountered. Returns nil when no
// matchup has both WHIPs.
func EvaluateWHIP(matchups []PitcherMatchup) *Selection {
	var candidates []whipCandidate
	for _, m := range matchups {
		if m.HomeWHIP == nil || m.AwayWHIP == nil {
			continue
		}
		home := decimal.NewFromFloat(*m.HomeWHIP)
		away := decimal.NewFromFloat(*m.AwayWHIP)
		c := whipCandidate{
			matchup:  m,
			gap:      home.Sub(away).Abs(),
			pickHome: home.LessThan(away),
		}
		c.lowerWHIP = decimal.Min(home, away)
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return nil
	}

	var winner *whipCandidate
	for i := range candidates {
		c := &candidates[i]
		if c.gap.LessThan(whipEdgeFloor) {
			continue
		}
		if winner == nil || c.gap.GreaterThan(winner.gap) {
			winner = c
		}
	}
	if winner == nil {
		winner = &candidates[0]
		for i := range candidates[1:] {
			c := &candidates[i+1]
			if c.lowerWHIP.LessThan(winner.lowerWHIP) {
				winner = c
			}
		}
	}

	m := winner.matchup
	team := m.AwayTeam
	if winner.pickHome {
		team = m.HomeTeam
	}
	rationale := fmt.Sprintf("%s backed by lower WHIP (%s).", team, winner.lowerWHIP.StringFixed(3))
	if winner.gap.GreaterThanOrEqual(whipEdgeFloor) {
		rationale = fmt.Sprintf("%s simulates to outperform their odds by %s.", team, winner.gap.StringFixed(3))
	}
	return &Selection{
		GameRef:      m.GameRef,
		HomeTeam:     m.HomeTeam,
		AwayTeam:     m.AwayTeam,
		SelectedSide: sideFor(winner.pickHome),
		PickTeam:     team,
		Label:        team + " ML",
		StarRating:   WHIPStars(winner.gap),
		Rationale:    rationale,
		Metrics: map[string]any{
			"home_whip": *m.HomeWHIP,
			"away_whip": *m.AwayWHIP,
			"whip_gap":  winner.gap.InexactFloat64(),
		},
		GameTime: m.GameTime,
	}
}
