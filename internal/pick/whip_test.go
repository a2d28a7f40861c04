package pick

import (
	"testing"

	"github.com/shopspring/decimal"

	"sportspicks/internal/models"
)

func f(v float64) *float64 { return &v }

func TestWHIPStars(t *testing.T) {
	cases := []struct {
		gap  float64
		want int
	}{
		{0.80, 5},
		{0.71, 5},
		{0.50, 4},
		{0.47, 4},
		{0.40, 3},
		{0.36, 3},
		{0.30, 2},
		{0.25, 2},
		{0.10, 1},
		{0, 1},
	}
	for _, tc := range cases {
		if got := WHIPStars(decimal.NewFromFloat(tc.gap)); got != tc.want {
			t.Errorf("WHIPStars(%v) = %d, want %d", tc.gap, got, tc.want)
		}
	}
}

func TestEvaluateWHIPPicksWidestGap(t *testing.T) {
	matchups := []PitcherMatchup{
		{GameRef: 1, HomeTeam: "Guardians", AwayTeam: "Tigers", HomeWHIP: f(1.10), AwayWHIP: f(1.40)},
		{GameRef: 2, HomeTeam: "Dodgers", AwayTeam: "Rockies", HomeWHIP: f(1.00), AwayWHIP: f(1.80)},
	}
	sel := EvaluateWHIP(matchups)
	if sel == nil {
		t.Fatal("expected a selection")
	}
	if sel.GameRef != 2 {
		t.Fatalf("GameRef = %d, want 2", sel.GameRef)
	}
	if sel.SelectedSide != models.SideHome || sel.PickTeam != "Dodgers" {
		t.Fatalf("side/team = %s/%s, want home/Dodgers", sel.SelectedSide, sel.PickTeam)
	}
	if sel.StarRating != 5 {
		t.Fatalf("StarRating = %d, want 5", sel.StarRating)
	}
	if sel.Label != "Dodgers ML" {
		t.Fatalf("Label = %q", sel.Label)
	}
}

func TestEvaluateWHIPFallbackLowestWHIP(t *testing.T) {
	// No gap clears 0.25, so the game with the slate's single lowest WHIP
	// wins even though its gap is narrower.
	matchups := []PitcherMatchup{
		{GameRef: 1, HomeTeam: "Cubs", AwayTeam: "Brewers", HomeWHIP: f(1.30), AwayWHIP: f(1.50)},
		{GameRef: 2, HomeTeam: "Mets", AwayTeam: "Braves", HomeWHIP: f(1.21), AwayWHIP: f(1.11)},
	}
	sel := EvaluateWHIP(matchups)
	if sel == nil {
		t.Fatal("expected a selection")
	}
	if sel.GameRef != 2 {
		t.Fatalf("GameRef = %d, want 2", sel.GameRef)
	}
	if sel.SelectedSide != models.SideAway || sel.PickTeam != "Braves" {
		t.Fatalf("side/team = %s/%s, want away/Braves", sel.SelectedSide, sel.PickTeam)
	}
	if sel.StarRating != 1 {
		t.Fatalf("StarRating = %d, want 1", sel.StarRating)
	}
}

func TestEvaluateWHIPSkipsIncompleteMatchups(t *testing.T) {
	matchups := []PitcherMatchup{
		{GameRef: 1, HomeTeam: "Giants", AwayTeam: "Padres", HomeWHIP: f(0.90)},
		{GameRef: 2, HomeTeam: "Astros", AwayTeam: "Mariners"},
	}
	if sel := EvaluateWHIP(matchups); sel != nil {
		t.Fatalf("expected nil selection, got %+v", sel)
	}
}
