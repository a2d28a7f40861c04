package pick

import (
	"testing"

	"sportspicks/internal/models"
)

func TestEvaluateSeriesSweepBacksTrailingTeam(t *testing.T) {
	games := []SeriesGame{
		{GameRef: 1, HomeTeam: "Twins", AwayTeam: "Royals", SeriesGameNumber: 2, HomeSeriesWins: 1, AwaySeriesWins: 0},
		{GameRef: 2, HomeTeam: "Orioles", AwayTeam: "Rays", SeriesGameNumber: 3, HomeSeriesWins: 0, AwaySeriesWins: 2},
		{GameRef: 3, HomeTeam: "Reds", AwayTeam: "Pirates", SeriesGameNumber: 3, HomeSeriesWins: 2, AwaySeriesWins: 0},
	}
	sel := EvaluateSeriesSweep(games)
	if sel == nil {
		t.Fatal("expected a selection")
	}
	// First qualifying game wins, and the trailing (home) side is picked.
	if sel.GameRef != 2 {
		t.Fatalf("GameRef = %d, want 2", sel.GameRef)
	}
	if sel.SelectedSide != models.SideHome || sel.PickTeam != "Orioles" {
		t.Fatalf("side/team = %s/%s, want home/Orioles", sel.SelectedSide, sel.PickTeam)
	}
	if sel.Label != "Orioles Game 3 ML" {
		t.Fatalf("Label = %q", sel.Label)
	}
	if sel.StarRating != 0 {
		t.Fatalf("StarRating = %d, want 0", sel.StarRating)
	}
}

func TestEvaluateSeriesSweepAwayTrailing(t *testing.T) {
	games := []SeriesGame{
		{GameRef: 9, HomeTeam: "Reds", AwayTeam: "Pirates", SeriesGameNumber: 3, HomeSeriesWins: 2, AwaySeriesWins: 0},
	}
	sel := EvaluateSeriesSweep(games)
	if sel == nil {
		t.Fatal("expected a selection")
	}
	if sel.SelectedSide != models.SideAway || sel.PickTeam != "Pirates" {
		t.Fatalf("side/team = %s/%s, want away/Pirates", sel.SelectedSide, sel.PickTeam)
	}
}

func TestEvaluateSeriesSweepNoAngle(t *testing.T) {
	games := []SeriesGame{
		{GameRef: 1, HomeTeam: "Twins", AwayTeam: "Royals", SeriesGameNumber: 3, HomeSeriesWins: 1, AwaySeriesWins: 1},
		{GameRef: 2, HomeTeam: "Cubs", AwayTeam: "Cardinals"},
	}
	if sel := EvaluateSeriesSweep(games); sel != nil {
		t.Fatalf("expected nil selection, got %+v", sel)
	}
}
