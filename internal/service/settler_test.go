package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sportspicks/internal/client/mlbstats"
	"sportspicks/internal/models"
)

func seedPendingPick(t *testing.T, repo *stubRepo, sport, algorithm, day, pickTeam string, gameRef int64) *models.Pick {
	t.Helper()
	p := &models.Pick{
		Sport:           sport,
		Algorithm:       algorithm,
		DayBucket:       day,
		HomeTeam:        "Home",
		AwayTeam:        "Away",
		SelectedSide:    models.SideHome,
		PickTeam:        pickTeam,
		ExternalGameRef: gameRef,
		Result:          models.ResultPending,
	}
	created, err := repo.InsertPick(context.Background(), p)
	if err != nil || !created {
		t.Fatalf("seed pick: created=%v err=%v", created, err)
	}
	return p
}

func TestSettlePendingPicksGradesWinLossPush(t *testing.T) {
	repo := newStubRepo()
	win := seedPendingPick(t, repo, models.SportMLB, models.AlgorithmWHIP, "2026-08-28", "NY Yankees", 1)
	loss := seedPendingPick(t, repo, models.SportMLB, models.AlgorithmSeries, "2026-08-28", "Red Sox", 2)
	push := seedPendingPick(t, repo, models.SportMLB, models.AlgorithmWHIP, "2026-08-27", "Mets", 3)

	mlb := &stubMLB{
		results: map[int64]*mlbstats.GameResult{
			// Fuzzy matching must map "NY Yankees" onto the feed's "Yankees".
			1: {Final: true, HomeName: "Yankees", AwayName: "Orioles", HomeScore: 5, AwayScore: 2, WinnerTeam: "Yankees"},
			2: {Final: true, HomeName: "Red Sox", AwayName: "Rays", HomeScore: 1, AwayScore: 4, WinnerTeam: "Rays"},
			3: {Final: true, HomeName: "Mets", AwayName: "Phillies", HomeScore: 3, AwayScore: 3, Push: true},
		},
	}
	settler := &SettlementService{Repo: repo, MLB: mlb}

	report, err := settler.SettlePendingPicks(context.Background(), models.SportMLB)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if report.Checked != 3 || report.Settled != 3 || report.Skipped != 0 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}

	got, _ := repo.GetPickByID(context.Background(), win.ID)
	if got.Result != models.ResultWin {
		t.Fatalf("win pick result = %q", got.Result)
	}
	if got.WinnerTeam == nil || *got.WinnerTeam != "Yankees" {
		t.Fatalf("win pick winner = %v", got.WinnerTeam)
	}
	if got.FinalScore == nil || !strings.HasPrefix(*got.FinalScore, "Orioles 2") {
		t.Fatalf("final score = %v, want away-first formatting", got.FinalScore)
	}
	if got.SettledAt == nil {
		t.Fatal("win pick missing SettledAt")
	}

	got, _ = repo.GetPickByID(context.Background(), loss.ID)
	if got.Result != models.ResultLoss {
		t.Fatalf("loss pick result = %q", got.Result)
	}

	got, _ = repo.GetPickByID(context.Background(), push.ID)
	if got.Result != models.ResultPush {
		t.Fatalf("push pick result = %q", got.Result)
	}
	if got.WinnerTeam != nil {
		t.Fatalf("push pick winner = %v, want nil", got.WinnerTeam)
	}
}

func TestSettlePendingPicksIsolatesFailures(t *testing.T) {
	repo := newStubRepo()
	seedPendingPick(t, repo, models.SportMLB, models.AlgorithmWHIP, "2026-08-28", "Cubs", 1)
	inFlight := seedPendingPick(t, repo, models.SportMLB, models.AlgorithmSeries, "2026-08-28", "Brewers", 2)
	seedPendingPick(t, repo, models.SportMLB, models.AlgorithmWHIP, "2026-08-27", "Braves", 3)

	mlb := &stubMLB{
		results: map[int64]*mlbstats.GameResult{
			2: {Final: false},
			3: {Final: true, HomeName: "Braves", AwayName: "Marlins", HomeScore: 6, AwayScore: 1, WinnerTeam: "Braves"},
		},
		resultErr: map[int64]error{1: errors.New("feed timeout")},
	}
	settler := &SettlementService{Repo: repo, MLB: mlb}

	report, err := settler.SettlePendingPicks(context.Background(), models.SportMLB)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if report.Checked != 3 || report.Settled != 1 || report.Skipped != 1 || report.Failed != 1 {
		t.Fatalf("report = %+v", report)
	}
	if len(report.Records) != 1 || report.Records[0].Result != models.ResultWin {
		t.Fatalf("records = %+v", report.Records)
	}

	// The in-flight game stays pending for the next run.
	got, _ := repo.GetPickByID(context.Background(), inFlight.ID)
	if got.Result != models.ResultPending {
		t.Fatalf("in-flight pick result = %q, want pending", got.Result)
	}
}

func TestSettlePendingPicksUnmatchedTeamGradesLoss(t *testing.T) {
	repo := newStubRepo()
	p := seedPendingPick(t, repo, models.SportMLB, models.AlgorithmWHIP, "2026-08-28", "Typo City Nine", 1)

	mlb := &stubMLB{
		results: map[int64]*mlbstats.GameResult{
			1: {Final: true, HomeName: "Yankees", AwayName: "Orioles", HomeScore: 5, AwayScore: 2, WinnerTeam: "Yankees"},
		},
	}
	settler := &SettlementService{Repo: repo, MLB: mlb}

	if _, err := settler.SettlePendingPicks(context.Background(), models.SportMLB); err != nil {
		t.Fatalf("err=%v", err)
	}
	got, _ := repo.GetPickByID(context.Background(), p.ID)
	if got.Result != models.ResultLoss {
		t.Fatalf("result = %q, want loss when pick team matches neither side", got.Result)
	}
}

func TestSettlePendingPicksSettleOnce(t *testing.T) {
	repo := newStubRepo()
	p := seedPendingPick(t, repo, models.SportMLB, models.AlgorithmWHIP, "2026-08-28", "Yankees", 1)

	mlb := &stubMLB{
		results: map[int64]*mlbstats.GameResult{
			1: {Final: true, HomeName: "Yankees", AwayName: "Orioles", HomeScore: 5, AwayScore: 2, WinnerTeam: "Yankees"},
		},
	}
	settler := &SettlementService{Repo: repo, MLB: mlb}

	first, err := settler.SettlePendingPicks(context.Background(), models.SportMLB)
	if err != nil || first.Settled != 1 {
		t.Fatalf("first run: %+v err=%v", first, err)
	}
	// Second run sees nothing pending.
	second, err := settler.SettlePendingPicks(context.Background(), models.SportMLB)
	if err != nil || second.Checked != 0 || second.Settled != 0 {
		t.Fatalf("second run: %+v err=%v", second, err)
	}
	got, _ := repo.GetPickByID(context.Background(), p.ID)
	if got.Result != models.ResultWin {
		t.Fatalf("result = %q, want win to stick", got.Result)
	}
}
