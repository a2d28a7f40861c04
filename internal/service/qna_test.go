package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sportspicks/internal/models"
)

func TestImpliedProbability(t *testing.T) {
	cases := []struct {
		odds *int
		want float64
	}{
		{price(-150), 0.6},
		{price(100), 0.5},
		{price(300), 0.25},
	}
	for _, tc := range cases {
		got := ImpliedProbability(tc.odds)
		if got == nil {
			t.Fatalf("ImpliedProbability(%d) = nil", *tc.odds)
		}
		if diff := *got - tc.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("ImpliedProbability(%d) = %v, want %v", *tc.odds, *got, tc.want)
		}
	}
	if ImpliedProbability(nil) != nil {
		t.Error("nil odds should have nil implied probability")
	}
	zero := 0
	if ImpliedProbability(&zero) != nil {
		t.Error("zero odds should have nil implied probability")
	}
}

func TestAskRecordsExchange(t *testing.T) {
	repo := newStubRepo()
	p := seedPendingPick(t, repo, models.SportMLB, models.AlgorithmWHIP, "2026-08-28", "Dodgers", 20)
	repo.SetPickOdds(context.Background(), p.ID, -145)

	svc := NewQnAService(repo, nil)
	reply, err := svc.Ask(context.Background(), p.ID, "How confident are you in this one?")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !strings.Contains(reply, "Dodgers") {
		t.Fatalf("reply should mention the pick team: %q", reply)
	}
	if !strings.Contains(reply, "Risk read:") {
		t.Fatalf("confidence question should get the risk tail: %q", reply)
	}

	log, err := repo.ListPickQnA(context.Background(), p.ID, 10)
	if err != nil || len(log) != 1 {
		t.Fatalf("qna log = %v err=%v", log, err)
	}
	if log[0].Reply != reply {
		t.Fatal("stored reply differs from returned reply")
	}
}

func TestAskWithoutOddsMentionsMissingPrice(t *testing.T) {
	repo := newStubRepo()
	p := seedPendingPick(t, repo, models.SportMLB, models.AlgorithmWHIP, "2026-08-28", "Dodgers", 20)

	svc := NewQnAService(repo, nil)
	reply, err := svc.Ask(context.Background(), p.ID, "Is there value at the current price?")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !strings.Contains(reply, "Price context not available yet") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestAskUnknownPick(t *testing.T) {
	svc := NewQnAService(newStubRepo(), nil)
	if _, err := svc.Ask(context.Background(), 404, "why?"); !errors.Is(err, ErrPickNotFound) {
		t.Fatalf("err=%v, want ErrPickNotFound", err)
	}
}
