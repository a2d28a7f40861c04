package apisports

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveGame(t *testing.T, status string, home, away int) *httptest.Server {
	t.Helper()
	body := fmt.Sprintf(`{"response":[{"game":{"id":900,"date":{"date":"2026-01-18","time":"18:00"},"status":{"short":%q}},"teams":{"home":{"name":"Buffalo Bills"},"away":{"name":"Kansas City Chiefs"}},"scores":{"home":{"total":%d},"away":{"total":%d}}}]}`, status, home, away)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-apisports-key") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
}

func TestGetGameResultRegulationFinal(t *testing.T) {
	srv := serveGame(t, "FT", 24, 17)
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "test-key")
	r, err := c.GetGameResult(context.Background(), 900)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !r.Final {
		t.Fatal("FT game should be final")
	}
	if r.HomeScore != 24 || r.AwayScore != 17 {
		t.Fatalf("score = %d-%d, want 24-17", r.HomeScore, r.AwayScore)
	}
	if r.HomeName != "Buffalo Bills" || r.AwayName != "Kansas City Chiefs" {
		t.Fatalf("names = %q/%q", r.HomeName, r.AwayName)
	}
}

func TestGetGameResultOvertimeFinal(t *testing.T) {
	// Overtime finishes come back as AOT, not FT. An overtime game must
	// still grade, including the level-score case that settles as a push.
	srv := serveGame(t, "AOT", 27, 27)
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "test-key")
	r, err := c.GetGameResult(context.Background(), 900)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !r.Final {
		t.Fatal("AOT game should be final")
	}
	if r.HomeScore != 27 || r.AwayScore != 27 {
		t.Fatalf("score = %d-%d, want 27-27", r.HomeScore, r.AwayScore)
	}
}

func TestGetGameResultInProgress(t *testing.T) {
	srv := serveGame(t, "Q4", 21, 14)
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "test-key")
	r, err := c.GetGameResult(context.Background(), 900)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if r.Final {
		t.Fatal("in-progress game must not be final")
	}
}

func TestGetGameResultUnconfigured(t *testing.T) {
	c := NewClient(http.DefaultClient, "", "")
	if _, err := c.GetGameResult(context.Background(), 900); err == nil {
		t.Fatal("expected an error without an api key")
	}
}
