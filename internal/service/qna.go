package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"sportspicks/internal/models"
	"sportspicks/internal/repository"
)

var ErrPickNotFound = errors.New("pick not found")

// QnAService answers subscriber questions about a pick without revealing the
// heuristics behind it. Replies are templated around the projected win range
// for the pick's star rating versus the implied probability of its price,
// with enough variation that repeated questions do not read identically.
// Every exchange is appended to the pick's Q&A log.
type QnAService struct {
	Repo   repository.Repository
	Logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewQnAService(repo repository.Repository, logger *zap.Logger) *QnAService {
	return &QnAService{
		Repo:   repo,
		Logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Ask answers a question about one pick and records the exchange.
func (s *QnAService) Ask(ctx context.Context, pickID uint64, question string) (string, error) {
	if s == nil || s.Repo == nil {
		return "", errors.New("qna not initialized")
	}
	p, err := s.Repo.GetPickByID(ctx, pickID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", ErrPickNotFound
	}

	reply := s.composeReply(p, question)

	entry := &models.PickQnA{PickID: p.ID, Question: question, Reply: reply}
	if err := s.Repo.InsertPickQnA(ctx, entry); err != nil {
		// The reply is still useful; losing a log row is not fatal.
		if s.Logger != nil {
			s.Logger.Warn("qna log insert failed", zap.Uint64("pick_id", p.ID), zap.Error(err))
		}
	}
	return reply, nil
}

// ImpliedProbability converts a signed American price to a win probability,
// or nil when no price is posted.
func ImpliedProbability(odds *int) *float64 {
	if odds == nil || *odds == 0 {
		return nil
	}
	n := float64(*odds)
	var prob float64
	if n > 0 {
		prob = 100 / (n + 100)
	} else {
		prob = math.Abs(n) / (math.Abs(n) + 100)
	}
	return &prob
}

// projectedRange maps a star rating to the advertised win-probability band.
func projectedRange(starRating int) (float64, float64) {
	switch {
	case starRating >= 5:
		return 0.72, 0.82
	case starRating >= 3:
		return 0.56, 0.66
	case starRating >= 1:
		return 0.48, 0.54
	}
	return 0.52, 0.60
}

func pct(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(p*100)))
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

func (s *QnAService) composeReply(p *models.Pick, question string) string {
	implied := ImpliedProbability(p.Odds)
	lo, hi := projectedRange(p.StarRating)

	s.mu.Lock()
	jitter := s.rng.Float64()*0.02 - 0.01
	openerIdx := s.rng.Intn(4)
	edgeIdx := s.rng.Intn(3)
	riskIdx := s.rng.Intn(4)
	s.mu.Unlock()

	proj := clamp01((lo+hi)/2 + jitter)
	side := p.PickTeam
	if side == "" {
		side = "This side"
	}

	openers := []string{
		fmt.Sprintf("%s projects around %s.", side, pct(proj)),
		fmt.Sprintf("Projection lands near %s for %s.", pct(proj), side),
		fmt.Sprintf("Modeled range centers around %s on %s.", pct(proj), side),
		fmt.Sprintf("Baseline projection for %s is ~%s.", side, pct(proj)),
	}
	var edges []string
	if implied == nil {
		edges = []string{
			"That's within our expected band given current market conditions.",
			"This sits comfortably in today's range for the matchup.",
			"It's a reasonable edge given the matchup context.",
		}
	} else {
		delta := int(math.Round((proj - *implied) * 100))
		rel := "above"
		if delta < 0 {
			rel = "below"
			delta = -delta
		}
		edges = []string{
			fmt.Sprintf("That's %d%% %s implied (~%s).", delta, rel, pct(*implied)),
			fmt.Sprintf("Relative to implied (~%s), the edge is %d%%.", pct(*implied), delta),
			fmt.Sprintf("Versus implied (~%s), differential is %d%%.", pct(*implied), delta),
		}
	}
	risks := []string{
		"Keep stakes sensible; variance still applies.",
		"As always, size bets responsibly.",
		"Recommendation: moderate staking discipline.",
		"Edge noted, but avoid overexposure.",
	}

	return openers[openerIdx] + " " + edges[edgeIdx] + " " + risks[riskIdx] + intentTail(question, proj, implied)
}

// intentTail shapes the closing sentence to what was actually asked.
func intentTail(question string, proj float64, implied *float64) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "risk") || strings.Contains(q, "confiden"):
		tone := "cautious"
		if proj > 0.65 {
			tone = "elevated confidence"
		} else if proj > 0.57 {
			tone = "solid but not bulletproof"
		}
		return fmt.Sprintf(" Risk read: %s; news can shift price late.", tone)
	case strings.Contains(q, "odds") || strings.Contains(q, "implied") || strings.Contains(q, "value") || strings.Contains(q, "price"):
		if implied == nil {
			return " Price context not available yet; once odds post, reassess the differential."
		}
		grade := "thin value"
		if proj-*implied > 0.04 {
			grade = "clear value"
		} else if proj-*implied > 0.015 {
			grade = "marginal value"
		}
		return fmt.Sprintf(" Given the current price context, this qualifies as %s.", grade)
	case strings.Contains(q, "parlay"):
		return " Parlay impact: projection helps floor, but correlations and juice can erode EV; single-leg sizing is safer."
	case strings.Contains(q, "why") || strings.Contains(q, "because") || strings.Contains(q, "explain"):
		return " Drivers: aggregated signals and situational context; proprietary details intentionally withheld."
	}
	return " Projection is range-based; methodology is proprietary."
}
