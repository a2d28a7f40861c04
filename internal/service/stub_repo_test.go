package service

import (
	"context"
	"sync"
	"time"

	"sportspicks/internal/models"
	"sportspicks/internal/repository"
)

// stubRepo is an in-memory Repository with the same transition guards as the
// real store: day-bucket uniqueness, write-once odds, settle-once results.
type stubRepo struct {
	mu     sync.Mutex
	nextID uint64
	picks  map[uint64]*models.Pick
	qna    []*models.PickQnA

	insertErr error
	settleErr map[uint64]error
}

func newStubRepo() *stubRepo {
	return &stubRepo{picks: map[uint64]*models.Pick{}, settleErr: map[uint64]error{}}
}

var _ repository.Repository = (*stubRepo)(nil)

func (r *stubRepo) InsertPick(ctx context.Context, item *models.Pick) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return false, r.insertErr
	}
	for _, p := range r.picks {
		if p.Sport == item.Sport && p.Algorithm == item.Algorithm && p.DayBucket == item.DayBucket {
			return false, nil
		}
	}
	r.nextID++
	item.ID = r.nextID
	item.CreatedAt = time.Now().UTC()
	cp := *item
	r.picks[item.ID] = &cp
	return true, nil
}

func (r *stubRepo) GetPickByID(ctx context.Context, id uint64) (*models.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.picks[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *stubRepo) GetPickForDay(ctx context.Context, sport, algorithm, dayBucket string) (*models.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.picks {
		if p.Sport == sport && p.Algorithm == algorithm && p.DayBucket == dayBucket {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) ListPicks(ctx context.Context, params repository.ListPicksParams) ([]models.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Pick
	for _, p := range r.picks {
		if params.Sport != nil && p.Sport != *params.Sport {
			continue
		}
		if params.Algorithm != nil && p.Algorithm != *params.Algorithm {
			continue
		}
		if params.Result != nil && p.Result != *params.Result {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubRepo) CountPicks(ctx context.Context, params repository.ListPicksParams) (int64, error) {
	items, err := r.ListPicks(ctx, params)
	return int64(len(items)), err
}

func (r *stubRepo) ListPendingPicks(ctx context.Context, sport string, limit int) ([]models.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Pick
	for id := uint64(1); id <= r.nextID; id++ {
		p, ok := r.picks[id]
		if !ok {
			continue
		}
		if p.Sport == sport && p.Result == models.ResultPending && p.ExternalGameRef > 0 {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubRepo) SetPickOdds(ctx context.Context, id uint64, odds int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.picks[id]
	if !ok || p.Odds != nil {
		return false, nil
	}
	p.Odds = &odds
	return true, nil
}

func (r *stubRepo) SettlePick(ctx context.Context, id uint64, outcome repository.PickOutcome) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.settleErr[id]; err != nil {
		return false, err
	}
	p, ok := r.picks[id]
	if !ok || p.Result != models.ResultPending {
		return false, nil
	}
	p.Result = outcome.Result
	settledAt := outcome.SettledAt
	p.SettledAt = &settledAt
	finalScore := outcome.FinalScore
	p.FinalScore = &finalScore
	if outcome.WinnerTeam != "" {
		winner := outcome.WinnerTeam
		p.WinnerTeam = &winner
	}
	return true, nil
}

func (r *stubRepo) InsertPickQnA(ctx context.Context, item *models.PickQnA) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = uint64(len(r.qna) + 1)
	item.AskedAt = time.Now().UTC()
	cp := *item
	r.qna = append(r.qna, &cp)
	return nil
}

func (r *stubRepo) ListPickQnA(ctx context.Context, pickID uint64, limit int) ([]models.PickQnA, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PickQnA
	for _, q := range r.qna {
		if q.PickID == pickID {
			out = append(out, *q)
		}
	}
	return out, nil
}
