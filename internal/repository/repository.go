package repository

import (
	"context"
	"time"

	"sportspicks/internal/models"
)

// Repository is the persistence surface shared by the generation and
// settlement paths. All pick mutation is per-row and guarded so that the
// odds and result transitions stay monotonic regardless of caller timing.
type Repository interface {
	// InsertPick inserts subject to the (sport, algorithm, day_bucket)
	// unique index. On conflict it does not error: it reports created=false
	// and leaves the existing row untouched.
	InsertPick(ctx context.Context, item *models.Pick) (created bool, err error)
	GetPickByID(ctx context.Context, id uint64) (*models.Pick, error)
	GetPickForDay(ctx context.Context, sport, algorithm, dayBucket string) (*models.Pick, error)
	ListPicks(ctx context.Context, params ListPicksParams) ([]models.Pick, error)
	CountPicks(ctx context.Context, params ListPicksParams) (int64, error)

	// ListPendingPicks returns settle-eligible picks: a usable external game
	// ref and a result still pending.
	ListPendingPicks(ctx context.Context, sport string, limit int) ([]models.Pick, error)

	// SetPickOdds attaches a price only while none is set. Returns false if
	// the row already carried odds (or does not exist).
	SetPickOdds(ctx context.Context, id uint64, odds int) (bool, error)

	// SettlePick finalizes a pending pick. Returns false if the pick was
	// already settled, so re-runs are no-ops.
	SettlePick(ctx context.Context, id uint64, outcome PickOutcome) (bool, error)

	InsertPickQnA(ctx context.Context, item *models.PickQnA) error
	ListPickQnA(ctx context.Context, pickID uint64, limit int) ([]models.PickQnA, error)
}

type ListPicksParams struct {
	Limit     int
	Offset    int
	Sport     *string
	Algorithm *string
	Result    *string
	Since     *time.Time
	OrderBy   string
	Asc       *bool
}

type PickOutcome struct {
	Result     string
	SettledAt  time.Time
	FinalScore string
	WinnerTeam string
}
