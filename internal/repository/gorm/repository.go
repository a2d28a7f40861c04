package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sportspicks/internal/models"
	"sportspicks/internal/repository"
)

type Store struct {
	db *gorm.DB
}

var _ repository.Repository = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InsertPick(ctx context.Context, item *models.Pick) (bool, error) {
	if s == nil || s.db == nil || item == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "sport"},
			{Name: "algorithm"},
			{Name: "day_bucket"},
		},
		DoNothing: true,
	}).Create(item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) GetPickByID(ctx context.Context, id uint64) (*models.Pick, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Pick
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetPickForDay(ctx context.Context, sport, algorithm, dayBucket string) (*models.Pick, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Pick
	err := s.db.WithContext(ctx).
		Where("sport = ?", sport).
		Where("algorithm = ?", algorithm).
		Where("day_bucket = ?", dayBucket).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListPicks(ctx context.Context, params repository.ListPicksParams) ([]models.Pick, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.applyPickFilters(ctx, params)

	orderBy := strings.TrimSpace(params.OrderBy)
	switch orderBy {
	case "created_at", "game_time", "settled_at", "star_rating":
	default:
		orderBy = "created_at"
	}
	dir := "desc"
	if params.Asc != nil && *params.Asc {
		dir = "asc"
	}
	limit := params.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var items []models.Pick
	if err := query.Order(orderBy + " " + dir).Limit(limit).Offset(params.Offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountPicks(ctx context.Context, params repository.ListPicksParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var n int64
	if err := s.applyPickFilters(ctx, params).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) applyPickFilters(ctx context.Context, params repository.ListPicksParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Pick{})
	if params.Sport != nil && *params.Sport != "" {
		query = query.Where("sport = ?", *params.Sport)
	}
	if params.Algorithm != nil && *params.Algorithm != "" {
		query = query.Where("algorithm = ?", *params.Algorithm)
	}
	if params.Result != nil && *params.Result != "" {
		query = query.Where("result = ?", *params.Result)
	}
	if params.Since != nil {
		query = query.Where("created_at >= ?", *params.Since)
	}
	return query
}

func (s *Store) ListPendingPicks(ctx context.Context, sport string, limit int) ([]models.Pick, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	var items []models.Pick
	err := s.db.WithContext(ctx).
		Where("sport = ?", sport).
		Where("external_game_ref > 0").
		Where("result = ?", models.ResultPending).
		Order("created_at asc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SetPickOdds(ctx context.Context, id uint64, odds int) (bool, error) {
	if s == nil || s.db == nil || id == 0 {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Pick{}).
		Where("id = ?", id).
		Where("odds IS NULL").
		Update("odds", odds)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) SettlePick(ctx context.Context, id uint64, outcome repository.PickOutcome) (bool, error) {
	if s == nil || s.db == nil || id == 0 {
		return false, nil
	}
	updates := map[string]any{
		"result":      outcome.Result,
		"settled_at":  outcome.SettledAt,
		"final_score": outcome.FinalScore,
	}
	if outcome.WinnerTeam != "" {
		updates["winner_team"] = outcome.WinnerTeam
	}
	res := s.db.WithContext(ctx).
		Model(&models.Pick{}).
		Where("id = ?", id).
		Where("result = ?", models.ResultPending).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) InsertPickQnA(ctx context.Context, item *models.PickQnA) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListPickQnA(ctx context.Context, pickID uint64, limit int) ([]models.PickQnA, error) {
	if s == nil || s.db == nil || pickID == 0 {
		return nil, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var items []models.PickQnA
	err := s.db.WithContext(ctx).
		Where("pick_id = ?", pickID).
		Order("asked_at desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
