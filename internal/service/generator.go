package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"sportspicks/internal/client/apisports"
	"sportspicks/internal/client/mlbstats"
	"sportspicks/internal/client/oddsapi"
	"sportspicks/internal/config"
	"sportspicks/internal/models"
	"sportspicks/internal/pick"
	"sportspicks/internal/repository"
)

var (
	ErrUnknownSport     = errors.New("unknown sport")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// MLBGateway is the slice of the MLB stats client the services need.
type MLBGateway interface {
	ListTodayGames(ctx context.Context, date string) ([]mlbstats.Game, error)
	GetPitcherSeasonWHIP(ctx context.Context, pitcherID int64, season int) (*float64, error)
	GetGameResult(ctx context.Context, gamePk int64) (*mlbstats.GameResult, error)
}

// NFLGateway is the slice of the API-Sports client the services need.
type NFLGateway interface {
	Configured() bool
	ListWeekGames(ctx context.Context, season, week int) ([]apisports.Game, error)
	GetGameResult(ctx context.Context, gameID int64) (*apisports.GameResult, error)
}

// OddsGateway prices one side of one event, or reports no market yet.
type OddsGateway interface {
	Configured() bool
	GetMoneylineOdds(ctx context.Context, sportKey string, eventRef int64, selection string) (*int, error)
}

// GeneratorService produces at most one pick per (sport, algorithm, day).
// Generation is idempotent: re-invoking it on the same day returns the
// existing pick, refreshing its odds if none were available the first time.
type GeneratorService struct {
	Repo     repository.Repository
	MLB      MLBGateway
	NFL      NFLGateway
	Odds     OddsGateway
	Config   config.GenerationConfig
	Location *time.Location
	Logger   *zap.Logger

	rankingOnce sync.Once
	ranking     *pick.Ranking
}

// nflRanking builds the lookup table on first use. The service is shared by
// the cron and HTTP trigger goroutines, so the init is synchronized.
func (s *GeneratorService) nflRanking() *pick.Ranking {
	s.rankingOnce.Do(func() {
		s.ranking = pick.NewRanking(s.Config.NFLRankings)
	})
	return s.ranking
}

// DayBucket returns the calendar day in the reference timezone. Picks are
// deduplicated per bucket, so "today" always means today at the business's
// home timezone, not UTC.
func (s *GeneratorService) DayBucket(now time.Time) string {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format("2006-01-02")
}

// GenerateDailyPick runs one algorithm for one sport. A nil pick with a nil
// error means the slate offered no qualifying game today.
func (s *GeneratorService) GenerateDailyPick(ctx context.Context, sport, algorithm string) (*models.Pick, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("generator not initialized")
	}
	dayBucket := s.DayBucket(time.Now())

	existing, err := s.Repo.GetPickForDay(ctx, sport, algorithm, dayBucket)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.backfillOdds(ctx, existing), nil
	}

	sel, err := s.evaluate(ctx, sport, algorithm, dayBucket)
	if err != nil {
		return nil, err
	}
	if sel == nil {
		s.logInfo("no qualifying game today", sport, algorithm)
		return nil, nil
	}

	p := &models.Pick{
		Sport:           sport,
		Algorithm:       algorithm,
		DayBucket:       dayBucket,
		HomeTeam:        sel.HomeTeam,
		AwayTeam:        sel.AwayTeam,
		SelectedSide:    sel.SelectedSide,
		PickTeam:        sel.PickTeam,
		Label:           sel.Label,
		StarRating:      sel.StarRating,
		Rationale:       sel.Rationale,
		ExternalGameRef: sel.GameRef,
		GameTime:        sel.GameTime,
		Result:          models.ResultPending,
	}
	if len(sel.Metrics) > 0 {
		if raw, err := json.Marshal(sel.Metrics); err == nil {
			p.Metrics = datatypes.JSON(raw)
		}
	}
	p.Odds = s.fetchOdds(ctx, sport, sel.GameRef, sel.PickTeam)

	created, err := s.Repo.InsertPick(ctx, p)
	if err != nil {
		return nil, err
	}
	if !created {
		// A concurrent run won the day bucket; theirs is the pick of record.
		return s.Repo.GetPickForDay(ctx, sport, algorithm, dayBucket)
	}
	s.logInfo("pick created", sport, algorithm)
	return p, nil
}

// backfillOdds retries the odds lookup for a pick that was stored without a
// price. Odds are written at most once; a pick that already has them is
// returned untouched.
func (s *GeneratorService) backfillOdds(ctx context.Context, p *models.Pick) *models.Pick {
	if p == nil || p.HasOdds() || p.ExternalGameRef <= 0 {
		return p
	}
	price := s.fetchOdds(ctx, p.Sport, p.ExternalGameRef, p.PickTeam)
	if price == nil {
		return p
	}
	updated, err := s.Repo.SetPickOdds(ctx, p.ID, *price)
	if err != nil {
		s.logWarn("odds backfill failed", err)
		return p
	}
	if updated {
		p.Odds = price
	}
	return p
}

func (s *GeneratorService) fetchOdds(ctx context.Context, sport string, eventRef int64, selection string) *int {
	if s.Odds == nil || !s.Odds.Configured() || eventRef <= 0 {
		return nil
	}
	key := oddsapi.SportKeyMLB
	if sport == models.SportNFL {
		key = oddsapi.SportKeyNFL
	}
	price, err := s.Odds.GetMoneylineOdds(ctx, key, eventRef, selection)
	if err != nil {
		// Odds are decoration; a pick without a price is still a pick.
		s.logWarn("odds lookup failed", err)
		return nil
	}
	return price
}

func (s *GeneratorService) evaluate(ctx context.Context, sport, algorithm, dayBucket string) (*pick.Selection, error) {
	switch sport {
	case models.SportMLB:
		switch algorithm {
		case models.AlgorithmWHIP:
			return s.evaluateWHIP(ctx, dayBucket)
		case models.AlgorithmSeries:
			return s.evaluateSeries(ctx, dayBucket)
		}
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownAlgorithm, sport, algorithm)
	case models.SportNFL:
		if algorithm == models.AlgorithmRankDisparity {
			return s.evaluateRankDisparity(ctx)
		}
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownAlgorithm, sport, algorithm)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSport, sport)
}

func (s *GeneratorService) evaluateWHIP(ctx context.Context, dayBucket string) (*pick.Selection, error) {
	if s.MLB == nil {
		return nil, errors.New("mlb gateway not configured")
	}
	games, err := s.MLB.ListTodayGames(ctx, dayBucket)
	if err != nil {
		return nil, err
	}
	season := seasonOf(dayBucket)
	matchups := make([]pick.PitcherMatchup, 0, len(games))
	for _, g := range games {
		if g.HomePitcherID == 0 || g.AwayPitcherID == 0 {
			continue
		}
		homeWHIP, err := s.MLB.GetPitcherSeasonWHIP(ctx, g.HomePitcherID, season)
		if err != nil {
			// One bad stats lookup excludes the game, not the whole run.
			s.logWarn("pitcher stats lookup failed", err)
			continue
		}
		awayWHIP, err := s.MLB.GetPitcherSeasonWHIP(ctx, g.AwayPitcherID, season)
		if err != nil {
			s.logWarn("pitcher stats lookup failed", err)
			continue
		}
		matchups = append(matchups, pick.PitcherMatchup{
			GameRef:  g.GamePk,
			HomeTeam: g.HomeTeam,
			AwayTeam: g.AwayTeam,
			HomeWHIP: homeWHIP,
			AwayWHIP: awayWHIP,
			GameTime: g.GameTime,
		})
	}
	return pick.EvaluateWHIP(matchups), nil
}

func (s *GeneratorService) evaluateSeries(ctx context.Context, dayBucket string) (*pick.Selection, error) {
	if s.MLB == nil {
		return nil, errors.New("mlb gateway not configured")
	}
	games, err := s.MLB.ListTodayGames(ctx, dayBucket)
	if err != nil {
		return nil, err
	}
	slate := make([]pick.SeriesGame, 0, len(games))
	for _, g := range games {
		slate = append(slate, pick.SeriesGame{
			GameRef:          g.GamePk,
			HomeTeam:         g.HomeTeam,
			AwayTeam:         g.AwayTeam,
			SeriesGameNumber: g.SeriesGameNumber,
			HomeSeriesWins:   g.HomeSeriesWins,
			AwaySeriesWins:   g.AwaySeriesWins,
			GameTime:         g.GameTime,
		})
	}
	return pick.EvaluateSeriesSweep(slate), nil
}

func (s *GeneratorService) evaluateRankDisparity(ctx context.Context) (*pick.Selection, error) {
	if s.NFL == nil || !s.NFL.Configured() {
		return nil, errors.New("nfl gateway not configured")
	}
	games, err := s.NFL.ListWeekGames(ctx, s.Config.NFLSeason, s.Config.NFLWeek)
	if err != nil {
		return nil, err
	}
	slate := make([]pick.RankedGame, 0, len(games))
	for _, g := range games {
		slate = append(slate, pick.RankedGame{
			GameRef:  g.ID,
			HomeTeam: g.HomeTeam,
			AwayTeam: g.AwayTeam,
			GameTime: g.Kickoff,
		})
	}
	return pick.EvaluateRankDisparity(slate, s.nflRanking()), nil
}

func seasonOf(dayBucket string) int {
	t, err := time.Parse("2006-01-02", dayBucket)
	if err != nil {
		return time.Now().Year()
	}
	return t.Year()
}

func (s *GeneratorService) logInfo(msg, sport, algorithm string) {
	if s.Logger != nil {
		s.Logger.Info(msg, zap.String("sport", sport), zap.String("algorithm", algorithm))
	}
}

func (s *GeneratorService) logWarn(msg string, err error) {
	if s.Logger != nil {
		s.Logger.Warn(msg, zap.Error(err))
	}
}
