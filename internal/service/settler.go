package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sportspicks/internal/models"
	"sportspicks/internal/repository"
	"sportspicks/internal/teams"
)

// SettlementRecord is one pick graded during a settlement run.
type SettlementRecord struct {
	PickID     uint64 `json:"pickId"`
	Result     string `json:"result"`
	WinnerTeam string `json:"winnerTeam,omitempty"`
}

// SettlementReport summarizes one settlement run. Checked counts every
// pending pick examined; Skipped covers games not final yet; Failed covers
// picks whose result lookup errored and which stay pending for the next run.
type SettlementReport struct {
	Sport   string             `json:"sport"`
	Checked int                `json:"checked"`
	Settled int                `json:"settled"`
	Skipped int                `json:"skipped"`
	Failed  int                `json:"failed"`
	Records []SettlementRecord `json:"records"`
}

// gameOutcome is the provider-neutral shape both result feeds reduce to.
type gameOutcome struct {
	final     bool
	homeName  string
	awayName  string
	homeScore int
	awayScore int
}

// SettlementService grades pending picks against final scores. One bad pick
// never aborts the batch; it is counted and retried on the next run.
type SettlementService struct {
	Repo       repository.Repository
	MLB        MLBGateway
	NFL        NFLGateway
	BatchLimit int
	Logger     *zap.Logger
}

// SettlePendingPicks grades every pending pick for one sport.
func (s *SettlementService) SettlePendingPicks(ctx context.Context, sport string) (*SettlementReport, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("settler not initialized")
	}
	pending, err := s.Repo.ListPendingPicks(ctx, sport, s.BatchLimit)
	if err != nil {
		return nil, err
	}
	report := &SettlementReport{Sport: sport, Checked: len(pending), Records: []SettlementRecord{}}
	for i := range pending {
		p := &pending[i]
		outcome, err := s.lookupOutcome(ctx, p)
		if err != nil {
			report.Failed++
			if s.Logger != nil {
				s.Logger.Warn("result lookup failed",
					zap.Uint64("pick_id", p.ID),
					zap.Int64("game_ref", p.ExternalGameRef),
					zap.Error(err))
			}
			continue
		}
		if outcome == nil || !outcome.final {
			report.Skipped++
			continue
		}
		record, updated, err := s.settleOne(ctx, p, outcome)
		if err != nil {
			report.Failed++
			continue
		}
		if !updated {
			report.Skipped++
			continue
		}
		report.Settled++
		report.Records = append(report.Records, record)
	}
	return report, nil
}

func (s *SettlementService) lookupOutcome(ctx context.Context, p *models.Pick) (*gameOutcome, error) {
	switch p.Sport {
	case models.SportMLB:
		if s.MLB == nil {
			return nil, errors.New("mlb gateway not configured")
		}
		r, err := s.MLB.GetGameResult(ctx, p.ExternalGameRef)
		if err != nil {
			return nil, err
		}
		return &gameOutcome{
			final:     r.Final,
			homeName:  r.HomeName,
			awayName:  r.AwayName,
			homeScore: r.HomeScore,
			awayScore: r.AwayScore,
		}, nil
	case models.SportNFL:
		if s.NFL == nil || !s.NFL.Configured() {
			return nil, errors.New("nfl gateway not configured")
		}
		r, err := s.NFL.GetGameResult(ctx, p.ExternalGameRef)
		if err != nil {
			return nil, err
		}
		return &gameOutcome{
			final:     r.Final,
			homeName:  r.HomeName,
			awayName:  r.AwayName,
			homeScore: r.HomeScore,
			awayScore: r.AwayScore,
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSport, p.Sport)
}

// settleOne grades one pick and persists the outcome. The persistence is
// guarded on the pick still being pending, so a concurrent settlement run
// cannot grade it twice.
func (s *SettlementService) settleOne(ctx context.Context, p *models.Pick, o *gameOutcome) (SettlementRecord, bool, error) {
	result := models.ResultLoss
	var winner string
	switch {
	case o.homeScore == o.awayScore:
		result = models.ResultPush
	default:
		winnerSide := models.SideAway
		winner = o.awayName
		if o.homeScore > o.awayScore {
			winnerSide = models.SideHome
			winner = o.homeName
		}
		// Providers disagree on spellings, so the stored pick team is
		// fuzzy-matched against the result feed's names. A pick team that
		// matches neither side grades as a loss rather than staying
		// pending forever.
		pickSide := ""
		if teams.Match(p.PickTeam, o.homeName) {
			pickSide = models.SideHome
		} else if teams.Match(p.PickTeam, o.awayName) {
			pickSide = models.SideAway
		}
		if pickSide == winnerSide {
			result = models.ResultWin
		}
	}

	outcome := repository.PickOutcome{
		Result:     result,
		SettledAt:  time.Now().UTC(),
		FinalScore: fmt.Sprintf("%s %d — %s %d", o.awayName, o.awayScore, o.homeName, o.homeScore),
		WinnerTeam: winner,
	}
	updated, err := s.Repo.SettlePick(ctx, p.ID, outcome)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("settle update failed", zap.Uint64("pick_id", p.ID), zap.Error(err))
		}
		return SettlementRecord{}, false, err
	}
	if !updated {
		return SettlementRecord{}, false, nil
	}
	return SettlementRecord{PickID: p.ID, Result: result, WinnerTeam: winner}, true, nil
}
