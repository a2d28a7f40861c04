package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sportspicks/internal/models"
)

// Task names as reported to the scheduler.
const (
	TaskNFLPick       = "nfl_pick"
	TaskMLBWHIPPick   = "mlb_whip_pick"
	TaskMLBSeriesPick = "mlb_series_pick"
	TaskMLBSettle     = "mlb_settle"
	TaskNFLSettle     = "nfl_settle"
)

const (
	TaskStatusOK    = "ok"
	TaskStatusError = "error"
)

// TaskStatus is one task's outcome within a daily run.
type TaskStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Detail any    `json:"detail,omitempty"`
}

// TaskReport is the result of one daily run. Tasks are isolated: a failing
// task is recorded and the rest of the batch still runs.
type TaskReport struct {
	RunID      string                `json:"runId"`
	StartedAt  time.Time             `json:"startedAt"`
	FinishedAt time.Time             `json:"finishedAt"`
	Tasks      map[string]TaskStatus `json:"tasks"`
}

// Failed reports whether any task in the run errored.
func (r *TaskReport) Failed() bool {
	if r == nil {
		return false
	}
	for _, t := range r.Tasks {
		if t.Status == TaskStatusError {
			return true
		}
	}
	return false
}

// DailyTaskService runs the daily batch: generate the day's picks, then
// settle whatever finished since the last run. It keeps the last report in
// memory for the status endpoint.
type DailyTaskService struct {
	Generator *GeneratorService
	Settler   *SettlementService
	Logger    *zap.Logger

	mu      sync.Mutex
	lastRun *TaskReport
}

// RunDaily executes every daily task once and returns the per-task report.
func (s *DailyTaskService) RunDaily(ctx context.Context) *TaskReport {
	report := &TaskReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Tasks:     map[string]TaskStatus{},
	}
	if s.Logger != nil {
		s.Logger.Info("daily tasks starting", zap.String("run_id", report.RunID))
	}

	report.Tasks[TaskNFLPick] = s.runGenerate(ctx, models.SportNFL, models.AlgorithmRankDisparity)
	report.Tasks[TaskMLBWHIPPick] = s.runGenerate(ctx, models.SportMLB, models.AlgorithmWHIP)
	report.Tasks[TaskMLBSeriesPick] = s.runGenerate(ctx, models.SportMLB, models.AlgorithmSeries)
	report.Tasks[TaskMLBSettle] = s.runSettle(ctx, models.SportMLB)
	report.Tasks[TaskNFLSettle] = s.runSettle(ctx, models.SportNFL)

	report.FinishedAt = time.Now().UTC()
	if s.Logger != nil {
		s.Logger.Info("daily tasks finished",
			zap.String("run_id", report.RunID),
			zap.Bool("failed", report.Failed()),
			zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)))
	}

	s.mu.Lock()
	s.lastRun = report
	s.mu.Unlock()
	return report
}

// LastRun returns the most recent report, or nil before the first run.
func (s *DailyTaskService) LastRun() *TaskReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

func (s *DailyTaskService) runGenerate(ctx context.Context, sport, algorithm string) TaskStatus {
	if s.Generator == nil {
		return TaskStatus{Status: TaskStatusError, Error: "generator not configured"}
	}
	p, err := s.Generator.GenerateDailyPick(ctx, sport, algorithm)
	if err != nil {
		s.logTaskError(sport, algorithm, err)
		return TaskStatus{Status: TaskStatusError, Error: err.Error()}
	}
	if p == nil {
		return TaskStatus{Status: TaskStatusOK, Detail: map[string]any{"pick": nil}}
	}
	return TaskStatus{Status: TaskStatusOK, Detail: map[string]any{"pickId": p.ID, "pickTeam": p.PickTeam}}
}

func (s *DailyTaskService) runSettle(ctx context.Context, sport string) TaskStatus {
	if s.Settler == nil {
		return TaskStatus{Status: TaskStatusError, Error: "settler not configured"}
	}
	report, err := s.Settler.SettlePendingPicks(ctx, sport)
	if err != nil {
		s.logTaskError(sport, "settle", err)
		return TaskStatus{Status: TaskStatusError, Error: err.Error()}
	}
	return TaskStatus{Status: TaskStatusOK, Detail: report}
}

func (s *DailyTaskService) logTaskError(sport, task string, err error) {
	if s.Logger != nil {
		s.Logger.Error(fmt.Sprintf("daily task failed: %s %s", sport, task), zap.Error(err))
	}
}
