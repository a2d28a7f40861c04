package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SportMLB = "MLB"
	SportNFL = "NFL"
)

const (
	AlgorithmWHIP          = "whip"
	AlgorithmSeries        = "series"
	AlgorithmRankDisparity = "rank_disparity"
)

const (
	SideHome = "home"
	SideAway = "away"
)

const (
	ResultPending = "pending"
	ResultWin     = "win"
	ResultLoss    = "loss"
	ResultPush    = "push"
)

// Pick is one algorithm's recommendation for one side of one game. The
// composite unique index over (sport, algorithm, day_bucket) is the
// dedup guarantee: concurrent generation runs cannot insert two picks
// for the same algorithm on the same trading day.
type Pick struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Sport     string `gorm:"type:varchar(10);not null;uniqueIndex:uq_picks_sport_algo_day,priority:1"`
	Algorithm string `gorm:"type:varchar(30);not null;uniqueIndex:uq_picks_sport_algo_day,priority:2"`
	// DayBucket is the calendar day ("2006-01-02") in the reference
	// timezone at the moment of generation, not UTC.
	DayBucket string `gorm:"type:varchar(10);not null;uniqueIndex:uq_picks_sport_algo_day,priority:3"`

	HomeTeam     string `gorm:"type:varchar(60);not null"`
	AwayTeam     string `gorm:"type:varchar(60);not null"`
	SelectedSide string `gorm:"type:varchar(10);not null"`
	PickTeam     string `gorm:"type:varchar(60);not null"`
	Label        string `gorm:"type:varchar(100);not null"`

	// Odds is a signed American price. Nil means no market was posted when
	// we last looked; backfill may set it once, it is never cleared.
	Odds       *int   `gorm:"type:integer"`
	StarRating int    `gorm:"not null;default:0"`
	Rationale  string `gorm:"type:text"`

	Metrics datatypes.JSON `gorm:"type:jsonb"`

	ExternalGameRef int64      `gorm:"not null;index"`
	GameTime        *time.Time `gorm:"type:timestamptz"`

	Result     string     `gorm:"type:varchar(10);not null;index;default:'pending'"`
	SettledAt  *time.Time `gorm:"type:timestamptz"`
	FinalScore *string    `gorm:"type:varchar(120)"`
	WinnerTeam *string    `gorm:"type:varchar(60)"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Pick) TableName() string {
	return "picks"
}

// HasOdds reports whether a concrete price has been attached.
func (p *Pick) HasOdds() bool {
	return p != nil && p.Odds != nil
}

// Settled reports whether the pick has left the pending state.
func (p *Pick) Settled() bool {
	return p != nil && p.Result != "" && p.Result != ResultPending
}
