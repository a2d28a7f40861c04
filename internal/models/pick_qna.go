package models

import "time"

// PickQnA is an append-only question/answer log attached to a pick.
type PickQnA struct {
	ID       uint64    `gorm:"primaryKey;autoIncrement"`
	PickID   uint64    `gorm:"not null;index"`
	Question string    `gorm:"type:text"`
	Reply    string    `gorm:"type:text;not null"`
	AskedAt  time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (PickQnA) TableName() string {
	return "pick_qna"
}
