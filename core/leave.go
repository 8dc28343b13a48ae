package core

import "time"

// Leave is one time-off interval, keyed by the upstream request id.
type Leave struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	WorkerID uint   `gorm:"index;not null"`
	GraphID  string `gorm:"size:255;uniqueIndex"`
	StartAt  time.Time
	EndAt    time.Time
	Type     string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Leave) TableName() string {
	return "leaves"
}
