package core

import "time"

// TimeEntry is one normalized work interval for one worker on one day.
// GraphID and BatchID record mutually exclusive provenance: entries created
// by the directory sync carry the upstream time card id, entries created by a
// file import carry the batch id instead.
type TimeEntry struct {
	ID       uint    `gorm:"primaryKey;autoIncrement"`
	WorkerID uint    `gorm:"index;not null"`
	GraphID  *string `gorm:"size:255;uniqueIndex"`
	BatchID  *uint   `gorm:"index"`
	Date     time.Time
	StartAt  time.Time
	EndAt    time.Time

	Breaks []Break `gorm:"foreignKey:TimeEntryID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

// Break is a sub-interval within a TimeEntry. The worker reference is
// redundant with the parent entry's and exists for query convenience.
type Break struct {
	ID          uint `gorm:"primaryKey;autoIncrement"`
	TimeEntryID uint `gorm:"index;not null"`
	WorkerID    uint `gorm:"index;not null"`
	StartAt     time.Time
	EndAt       time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Break) TableName() string {
	return "breaks"
}
