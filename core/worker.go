package core

import "time"

// Worker is an employee identity record. Rows are created by either ingestion
// pipeline and are never hard-deleted, only archived via ArchivedAt.
type Worker struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	EmployeeKey string `gorm:"size:255;uniqueIndex"`
	FullName    string `gorm:"size:255;index"`
	Team        *string
	Role        *string
	ArchivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Worker) TableName() string {
	return "workers"
}

func (w *Worker) Archived() bool {
	return w.ArchivedAt != nil
}
