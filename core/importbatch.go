package core

import "time"

type BatchStatus string

const (
	BatchQueued              BatchStatus = "queued"
	BatchProcessing          BatchStatus = "processing"
	BatchCompleted           BatchStatus = "completed"
	BatchCompletedWithErrors BatchStatus = "completed_with_errors"
	BatchFailed              BatchStatus = "failed"
)

// ImportBatch tracks one uploaded timesheet file through the import pipeline.
// Once a terminal status is reached the batch is never mutated again.
type ImportBatch struct {
	ID         uint `gorm:"primaryKey;autoIncrement"`
	Filename   *string
	UploadedBy *string
	RowsTotal  int
	RowsOk     int
	RowsError  int
	Status     BatchStatus `gorm:"size:32;default:queued"`
	StartedAt  *time.Time
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ImportBatch) TableName() string {
	return "import_batches"
}

func (b *ImportBatch) Terminal() bool {
	switch b.Status {
	case BatchCompleted, BatchCompletedWithErrors, BatchFailed:
		return true
	}
	return false
}
