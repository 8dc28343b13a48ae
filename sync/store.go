package sync

import (
	"time"

	"shiftsync.com/shiftsync/core"
)

// Store is the persistence surface the reconciliation engine runs against.
// Find* methods return (nil, nil) when no row matches. The production
// implementation is GormStore; tests use a deterministic in-memory double.
type Store interface {
	// FindWorkerByKey matches the external employee key case-insensitively.
	FindWorkerByKey(key string) (*core.Worker, error)
	// FindWorkerByName matches the full name exactly (case-sensitive).
	FindWorkerByName(name string) (*core.Worker, error)
	CreateWorker(w *core.Worker) error
	SaveWorker(w *core.Worker) error
	ListWorkers() ([]core.Worker, error)

	FindTimeEntryByGraphID(graphID string) (*core.TimeEntry, error)
	CreateTimeEntry(e *core.TimeEntry) error
	CreateBreak(b *core.Break) error
	// GraphTimeEntriesInWindow returns directory-sourced entries whose date
	// falls inside [from, to]. Import-sourced entries never participate in
	// deletion reconciliation and are excluded here.
	GraphTimeEntriesInWindow(from, to time.Time) ([]core.TimeEntry, error)
	TimeEntriesByWorker(workerID uint) ([]core.TimeEntry, error)
	// DeleteTimeEntry removes an entry and cascades to its breaks.
	DeleteTimeEntry(id uint) error

	FindLeaveByGraphID(graphID string) (*core.Leave, error)
	CreateLeave(l *core.Leave) error
	// LeavesOverlapping returns leaves whose interval intersects [from, to].
	LeavesOverlapping(from, to time.Time) ([]core.Leave, error)
	DeleteLeave(id uint) error

	FindBatch(id uint) (*core.ImportBatch, error)
	CreateBatch(b *core.ImportBatch) error
	SaveBatch(b *core.ImportBatch) error
}
