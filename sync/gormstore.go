package sync

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"shiftsync.com/shiftsync/core"
)

// GormStore is the production Store implementation.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func first[T any](db *gorm.DB, conds ...interface{}) (*T, error) {
	var row T
	err := db.Where(conds[0], conds[1:]...).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormStore) FindWorkerByKey(key string) (*core.Worker, error) {
	return first[core.Worker](s.db, "LOWER(employee_key) = ?", strings.ToLower(key))
}

func (s *GormStore) FindWorkerByName(name string) (*core.Worker, error) {
	// BINARY forces a case-sensitive comparison regardless of collation
	return first[core.Worker](s.db, "BINARY full_name = ?", name)
}

func (s *GormStore) CreateWorker(w *core.Worker) error {
	return s.db.Create(w).Error
}

func (s *GormStore) SaveWorker(w *core.Worker) error {
	return s.db.Save(w).Error
}

func (s *GormStore) ListWorkers() ([]core.Worker, error) {
	var workers []core.Worker
	if err := s.db.Order("full_name").Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

func (s *GormStore) FindTimeEntryByGraphID(graphID string) (*core.TimeEntry, error) {
	return first[core.TimeEntry](s.db, "graph_id = ?", graphID)
}

func (s *GormStore) CreateTimeEntry(e *core.TimeEntry) error {
	return s.db.Create(e).Error
}

func (s *GormStore) CreateBreak(b *core.Break) error {
	return s.db.Create(b).Error
}

func (s *GormStore) GraphTimeEntriesInWindow(from, to time.Time) ([]core.TimeEntry, error) {
	var entries []core.TimeEntry
	err := s.db.
		Where("graph_id IS NOT NULL").
		Where("date >= ? AND date <= ?", from, to).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GormStore) TimeEntriesByWorker(workerID uint) ([]core.TimeEntry, error) {
	var entries []core.TimeEntry
	err := s.db.
		Preload("Breaks").
		Where("worker_id = ?", workerID).
		Order("start_at").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GormStore) DeleteTimeEntry(id uint) error {
	if err := s.db.Where("time_entry_id = ?", id).Delete(&core.Break{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&core.TimeEntry{}, id).Error
}

func (s *GormStore) FindLeaveByGraphID(graphID string) (*core.Leave, error) {
	return first[core.Leave](s.db, "graph_id = ?", graphID)
}

func (s *GormStore) CreateLeave(l *core.Leave) error {
	return s.db.Create(l).Error
}

func (s *GormStore) LeavesOverlapping(from, to time.Time) ([]core.Leave, error) {
	var leaves []core.Leave
	err := s.db.
		Where("start_at <= ? AND end_at >= ?", to, from).
		Find(&leaves).Error
	if err != nil {
		return nil, err
	}
	return leaves, nil
}

func (s *GormStore) DeleteLeave(id uint) error {
	return s.db.Delete(&core.Leave{}, id).Error
}

func (s *GormStore) FindBatch(id uint) (*core.ImportBatch, error) {
	return first[core.ImportBatch](s.db, "id = ?", id)
}

func (s *GormStore) CreateBatch(b *core.ImportBatch) error {
	return s.db.Create(b).Error
}

func (s *GormStore) SaveBatch(b *core.ImportBatch) error {
	return s.db.Save(b).Error
}
