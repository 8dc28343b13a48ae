package sync

import (
	"sort"
	"strings"
	"time"

	"shiftsync.com/shiftsync/core"
)

// memStore is a deterministic in-memory Store for tests. It mirrors the
// lookup semantics of GormStore: case-insensitive key match, exact name
// match, and break cascade on entry deletion.
type memStore struct {
	workers map[uint]*core.Worker
	entries map[uint]*core.TimeEntry
	breaks  map[uint]*core.Break
	leaves  map[uint]*core.Leave
	batches map[uint]*core.ImportBatch
	nextID  uint
}

func newMemStore() *memStore {
	return &memStore{
		workers: make(map[uint]*core.Worker),
		entries: make(map[uint]*core.TimeEntry),
		breaks:  make(map[uint]*core.Break),
		leaves:  make(map[uint]*core.Leave),
		batches: make(map[uint]*core.ImportBatch),
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) FindWorkerByKey(key string) (*core.Worker, error) {
	for _, w := range s.workers {
		if strings.EqualFold(w.EmployeeKey, key) {
			return w, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindWorkerByName(name string) (*core.Worker, error) {
	for _, w := range s.workers {
		if w.FullName == name {
			return w, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateWorker(w *core.Worker) error {
	w.ID = s.id()
	s.workers[w.ID] = w
	return nil
}

func (s *memStore) SaveWorker(w *core.Worker) error {
	s.workers[w.ID] = w
	return nil
}

func (s *memStore) ListWorkers() ([]core.Worker, error) {
	var out []core.Worker
	for _, w := range s.workers {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (s *memStore) FindTimeEntryByGraphID(graphID string) (*core.TimeEntry, error) {
	for _, e := range s.entries {
		if e.GraphID != nil && *e.GraphID == graphID {
			return e, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateTimeEntry(e *core.TimeEntry) error {
	e.ID = s.id()
	s.entries[e.ID] = e
	return nil
}

func (s *memStore) CreateBreak(b *core.Break) error {
	b.ID = s.id()
	s.breaks[b.ID] = b
	return nil
}

func (s *memStore) GraphTimeEntriesInWindow(from, to time.Time) ([]core.TimeEntry, error) {
	var out []core.TimeEntry
	for _, e := range s.entries {
		if e.GraphID == nil {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) TimeEntriesByWorker(workerID uint) ([]core.TimeEntry, error) {
	var out []core.TimeEntry
	for _, e := range s.entries {
		if e.WorkerID != workerID {
			continue
		}
		entry := *e
		for _, b := range s.breaks {
			if b.TimeEntryID == e.ID {
				entry.Breaks = append(entry.Breaks, *b)
			}
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (s *memStore) DeleteTimeEntry(id uint) error {
	for bid, b := range s.breaks {
		if b.TimeEntryID == id {
			delete(s.breaks, bid)
		}
	}
	delete(s.entries, id)
	return nil
}

func (s *memStore) FindLeaveByGraphID(graphID string) (*core.Leave, error) {
	for _, l := range s.leaves {
		if l.GraphID == graphID {
			return l, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateLeave(l *core.Leave) error {
	l.ID = s.id()
	s.leaves[l.ID] = l
	return nil
}

func (s *memStore) LeavesOverlapping(from, to time.Time) ([]core.Leave, error) {
	var out []core.Leave
	for _, l := range s.leaves {
		if l.StartAt.After(to) || l.EndAt.Before(from) {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) DeleteLeave(id uint) error {
	delete(s.leaves, id)
	return nil
}

func (s *memStore) FindBatch(id uint) (*core.ImportBatch, error) {
	b, ok := s.batches[id]
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (s *memStore) CreateBatch(b *core.ImportBatch) error {
	b.ID = s.id()
	s.batches[b.ID] = b
	return nil
}

func (s *memStore) SaveBatch(b *core.ImportBatch) error {
	s.batches[b.ID] = b
	return nil
}
