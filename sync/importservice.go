package sync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"shiftsync.com/shiftsync/core"
	"shiftsync.com/shiftsync/utils"
)

// FileSource retrieves a stored upload by its object key.
type FileSource interface {
	Read(ctx context.Context, key string, out io.Writer) error
}

// ImportService processes one uploaded timesheet file: fetch, parse,
// normalize, persist, while tracking progress on the ImportBatch. The
// pipeline is strictly additive; it never deletes or reconciles.
type ImportService struct {
	store  Store
	parser RowParser
	files  FileSource
	logger *zap.Logger
	now    func() time.Time
}

func NewImportService(store Store, parser RowParser, files FileSource, logger *zap.Logger) *ImportService {
	return &ImportService{
		store:  store,
		parser: parser,
		files:  files,
		logger: logger,
		now:    time.Now,
	}
}

// RunImport executes the import job for a batch. The batch moves
// queued -> processing -> completed, or to failed on the first error with
// finished-at stamped and any counters already written preserved.
func (s *ImportService) RunImport(ctx context.Context, batchID uint, objectKey string) error {
	batch, err := s.store.FindBatch(batchID)
	if err != nil {
		return fmt.Errorf("find batch %d: %w", batchID, err)
	}
	if batch == nil {
		s.logger.Error("import batch not found", zap.Uint("batchId", batchID))
		return nil
	}
	if batch.Terminal() {
		s.logger.Warn("import batch already finished", zap.Uint("batchId", batchID), zap.String("status", string(batch.Status)))
		return nil
	}

	batch.Status = core.BatchProcessing
	batch.StartedAt = utils.Ptr(s.now())
	if err := s.store.SaveBatch(batch); err != nil {
		return fmt.Errorf("mark batch processing: %w", err)
	}

	if err := s.process(ctx, batch, objectKey); err != nil {
		batch.Status = core.BatchFailed
		batch.FinishedAt = utils.Ptr(s.now())
		if saveErr := s.store.SaveBatch(batch); saveErr != nil {
			s.logger.Error("failed to mark batch failed", zap.Uint("batchId", batch.ID), zap.Error(saveErr))
		}
		s.logger.Error("timesheet import failed", zap.Uint("batchId", batch.ID), zap.Error(err))
		return err
	}

	s.logger.Info("timesheet import completed",
		zap.Uint("batchId", batch.ID),
		zap.Int("rowsTotal", batch.RowsTotal),
		zap.Int("rowsOk", batch.RowsOk))
	return nil
}

func (s *ImportService) process(ctx context.Context, batch *core.ImportBatch, objectKey string) error {
	var buf bytes.Buffer
	if err := s.files.Read(ctx, objectKey, &buf); err != nil {
		return fmt.Errorf("fetch upload %s: %w", objectKey, err)
	}

	rows, err := s.parser.Parse(&buf)
	if err != nil {
		return err
	}

	entries := Normalize(rows)

	ok := 0
	for _, entry := range entries {
		worker, err := s.resolveWorker(entry.WorkerName)
		if err != nil {
			return err
		}

		timeEntry := &core.TimeEntry{
			WorkerID: worker.ID,
			BatchID:  &batch.ID,
			Date:     entry.Date,
			StartAt:  entry.Start,
			EndAt:    entry.End,
		}
		if err := s.store.CreateTimeEntry(timeEntry); err != nil {
			return fmt.Errorf("create time entry for %s: %w", entry.WorkerName, err)
		}

		for _, br := range entry.Breaks {
			b := &core.Break{
				TimeEntryID: timeEntry.ID,
				WorkerID:    worker.ID,
				StartAt:     br.Start,
				EndAt:       br.End,
			}
			if err := s.store.CreateBreak(b); err != nil {
				return fmt.Errorf("create break for %s: %w", entry.WorkerName, err)
			}
		}
		ok++
	}

	batch.RowsTotal = len(rows)
	batch.RowsOk = ok
	batch.Status = core.BatchCompleted
	batch.FinishedAt = utils.Ptr(s.now())
	return s.store.SaveBatch(batch)
}

// resolveWorker matches by exact full name only, deriving a synthetic
// employee key when creating. This is deliberately a different identity
// strategy than the directory pipeline's key match: a worker whose name
// differs between the export and the directory ends up as a second Worker
// row rather than being guessed into an existing one.
func (s *ImportService) resolveWorker(name string) (*core.Worker, error) {
	worker, err := s.store.FindWorkerByName(name)
	if err != nil {
		return nil, fmt.Errorf("find worker %q: %w", name, err)
	}
	if worker != nil {
		return worker, nil
	}

	key := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	worker = &core.Worker{EmployeeKey: key, FullName: name}
	if err := s.store.CreateWorker(worker); err != nil {
		return nil, fmt.Errorf("create worker %q: %w", name, err)
	}
	return worker, nil
}
