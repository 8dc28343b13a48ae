package sync

import (
	"fmt"
	"strings"
	"time"

	"shiftsync.com/shiftsync/core"
	v1 "shiftsync.com/shiftsync/graph/v1"
	"shiftsync.com/shiftsync/utils"
)

// Window is the date range a sync pass fetched upstream records for. It
// bounds the scope of deletion reconciliation: records outside it are never
// touched, so older history survives a windowed snapshot that omits it.
type Window struct {
	From *time.Time
	To   *time.Time
}

// PersistTimeCards converts upstream time cards into local time entries with
// their breaks, then reconciles deletions inside the window.
//
// Entries are create-once: a card whose external id is already known is
// skipped without updates. Cards for unknown workers and open cards (no
// clock-out yet) are skipped too, since an unfinished card is not a complete
// interval.
func PersistTimeCards(store Store, cards []v1.GraphTimeCard, workers map[string]*core.Worker, window Window) error {
	for _, card := range cards {
		worker := workers[strings.ToLower(card.UserID)]
		if worker == nil || card.ClockOutDateTime == nil {
			continue
		}

		existing, err := store.FindTimeEntryByGraphID(card.ID)
		if err != nil {
			return fmt.Errorf("find time entry %s: %w", card.ID, err)
		}
		if existing != nil {
			continue
		}

		entry := &core.TimeEntry{
			WorkerID: worker.ID,
			GraphID:  utils.Ptr(card.ID),
			Date:     card.ClockInDateTime,
			StartAt:  card.ClockInDateTime,
			EndAt:    *card.ClockOutDateTime,
		}
		if err := store.CreateTimeEntry(entry); err != nil {
			return fmt.Errorf("create time entry %s: %w", card.ID, err)
		}

		for _, brk := range card.Breaks {
			b := &core.Break{
				TimeEntryID: entry.ID,
				WorkerID:    worker.ID,
				StartAt:     brk.StartDateTime,
				EndAt:       brk.EndDateTime,
			}
			if err := store.CreateBreak(b); err != nil {
				return fmt.Errorf("create break for entry %s: %w", card.ID, err)
			}
		}
	}

	return reconcileTimeEntryDeletions(store, cards, window)
}

// reconcileTimeEntryDeletions removes directory-sourced entries dated inside
// the window whose external id no longer appears upstream. Runs only when
// both window bounds are present.
func reconcileTimeEntryDeletions(store Store, cards []v1.GraphTimeCard, window Window) error {
	if window.From == nil || window.To == nil {
		return nil
	}

	existing, err := store.GraphTimeEntriesInWindow(*window.From, *window.To)
	if err != nil {
		return fmt.Errorf("scan window for stale entries: %w", err)
	}

	remoteIDs := utils.SetOf(utils.Map(cards, func(c v1.GraphTimeCard) string { return c.ID }))
	for _, entry := range existing {
		if entry.GraphID == nil || remoteIDs[*entry.GraphID] {
			continue
		}
		if err := store.DeleteTimeEntry(entry.ID); err != nil {
			return fmt.Errorf("delete stale entry %s: %w", *entry.GraphID, err)
		}
	}
	return nil
}
