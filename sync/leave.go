package sync

import (
	"fmt"
	"strings"

	"shiftsync.com/shiftsync/core"
	v1 "shiftsync.com/shiftsync/graph/v1"
	"shiftsync.com/shiftsync/utils"
)

// PersistTimeOff converts upstream time-off requests into local leaves with
// the same create-once discipline as time entries, then reconciles deletions.
// Unlike entries, a leave participates in reconciliation when its interval
// merely overlaps the window.
func PersistTimeOff(store Store, offs []v1.GraphTimeOff, reasons []v1.GraphTimeOffReason, workers map[string]*core.Worker, window Window) error {
	reasonMap := make(map[string]string, len(reasons))
	for _, reason := range reasons {
		reasonMap[reason.ID] = reason.DisplayName
	}

	for _, off := range offs {
		worker := workers[strings.ToLower(off.UserID)]
		if worker == nil {
			continue
		}

		existing, err := store.FindLeaveByGraphID(off.ID)
		if err != nil {
			return fmt.Errorf("find leave %s: %w", off.ID, err)
		}
		if existing != nil {
			continue
		}

		label, ok := reasonMap[off.TimeOffReasonID]
		if !ok {
			label = "unknown"
		}

		leave := &core.Leave{
			WorkerID: worker.ID,
			GraphID:  off.ID,
			StartAt:  off.StartDateTime,
			EndAt:    off.EndDateTime,
			Type:     label,
		}
		if err := store.CreateLeave(leave); err != nil {
			return fmt.Errorf("create leave %s: %w", off.ID, err)
		}
	}

	if window.From == nil || window.To == nil {
		return nil
	}

	existing, err := store.LeavesOverlapping(*window.From, *window.To)
	if err != nil {
		return fmt.Errorf("scan window for stale leaves: %w", err)
	}

	remoteIDs := utils.SetOf(utils.Map(offs, func(o v1.GraphTimeOff) string { return o.ID }))
	for _, leave := range existing {
		if remoteIDs[leave.GraphID] {
			continue
		}
		if err := store.DeleteLeave(leave.ID); err != nil {
			return fmt.Errorf("delete stale leave %s: %w", leave.GraphID, err)
		}
	}
	return nil
}
