package sync

import (
	"sort"
	"time"

	"shiftsync.com/shiftsync/utils"
)

// TimesheetRow is one raw row from a Teams Shifts export. Field absence is
// meaningful: a row with a label is a shift row, a row with only an
// entry/exit pair is a break row.
type TimesheetRow struct {
	WorkerName    string
	Date          time.Time
	Label         *string
	Entry         *time.Time
	Exit          *time.Time
	ShiftStart    *time.Time
	ShiftEnd      *time.Time
	UnpaidMinutes *int
	BreakStart    *time.Time
	BreakEnd      *time.Time
}

type NormalizedBreak struct {
	Start time.Time
	End   time.Time
}

// NormalizedEntry is a reconstructed shift with its attached breaks, ready
// for persistence and independent of any particular file format.
type NormalizedEntry struct {
	WorkerName string
	Date       time.Time
	Start      time.Time
	End        time.Time
	Breaks     []NormalizedBreak
}

type groupKey struct {
	worker string
	date   time.Time
}

// Normalize reconstructs shifts-with-breaks from a flat, unordered row set.
// Rows are grouped by (worker, date) with exact equality; within a group,
// each break row attaches to the shift it overlaps most, and a break ending
// after the shift's recorded end pushes that end forward. Breaks overlapping
// no shift are dropped. Pure function, no persistence.
func Normalize(rows []TimesheetRow) []NormalizedEntry {
	grouped := utils.GroupBy(rows, func(r TimesheetRow) groupKey {
		return groupKey{worker: r.WorkerName, date: r.Date}
	})

	keys := make([]groupKey, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].worker != keys[j].worker {
			return keys[i].worker < keys[j].worker
		}
		return keys[i].date.Before(keys[j].date)
	})

	var results []NormalizedEntry
	for _, key := range keys {
		results = append(results, normalizeGroup(key, grouped[key])...)
	}
	return results
}

func normalizeGroup(key groupKey, rows []TimesheetRow) []NormalizedEntry {
	var shifts []NormalizedEntry
	var breaks []NormalizedBreak

	for _, r := range rows {
		if r.Label != nil {
			start := r.ShiftStart
			if start == nil {
				start = r.Entry
			}
			// guard against an exit recorded past the nominal shift end
			end := r.ShiftEnd
			if r.Exit != nil && (end == nil || r.Exit.After(*end)) {
				end = r.Exit
			}
			if start == nil || end == nil {
				continue
			}
			shifts = append(shifts, NormalizedEntry{
				WorkerName: key.worker,
				Date:       key.date,
				Start:      *start,
				End:        *end,
			})
		} else if r.Entry != nil && r.Exit != nil {
			breaks = append(breaks, NormalizedBreak{Start: *r.Entry, End: *r.Exit})
		}
	}

	// associate breaks to shifts by maximal overlap; ties keep the first
	// shift in row order
	for _, br := range breaks {
		best := -1
		var bestOverlap time.Duration
		for i := range shifts {
			if ov := overlap(br, shifts[i]); ov > bestOverlap {
				bestOverlap = ov
				best = i
			}
		}
		if best < 0 {
			continue
		}
		shifts[best].Breaks = append(shifts[best].Breaks, br)
		if br.End.After(shifts[best].End) {
			shifts[best].End = br.End
		}
	}

	return shifts
}

func overlap(br NormalizedBreak, shift NormalizedEntry) time.Duration {
	start := br.Start
	if shift.Start.After(start) {
		start = shift.Start
	}
	end := br.End
	if shift.End.Before(end) {
		end = shift.End
	}
	if d := end.Sub(start); d > 0 {
		return d
	}
	return 0
}
