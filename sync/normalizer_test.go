package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shiftsync.com/shiftsync/utils"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func at(d, h, m int) *time.Time {
	t := time.Date(2026, 3, d, h, m, 0, 0, time.UTC)
	return &t
}

func TestNormalizeSingleShiftWithBreak(t *testing.T) {
	rows := []TimesheetRow{
		{
			WorkerName: "Alice Smith",
			Date:       day(2),
			Label:      utils.Ptr("Morning"),
			Entry:      at(2, 8, 58),
			Exit:       at(2, 17, 3),
			ShiftStart: at(2, 9, 0),
			ShiftEnd:   at(2, 17, 0),
		},
		{
			WorkerName: "Alice Smith",
			Date:       day(2),
			Entry:      at(2, 12, 0),
			Exit:       at(2, 12, 30),
		},
	}

	entries := Normalize(rows)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "Alice Smith", entry.WorkerName)
	assert.Equal(t, *at(2, 9, 0), entry.Start)
	// exit past the nominal shift end wins
	assert.Equal(t, *at(2, 17, 3), entry.End)
	require.Len(t, entry.Breaks, 1)
	assert.Equal(t, *at(2, 12, 0), entry.Breaks[0].Start)
	assert.Equal(t, *at(2, 12, 30), entry.Breaks[0].End)
}

func TestNormalizeShiftStartFallsBackToEntry(t *testing.T) {
	rows := []TimesheetRow{
		{
			WorkerName: "Alice Smith",
			Date:       day(2),
			Label:      utils.Ptr("Morning"),
			Entry:      at(2, 9, 12),
			Exit:       at(2, 17, 0),
		},
	}

	entries := Normalize(rows)
	require.Len(t, entries, 1)
	assert.Equal(t, *at(2, 9, 12), entries[0].Start)
	assert.Equal(t, *at(2, 17, 0), entries[0].End)
}

func TestNormalizeShiftMissingBoundsIsDropped(t *testing.T) {
	rows := []TimesheetRow{
		{
			WorkerName: "Alice Smith",
			Date:       day(2),
			Label:      utils.Ptr("Morning"),
			ShiftStart: at(2, 9, 0),
			// no end of any kind
		},
	}

	assert.Empty(t, Normalize(rows))
}

func TestNormalizeBreakAttachesToMostOverlappingShift(t *testing.T) {
	rows := []TimesheetRow{
		{
			WorkerName: "Bob Jones",
			Date:       day(3),
			Label:      utils.Ptr("Morning"),
			ShiftStart: at(3, 8, 0),
			ShiftEnd:   at(3, 12, 0),
		},
		{
			WorkerName: "Bob Jones",
			Date:       day(3),
			Label:      utils.Ptr("Afternoon"),
			ShiftStart: at(3, 13, 0),
			ShiftEnd:   at(3, 18, 0),
		},
		{
			// 11:45 - 13:30: 15m in the morning shift, 30m in the afternoon
			WorkerName: "Bob Jones",
			Date:       day(3),
			Entry:      at(3, 11, 45),
			Exit:       at(3, 13, 30),
		},
	}

	entries := Normalize(rows)
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].Breaks)
	require.Len(t, entries[1].Breaks, 1)
	assert.Equal(t, *at(3, 11, 45), entries[1].Breaks[0].Start)
}

func TestNormalizeBreakTieKeepsFirstShift(t *testing.T) {
	rows := []TimesheetRow{
		{
			WorkerName: "Bob Jones",
			Date:       day(3),
			Label:      utils.Ptr("Morning"),
			ShiftStart: at(3, 8, 0),
			ShiftEnd:   at(3, 12, 0),
		},
		{
			WorkerName: "Bob Jones",
			Date:       day(3),
			Label:      utils.Ptr("Afternoon"),
			ShiftStart: at(3, 12, 0),
			ShiftEnd:   at(3, 16, 0),
		},
		{
			// 11:30 - 12:30: 30m in each shift
			WorkerName: "Bob Jones",
			Date:       day(3),
			Entry:      at(3, 11, 30),
			Exit:       at(3, 12, 30),
		},
	}

	entries := Normalize(rows)
	require.Len(t, entries, 2)
	require.Len(t, entries[0].Breaks, 1)
	assert.Empty(t, entries[1].Breaks)
}

func TestNormalizeBreakExtendsShiftEnd(t *testing.T) {
	rows := []TimesheetRow{
		{
			WorkerName: "Bob Jones",
			Date:       day(3),
			Label:      utils.Ptr("Morning"),
			ShiftStart: at(3, 8, 0),
			ShiftEnd:   at(3, 12, 0),
		},
		{
			WorkerName: "Bob Jones",
			Date:       day(3),
			Entry:      at(3, 11, 30),
			Exit:       at(3, 12, 45),
		},
	}

	entries := Normalize(rows)
	require.Len(t, entries, 1)
	assert.Equal(t, *at(3, 12, 45), entries[0].End)
}

func TestNormalizeBreakWithNoOverlapIsDropped(t *testing.T) {
	rows := []TimesheetRow{
		{
			WorkerName: "Bob Jones",
			Date:       day(3),
			Label:      utils.Ptr("Morning"),
			ShiftStart: at(3, 8, 0),
			ShiftEnd:   at(3, 12, 0),
		},
		{
			WorkerName: "Bob Jones",
			Date:       day(3),
			Entry:      at(3, 18, 0),
			Exit:       at(3, 18, 30),
		},
	}

	entries := Normalize(rows)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Breaks)
}

func TestNormalizeGroupsByWorkerAndDate(t *testing.T) {
	rows := []TimesheetRow{
		{
			WorkerName: "Bob Jones",
			Date:       day(4),
			Label:      utils.Ptr("Morning"),
			ShiftStart: at(4, 8, 0),
			ShiftEnd:   at(4, 12, 0),
		},
		{
			WorkerName: "Alice Smith",
			Date:       day(3),
			Label:      utils.Ptr("Morning"),
			ShiftStart: at(3, 9, 0),
			ShiftEnd:   at(3, 17, 0),
		},
		{
			// break in a group with no shift must not cross groups
			WorkerName: "Bob Jones",
			Date:       day(3),
			Entry:      at(3, 10, 0),
			Exit:       at(3, 10, 30),
		},
	}

	entries := Normalize(rows)
	require.Len(t, entries, 2)
	assert.Equal(t, "Alice Smith", entries[0].WorkerName)
	assert.Empty(t, entries[0].Breaks)
	assert.Equal(t, "Bob Jones", entries[1].WorkerName)
	assert.Empty(t, entries[1].Breaks)
}
