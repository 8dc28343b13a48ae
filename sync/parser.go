package sync

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"shiftsync.com/shiftsync/utils"
)

// ErrParse marks an unreadable or malformed timesheet file. The import
// orchestrator treats it as fatal to the batch.
var ErrParse = errors.New("timesheet parse failed")

// RowParser turns an uploaded file into raw timesheet rows.
type RowParser interface {
	Parse(r io.Reader) ([]TimesheetRow, error)
}

// Column layout of the Teams Shifts XLSX export (0-based).
const (
	colDate       = 1
	colName       = 3
	colLabel      = 4
	colEntry      = 5
	colExit       = 6
	colShiftStart = 7
	colShiftEnd   = 8
	colUnpaid     = 9
	colBreakStart = 15
	colBreakEnd   = 16
)

// ExcelParser reads the first sheet of a Teams Shifts export. Rows without a
// date or worker name are skipped; the header row is always skipped.
type ExcelParser struct{}

func (ExcelParser) Parse(r io.Reader) ([]TimesheetRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrParse)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	var out []TimesheetRow
	for _, row := range rows[1:] {
		date := cellTime(row, colDate, nil)
		name := cell(row, colName)
		if date == nil || name == "" {
			continue
		}

		tr := TimesheetRow{
			WorkerName:    name,
			Date:          dateOnly(*date),
			Entry:         cellTime(row, colEntry, date),
			Exit:          cellTime(row, colExit, date),
			ShiftStart:    cellTime(row, colShiftStart, date),
			ShiftEnd:      cellTime(row, colShiftEnd, date),
			UnpaidMinutes: cellInt(row, colUnpaid),
			BreakStart:    cellTime(row, colBreakStart, date),
			BreakEnd:      cellTime(row, colBreakEnd, date),
		}
		if label := cell(row, colLabel); label != "" {
			tr.Label = utils.Ptr(label)
		}
		out = append(out, tr)
	}

	return out, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// cellTime parses a cell as a timestamp. Bare clock values like "09:30" are
// anchored on the row's date when one is available.
func cellTime(row []string, idx int, date *time.Time) *time.Time {
	raw := cell(row, idx)
	if raw == "" {
		return nil
	}

	if t, err := utils.ParseISOTime(raw); err == nil {
		return t
	}

	if date != nil {
		for _, layout := range []string{"15:04", "15:04:05", "3:04 PM"} {
			if clock, err := time.Parse(layout, raw); err == nil {
				t := time.Date(date.Year(), date.Month(), date.Day(),
					clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
				return &t
			}
		}
	}
	return nil
}

func cellInt(row []string, idx int) *int {
	raw := cell(row, idx)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
