package spreadsheet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
	"guardpost.app/guardpost/core"
	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/utils"
)

var header = []interface{}{
	"Employee ID", "Name", "Date", "Begin Work", "Lunch",
	"Return From Lunch", "End Work", "Total", "Remarks (loc)",
}

// Mirror maintains the shared attendance workbook: one worksheet per
// employee, one row per date. All writes are funneled through a single
// mutex; the workbook file itself has no locking, so this writer must be
// the only one touching it.
//
// Mirror writes are best-effort by contract: callers log the returned
// error and carry on.
type Mirror struct {
	mu   sync.Mutex
	path string
}

func NewMirror(path string) *Mirror {
	return &Mirror{path: path}
}

// RecordEvent writes the column affected by one attendance event into the
// employee's row for the day, creating sheet and row as needed.
func (m *Mirror) RecordEvent(user *models.User, att *models.Attendance, eventType string, lat, lng *float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, row, err := m.open(user, att.Date)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := user.EmployeeID
	switch eventType {
	case core.EventStart:
		f.SetCellValue(sheet, cell("D", row), utils.FormatClock(att.StartTime))
	case core.EventLunchStart:
		f.SetCellValue(sheet, cell("E", row), utils.FormatClock(att.LunchStartTime))
	case core.EventLunchEnd:
		f.SetCellValue(sheet, cell("F", row), utils.FormatClock(att.LunchEndTime))
	case core.EventEnd:
		f.SetCellValue(sheet, cell("G", row), utils.FormatClock(att.EndTime))
		f.SetCellValue(sheet, cell("H", row), formatTotal(att.TotalHours))
	}

	if lat != nil && lng != nil {
		f.SetCellValue(sheet, cell("I", row), fmt.Sprintf("Lat: %v, Lng: %v", *lat, *lng))
	}

	return m.save(f)
}

// WriteRow rewrites the employee's whole row for the record's date, used
// after admin edits. The remarks column is left untouched.
func (m *Mirror) WriteRow(user *models.User, att *models.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, row, err := m.open(user, att.Date)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := user.EmployeeID
	f.SetCellValue(sheet, cell("D", row), utils.FormatClock(att.StartTime))
	f.SetCellValue(sheet, cell("E", row), utils.FormatClock(att.LunchStartTime))
	f.SetCellValue(sheet, cell("F", row), utils.FormatClock(att.LunchEndTime))
	f.SetCellValue(sheet, cell("G", row), utils.FormatClock(att.EndTime))
	f.SetCellValue(sheet, cell("H", row), formatTotal(att.TotalHours))

	return m.save(f)
}

// RenameSheet moves an employee's worksheet to a new ID after an admin
// changes it, so the history stays on one sheet. Missing workbook or sheet
// is not an error; there is simply nothing to move yet.
func (m *Mirror) RenameSheet(oldID, newID string) error {
	if oldID == newID {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := excelize.OpenFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(oldID)
	if err != nil {
		return fmt.Errorf("sheet %q: %w", oldID, err)
	}
	if idx == -1 {
		return nil
	}

	if err := f.SetSheetName(oldID, newID); err != nil {
		return fmt.Errorf("rename sheet %q: %w", oldID, err)
	}
	return m.save(f)
}

// open loads (or creates) the workbook and returns it together with the
// 1-based row number for the employee's date, appending a fresh row when
// the date is not present yet.
func (m *Mirror) open(user *models.User, date string) (*excelize.File, int, error) {
	f, err := excelize.OpenFile(m.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("open workbook: %w", err)
		}
		f = excelize.NewFile()
	}

	sheet := user.EmployeeID
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, 0, fmt.Errorf("create sheet %q: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			f.Close()
			return nil, 0, fmt.Errorf("write header: %w", err)
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("scan sheet %q: %w", sheet, err)
	}

	for i, r := range rows {
		if i == 0 {
			continue
		}
		if len(r) >= 3 && r[2] == date {
			return f, i + 1, nil
		}
	}

	row := len(rows) + 1
	seed := []interface{}{user.EmployeeID, user.Name, date}
	if err := f.SetSheetRow(sheet, cell("A", row), &seed); err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("append row: %w", err)
	}
	return f, row, nil
}

func (m *Mirror) save(f *excelize.File) error {
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create workbook dir: %w", err)
		}
	}
	if err := f.SaveAs(m.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func formatTotal(total *float64) string {
	if total == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *total)
}
