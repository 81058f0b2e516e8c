package core

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"guardpost.app/guardpost/utils"
)

// DeviceRecord is one row of a clock-device CSV export:
// EmployeeID,Timestamp[,Lat,Lng] with an RFC3339 timestamp.
type DeviceRecord struct {
	EmployeeID string
	Timestamp  time.Time
	Date       string // YYYY-MM-DD, derived from Timestamp
	Lat        *float64
	Lng        *float64
}

// DayGroup collects one employee's device records for one date. The earliest
// stamp becomes the day's start and the latest the day's end.
type DayGroup struct {
	EmployeeID string
	Date       string
	From       time.Time
	To         time.Time
	Records    []DeviceRecord
}

func ParseDeviceCSV(r io.Reader) ([]DeviceRecord, error) {
	rows, err := utils.ParseCSV(r)
	if err != nil {
		return nil, err
	}

	var records []DeviceRecord
	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		if len(row) < 2 {
			return nil, fmt.Errorf("row %d: expected at least 2 columns, got %d", i, len(row))
		}

		timestamp, err := time.Parse(time.RFC3339, row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid timestamp: %w", i, err)
		}

		record := DeviceRecord{
			EmployeeID: row[0],
			Timestamp:  timestamp,
			Date:       timestamp.Format("2006-01-02"),
		}

		if len(row) >= 4 && row[2] != "" && row[3] != "" {
			lat, err1 := strconv.ParseFloat(row[2], 64)
			lng, err2 := strconv.ParseFloat(row[3], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("row %d: invalid coordinates", i)
			}
			record.Lat = &lat
			record.Lng = &lng
		}

		records = append(records, record)
	}

	return records, nil
}

func GroupDeviceRecords(records []DeviceRecord) []DayGroup {
	grouped := utils.GroupBy(records, func(r DeviceRecord) string {
		return r.EmployeeID + "|" + r.Date
	})

	var groups []DayGroup
	for _, recs := range grouped {
		sort.Slice(recs, func(i, j int) bool {
			return recs[i].Timestamp.Before(recs[j].Timestamp)
		})
		groups = append(groups, DayGroup{
			EmployeeID: recs[0].EmployeeID,
			Date:       recs[0].Date,
			From:       recs[0].Timestamp,
			To:         recs[len(recs)-1].Timestamp,
			Records:    recs,
		})
	}

	// deterministic order for persistence and tests
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].EmployeeID != groups[j].EmployeeID {
			return groups[i].EmployeeID < groups[j].EmployeeID
		}
		return groups[i].Date < groups[j].Date
	})

	return groups
}
