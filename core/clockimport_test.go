package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDeviceCSV(t *testing.T) {
	csvData := `EmployeeID,Timestamp,Lat,Lng
0001,2024-01-01T09:00:00Z,51.5,-0.12
0001,2024-01-01T17:00:00Z,,
0002,2024-01-01T10:00:00Z,,
`
	records, err := ParseDeviceCSV(strings.NewReader(csvData))
	assert.NoError(t, err)
	assert.Len(t, records, 3)

	assert.Equal(t, "0001", records[0].EmployeeID)
	assert.Equal(t, "2024-01-01", records[0].Date)
	if assert.NotNil(t, records[0].Lat) {
		assert.Equal(t, 51.5, *records[0].Lat)
	}
	assert.Nil(t, records[1].Lat)
	assert.Equal(t, "0002", records[2].EmployeeID)
}

func TestParseDeviceCSVRejectsBadRows(t *testing.T) {
	_, err := ParseDeviceCSV(strings.NewReader("EmployeeID,Timestamp\n0001,yesterday\n"))
	assert.Error(t, err)
}

func TestGroupDeviceRecords(t *testing.T) {
	csvData := `EmployeeID,Timestamp
0002,2024-01-01T10:00:00Z
0001,2024-01-01T17:00:00Z
0001,2024-01-01T09:00:00Z
0001,2024-01-02T08:30:00Z
`
	records, err := ParseDeviceCSV(strings.NewReader(csvData))
	assert.NoError(t, err)

	groups := GroupDeviceRecords(records)
	assert.Len(t, groups, 3)

	// sorted by employee then date
	assert.Equal(t, "0001", groups[0].EmployeeID)
	assert.Equal(t, "2024-01-01", groups[0].Date)
	assert.Equal(t, "2024-01-01T09:00:00Z", groups[0].From.Format("2006-01-02T15:04:05Z"))
	assert.Equal(t, "2024-01-01T17:00:00Z", groups[0].To.Format("2006-01-02T15:04:05Z"))
	assert.Len(t, groups[0].Records, 2)

	assert.Equal(t, "0001", groups[1].EmployeeID)
	assert.Equal(t, "2024-01-02", groups[1].Date)
	assert.Equal(t, groups[1].From, groups[1].To)

	assert.Equal(t, "0002", groups[2].EmployeeID)
}
