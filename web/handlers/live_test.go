package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/utils"
)

func TestGuardActivity(t *testing.T) {
	now := time.Date(2025, 10, 13, 13, 0, 0, 0, time.UTC)
	user := &models.User{EmployeeID: "0001", Name: "Alice"}

	att := &models.Attendance{
		StartTime:      utils.Ptr("2025-10-13T09:00:00Z"),
		LunchStartTime: utils.Ptr("2025-10-13T12:00:00Z"),
	}

	entries := guardActivity(user, att, now)
	assert.Len(t, entries, 2)
	assert.Equal(t, "started work", entries[0].Action)
	assert.Equal(t, "4 hours ago", entries[0].TimeAgo)
	assert.Equal(t, "went on lunch", entries[1].Action)
	assert.Equal(t, "1 hour ago", entries[1].TimeAgo)
	assert.Equal(t, "0001", entries[0].EmployeeID)
}

func TestGuardActivitySkipsUnparseableTimes(t *testing.T) {
	now := time.Date(2025, 10, 13, 13, 0, 0, 0, time.UTC)
	user := &models.User{EmployeeID: "0002", Name: "Bob"}

	att := &models.Attendance{
		StartTime: utils.Ptr("not a timestamp"),
		EndTime:   utils.Ptr("2025-10-13T12:30:00Z"),
	}

	entries := guardActivity(user, att, now)
	assert.Len(t, entries, 1)
	assert.Equal(t, "ended work", entries[0].Action)
}
