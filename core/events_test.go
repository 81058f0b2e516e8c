package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"guardpost.app/guardpost/core/models"
)

func TestApplyEvent(t *testing.T) {
	att := &models.Attendance{}

	assert.NoError(t, ApplyEvent(att, EventStart, "2024-01-01T09:00:00Z"))
	assert.NoError(t, ApplyEvent(att, EventLunchStart, "2024-01-01T12:00:00Z"))
	assert.NoError(t, ApplyEvent(att, EventLunchEnd, "2024-01-01T12:30:00Z"))
	assert.Nil(t, att.TotalHours)

	assert.NoError(t, ApplyEvent(att, EventEnd, "2024-01-01T17:00:00Z"))
	if assert.NotNil(t, att.TotalHours) {
		assert.Equal(t, 7.5, *att.TotalHours)
	}
}

func TestApplyEventOverwritesOutOfOrder(t *testing.T) {
	att := &models.Attendance{}

	// end before start is accepted and yields a clamped total
	assert.NoError(t, ApplyEvent(att, EventEnd, "2024-01-01T08:00:00Z"))
	if assert.NotNil(t, att.TotalHours) {
		assert.Equal(t, 0.0, *att.TotalHours)
	}

	assert.NoError(t, ApplyEvent(att, EventStart, "2024-01-01T07:00:00Z"))
	assert.NoError(t, ApplyEvent(att, EventEnd, "2024-01-01T08:00:00Z"))
	if assert.NotNil(t, att.TotalHours) {
		assert.Equal(t, 1.0, *att.TotalHours)
	}
}

func TestApplyEventLocationLeavesTimesAlone(t *testing.T) {
	att := &models.Attendance{}
	assert.NoError(t, ApplyEvent(att, EventLocation, "2024-01-01T09:00:00Z"))
	assert.Nil(t, att.StartTime)
	assert.Nil(t, att.EndTime)
}

func TestApplyEventUnknownType(t *testing.T) {
	att := &models.Attendance{}
	assert.Error(t, ApplyEvent(att, "tea_break", "2024-01-01T09:00:00Z"))
}
