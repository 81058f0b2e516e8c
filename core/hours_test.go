package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"guardpost.app/guardpost/utils"
)

func TestComputeTotalHours(t *testing.T) {
	tests := []struct {
		name       string
		start      *string
		end        *string
		lunchStart *string
		lunchEnd   *string
		expected   float64
	}{
		{
			name:     "Full day no lunch",
			start:    utils.Ptr("2024-01-01T09:00:00Z"),
			end:      utils.Ptr("2024-01-01T17:00:00Z"),
			expected: 8,
		},
		{
			name:       "Full day with half hour lunch",
			start:      utils.Ptr("2024-01-01T09:00:00Z"),
			end:        utils.Ptr("2024-01-01T17:00:00Z"),
			lunchStart: utils.Ptr("2024-01-01T12:00:00Z"),
			lunchEnd:   utils.Ptr("2024-01-01T12:30:00Z"),
			expected:   7.5,
		},
		{
			name:     "End before start clamps to zero",
			start:    utils.Ptr("2024-01-01T09:00:00Z"),
			end:      utils.Ptr("2024-01-01T08:00:00Z"),
			expected: 0,
		},
		{
			name:     "Missing start",
			end:      utils.Ptr("2024-01-01T17:00:00Z"),
			expected: 0,
		},
		{
			name:     "Missing end",
			start:    utils.Ptr("2024-01-01T09:00:00Z"),
			expected: 0,
		},
		{
			name:     "Unparseable start",
			start:    utils.Ptr("not-a-time"),
			end:      utils.Ptr("2024-01-01T17:00:00Z"),
			expected: 0,
		},
		{
			name:       "Unparseable lunch skips subtraction only",
			start:      utils.Ptr("2024-01-01T09:00:00Z"),
			end:        utils.Ptr("2024-01-01T17:00:00Z"),
			lunchStart: utils.Ptr("garbage"),
			lunchEnd:   utils.Ptr("2024-01-01T12:30:00Z"),
			expected:   8,
		},
		{
			name:       "Lunch start without lunch end is ignored",
			start:      utils.Ptr("2024-01-01T09:00:00Z"),
			end:        utils.Ptr("2024-01-01T17:00:00Z"),
			lunchStart: utils.Ptr("2024-01-01T12:00:00Z"),
			expected:   8,
		},
		{
			name:       "Lunch longer than shift clamps to zero",
			start:      utils.Ptr("2024-01-01T09:00:00Z"),
			end:        utils.Ptr("2024-01-01T10:00:00Z"),
			lunchStart: utils.Ptr("2024-01-01T09:00:00Z"),
			lunchEnd:   utils.Ptr("2024-01-01T12:00:00Z"),
			expected:   0,
		},
		{
			name:     "Rounded to two decimals",
			start:    utils.Ptr("2024-01-01T09:00:00Z"),
			end:      utils.Ptr("2024-01-01T09:10:00Z"),
			expected: 0.17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotalHours(tt.start, tt.end, tt.lunchStart, tt.lunchEnd)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestComputeTotalHoursIdempotent(t *testing.T) {
	start := utils.Ptr("2024-01-01T09:00:00Z")
	end := utils.Ptr("2024-01-01T17:00:00Z")
	lunchStart := utils.Ptr("2024-01-01T12:00:00Z")
	lunchEnd := utils.Ptr("2024-01-01T12:30:00Z")

	first := ComputeTotalHours(start, end, lunchStart, lunchEnd)
	second := ComputeTotalHours(start, end, lunchStart, lunchEnd)
	assert.Equal(t, first, second)
}

func TestIsInvalidTotal(t *testing.T) {
	assert.True(t, IsInvalidTotal(nil))
	assert.True(t, IsInvalidTotal(utils.Ptr(-0.5)))
	assert.True(t, IsInvalidTotal(utils.Ptr(1000.01)))
	assert.False(t, IsInvalidTotal(utils.Ptr(0.0)))
	assert.False(t, IsInvalidTotal(utils.Ptr(7.5)))
	assert.False(t, IsInvalidTotal(utils.Ptr(1000.0)))
}
