package core

import "guardpost.app/guardpost/core/models"

type GuardStatus string

const (
	StatusActive  GuardStatus = "active"
	StatusBreak   GuardStatus = "break"
	StatusOffline GuardStatus = "offline"
)

// ClassifyAttendance derives the live status of a guard from today's record:
// active when work has started and not ended, break when a lunch is open
// (lunch start without lunch end), offline otherwise.
func ClassifyAttendance(att *models.Attendance) GuardStatus {
	if att == nil || att.StartTime == nil {
		return StatusOffline
	}
	if att.EndTime != nil {
		return StatusOffline
	}
	if att.LunchStartTime != nil && att.LunchEndTime == nil {
		return StatusBreak
	}
	return StatusActive
}

// LastSeen returns the timestamp that best represents the guard's latest
// known activity for the derived status.
func LastSeen(att *models.Attendance) *string {
	if att == nil {
		return nil
	}
	switch ClassifyAttendance(att) {
	case StatusBreak:
		return att.LunchStartTime
	case StatusActive:
		return att.StartTime
	default:
		if att.EndTime != nil {
			return att.EndTime
		}
		return nil
	}
}
