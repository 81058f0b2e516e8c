package core

import (
	"fmt"

	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/utils"
)

const (
	EventStart      = "start"
	EventLunchStart = "lunch_start"
	EventLunchEnd   = "lunch_end"
	EventEnd        = "end"
	EventLocation   = "location"
)

// ApplyEvent writes one attendance event into the day's record. Ordering is
// deliberately not enforced: any event may arrive at any time and overwrites
// its field, matching how the clock UI retries and corrects. The total is
// derived on end events only.
func ApplyEvent(att *models.Attendance, eventType string, timeStr string) error {
	switch eventType {
	case EventStart:
		att.StartTime = &timeStr
	case EventLunchStart:
		att.LunchStartTime = &timeStr
	case EventLunchEnd:
		att.LunchEndTime = &timeStr
	case EventEnd:
		att.EndTime = &timeStr
		att.TotalHours = utils.Ptr(ComputeTotalHours(att.StartTime, att.EndTime, att.LunchStartTime, att.LunchEndTime))
	case EventLocation:
		// GPS-only ping, no time field to update
	default:
		return fmt.Errorf("unknown event type %q", eventType)
	}
	return nil
}
