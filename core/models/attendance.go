package models

import "time"

// Attendance is one record per (user, calendar date). The four event times are
// stored exactly as the client supplied them; parsing and validation happen in
// core when hours are derived.
type Attendance struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint   `gorm:"column:user_id;not null;uniqueIndex:idx_user_date" json:"userId"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date   string `gorm:"size:10;not null;uniqueIndex:idx_user_date" json:"date"` // YYYY-MM-DD

	StartTime      *string `gorm:"column:start_time;size:64" json:"startTime"`
	LunchStartTime *string `gorm:"column:lunch_start_time;size:64" json:"lunchStartTime"`
	LunchEndTime   *string `gorm:"column:lunch_end_time;size:64" json:"lunchEndTime"`
	EndTime        *string `gorm:"column:end_time;size:64" json:"endTime"`

	Locations []LocationSample `gorm:"foreignKey:AttendanceID" json:"locations"`

	TotalHours *float64 `gorm:"column:total_hours" json:"totalHours"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// LocationSample is a GPS ping attached to a day's attendance record.
type LocationSample struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	AttendanceID uint    `gorm:"column:attendance_id;not null;index" json:"-"`
	Time         string  `gorm:"size:64" json:"time"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

func (LocationSample) TableName() string {
	return "location_samples"
}
