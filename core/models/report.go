package models

import "time"

const (
	ReportTypeAllOK       = "all_ok"
	ReportTypeProblem     = "problem"
	ReportTypeSecurity    = "security"
	ReportTypeMaintenance = "maintenance"
	ReportTypeSuspicious  = "suspicious"
	ReportTypeEquipment   = "equipment"
	ReportTypeOther       = "other"
)

// Report is an incident/status submission. Reports are write-once: they are
// created by guards and read by admins, never updated.
type Report struct {
	ID       uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint     `gorm:"column:user_id;not null;index" json:"userId"`
	User     *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type     string   `gorm:"size:32;not null;index" json:"type"`
	Date     string   `gorm:"size:10;not null;index" json:"date"` // YYYY-MM-DD
	Time     string   `gorm:"size:8;not null" json:"time"`        // HH:MM
	Message  string   `gorm:"type:text;not null" json:"message"`
	Location string   `gorm:"size:255" json:"location"`
	Pictures []string `gorm:"serializer:json" json:"pictures"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
}

func (Report) TableName() string {
	return "reports"
}
