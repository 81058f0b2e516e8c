package models

// Location is a guard post a user can be assigned to.
type Location struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:128;uniqueIndex;not null" json:"name"`
}

func (Location) TableName() string {
	return "locations"
}
