package models

type User struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID string `gorm:"column:employee_id;size:32;uniqueIndex;not null" json:"employeeId"`
	Password   string `gorm:"size:128;not null" json:"-"`
	Name       string `gorm:"size:128" json:"name"`
	IsAdmin    bool   `gorm:"not null;default:false" json:"isAdmin"`
	Email      string `gorm:"size:128" json:"email"`
	Phone      string `gorm:"size:64" json:"phone"`
	Address    string `gorm:"size:255" json:"address"`

	// URLs under /uploads (or mirrored object keys).
	ProfilePic string   `gorm:"size:255" json:"profilePic"`
	IDDocs     []string `gorm:"column:id_docs;serializer:json" json:"idDocs"`

	LocationID *uint     `gorm:"column:location_id" json:"locationId"`
	Location   *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	JobPostID  *uint     `gorm:"column:job_post_id" json:"jobPostId"`
	JobPost    *JobPost  `gorm:"foreignKey:JobPostID" json:"jobPost,omitempty"`
}

func (User) TableName() string {
	return "users"
}
