package models

type JobPost struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:128;uniqueIndex;not null" json:"name"`
}

func (JobPost) TableName() string {
	return "job_posts"
}
