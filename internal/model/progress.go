package model

import "time"

// swagger:model Progress
type Progress struct {
	RecordBase
	UserID      uint       `gorm:"not null;uniqueIndex:idx_progress_user_lesson" json:"userId"`
	LessonID    uint       `gorm:"not null;uniqueIndex:idx_progress_user_lesson;index" json:"lessonId"`
	Completed   bool       `gorm:"not null" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Lesson      *Lesson    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Progress) TableName() string {
	return "progress"
}
