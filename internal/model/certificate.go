package model

import "time"

// Certificate rows are immutable and have no delete path; the public identifier must resolve forever.
// swagger:model Certificate
type Certificate struct {
	RecordBase
	UserID          uint      `gorm:"not null;uniqueIndex:idx_certificate_user_course" json:"userId"`
	CourseID        uint      `gorm:"not null;uniqueIndex:idx_certificate_user_course" json:"courseId"`
	CertificateID   string    `gorm:"size:32;not null;uniqueIndex" json:"certificateId"`
	VerificationURL string    `gorm:"size:512;not null" json:"verificationUrl"`
	CompletionDate  time.Time `gorm:"not null" json:"completionDate"`
	User            *User     `gorm:"constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	Course          *Course   `gorm:"constraint:OnDelete:RESTRICT" json:"course,omitempty"`
}

func (Certificate) TableName() string {
	return "certificates"
}
