package model

type EnrollmentSource string

const (
	EnrollmentPurchase EnrollmentSource = "purchase"
	EnrollmentGrant    EnrollmentSource = "grant"
	EnrollmentFree     EnrollmentSource = "free"
)

// Enrollment is written once and never updated.
// swagger:model Enrollment
type Enrollment struct {
	RecordBase
	UserID   uint             `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"userId"`
	CourseID uint             `gorm:"not null;uniqueIndex:idx_enrollment_user_course;index" json:"courseId"`
	Source   EnrollmentSource `gorm:"size:20;not null" json:"source"`
	User     *User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Course   *Course          `gorm:"constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
