package model

import "time"

type PurchaseStatus string

const (
	PurchasePending PurchaseStatus = "pending"
	PurchasePaid    PurchaseStatus = "paid"
)

// Purchase records a checkout attempt with the payment provider.
// swagger:model Purchase
type Purchase struct {
	RecordBase
	UserID    uint           `gorm:"not null;index" json:"userId"`
	CourseID  uint           `gorm:"not null;index" json:"courseId"`
	SessionID string         `gorm:"size:255;not null;uniqueIndex" json:"sessionId"`
	Reference string         `gorm:"size:255;not null" json:"reference"`
	Amount    int64          `gorm:"not null" json:"amount"`
	Currency  string         `gorm:"size:10;not null" json:"currency"`
	Status    PurchaseStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaidAt    *time.Time     `json:"paidAt"`
}

func (Purchase) TableName() string {
	return "purchases"
}
