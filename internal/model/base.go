package model

import "time"

// RecordBase is shared by every table. Rows are hard deleted so unique indexes stay exact and
// certificates can rely on their foreign keys.
type RecordBase struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
