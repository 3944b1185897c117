package repository

import (
	"context"
	"course_hub_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository struct {
	DB *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{DB: db}
}

// CreatePending records a new checkout. A row for the session that already exists (the paid
// webhook got there first) is left untouched.
func (r *PurchaseRepository) CreatePending(ctx context.Context, purchase *model.Purchase) error {
	purchase.Status = model.PurchasePending
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "session_id"}}, DoNothing: true}).
		Create(purchase).Error
}

func (r *PurchaseRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.DB.WithContext(ctx).Where("session_id = ?", sessionID).First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// MarkPaid settles the pending purchase for the session, or records a paid one when no row
// exists yet. Purchases already paid keep their original paid time.
func (r *PurchaseRepository) MarkPaid(ctx context.Context, purchase *model.Purchase, paidAt time.Time) error {
	db := r.DB.WithContext(ctx)

	result := db.Model(&model.Purchase{}).
		Where("session_id = ? AND status = ?", purchase.SessionID, model.PurchasePending).
		Updates(map[string]interface{}{
			"status":  model.PurchasePaid,
			"paid_at": paidAt,
		})
	if result.Error != nil || result.RowsAffected > 0 {
		return result.Error
	}

	purchase.Status = model.PurchasePaid
	purchase.PaidAt = &paidAt
	return db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "session_id"}}, DoNothing: true}).
		Create(purchase).Error
}
