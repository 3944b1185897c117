package repository

import (
	"context"
	"course_hub_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

// Create inserts without checking for an existing row first; callers handle unique violations.
func (r *CertificateRepository) Create(ctx context.Context, cert *model.Certificate) error {
	return r.DB.WithContext(ctx).Create(cert).Error
}

func (r *CertificateRepository) FindByUserAndCourse(ctx context.Context, userID, courseID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// FindByCertificateID resolves a public identifier with its user and course.
func (r *CertificateRepository) FindByCertificateID(ctx context.Context, certificateID string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.WithContext(ctx).
		Preload("User").
		Preload("Course").
		Where("certificate_id = ?", certificateID).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) ListByUser(ctx context.Context, userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("completion_date DESC").
		Find(&certs).Error
	return certs, err
}

func (r *CertificateRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.Certificate{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}
