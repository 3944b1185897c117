package repository

import (
	"context"
	"course_hub_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert writes the (user, lesson) row in one statement. completed_at is set when completed
// is true and cleared otherwise.
func (r *ProgressRepository) Upsert(ctx context.Context, userID, lessonID uint, completed bool, now time.Time) (*model.Progress, error) {
	progress := &model.Progress{
		UserID:    userID,
		LessonID:  lessonID,
		Completed: completed,
	}
	if completed {
		progress.CompletedAt = &now
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at", "updated_at"}),
		}).
		Create(progress).Error
	if err != nil {
		return nil, err
	}

	return r.Find(ctx, userID, lessonID)
}

func (r *ProgressRepository) Find(ctx context.Context, userID, lessonID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// CountCompleted counts the user's completed lessons that belong to the course.
func (r *ProgressRepository) CountCompleted(ctx context.Context, userID, courseID uint) (int64, error) {
	var completed int64
	err := r.DB.WithContext(ctx).
		Model(&model.Progress{}).
		Joins("JOIN lessons ON lessons.id = progress.lesson_id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("progress.user_id = ? AND progress.completed = ? AND modules.course_id = ?", userID, true, courseID).
		Count(&completed).Error
	return completed, err
}

// CompletedLessonIDs returns the set of completed lesson ids for the user within the course.
func (r *ProgressRepository) CompletedLessonIDs(ctx context.Context, userID, courseID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&model.Progress{}).
		Joins("JOIN lessons ON lessons.id = progress.lesson_id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("progress.user_id = ? AND progress.completed = ? AND modules.course_id = ?", userID, true, courseID).
		Pluck("progress.lesson_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
