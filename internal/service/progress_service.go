package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
	"time"
)

type ProgressService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository

	now func() time.Time
}

func NewProgressService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
) *ProgressService {
	return &ProgressService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		now:            time.Now,
	}
}

// RecordProgress upserts the (user, lesson) row. Marking a lesson complete stamps the current
// time; clearing it removes the timestamp. It never issues certificates; that stays an explicit
// request.
func (s *ProgressService) RecordProgress(ctx context.Context, userID, lessonID uint, completed bool) (*model.Progress, error) {
	courseID, err := s.CourseRepo.CourseIDForLesson(ctx, lessonID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	enrolled, err := s.EnrollmentRepo.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	return s.ProgressRepo.Upsert(ctx, userID, lessonID, completed, s.now().UTC())
}
