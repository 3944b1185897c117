package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
)

// CompletionService decides whether a learner has finished every lesson of a course.
type CompletionService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
}

func NewCompletionService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
) *CompletionService {
	return &CompletionService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
	}
}

// EvaluateCompletion counts the course's lessons across all modules and the ones the user
// completed. It is read only.
func (s *CompletionService) EvaluateCompletion(ctx context.Context, userID, courseID uint) (*model.CompletionStatus, error) {
	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrCourseNotFound
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

	total, err := s.CourseRepo.CountLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}

	completed, err := s.ProgressRepo.CountCompleted(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	return model.NewCompletionStatus(courseID, int(completed), int(total)), nil
}
