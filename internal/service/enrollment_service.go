package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/logger"

	"go.uber.org/zap"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	UserRepo       *repository.UserRepository
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		UserRepo:       userRepo,
	}
}

// EnrollFree enrolls the user in a published free course. Repeat calls succeed without
// creating a second enrollment.
func (s *EnrollmentService) EnrollFree(ctx context.Context, userID, courseID uint) error {
	course, err := s.CourseRepo.FindByID(ctx, courseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if !course.IsPublished {
		return util.ErrCourseNotFound
	}
	if !course.IsFree {
		return util.ErrCourseNotFree
	}

	_, err = s.EnrollmentRepo.CreateIfAbsent(ctx, &model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Source:   model.EnrollmentFree,
	})
	return err
}

// Grant enrolls the user with the given email; used by administrators.
func (s *EnrollmentService) Grant(ctx context.Context, email string, courseID uint) (bool, error) {
	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, util.ErrUserNotFound
		}
		return false, err
	}

	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		if repository.IsNotFound(err) {
			return false, util.ErrCourseNotFound
		}
		return false, err
	}

	created, err := s.EnrollmentRepo.CreateIfAbsent(ctx, &model.Enrollment{
		UserID:   user.ID,
		CourseID: courseID,
		Source:   model.EnrollmentGrant,
	})
	if err != nil {
		return false, err
	}

	if created {
		logger.Log.Info("enrollment granted", zap.Uint("userID", user.ID), zap.Uint("courseID", courseID))
	}
	return created, nil
}

func (s *EnrollmentService) IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error) {
	return s.EnrollmentRepo.Exists(ctx, userID, courseID)
}

func (s *EnrollmentService) ListForUser(ctx context.Context, userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByUser(ctx, userID)
}
