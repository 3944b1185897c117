package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.UserRepo.List(ctx, page, limit)
}

func (s *UserService) SetRole(ctx context.Context, userID uint, role model.UserRole) error {
	if _, err := s.UserRepo.FindByID(ctx, userID); err != nil {
		if repository.IsNotFound(err) {
			return util.ErrUserNotFound
		}
		return err
	}
	return s.UserRepo.UpdateRole(ctx, userID, role)
}
