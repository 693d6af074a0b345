package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"anoa.com/weddingsalon/internal/entity"
	userDto "anoa.com/weddingsalon/internal/modules/user/dto"
	"anoa.com/weddingsalon/internal/modules/user/repository"
	"anoa.com/weddingsalon/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = fmt.Errorf("user not found: %w", apperror.ErrNotFound)
	ErrInvalidRole  = apperror.NewFieldError("role", "role must be one of USER, MANAGER, ADMIN", nil)
)

type AdminService interface {
	ListUsers(ctx context.Context) ([]*userDto.UserResponse, error)
	AssignRole(ctx context.Context, userID uuid.UUID, role string) error
}

type adminService struct {
	userRepo repository.UserRepository
}

func NewAdminService(userRepo repository.UserRepository) AdminService {
	return &adminService{userRepo: userRepo}
}

func (s *adminService) ListUsers(ctx context.Context) ([]*userDto.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return userDto.ToUserResponses(users), nil
}

func (s *adminService) AssignRole(ctx context.Context, userID uuid.UUID, role string) error {
	if !entity.IsValidRole(role) {
		return ErrInvalidRole
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	slog.InfoContext(ctx, "role assigned", "user_id", userID, "role", role)
	return nil
}
