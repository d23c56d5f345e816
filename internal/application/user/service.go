// Package user orchestrates player account management.
package user

import (
	"context"

	"beatrush/internal/application/user/dto"
	domainUser "beatrush/internal/domain/user"
	"beatrush/internal/shared/errors"
	"beatrush/internal/shared/logger"
)

// Service provides user account operations.
type Service struct {
	userRepo domainUser.Repository
	logger   logger.Interface
}

// NewService creates a user service.
func NewService(userRepo domainUser.Repository, log logger.Interface) *Service {
	return &Service{
		userRepo: userRepo,
		logger:   log,
	}
}

// CreateUser registers a new player account. Emails are unique.
func (s *Service) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	u, err := domainUser.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, u.Email())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.NewConflictError(domainUser.ErrEmailAlreadyExists.Error())
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError(domainUser.ErrEmailAlreadyExists.Error())
		}
		return nil, err
	}

	s.logger.Infow("user created", "user_id", u.ID(), "email", u.Email())
	return mapUserToDTO(u), nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, id uint) (*dto.UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapUserToDTO(u), nil
}

// ListUsers retrieves all users.
func (s *Service) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = *mapUserToDTO(u)
	}
	return out, nil
}

// UpdateUser applies a partial update to a user.
func (s *Service) UpdateUser(ctx context.Context, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := u.UpdateName(*req.Name); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if req.Email != nil {
		if err := u.UpdateEmail(*req.Email); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		exists, err := s.userRepo.ExistsByEmail(ctx, u.Email())
		if err != nil {
			return nil, err
		}
		if exists {
			existing, err := s.userRepo.GetByEmail(ctx, u.Email())
			if err != nil {
				return nil, err
			}
			if existing.ID() != id {
				return nil, errors.NewConflictError(domainUser.ErrEmailAlreadyExists.Error())
			}
		}
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	return mapUserToDTO(u), nil
}

// DeleteUser removes a user row.
func (s *Service) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("user deleted", "user_id", id)
	return nil
}

func mapUserToDTO(u *domainUser.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}
