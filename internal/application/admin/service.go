// Package admin orchestrates admin role management.
package admin

import (
	"context"

	"beatrush/internal/application/admin/dto"
	domainAdmin "beatrush/internal/domain/admin"
	"beatrush/internal/domain/user"
	"beatrush/internal/shared/errors"
	"beatrush/internal/shared/logger"
)

// Service provides admin record operations.
type Service struct {
	adminRepo domainAdmin.Repository
	userRepo  user.Repository
	logger    logger.Interface
}

// NewService creates an admin service.
func NewService(adminRepo domainAdmin.Repository, userRepo user.Repository, log logger.Interface) *Service {
	return &Service{
		adminRepo: adminRepo,
		userRepo:  userRepo,
		logger:    log,
	}
}

// CreateAdmin promotes an existing user. Each user holds at most one admin
// record.
func (s *Service) CreateAdmin(ctx context.Context, req dto.CreateAdminRequest) (*dto.AdminResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	if _, err := s.adminRepo.GetByUserID(ctx, req.UserID); err == nil {
		return nil, errors.NewConflictError(domainAdmin.ErrAlreadyAdmin.Error())
	} else if !errors.IsNotFoundError(err) {
		return nil, err
	}

	a, err := domainAdmin.NewAdmin(req.UserID, domainAdmin.Role(req.Role))
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.adminRepo.Create(ctx, a); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError(domainAdmin.ErrAlreadyAdmin.Error())
		}
		return nil, err
	}

	s.logger.Infow("admin created", "admin_id", a.ID(), "user_id", a.UserID(), "role", a.Role().String())
	return mapAdminToDTO(a), nil
}

// GetAdmin retrieves an admin record by ID.
func (s *Service) GetAdmin(ctx context.Context, id uint) (*dto.AdminResponse, error) {
	a, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapAdminToDTO(a), nil
}

// GetAdminByUserID retrieves the admin record attached to a user, when one
// exists. Used by the auth middleware to resolve the caller's role.
func (s *Service) GetAdminByUserID(ctx context.Context, userID uint) (*dto.AdminResponse, error) {
	a, err := s.adminRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapAdminToDTO(a), nil
}

// ListAdmins retrieves all admin records.
func (s *Service) ListAdmins(ctx context.Context) ([]dto.AdminResponse, error) {
	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AdminResponse, len(admins))
	for i, a := range admins {
		out[i] = *mapAdminToDTO(a)
	}
	return out, nil
}

// ChangeRole changes an admin's role.
func (s *Service) ChangeRole(ctx context.Context, id uint, req dto.ChangeRoleRequest) (*dto.AdminResponse, error) {
	a, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.ChangeRole(domainAdmin.Role(req.Role)); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.adminRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Infow("admin role changed", "admin_id", id, "role", req.Role)
	return mapAdminToDTO(a), nil
}

// DeleteAdmin removes an admin record, demoting the user.
func (s *Service) DeleteAdmin(ctx context.Context, id uint) error {
	if _, err := s.adminRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.adminRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("admin deleted", "admin_id", id)
	return nil
}

func mapAdminToDTO(a *domainAdmin.Admin) *dto.AdminResponse {
	return &dto.AdminResponse{
		ID:        a.ID(),
		UserID:    a.UserID(),
		Role:      a.Role().String(),
		GrantedAt: a.GrantedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
}
