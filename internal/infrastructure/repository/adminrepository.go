package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"beatrush/internal/domain/admin"
	"beatrush/internal/infrastructure/persistence/models"
	"beatrush/internal/shared/db"
	"beatrush/internal/shared/errors"
	"beatrush/internal/shared/logger"
)

// AdminRepositoryImpl implements the admin.Repository interface
type AdminRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewAdminRepository creates a new admin repository instance
func NewAdminRepository(gdb *gorm.DB, logger logger.Interface) admin.Repository {
	return &AdminRepositoryImpl{
		db:     gdb,
		logger: logger,
	}
}

func (r *AdminRepositoryImpl) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

// Create inserts a new admin record. The unique index on user ID enforces at
// most one record per user.
func (r *AdminRepositoryImpl) Create(ctx context.Context, a *admin.Admin) error {
	model := &models.AdminModel{
		UserID:    a.UserID(),
		Role:      a.Role().String(),
		GrantedAt: a.GrantedAt(),
		UpdatedAt: a.UpdatedAt(),
	}

	if err := r.conn(ctx).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("user already has an admin role")
		}
		r.logger.Errorw("failed to create admin", "user_id", a.UserID(), "error", err)
		return fmt.Errorf("failed to create admin: %w", err)
	}

	if err := a.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set admin ID: %w", err)
	}

	r.logger.Infow("admin created", "id", model.ID, "user_id", model.UserID, "role", model.Role)
	return nil
}

// Update persists role changes
func (r *AdminRepositoryImpl) Update(ctx context.Context, a *admin.Admin) error {
	result := r.conn(ctx).Model(&models.AdminModel{}).
		Where("id = ?", a.ID()).
		Updates(map[string]interface{}{
			"role":       a.Role().String(),
			"updated_at": a.UpdatedAt(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update admin", "id", a.ID(), "error", result.Error)
		return fmt.Errorf("failed to update admin: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("admin record not found")
	}
	return nil
}

// Delete removes an admin record
func (r *AdminRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.conn(ctx).Delete(&models.AdminModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete admin", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete admin: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("admin record not found")
	}

	r.logger.Infow("admin deleted", "id", id)
	return nil
}

// GetByID retrieves an admin record by ID
func (r *AdminRepositoryImpl) GetByID(ctx context.Context, id uint) (*admin.Admin, error) {
	var model models.AdminModel
	if err := r.conn(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("admin record not found")
		}
		r.logger.Errorw("failed to get admin", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return mapAdminToDomain(&model)
}

// GetByUserID retrieves the admin record for a user
func (r *AdminRepositoryImpl) GetByUserID(ctx context.Context, userID uint) (*admin.Admin, error) {
	var model models.AdminModel
	if err := r.conn(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("admin record not found")
		}
		r.logger.Errorw("failed to get admin by user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get admin by user: %w", err)
	}
	return mapAdminToDomain(&model)
}

// List retrieves all admin records
func (r *AdminRepositoryImpl) List(ctx context.Context) ([]*admin.Admin, error) {
	var rows []models.AdminModel
	if err := r.conn(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list admins", "error", err)
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	out := make([]*admin.Admin, len(rows))
	for i := range rows {
		a, err := mapAdminToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func mapAdminToDomain(model *models.AdminModel) (*admin.Admin, error) {
	a, err := admin.ReconstructAdmin(model.ID, model.UserID, admin.Role(model.Role), model.GrantedAt, model.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct admin: %w", err)
	}
	return a, nil
}
