// Package repository contains the GORM implementations of the domain
// repository interfaces.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"beatrush/internal/domain/entitlement"
	"beatrush/internal/infrastructure/persistence/models"
	"beatrush/internal/shared/db"
	"beatrush/internal/shared/errors"
	"beatrush/internal/shared/logger"
)

// EntitlementRepositoryImpl implements the entitlement.Repository interface
type EntitlementRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewEntitlementRepository creates a new entitlement repository instance
func NewEntitlementRepository(gdb *gorm.DB, logger logger.Interface) entitlement.Repository {
	return &EntitlementRepositoryImpl{
		db:     gdb,
		logger: logger,
	}
}

func (r *EntitlementRepositoryImpl) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

// Create inserts a new entitlement row. The unique (user, song) index turns a
// racing create for the same pair into a conflict error.
func (r *EntitlementRepositoryImpl) Create(ctx context.Context, e *entitlement.Entitlement) error {
	just, err := marshalJustifications(e.Justifications())
	if err != nil {
		return fmt.Errorf("failed to encode justifications: %w", err)
	}

	model := &models.EntitlementModel{
		UserID:         e.UserID(),
		SongID:         e.SongID(),
		Source:         e.Source().String(),
		Justifications: just,
		GrantedAt:      e.GrantedAt(),
		UpdatedAt:      e.UpdatedAt(),
		Version:        e.Version(),
	}

	if err := r.conn(ctx).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("entitlement already exists for this pair")
		}
		r.logger.Errorw("failed to create entitlement",
			"user_id", e.UserID(),
			"song_id", e.SongID(),
			"error", err)
		return fmt.Errorf("failed to create entitlement: %w", err)
	}

	if err := e.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set entitlement ID: %w", err)
	}

	r.logger.Infow("entitlement created",
		"id", model.ID,
		"user_id", model.UserID,
		"song_id", model.SongID,
		"source", model.Source)

	return nil
}

// Update persists the aggregate using its version as an optimistic lock
// token. The aggregate records exactly one change per load-save cycle, so the
// stored row is expected to hold version-1; zero matched rows means a
// concurrent writer won and the caller should reload and retry.
func (r *EntitlementRepositoryImpl) Update(ctx context.Context, e *entitlement.Entitlement) error {
	just, err := marshalJustifications(e.Justifications())
	if err != nil {
		return fmt.Errorf("failed to encode justifications: %w", err)
	}

	result := r.conn(ctx).Model(&models.EntitlementModel{}).
		Where("id = ? AND version = ?", e.ID(), e.Version()-1).
		Updates(map[string]interface{}{
			"source":         e.Source().String(),
			"justifications": just,
			"updated_at":     e.UpdatedAt(),
			"version":        e.Version(),
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update entitlement", "id", e.ID(), "error", result.Error)
		return fmt.Errorf("failed to update entitlement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError("entitlement was modified concurrently")
	}

	r.logger.Debugw("entitlement updated",
		"id", e.ID(),
		"source", e.Source().String(),
		"version", e.Version())

	return nil
}

// GetByPair retrieves the entitlement for a (user, song) pair
func (r *EntitlementRepositoryImpl) GetByPair(ctx context.Context, userID, songID uint) (*entitlement.Entitlement, error) {
	var model models.EntitlementModel
	err := r.conn(ctx).
		Where("user_id = ? AND song_id = ?", userID, songID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("entitlement not found")
		}
		r.logger.Errorw("failed to get entitlement",
			"user_id", userID,
			"song_id", songID,
			"error", err)
		return nil, fmt.Errorf("failed to get entitlement: %w", err)
	}

	return mapEntitlementToDomain(&model)
}

// GetByUser retrieves all entitlements for a user
func (r *EntitlementRepositoryImpl) GetByUser(ctx context.Context, userID uint) ([]*entitlement.Entitlement, error) {
	var rows []models.EntitlementModel
	if err := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("granted_at ASC").
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list entitlements", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list entitlements: %w", err)
	}

	out := make([]*entitlement.Entitlement, len(rows))
	for i := range rows {
		e, err := mapEntitlementToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// ExistsByPair checks whether an entitlement row exists for the pair
func (r *EntitlementRepositoryImpl) ExistsByPair(ctx context.Context, userID, songID uint) (bool, error) {
	var count int64
	if err := r.conn(ctx).Model(&models.EntitlementModel{}).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Count(&count).Error; err != nil {
		r.logger.Errorw("failed to check entitlement existence",
			"user_id", userID,
			"song_id", songID,
			"error", err)
		return false, fmt.Errorf("failed to check entitlement existence: %w", err)
	}
	return count > 0, nil
}

// DeleteByPair removes the entitlement for a pair; deleting a missing pair is
// not an error.
func (r *EntitlementRepositoryImpl) DeleteByPair(ctx context.Context, userID, songID uint) error {
	result := r.conn(ctx).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Delete(&models.EntitlementModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete entitlement",
			"user_id", userID,
			"song_id", songID,
			"error", result.Error)
		return fmt.Errorf("failed to delete entitlement: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Infow("entitlement deleted", "user_id", userID, "song_id", songID)
	}
	return nil
}

func marshalJustifications(just map[entitlement.Source]time.Time) ([]byte, error) {
	return json.Marshal(just)
}

func mapEntitlementToDomain(model *models.EntitlementModel) (*entitlement.Entitlement, error) {
	var just map[entitlement.Source]time.Time
	if len(model.Justifications) > 0 {
		if err := json.Unmarshal(model.Justifications, &just); err != nil {
			return nil, fmt.Errorf("failed to decode justifications: %w", err)
		}
	}

	e, err := entitlement.ReconstructEntitlement(
		model.ID,
		model.UserID,
		model.SongID,
		entitlement.Source(model.Source),
		just,
		model.GrantedAt,
		model.UpdatedAt,
		model.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct entitlement: %w", err)
	}
	return e, nil
}
