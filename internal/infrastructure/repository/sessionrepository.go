package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"beatrush/internal/domain/session"
	"beatrush/internal/infrastructure/persistence/models"
	"beatrush/internal/shared/db"
	"beatrush/internal/shared/errors"
	"beatrush/internal/shared/logger"
)

// SessionRepositoryImpl implements the session.Repository interface
type SessionRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewSessionRepository creates a new session repository instance
func NewSessionRepository(gdb *gorm.DB, logger logger.Interface) session.Repository {
	return &SessionRepositoryImpl{
		db:     gdb,
		logger: logger,
	}
}

func (r *SessionRepositoryImpl) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

// Create inserts a new session row
func (r *SessionRepositoryImpl) Create(ctx context.Context, s *session.Session) error {
	model := &models.GameplaySessionModel{
		UserID:        s.UserID(),
		SongID:        s.SongID(),
		SongVersion:   s.SongVersion(),
		ClientVersion: s.ClientVersion(),
		StartedAt:     s.StartedAt(),
		EndedAt:       s.EndedAt(),
		IsSynced:      s.IsSynced(),
		UpdatedAt:     s.UpdatedAt(),
	}
	if di := s.DeviceInfo(); di != "" {
		model.DeviceInfo = &di
	}

	if err := r.conn(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create session",
			"user_id", s.UserID(),
			"song_id", s.SongID(),
			"error", err)
		return fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set session ID: %w", err)
	}

	r.logger.Infow("session created",
		"id", model.ID,
		"user_id", model.UserID,
		"song_id", model.SongID,
		"song_version", model.SongVersion)

	return nil
}

// Update persists session lifecycle changes. SongVersion and ClientVersion
// are pinned at creation and deliberately excluded here.
func (r *SessionRepositoryImpl) Update(ctx context.Context, s *session.Session) error {
	var deviceInfo *string
	if di := s.DeviceInfo(); di != "" {
		deviceInfo = &di
	}

	result := r.conn(ctx).Model(&models.GameplaySessionModel{}).
		Where("id = ?", s.ID()).
		Updates(map[string]interface{}{
			"ended_at":    s.EndedAt(),
			"device_info": deviceInfo,
			"is_synced":   s.IsSynced(),
			"updated_at":  s.UpdatedAt(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update session", "id", s.ID(), "error", result.Error)
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("session not found")
	}
	return nil
}

// GetByID retrieves a session by ID
func (r *SessionRepositoryImpl) GetByID(ctx context.Context, id uint) (*session.Session, error) {
	var model models.GameplaySessionModel
	if err := r.conn(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("session not found")
		}
		r.logger.Errorw("failed to get session", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return mapSessionToDomain(&model)
}

// GetByUser retrieves all sessions for a user
func (r *SessionRepositoryImpl) GetByUser(ctx context.Context, userID uint) ([]*session.Session, error) {
	var rows []models.GameplaySessionModel
	if err := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list sessions", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := make([]*session.Session, len(rows))
	for i := range rows {
		s, err := mapSessionToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// ExistsBySongVersion reports whether any session references the given song
// at the given version
func (r *SessionRepositoryImpl) ExistsBySongVersion(ctx context.Context, songID uint, version string) (bool, error) {
	var count int64
	if err := r.conn(ctx).Model(&models.GameplaySessionModel{}).
		Where("song_id = ? AND song_version = ?", songID, version).
		Count(&count).Error; err != nil {
		r.logger.Errorw("failed to check sessions for song version",
			"song_id", songID,
			"version", version,
			"error", err)
		return false, fmt.Errorf("failed to check sessions for song version: %w", err)
	}
	return count > 0, nil
}

// CreatePerformance inserts the 1:1 performance row for a session
func (r *SessionRepositoryImpl) CreatePerformance(ctx context.Context, p *session.Performance) error {
	model := &models.PerformanceMetricModel{
		SessionID:   p.SessionID(),
		Score:       p.Score(),
		Accuracy:    p.Accuracy(),
		MaxCombo:    p.MaxCombo(),
		SubmittedAt: p.SubmittedAt(),
	}
	if mods := p.Modifiers(); len(mods) > 0 {
		model.Modifiers = datatypes.JSON(mods)
	}
	if rh := p.ReplayHash(); rh != "" {
		model.ReplayHash = &rh
	}
	if sig := p.Signature(); sig != "" {
		model.Signature = &sig
	}

	if err := r.conn(ctx).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("performance already submitted for this session")
		}
		r.logger.Errorw("failed to create performance", "session_id", p.SessionID(), "error", err)
		return fmt.Errorf("failed to create performance: %w", err)
	}

	r.logger.Infow("performance recorded",
		"session_id", model.SessionID,
		"score", model.Score,
		"accuracy", model.Accuracy)

	return nil
}

// GetPerformance retrieves the performance row for a session
func (r *SessionRepositoryImpl) GetPerformance(ctx context.Context, sessionID uint) (*session.Performance, error) {
	var model models.PerformanceMetricModel
	err := r.conn(ctx).
		Where("session_id = ?", sessionID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("performance not found")
		}
		r.logger.Errorw("failed to get performance", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to get performance: %w", err)
	}

	replayHash := ""
	if model.ReplayHash != nil {
		replayHash = *model.ReplayHash
	}
	signature := ""
	if model.Signature != nil {
		signature = *model.Signature
	}

	p, err := session.ReconstructPerformance(
		model.SessionID,
		model.Score,
		model.Accuracy,
		model.MaxCombo,
		[]byte(model.Modifiers),
		replayHash,
		signature,
		model.SubmittedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct performance: %w", err)
	}
	return p, nil
}

func mapSessionToDomain(model *models.GameplaySessionModel) (*session.Session, error) {
	deviceInfo := ""
	if model.DeviceInfo != nil {
		deviceInfo = *model.DeviceInfo
	}

	s, err := session.ReconstructSession(
		model.ID,
		model.UserID,
		model.SongID,
		model.SongVersion,
		model.ClientVersion,
		model.StartedAt,
		model.EndedAt,
		deviceInfo,
		model.IsSynced,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct session: %w", err)
	}
	return s, nil
}
