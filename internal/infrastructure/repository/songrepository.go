package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"beatrush/internal/domain/song"
	"beatrush/internal/infrastructure/persistence/models"
	"beatrush/internal/shared/db"
	"beatrush/internal/shared/errors"
	"beatrush/internal/shared/logger"
)

// SongRepositoryImpl implements the song.Repository interface
type SongRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewSongRepository creates a new song repository instance
func NewSongRepository(gdb *gorm.DB, logger logger.Interface) song.Repository {
	return &SongRepositoryImpl{
		db:     gdb,
		logger: logger,
	}
}

func (r *SongRepositoryImpl) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

// Create inserts a new song row
func (r *SongRepositoryImpl) Create(ctx context.Context, s *song.Song) error {
	model := mapSongToModel(s)

	if err := r.conn(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create song", "title", s.Title(), "error", err)
		return fmt.Errorf("failed to create song: %w", err)
	}

	if err := s.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set song ID: %w", err)
	}

	r.logger.Infow("song created", "id", model.ID, "title", model.Title, "artist", model.Artist)
	return nil
}

// Update persists song changes
func (r *SongRepositoryImpl) Update(ctx context.Context, s *song.Song) error {
	var coverPath *string
	if cp := s.CoverPath(); cp != "" {
		coverPath = &cp
	}

	result := r.conn(ctx).Model(&models.SongModel{}).
		Where("id = ?", s.ID()).
		Updates(map[string]interface{}{
			"title":            s.Title(),
			"artist":           s.Artist(),
			"bpm":              s.BPM(),
			"duration_seconds": s.DurationSeconds(),
			"beatmap":          datatypes.JSON(s.Beatmap()),
			"audio_path":       s.AudioPath(),
			"cover_path":       coverPath,
			"version":          s.Version(),
			"is_published":     s.IsPublished(),
			"updated_at":       s.UpdatedAt(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update song", "id", s.ID(), "error", result.Error)
		return fmt.Errorf("failed to update song: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("song not found")
	}
	return nil
}

// Delete removes a song row
func (r *SongRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.conn(ctx).Delete(&models.SongModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete song", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete song: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("song not found")
	}

	r.logger.Infow("song deleted", "id", id)
	return nil
}

// GetByID retrieves a song by ID
func (r *SongRepositoryImpl) GetByID(ctx context.Context, id uint) (*song.Song, error) {
	var model models.SongModel
	if err := r.conn(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("song not found")
		}
		r.logger.Errorw("failed to get song", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	return mapSongToDomain(&model)
}

// List retrieves songs, optionally restricted to the published catalog
func (r *SongRepositoryImpl) List(ctx context.Context, publishedOnly bool) ([]*song.Song, error) {
	query := r.conn(ctx).Order("id ASC")
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var rows []models.SongModel
	if err := query.Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list songs", "error", err)
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}

	out := make([]*song.Song, len(rows))
	for i := range rows {
		s, err := mapSongToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func mapSongToModel(s *song.Song) *models.SongModel {
	model := &models.SongModel{
		Title:           s.Title(),
		Artist:          s.Artist(),
		BPM:             s.BPM(),
		DurationSeconds: s.DurationSeconds(),
		Beatmap:         datatypes.JSON(s.Beatmap()),
		AudioPath:       s.AudioPath(),
		Version:         s.Version(),
		IsPublished:     s.IsPublished(),
		CreatedAt:       s.CreatedAt(),
		UpdatedAt:       s.UpdatedAt(),
	}
	if cp := s.CoverPath(); cp != "" {
		model.CoverPath = &cp
	}
	return model
}

func mapSongToDomain(model *models.SongModel) (*song.Song, error) {
	coverPath := ""
	if model.CoverPath != nil {
		coverPath = *model.CoverPath
	}

	s, err := song.ReconstructSong(
		model.ID,
		model.Title,
		model.Artist,
		model.BPM,
		model.DurationSeconds,
		[]byte(model.Beatmap),
		model.AudioPath,
		coverPath,
		model.Version,
		model.IsPublished,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct song: %w", err)
	}
	return s, nil
}
