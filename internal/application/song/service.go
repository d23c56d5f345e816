// Package song orchestrates the playable catalog: metadata edits, gameplay
// versioning, and publication state.
package song

import (
	"context"

	"beatrush/internal/application/song/dto"
	domainSong "beatrush/internal/domain/song"
	"beatrush/internal/domain/session"
	"beatrush/internal/shared/errors"
	"beatrush/internal/shared/logger"
)

// Service provides catalog operations. Gameplay fields (bpm, duration,
// beatmap) freeze for a version as soon as any gameplay session references
// it; changing them then requires a new version string.
type Service struct {
	songRepo    domainSong.Repository
	sessionRepo session.Repository
	logger      logger.Interface
}

// NewService creates a song service.
func NewService(songRepo domainSong.Repository, sessionRepo session.Repository, log logger.Interface) *Service {
	return &Service{
		songRepo:    songRepo,
		sessionRepo: sessionRepo,
		logger:      log,
	}
}

// CreateSong adds an unpublished catalog entry at the default version.
func (s *Service) CreateSong(ctx context.Context, req dto.CreateSongRequest) (*dto.SongResponse, error) {
	sng, err := domainSong.NewSong(req.Title, req.Artist, req.BPM, req.DurationSeconds,
		req.Beatmap, req.AudioPath, req.CoverPath)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.songRepo.Create(ctx, sng); err != nil {
		return nil, err
	}

	s.logger.Infow("song created", "song_id", sng.ID(), "title", sng.Title(), "version", sng.Version())
	return mapSongToDTO(sng), nil
}

// GetSong retrieves a song by ID.
func (s *Service) GetSong(ctx context.Context, id uint) (*dto.SongResponse, error) {
	sng, err := s.songRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapSongToDTO(sng), nil
}

// ListSongs retrieves the catalog, optionally restricted to published songs.
func (s *Service) ListSongs(ctx context.Context, publishedOnly bool) ([]dto.SongResponse, error) {
	songs, err := s.songRepo.List(ctx, publishedOnly)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SongResponse, len(songs))
	for i, sng := range songs {
		out[i] = *mapSongToDTO(sng)
	}
	return out, nil
}

// UpdateSong applies a partial update. Presentation fields change in place;
// gameplay changes are rejected with a conflict when the current version has
// been played, unless the request carries a new version string.
func (s *Service) UpdateSong(ctx context.Context, id uint, req dto.UpdateSongRequest) (*dto.SongResponse, error) {
	sng, err := s.songRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	title, artist := sng.Title(), sng.Artist()
	audioPath, coverPath := sng.AudioPath(), sng.CoverPath()
	if req.Title != nil {
		title = *req.Title
	}
	if req.Artist != nil {
		artist = *req.Artist
	}
	if req.AudioPath != nil {
		audioPath = *req.AudioPath
	}
	if req.CoverPath != nil {
		coverPath = *req.CoverPath
	}
	if err := sng.UpdateMetadata(title, artist, audioPath, coverPath); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if req.HasGameplayChanges() {
		if err := s.applyGameplayUpdate(ctx, sng, req); err != nil {
			return nil, err
		}
	}

	if err := s.songRepo.Update(ctx, sng); err != nil {
		return nil, err
	}

	return mapSongToDTO(sng), nil
}

func (s *Service) applyGameplayUpdate(ctx context.Context, sng *domainSong.Song, req dto.UpdateSongRequest) error {
	bpm, duration := sng.BPM(), sng.DurationSeconds()
	beatmap, version := sng.Beatmap(), sng.Version()
	if req.BPM != nil {
		bpm = *req.BPM
	}
	if req.DurationSeconds != nil {
		duration = *req.DurationSeconds
	}
	if len(req.Beatmap) > 0 {
		beatmap = req.Beatmap
	}
	if req.Version != nil {
		version = *req.Version
	}

	played, err := s.sessionRepo.ExistsBySongVersion(ctx, sng.ID(), sng.Version())
	if err != nil {
		return err
	}
	// A played version is immutable; only a version bump unfreezes gameplay.
	pinned := played && version == sng.Version()

	if err := sng.UpdateGameplay(bpm, duration, beatmap, version, pinned); err != nil {
		if err == domainSong.ErrVersionFrozen {
			return errors.NewConflictError(err.Error(),
				"supply a new version string to change gameplay data")
		}
		return errors.NewValidationError(err.Error())
	}

	s.logger.Infow("song gameplay updated", "song_id", sng.ID(), "version", sng.Version())
	return nil
}

// PublishSong makes the song playable. Idempotent.
func (s *Service) PublishSong(ctx context.Context, id uint) (*dto.SongResponse, error) {
	sng, err := s.songRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sng.Publish()
	if err := s.songRepo.Update(ctx, sng); err != nil {
		return nil, err
	}

	s.logger.Infow("song published", "song_id", id)
	return mapSongToDTO(sng), nil
}

// UnpublishSong removes the song from the playable catalog. Idempotent.
func (s *Service) UnpublishSong(ctx context.Context, id uint) (*dto.SongResponse, error) {
	sng, err := s.songRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sng.Unpublish()
	if err := s.songRepo.Update(ctx, sng); err != nil {
		return nil, err
	}

	s.logger.Infow("song unpublished", "song_id", id)
	return mapSongToDTO(sng), nil
}

// DeleteSong removes a catalog entry.
func (s *Service) DeleteSong(ctx context.Context, id uint) error {
	if _, err := s.songRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.songRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("song deleted", "song_id", id)
	return nil
}

func mapSongToDTO(sng *domainSong.Song) *dto.SongResponse {
	return &dto.SongResponse{
		ID:              sng.ID(),
		Title:           sng.Title(),
		Artist:          sng.Artist(),
		BPM:             sng.BPM(),
		DurationSeconds: sng.DurationSeconds(),
		Beatmap:         sng.Beatmap(),
		AudioPath:       sng.AudioPath(),
		CoverPath:       sng.CoverPath(),
		Version:         sng.Version(),
		IsPublished:     sng.IsPublished(),
		CreatedAt:       sng.CreatedAt(),
		UpdatedAt:       sng.UpdatedAt(),
	}
}
