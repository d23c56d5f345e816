// Package session orchestrates gameplay sessions and their results.
package session

import (
	"context"

	"beatrush/internal/application/session/dto"
	domainSession "beatrush/internal/domain/session"
	"beatrush/internal/domain/song"
	"beatrush/internal/domain/user"
	"beatrush/internal/shared/errors"
	"beatrush/internal/shared/logger"
)

// AccessChecker answers whether a user may play a song. Satisfied by the
// entitlement ledger.
type AccessChecker interface {
	HasAccess(ctx context.Context, userID, songID uint) (bool, error)
}

// Service provides gameplay session operations. A session pins the song
// version it was played against, so later catalog edits never change what a
// recorded score meant.
type Service struct {
	sessionRepo domainSession.Repository
	songRepo    song.Repository
	userRepo    user.Repository
	access      AccessChecker
	logger      logger.Interface
}

// NewService creates a session service.
func NewService(
	sessionRepo domainSession.Repository,
	songRepo song.Repository,
	userRepo user.Repository,
	access AccessChecker,
	log logger.Interface,
) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		songRepo:    songRepo,
		userRepo:    userRepo,
		access:      access,
		logger:      log,
	}
}

// StartSession opens a session. The song must be published and the user must
// hold an entitlement for it; the song's current version is pinned into the
// session at this moment.
func (s *Service) StartSession(ctx context.Context, req dto.StartSessionRequest) (*dto.SessionResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	sng, err := s.songRepo.GetByID(ctx, req.SongID)
	if err != nil {
		return nil, err
	}
	if !sng.IsPublished() {
		return nil, errors.NewValidationError(song.ErrNotPublished.Error())
	}

	has, err := s.access.HasAccess(ctx, req.UserID, req.SongID)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, errors.NewForbiddenError("user has no entitlement for this song")
	}

	sess, err := domainSession.NewSession(req.UserID, req.SongID, sng.Version(),
		req.ClientVersion, req.DeviceInfo)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Infow("session started",
		"session_id", sess.ID(),
		"user_id", req.UserID,
		"song_id", req.SongID,
		"song_version", sess.SongVersion())

	return mapSessionToDTO(sess, nil), nil
}

// GetSession retrieves a session with its performance, when one exists.
func (s *Service) GetSession(ctx context.Context, id uint) (*dto.SessionResponse, error) {
	sess, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	perf, err := s.sessionRepo.GetPerformance(ctx, id)
	if err != nil && !errors.IsNotFoundError(err) {
		return nil, err
	}

	return mapSessionToDTO(sess, perf), nil
}

// ListUserSessions retrieves all sessions of a user, without performances.
func (s *Service) ListUserSessions(ctx context.Context, userID uint) ([]dto.SessionResponse, error) {
	sessions, err := s.sessionRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SessionResponse, len(sessions))
	for i, sess := range sessions {
		out[i] = *mapSessionToDTO(sess, nil)
	}
	return out, nil
}

// CloseSession ends a session. Closing a closed session is a conflict.
func (s *Service) CloseSession(ctx context.Context, id uint) (*dto.SessionResponse, error) {
	sess, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sess.Close(); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}
	if err := s.sessionRepo.Update(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Infow("session closed", "session_id", id)
	return mapSessionToDTO(sess, nil), nil
}

// MarkSynced flags a session's local results as uploaded. Idempotent.
func (s *Service) MarkSynced(ctx context.Context, id uint) (*dto.SessionResponse, error) {
	sess, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.MarkSynced()
	if err := s.sessionRepo.Update(ctx, sess); err != nil {
		return nil, err
	}

	return mapSessionToDTO(sess, nil), nil
}

// SubmitPerformance records the session's result. The session must be
// closed, and each session accepts exactly one submission.
func (s *Service) SubmitPerformance(ctx context.Context, sessionID uint, req dto.SubmitPerformanceRequest) (*dto.PerformanceResponse, error) {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.IsOpen() {
		return nil, errors.NewConflictError(domainSession.ErrSessionOpen.Error(),
			"close the session before submitting its result")
	}

	perf, err := domainSession.NewPerformance(sessionID, req.Score, req.Accuracy,
		req.MaxCombo, req.Modifiers, req.ReplayHash, req.Signature)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.sessionRepo.CreatePerformance(ctx, perf); err != nil {
		if errors.IsDuplicateError(err) || errors.IsConflictError(err) {
			return nil, errors.NewConflictError(domainSession.ErrPerformanceExists.Error())
		}
		return nil, err
	}

	s.logger.Infow("performance submitted",
		"session_id", sessionID,
		"score", perf.Score(),
		"accuracy", perf.Accuracy())

	return mapPerformanceToDTO(perf), nil
}

// GetPerformance retrieves a session's submitted result.
func (s *Service) GetPerformance(ctx context.Context, sessionID uint) (*dto.PerformanceResponse, error) {
	perf, err := s.sessionRepo.GetPerformance(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return mapPerformanceToDTO(perf), nil
}

func mapSessionToDTO(sess *domainSession.Session, perf *domainSession.Performance) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:            sess.ID(),
		UserID:        sess.UserID(),
		SongID:        sess.SongID(),
		SongVersion:   sess.SongVersion(),
		ClientVersion: sess.ClientVersion(),
		StartedAt:     sess.StartedAt(),
		EndedAt:       sess.EndedAt(),
		DeviceInfo:    sess.DeviceInfo(),
		IsSynced:      sess.IsSynced(),
	}
	if perf != nil {
		resp.Performance = mapPerformanceToDTO(perf)
	}
	return resp
}

func mapPerformanceToDTO(p *domainSession.Performance) *dto.PerformanceResponse {
	return &dto.PerformanceResponse{
		SessionID:   p.SessionID(),
		Score:       p.Score(),
		Accuracy:    p.Accuracy(),
		MaxCombo:    p.MaxCombo(),
		Modifiers:   p.Modifiers(),
		ReplayHash:  p.ReplayHash(),
		Signature:   p.Signature(),
		SubmittedAt: p.SubmittedAt(),
	}
}
