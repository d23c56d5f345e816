// Package session provides domain models for gameplay sessions and their
// performance metrics. A session pins the song version and client version in
// effect at play time; those fields are fixed at creation and never follow
// the live song, which keeps historical replays valid.
package session

import (
	"fmt"
	"time"
)

// Session is one gameplay attempt.
type Session struct {
	id            uint
	userID        uint
	songID        uint
	songVersion   string
	clientVersion string
	startedAt     time.Time
	endedAt       *time.Time // nil while the session is open
	deviceInfo    string
	isSynced      bool
	updatedAt     time.Time
}

// NewSession opens a session for a pair, pinning the song and client versions.
func NewSession(userID, songID uint, songVersion, clientVersion, deviceInfo string) (*Session, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if songID == 0 {
		return nil, fmt.Errorf("song ID is required")
	}
	if songVersion == "" {
		return nil, ErrSongVersionRequired
	}
	if clientVersion == "" {
		return nil, ErrClientVersionRequired
	}

	now := time.Now()
	return &Session{
		userID:        userID,
		songID:        songID,
		songVersion:   songVersion,
		clientVersion: clientVersion,
		startedAt:     now,
		deviceInfo:    deviceInfo,
		updatedAt:     now,
	}, nil
}

// ReconstructSession reconstructs a session from persistence.
func ReconstructSession(
	id uint,
	userID, songID uint,
	songVersion, clientVersion string,
	startedAt time.Time,
	endedAt *time.Time,
	deviceInfo string,
	isSynced bool,
	updatedAt time.Time,
) (*Session, error) {
	if id == 0 {
		return nil, fmt.Errorf("session ID cannot be zero")
	}
	return &Session{
		id:            id,
		userID:        userID,
		songID:        songID,
		songVersion:   songVersion,
		clientVersion: clientVersion,
		startedAt:     startedAt,
		endedAt:       endedAt,
		deviceInfo:    deviceInfo,
		isSynced:      isSynced,
		updatedAt:     updatedAt,
	}, nil
}

func (s *Session) ID() uint              { return s.id }
func (s *Session) UserID() uint          { return s.userID }
func (s *Session) SongID() uint          { return s.songID }
func (s *Session) SongVersion() string   { return s.songVersion }
func (s *Session) ClientVersion() string { return s.clientVersion }
func (s *Session) StartedAt() time.Time  { return s.startedAt }
func (s *Session) EndedAt() *time.Time   { return s.endedAt }
func (s *Session) DeviceInfo() string    { return s.deviceInfo }
func (s *Session) IsSynced() bool        { return s.isSynced }
func (s *Session) UpdatedAt() time.Time  { return s.updatedAt }

// IsOpen reports whether the session has not been closed yet.
func (s *Session) IsOpen() bool {
	return s.endedAt == nil
}

// SetID sets the session ID (only for persistence layer use)
func (s *Session) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("session ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("session ID cannot be zero")
	}
	s.id = id
	return nil
}

// Close ends the session. Closing a closed session is an error.
func (s *Session) Close() error {
	if s.endedAt != nil {
		return ErrSessionClosed
	}
	now := time.Now()
	s.endedAt = &now
	s.updatedAt = now
	return nil
}

// MarkSynced records that results were durably reconciled with the scoring store.
func (s *Session) MarkSynced() {
	if s.isSynced {
		return
	}
	s.isSynced = true
	s.updatedAt = time.Now()
}
