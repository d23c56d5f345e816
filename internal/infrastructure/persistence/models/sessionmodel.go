package models

import "time"

// GameplaySessionModel persists gameplay attempts. SongVersion is written at
// creation and never updated, even when the song's live version advances.
type GameplaySessionModel struct {
	ID            uint    `gorm:"primarykey"`
	UserID        uint    `gorm:"not null;index"`
	SongID        uint    `gorm:"not null;index:idx_session_song_version,priority:1"`
	SongVersion   string  `gorm:"size:32;not null;index:idx_session_song_version,priority:2"`
	ClientVersion string  `gorm:"size:32;not null"`
	StartedAt     time.Time `gorm:"not null"`
	EndedAt       *time.Time
	DeviceInfo    *string `gorm:"size:255"`
	IsSynced      bool    `gorm:"not null;default:false"`
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM
func (GameplaySessionModel) TableName() string {
	return "gameplay_sessions"
}
