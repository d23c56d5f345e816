package models

import (
	"time"

	"gorm.io/datatypes"
)

type SongModel struct {
	ID              uint           `gorm:"primarykey"`
	Title           string         `gorm:"size:255;not null;index"`
	Artist          string         `gorm:"size:255;not null"`
	BPM             int            `gorm:"not null"`
	DurationSeconds int            `gorm:"not null"`
	Beatmap         datatypes.JSON `gorm:"not null"`
	AudioPath       string         `gorm:"size:512;not null"`
	CoverPath       *string        `gorm:"size:512"`
	Version         string         `gorm:"size:32;not null;default:'1.0'"`
	IsPublished     bool           `gorm:"not null;default:false;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for GORM
func (SongModel) TableName() string {
	return "songs"
}
