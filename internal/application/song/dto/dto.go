// Package dto contains request and response shapes for the song catalog.
package dto

import (
	"encoding/json"
	"time"
)

// SongResponse is the wire shape of a catalog entry. The beatmap payload is
// embedded as raw JSON so clients get it exactly as uploaded.
type SongResponse struct {
	ID              uint            `json:"id"`
	Title           string          `json:"title"`
	Artist          string          `json:"artist"`
	BPM             int             `json:"bpm"`
	DurationSeconds int             `json:"duration_seconds"`
	Beatmap         json.RawMessage `json:"beatmap,omitempty"`
	AudioPath       string          `json:"audio_path"`
	CoverPath       string          `json:"cover_path,omitempty"`
	Version         string          `json:"version"`
	IsPublished     bool            `json:"is_published"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateSongRequest carries a new catalog entry.
type CreateSongRequest struct {
	Title           string          `json:"title" binding:"required"`
	Artist          string          `json:"artist" binding:"required"`
	BPM             int             `json:"bpm" binding:"required,gt=0"`
	DurationSeconds int             `json:"duration_seconds" binding:"required,gt=0"`
	Beatmap         json.RawMessage `json:"beatmap" binding:"required"`
	AudioPath       string          `json:"audio_path" binding:"required"`
	CoverPath       string          `json:"cover_path"`
}

// UpdateSongRequest carries a partial song update. Presentation fields may
// change freely; gameplay fields require a version bump once any session
// references the current version.
type UpdateSongRequest struct {
	Title           *string         `json:"title"`
	Artist          *string         `json:"artist"`
	AudioPath       *string         `json:"audio_path"`
	CoverPath       *string         `json:"cover_path"`
	BPM             *int            `json:"bpm"`
	DurationSeconds *int            `json:"duration_seconds"`
	Beatmap         json.RawMessage `json:"beatmap"`
	Version         *string         `json:"version"`
}

// HasGameplayChanges reports whether the update touches fields that affect
// scoring or timing.
func (r UpdateSongRequest) HasGameplayChanges() bool {
	return r.BPM != nil || r.DurationSeconds != nil || len(r.Beatmap) > 0 || r.Version != nil
}
