// Package dto contains request and response shapes for gameplay sessions.
package dto

import (
	"encoding/json"
	"time"
)

// SessionResponse is the wire shape of a gameplay session. Performance is
// present once a result has been submitted.
type SessionResponse struct {
	ID            uint                 `json:"id"`
	UserID        uint                 `json:"user_id"`
	SongID        uint                 `json:"song_id"`
	SongVersion   string               `json:"song_version"`
	ClientVersion string               `json:"client_version"`
	StartedAt     time.Time            `json:"started_at"`
	EndedAt       *time.Time           `json:"ended_at,omitempty"`
	DeviceInfo    string               `json:"device_info,omitempty"`
	IsSynced      bool                 `json:"is_synced"`
	Performance   *PerformanceResponse `json:"performance,omitempty"`
}

// PerformanceResponse is the wire shape of a session's submitted result.
type PerformanceResponse struct {
	SessionID   uint            `json:"session_id"`
	Score       int64           `json:"score"`
	Accuracy    float64         `json:"accuracy"`
	MaxCombo    *int            `json:"max_combo,omitempty"`
	Modifiers   json.RawMessage `json:"modifiers,omitempty"`
	ReplayHash  string          `json:"replay_hash,omitempty"`
	Signature   string          `json:"signature,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// StartSessionRequest carries a session start.
type StartSessionRequest struct {
	UserID        uint   `json:"user_id" binding:"required"`
	SongID        uint   `json:"song_id" binding:"required"`
	ClientVersion string `json:"client_version" binding:"required"`
	DeviceInfo    string `json:"device_info"`
}

// SubmitPerformanceRequest carries a session's result.
type SubmitPerformanceRequest struct {
	Score      int64           `json:"score"`
	Accuracy   float64         `json:"accuracy"`
	MaxCombo   *int            `json:"max_combo"`
	Modifiers  json.RawMessage `json:"modifiers"`
	ReplayHash string          `json:"replay_hash"`
	Signature  string          `json:"signature"`
}
