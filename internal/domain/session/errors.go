package session

import "errors"

var (
	// ErrSessionNotFound is returned when a session is not found
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionClosed is returned when closing an already closed session
	ErrSessionClosed = errors.New("session already closed")

	// ErrSessionOpen is returned when a performance is submitted for an open session
	ErrSessionOpen = errors.New("session is still open")

	// ErrPerformanceExists is returned when a session already has a performance record
	ErrPerformanceExists = errors.New("performance already submitted for this session")

	// ErrPerformanceNotFound is returned when a performance record is not found
	ErrPerformanceNotFound = errors.New("performance not found")

	// ErrSongVersionRequired is returned when the pinned song version is missing
	ErrSongVersionRequired = errors.New("song version is required")

	// ErrClientVersionRequired is returned when the client version is missing
	ErrClientVersionRequired = errors.New("client version is required")

	// ErrNegativeScore is returned for negative scores
	ErrNegativeScore = errors.New("score must not be negative")

	// ErrInvalidAccuracy is returned when accuracy is outside [0, 100]
	ErrInvalidAccuracy = errors.New("accuracy must be between 0 and 100")

	// ErrNegativeCombo is returned for negative max combo values
	ErrNegativeCombo = errors.New("max combo must not be negative")
)
