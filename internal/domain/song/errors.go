package song

import "errors"

var (
	// ErrSongNotFound is returned when a song is not found
	ErrSongNotFound = errors.New("song not found")

	// ErrTitleRequired is returned when the title is missing
	ErrTitleRequired = errors.New("title is required")

	// ErrArtistRequired is returned when the artist is missing
	ErrArtistRequired = errors.New("artist is required")

	// ErrInvalidBPM is returned for non-positive tempo
	ErrInvalidBPM = errors.New("bpm must be positive")

	// ErrInvalidDuration is returned for non-positive duration
	ErrInvalidDuration = errors.New("duration must be positive")

	// ErrBeatmapRequired is returned when the beatmap payload is empty
	ErrBeatmapRequired = errors.New("beatmap is required")

	// ErrAudioPathRequired is returned when the audio path is missing
	ErrAudioPathRequired = errors.New("audio path is required")

	// ErrVersionRequired is returned when the version string is missing
	ErrVersionRequired = errors.New("version is required")

	// ErrVersionFrozen is returned when gameplay data is changed after a
	// session has been recorded against the current version
	ErrVersionFrozen = errors.New("gameplay data is frozen: sessions reference this version")

	// ErrNotPublished is returned when a session targets an unpublished song
	ErrNotPublished = errors.New("song is not published")
)
