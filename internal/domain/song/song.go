// Package song provides the catalog domain model.
// A song's beatmap payload is opaque to the backend; it is stored and served
// verbatim. Beatmap and version are frozen once any gameplay session has been
// recorded against that version, because changing gameplay data under players
// invalidates past scores.
package song

import (
	"fmt"
	"strings"
	"time"
)

// DefaultVersion is the version assigned to newly created songs.
const DefaultVersion = "1.0"

// Song is a catalog item.
type Song struct {
	id              uint
	title           string
	artist          string
	bpm             int
	durationSeconds int
	beatmap         []byte // opaque JSON payload
	audioPath       string
	coverPath       string
	version         string
	isPublished     bool
	createdAt       time.Time
	updatedAt       time.Time
}

// NewSong creates an unpublished song with the default version.
func NewSong(title, artist string, bpm, durationSeconds int, beatmap []byte, audioPath, coverPath string) (*Song, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(artist) == "" {
		return nil, ErrArtistRequired
	}
	if bpm <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBPM, bpm)
	}
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDuration, durationSeconds)
	}
	if len(beatmap) == 0 {
		return nil, ErrBeatmapRequired
	}
	if strings.TrimSpace(audioPath) == "" {
		return nil, ErrAudioPathRequired
	}

	now := time.Now()
	return &Song{
		title:           strings.TrimSpace(title),
		artist:          strings.TrimSpace(artist),
		bpm:             bpm,
		durationSeconds: durationSeconds,
		beatmap:         beatmap,
		audioPath:       audioPath,
		coverPath:       coverPath,
		version:         DefaultVersion,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructSong reconstructs a song from persistence.
func ReconstructSong(
	id uint,
	title, artist string,
	bpm, durationSeconds int,
	beatmap []byte,
	audioPath, coverPath, version string,
	isPublished bool,
	createdAt, updatedAt time.Time,
) (*Song, error) {
	if id == 0 {
		return nil, fmt.Errorf("song ID cannot be zero")
	}
	return &Song{
		id:              id,
		title:           title,
		artist:          artist,
		bpm:             bpm,
		durationSeconds: durationSeconds,
		beatmap:         beatmap,
		audioPath:       audioPath,
		coverPath:       coverPath,
		version:         version,
		isPublished:     isPublished,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (s *Song) ID() uint             { return s.id }
func (s *Song) Title() string        { return s.title }
func (s *Song) Artist() string       { return s.artist }
func (s *Song) BPM() int             { return s.bpm }
func (s *Song) DurationSeconds() int { return s.durationSeconds }
func (s *Song) Beatmap() []byte      { return s.beatmap }
func (s *Song) AudioPath() string    { return s.audioPath }
func (s *Song) CoverPath() string    { return s.coverPath }
func (s *Song) Version() string      { return s.version }
func (s *Song) IsPublished() bool    { return s.isPublished }
func (s *Song) CreatedAt() time.Time { return s.createdAt }
func (s *Song) UpdatedAt() time.Time { return s.updatedAt }

// SetID sets the song ID (only for persistence layer use)
func (s *Song) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("song ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("song ID cannot be zero")
	}
	s.id = id
	return nil
}

// UpdateMetadata changes presentation fields that never affect gameplay.
func (s *Song) UpdateMetadata(title, artist, audioPath, coverPath string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(artist) == "" {
		return ErrArtistRequired
	}
	if strings.TrimSpace(audioPath) == "" {
		return ErrAudioPathRequired
	}
	s.title = strings.TrimSpace(title)
	s.artist = strings.TrimSpace(artist)
	s.audioPath = audioPath
	s.coverPath = coverPath
	s.updatedAt = time.Now()
	return nil
}

// UpdateGameplay replaces the beatmap, tempo, duration and version together.
// versionPinned must be true when any session references the current version;
// gameplay data is immutable once played.
func (s *Song) UpdateGameplay(bpm, durationSeconds int, beatmap []byte, version string, versionPinned bool) error {
	if versionPinned {
		return ErrVersionFrozen
	}
	if bpm <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBPM, bpm)
	}
	if durationSeconds <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, durationSeconds)
	}
	if len(beatmap) == 0 {
		return ErrBeatmapRequired
	}
	if strings.TrimSpace(version) == "" {
		return ErrVersionRequired
	}
	s.bpm = bpm
	s.durationSeconds = durationSeconds
	s.beatmap = beatmap
	s.version = version
	s.updatedAt = time.Now()
	return nil
}

// Publish makes the song playable.
func (s *Song) Publish() {
	if s.isPublished {
		return
	}
	s.isPublished = true
	s.updatedAt = time.Now()
}

// Unpublish removes the song from the playable catalog.
func (s *Song) Unpublish() {
	if !s.isPublished {
		return
	}
	s.isPublished = false
	s.updatedAt = time.Now()
}
