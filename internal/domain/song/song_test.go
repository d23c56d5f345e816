package song

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSong(t *testing.T) *Song {
	t.Helper()
	s, err := NewSong("Neon Rush", "DJ Vector", 174, 152, []byte(`{"notes":[]}`), "/audio/neon-rush.ogg", "")
	require.NoError(t, err)
	return s
}

func TestNewSong(t *testing.T) {
	s := validSong(t)
	assert.Equal(t, DefaultVersion, s.Version())
	assert.False(t, s.IsPublished())
}

func TestNewSong_Validation(t *testing.T) {
	beatmap := []byte(`{}`)

	tests := []struct {
		name    string
		fn      func() (*Song, error)
		wantErr error
	}{
		{"missing title", func() (*Song, error) {
			return NewSong("", "a", 120, 60, beatmap, "/a.ogg", "")
		}, ErrTitleRequired},
		{"missing artist", func() (*Song, error) {
			return NewSong("t", " ", 120, 60, beatmap, "/a.ogg", "")
		}, ErrArtistRequired},
		{"zero bpm", func() (*Song, error) {
			return NewSong("t", "a", 0, 60, beatmap, "/a.ogg", "")
		}, ErrInvalidBPM},
		{"zero duration", func() (*Song, error) {
			return NewSong("t", "a", 120, 0, beatmap, "/a.ogg", "")
		}, ErrInvalidDuration},
		{"empty beatmap", func() (*Song, error) {
			return NewSong("t", "a", 120, 60, nil, "/a.ogg", "")
		}, ErrBeatmapRequired},
		{"missing audio path", func() (*Song, error) {
			return NewSong("t", "a", 120, 60, beatmap, "", "")
		}, ErrAudioPathRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateGameplay_FrozenWhenVersionPinned(t *testing.T) {
	s := validSong(t)

	err := s.UpdateGameplay(180, 150, []byte(`{"notes":[1]}`), "1.1", true)
	assert.ErrorIs(t, err, ErrVersionFrozen)
	assert.Equal(t, DefaultVersion, s.Version())

	err = s.UpdateGameplay(180, 150, []byte(`{"notes":[1]}`), "1.1", false)
	require.NoError(t, err)
	assert.Equal(t, "1.1", s.Version())
	assert.Equal(t, 180, s.BPM())
}

func TestPublishUnpublish(t *testing.T) {
	s := validSong(t)

	s.Publish()
	assert.True(t, s.IsPublished())

	// Idempotent.
	s.Publish()
	assert.True(t, s.IsPublished())

	s.Unpublish()
	assert.False(t, s.IsPublished())
}
