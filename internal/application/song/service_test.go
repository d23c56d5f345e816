package song

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"beatrush/internal/application/song/dto"
	domainSession "beatrush/internal/domain/session"
	"beatrush/internal/infrastructure/persistence/models"
	"beatrush/internal/infrastructure/repository"
	"beatrush/internal/shared/errors"
	"beatrush/internal/shared/logger"
)

type songFixture struct {
	svc         *Service
	sessionRepo domainSession.Repository
}

func setupSongService(t *testing.T) *songFixture {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(models.AllModels()...))

	log := logger.NewLogger()
	songRepo := repository.NewSongRepository(gdb, log)
	sessionRepo := repository.NewSessionRepository(gdb, log)

	return &songFixture{
		svc:         NewService(songRepo, sessionRepo, log),
		sessionRepo: sessionRepo,
	}
}

func createReq() dto.CreateSongRequest {
	return dto.CreateSongRequest{
		Title:           "Neon Cascade",
		Artist:          "Vector Pulse",
		BPM:             174,
		DurationSeconds: 212,
		Beatmap:         []byte(`{"notes":[{"t":0,"lane":1}]}`),
		AudioPath:       "songs/neon-cascade.ogg",
	}
}

func TestCreateSong_StartsUnpublishedAtDefaultVersion(t *testing.T) {
	f := setupSongService(t)
	ctx := context.Background()

	resp, err := f.svc.CreateSong(ctx, createReq())
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "1.0", resp.Version)
	assert.False(t, resp.IsPublished)
}

func TestPublishSong_IsIdempotent(t *testing.T) {
	f := setupSongService(t)
	ctx := context.Background()

	resp, err := f.svc.CreateSong(ctx, createReq())
	require.NoError(t, err)

	resp, err = f.svc.PublishSong(ctx, resp.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsPublished)

	resp, err = f.svc.PublishSong(ctx, resp.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsPublished)

	published, err := f.svc.ListSongs(ctx, true)
	require.NoError(t, err)
	assert.Len(t, published, 1)
}

func TestUpdateSong_MetadataIsAlwaysEditable(t *testing.T) {
	f := setupSongService(t)
	ctx := context.Background()

	resp, err := f.svc.CreateSong(ctx, createReq())
	require.NoError(t, err)

	f.startSession(t, resp.ID, resp.Version)

	title := "Neon Cascade (Remaster)"
	cover := "covers/neon-cascade.png"
	updated, err := f.svc.UpdateSong(ctx, resp.ID, dto.UpdateSongRequest{
		Title:     &title,
		CoverPath: &cover,
	})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, cover, updated.CoverPath)
	assert.Equal(t, resp.Version, updated.Version)
}

func TestUpdateSong_GameplayEditableBeforeFirstSession(t *testing.T) {
	f := setupSongService(t)
	ctx := context.Background()

	resp, err := f.svc.CreateSong(ctx, createReq())
	require.NoError(t, err)

	bpm := 180
	updated, err := f.svc.UpdateSong(ctx, resp.ID, dto.UpdateSongRequest{BPM: &bpm})
	require.NoError(t, err)
	assert.Equal(t, 180, updated.BPM)
	assert.Equal(t, resp.Version, updated.Version)
}

func TestUpdateSong_GameplayFrozenOncePlayed(t *testing.T) {
	f := setupSongService(t)
	ctx := context.Background()

	resp, err := f.svc.CreateSong(ctx, createReq())
	require.NoError(t, err)

	f.startSession(t, resp.ID, resp.Version)

	bpm := 180
	_, err = f.svc.UpdateSong(ctx, resp.ID, dto.UpdateSongRequest{BPM: &bpm})
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))

	// The same change under a new version string succeeds.
	version := "1.1"
	updated, err := f.svc.UpdateSong(ctx, resp.ID, dto.UpdateSongRequest{
		BPM:     &bpm,
		Version: &version,
	})
	require.NoError(t, err)
	assert.Equal(t, 180, updated.BPM)
	assert.Equal(t, "1.1", updated.Version)
}

func TestDeleteSong_UnknownID(t *testing.T) {
	f := setupSongService(t)

	err := f.svc.DeleteSong(context.Background(), 9999)
	assert.True(t, errors.IsNotFoundError(err))
}

func (f *songFixture) startSession(t *testing.T, songID uint, version string) {
	t.Helper()
	sess, err := domainSession.NewSession(1, songID, version, "0.9.0", "test-device")
	require.NoError(t, err)
	require.NoError(t, f.sessionRepo.Create(context.Background(), sess))
}
