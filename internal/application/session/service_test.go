package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"beatrush/internal/application/session/dto"
	domainSong "beatrush/internal/domain/song"
	domainUser "beatrush/internal/domain/user"
	"beatrush/internal/infrastructure/persistence/models"
	"beatrush/internal/infrastructure/repository"
	"beatrush/internal/shared/errors"
	"beatrush/internal/shared/logger"
)

// grantedAccess is a stub ledger that grants or denies everything.
type grantedAccess bool

func (g grantedAccess) HasAccess(context.Context, uint, uint) (bool, error) {
	return bool(g), nil
}

type sessionFixture struct {
	svc      *Service
	songRepo domainSong.Repository
	userID   uint
	songID   uint
}

func setupSessionService(t *testing.T, access AccessChecker) *sessionFixture {
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
	sessionRepo := repository.NewSessionRepository(gdb, log)
	songRepo := repository.NewSongRepository(gdb, log)
	userRepo := repository.NewUserRepository(gdb, log)

	ctx := context.Background()

	u, err := domainUser.NewUser("Player One", "player1@example.com")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(ctx, u))

	sng, err := domainSong.NewSong("Neon Cascade", "Vector Pulse", 174, 212,
		[]byte(`{"notes":[]}`), "songs/neon-cascade.ogg", "")
	require.NoError(t, err)
	sng.Publish()
	require.NoError(t, songRepo.Create(ctx, sng))

	return &sessionFixture{
		svc:      NewService(sessionRepo, songRepo, userRepo, access, log),
		songRepo: songRepo,
		userID:   u.ID(),
		songID:   sng.ID(),
	}
}

func (f *sessionFixture) startReq() dto.StartSessionRequest {
	return dto.StartSessionRequest{
		UserID:        f.userID,
		SongID:        f.songID,
		ClientVersion: "0.9.0",
		DeviceInfo:    "test-device",
	}
}

func TestStartSession_PinsSongVersion(t *testing.T) {
	f := setupSessionService(t, grantedAccess(true))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, f.startReq())
	require.NoError(t, err)
	assert.Equal(t, "1.0", sess.SongVersion)
	assert.Equal(t, "0.9.0", sess.ClientVersion)
	assert.Nil(t, sess.EndedAt)
	assert.False(t, sess.IsSynced)
}

func TestStartSession_RequiresEntitlement(t *testing.T) {
	f := setupSessionService(t, grantedAccess(false))

	_, err := f.svc.StartSession(context.Background(), f.startReq())
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
}

func TestStartSession_RequiresPublishedSong(t *testing.T) {
	f := setupSessionService(t, grantedAccess(true))
	ctx := context.Background()

	sng, err := f.songRepo.GetByID(ctx, f.songID)
	require.NoError(t, err)
	sng.Unpublish()
	require.NoError(t, f.songRepo.Update(ctx, sng))

	_, err = f.svc.StartSession(ctx, f.startReq())
	assert.True(t, errors.IsValidationError(err))
}

func TestStartSession_RequiresKnownUser(t *testing.T) {
	f := setupSessionService(t, grantedAccess(true))

	req := f.startReq()
	req.UserID = 9999
	_, err := f.svc.StartSession(context.Background(), req)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestCloseSession_OnlyOnce(t *testing.T) {
	f := setupSessionService(t, grantedAccess(true))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, f.startReq())
	require.NoError(t, err)

	closed, err := f.svc.CloseSession(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.EndedAt)

	_, err = f.svc.CloseSession(ctx, sess.ID)
	assert.True(t, errors.IsConflictError(err))
}

func TestSubmitPerformance_RequiresClosedSession(t *testing.T) {
	f := setupSessionService(t, grantedAccess(true))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, f.startReq())
	require.NoError(t, err)

	_, err = f.svc.SubmitPerformance(ctx, sess.ID, dto.SubmitPerformanceRequest{
		Score:    812345,
		Accuracy: 97.4,
	})
	assert.True(t, errors.IsConflictError(err))
}

func TestSubmitPerformance_OncePerSession(t *testing.T) {
	f := setupSessionService(t, grantedAccess(true))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, f.startReq())
	require.NoError(t, err)
	_, err = f.svc.CloseSession(ctx, sess.ID)
	require.NoError(t, err)

	combo := 423
	perf, err := f.svc.SubmitPerformance(ctx, sess.ID, dto.SubmitPerformanceRequest{
		Score:      812345,
		Accuracy:   97.4,
		MaxCombo:   &combo,
		Modifiers:  []byte(`{"speed":1.5}`),
		ReplayHash: "c0ffee",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(812345), perf.Score)

	_, err = f.svc.SubmitPerformance(ctx, sess.ID, dto.SubmitPerformanceRequest{
		Score:    1,
		Accuracy: 1,
	})
	assert.True(t, errors.IsConflictError(err))
}

func TestSubmitPerformance_ValidatesResult(t *testing.T) {
	f := setupSessionService(t, grantedAccess(true))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, f.startReq())
	require.NoError(t, err)
	_, err = f.svc.CloseSession(ctx, sess.ID)
	require.NoError(t, err)

	_, err = f.svc.SubmitPerformance(ctx, sess.ID, dto.SubmitPerformanceRequest{
		Score:    -1,
		Accuracy: 50,
	})
	assert.True(t, errors.IsValidationError(err))

	_, err = f.svc.SubmitPerformance(ctx, sess.ID, dto.SubmitPerformanceRequest{
		Score:    100,
		Accuracy: 101,
	})
	assert.True(t, errors.IsValidationError(err))
}

func TestGetSession_IncludesPerformanceOnceSubmitted(t *testing.T) {
	f := setupSessionService(t, grantedAccess(true))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, f.startReq())
	require.NoError(t, err)

	got, err := f.svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Performance)

	_, err = f.svc.CloseSession(ctx, sess.ID)
	require.NoError(t, err)
	_, err = f.svc.SubmitPerformance(ctx, sess.ID, dto.SubmitPerformanceRequest{
		Score:    812345,
		Accuracy: 97.4,
	})
	require.NoError(t, err)

	got, err = f.svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Performance)
	assert.Equal(t, int64(812345), got.Performance.Score)
}

func TestMarkSynced(t *testing.T) {
	f := setupSessionService(t, grantedAccess(true))
	ctx := context.Background()

	sess, err := f.svc.StartSession(ctx, f.startReq())
	require.NoError(t, err)

	synced, err := f.svc.MarkSynced(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, synced.IsSynced)

	synced, err = f.svc.MarkSynced(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, synced.IsSynced)
}
