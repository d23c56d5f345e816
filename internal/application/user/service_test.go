package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"beatrush/internal/application/user/dto"
	"beatrush/internal/infrastructure/persistence/models"
	"beatrush/internal/infrastructure/repository"
	"beatrush/internal/shared/errors"
	"beatrush/internal/shared/logger"
)

func setupUserService(t *testing.T) *Service {
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
	return NewService(repository.NewUserRepository(gdb, log), log)
}

func TestCreateUser_NormalizesEmail(t *testing.T) {
	svc := setupUserService(t)

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name:  "Player One",
		Email: "Player1@Example.COM",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "player1@example.com", resp.Email)
}

func TestCreateUser_EmailMustBeUnique(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{Name: "Player One", Email: "p1@example.com"})
	require.NoError(t, err)

	// Same address in a different case is still taken.
	_, err = svc.CreateUser(ctx, dto.CreateUserRequest{Name: "Impostor", Email: "P1@example.com"})
	assert.True(t, errors.IsConflictError(err))
}

func TestCreateUser_RejectsInvalidEmail(t *testing.T) {
	svc := setupUserService(t)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name:  "Player One",
		Email: "not-an-email",
	})
	assert.True(t, errors.IsValidationError(err))
}

func TestUpdateUser_PartialUpdate(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, dto.CreateUserRequest{Name: "Player One", Email: "p1@example.com"})
	require.NoError(t, err)

	name := "Player Uno"
	updated, err := svc.UpdateUser(ctx, created.ID, dto.UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Player Uno", updated.Name)
	assert.Equal(t, "p1@example.com", updated.Email)

	// Updating the email to its current value is allowed.
	email := "p1@example.com"
	_, err = svc.UpdateUser(ctx, created.ID, dto.UpdateUserRequest{Email: &email})
	require.NoError(t, err)
}

func TestUpdateUser_EmailTakenByAnother(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{Name: "Player One", Email: "p1@example.com"})
	require.NoError(t, err)
	second, err := svc.CreateUser(ctx, dto.CreateUserRequest{Name: "Player Two", Email: "p2@example.com"})
	require.NoError(t, err)

	email := "p1@example.com"
	_, err = svc.UpdateUser(ctx, second.ID, dto.UpdateUserRequest{Email: &email})
	assert.True(t, errors.IsConflictError(err))
}

func TestDeleteUser(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, dto.CreateUserRequest{Name: "Player One", Email: "p1@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, created.ID))

	_, err = svc.GetUser(ctx, created.ID)
	assert.True(t, errors.IsNotFoundError(err))

	err = svc.DeleteUser(ctx, created.ID)
	assert.True(t, errors.IsNotFoundError(err))
}
