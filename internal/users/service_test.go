package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skycasthq/skycast-backend/pkg/config"
	"github.com/skycasthq/skycast-backend/pkg/db"
	"github.com/skycasthq/skycast-backend/pkg/db/models"
	pkgerrors "github.com/skycasthq/skycast-backend/pkg/errors"
	"github.com/skycasthq/skycast-backend/pkg/security"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  country TEXT NOT NULL,
  state TEXT NOT NULL,
  city TEXT NOT NULL,
  latitude REAL NOT NULL,
  longitude REAL NOT NULL,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	favorites := `
CREATE TABLE IF NOT EXISTS favorite_cities (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  city_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, city_id)
);`
	searches := `
CREATE TABLE IF NOT EXISTS weather_searches (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  city_id TEXT NOT NULL,
  searched_at DATETIME NOT NULL,
  UNIQUE (user_id, city_id)
);`
	require.NoError(t, conn.Exec(users).Error)
	require.NoError(t, conn.Exec(favorites).Error)
	require.NoError(t, conn.Exec(searches).Error)
	return conn
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func newUsersService(t *testing.T, conn *gorm.DB) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(conn)
	svc, err := NewService(ServiceParams{
		UserRepo:    repo,
		DBClient:    db.NewFromConn(conn),
		PasswordCfg: testPasswordConfig(),
	})
	require.NoError(t, err)
	return svc, repo
}

func seedUser(t *testing.T, repo *Repository, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	require.NoError(t, err)

	user, err := repo.Create(context.Background(), CreateUserDTO{
		Name:         "Ada Lovelace",
		Email:        fmt.Sprintf("ada-%s@example.com", uuid.NewString()[:8]),
		PasswordHash: hash,
		Country:      "United Kingdom",
		State:        "England",
		City:         "London",
		Latitude:     51.5074,
		Longitude:    -0.1278,
	})
	require.NoError(t, err)
	return user
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected typed error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestGetProfile(t *testing.T) {
	conn := setupUsersTestDB(t)
	svc, repo := newUsersService(t, conn)
	user := seedUser(t, repo, "original-password")

	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)
	assert.Equal(t, "London", profile.City)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.GetProfile(context.Background(), uuid.Nil)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateProfile(t *testing.T) {
	conn := setupUsersTestDB(t)
	svc, repo := newUsersService(t, conn)
	user := seedUser(t, repo, "original-password")

	newCity := "  Cambridge "
	newLat := 52.2053
	updated, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		City:     &newCity,
		Latitude: &newLat,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cambridge", updated.City)
	assert.Equal(t, 52.2053, updated.Latitude)
	assert.Equal(t, user.Country, updated.Country)

	_, err = svc.UpdateProfile(context.Background(), uuid.New(), UpdateProfileRequest{City: &newCity})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestChangePassword(t *testing.T) {
	conn := setupUsersTestDB(t)
	svc, repo := newUsersService(t, conn)
	user := seedUser(t, repo, "original-password")
	ctx := context.Background()

	err := svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "replacement-password",
	})
	assertCode(t, err, pkgerrors.CodeUnauthorized)

	err = svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
		CurrentPassword: "original-password",
		NewPassword:     "replacement-password",
	})
	require.NoError(t, err)

	fresh, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	ok, err := security.VerifyPassword("replacement-password", fresh.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteAccountRemovesDependents(t *testing.T) {
	conn := setupUsersTestDB(t)
	svc, repo := newUsersService(t, conn)
	user := seedUser(t, repo, "original-password")
	ctx := context.Background()

	cityID := uuid.New()
	require.NoError(t, conn.Exec(
		`INSERT INTO favorite_cities (id, user_id, city_id, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		uuid.New(), user.ID, cityID,
	).Error)
	require.NoError(t, conn.Exec(
		`INSERT INTO weather_searches (id, user_id, city_id, searched_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		uuid.New(), user.ID, cityID,
	).Error)

	require.NoError(t, svc.DeleteAccount(ctx, user.ID))

	_, err := repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var favCount, searchCount int64
	require.NoError(t, conn.Model(&models.FavoriteCity{}).Where("user_id = ?", user.ID).Count(&favCount).Error)
	require.NoError(t, conn.Model(&models.WeatherSearch{}).Where("user_id = ?", user.ID).Count(&searchCount).Error)
	assert.Zero(t, favCount)
	assert.Zero(t, searchCount)

	err = svc.DeleteAccount(ctx, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}
