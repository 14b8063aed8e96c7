package favorites

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupFavoritesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	cities := `
CREATE TABLE IF NOT EXISTS cities (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  latitude REAL NOT NULL,
  longitude REAL NOT NULL,
  created_at DATETIME,
  UNIQUE (name, latitude, longitude)
);`
	favorites := `
CREATE TABLE IF NOT EXISTS favorite_cities (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  city_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, city_id)
);`
	require.NoError(t, conn.Exec(cities).Error)
	require.NoError(t, conn.Exec(favorites).Error)
	return conn
}

func seedCity(t *testing.T, conn *gorm.DB, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, conn.Exec(
		`INSERT INTO cities (id, name, latitude, longitude, created_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		id, fmt.Sprintf("%s-%s", name, uuid.NewString()[:8]), 10.0, 20.0,
	).Error)
	return id
}

func TestAddDetectsDuplicates(t *testing.T) {
	conn := setupFavoritesTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	userID := uuid.New()
	cityID := seedCity(t, conn, "Kyoto")

	favorite, err := repo.Add(ctx, userID, cityID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, favorite.ID)

	_, err = repo.Add(ctx, userID, cityID)
	assert.ErrorIs(t, err, ErrAlreadyFavorited)

	// A different user can favorite the same city.
	_, err = repo.Add(ctx, uuid.New(), cityID)
	require.NoError(t, err)
}

func TestListPaginatesOldestFirst(t *testing.T) {
	conn := setupFavoritesTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	var cityIDs []uuid.UUID
	for i := 0; i < 5; i++ {
		cityID := seedCity(t, conn, "City")
		cityIDs = append(cityIDs, cityID)
		require.NoError(t, conn.Exec(
			`INSERT INTO favorite_cities (id, user_id, city_id, created_at) VALUES (?, ?, ?, ?)`,
			uuid.New(), userID, cityID, base.Add(time.Duration(i)*time.Minute),
		).Error)
	}

	page, err := repo.List(ctx, userID, "", 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(5), page.Total)
	assert.NotEmpty(t, page.NextCursor)
	assert.Equal(t, cityIDs[0], page.Items[0].City.ID)
	assert.Equal(t, cityIDs[1], page.Items[1].City.ID)

	second, err := repo.List(ctx, userID, page.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.Equal(t, cityIDs[2], second.Items[0].City.ID)
	assert.Equal(t, cityIDs[3], second.Items[1].City.ID)

	third, err := repo.List(ctx, userID, second.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, third.Items, 1)
	assert.Empty(t, third.NextCursor)
	assert.Equal(t, cityIDs[4], third.Items[0].City.ID)
}

func TestListEmpty(t *testing.T) {
	conn := setupFavoritesTestDB(t)
	repo := NewRepository(conn)

	page, err := repo.List(context.Background(), uuid.New(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.NextCursor)
}

func TestListRejectsBadCursor(t *testing.T) {
	conn := setupFavoritesTestDB(t)
	repo := NewRepository(conn)

	_, err := repo.List(context.Background(), uuid.New(), "not-a-cursor", 10)
	assert.Error(t, err)
}
