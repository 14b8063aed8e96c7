package searches

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skycasthq/skycast-backend/internal/cities"
	"github.com/skycasthq/skycast-backend/pkg/db/models"
)

// HistoryLimit is how many searches each user keeps.
const HistoryLimit = 5

// Repository encapsulates search history persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a search history repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record upserts the (user, city) entry, refreshing its timestamp on repeat
// lookups, then trims the user's history to the retention limit.
func (r *Repository) Record(ctx context.Context, userID, cityID uuid.UUID, at time.Time) error {
	if userID == uuid.Nil || cityID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	err := r.db.WithContext(ctx).
		Exec(`INSERT INTO weather_searches (id, user_id, city_id, searched_at) VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, city_id) DO UPDATE SET searched_at = excluded.searched_at`,
			uuid.New(), userID, cityID, at).
		Error
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Exec(`DELETE FROM weather_searches WHERE user_id = ? AND id NOT IN (
SELECT id FROM weather_searches WHERE user_id = ? ORDER BY searched_at DESC, id ASC LIMIT ?)`,
			userID, userID, HistoryLimit).
		Error
}

// Recent returns the user's retained searches, newest first.
func (r *Repository) Recent(ctx context.Context, userID uuid.UUID) ([]SearchDTO, error) {
	if userID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}

	type searchRecord struct {
		SearchID      uuid.UUID `gorm:"column:search_id"`
		SearchedAt    time.Time `gorm:"column:searched_at"`
		CityID        uuid.UUID `gorm:"column:city_id"`
		CityName      string    `gorm:"column:city_name"`
		Latitude      float64   `gorm:"column:latitude"`
		Longitude     float64   `gorm:"column:longitude"`
		CityCreatedAt time.Time `gorm:"column:city_created_at"`
	}

	var records []searchRecord
	err := r.db.WithContext(ctx).
		Table("weather_searches ws").
		Select("ws.id AS search_id, ws.searched_at, c.id AS city_id, c.name AS city_name, c.latitude, c.longitude, c.created_at AS city_created_at").
		Joins("JOIN cities c ON c.id = ws.city_id").
		Where("ws.user_id = ?", userID).
		Order("ws.searched_at DESC").
		Order("ws.id ASC").
		Limit(HistoryLimit).
		Scan(&records).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]SearchDTO, 0, len(records))
	for _, record := range records {
		items = append(items, SearchDTO{
			ID: record.SearchID,
			City: cities.CityDTO{
				ID:        record.CityID,
				Name:      record.CityName,
				Latitude:  record.Latitude,
				Longitude: record.Longitude,
				CreatedAt: record.CityCreatedAt,
			},
			SearchedAt: record.SearchedAt,
		})
	}
	return items, nil
}

// CountForUser reports how many history rows a user currently holds.
func (r *Repository) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WeatherSearch{}).
		Where("user_id = ?", userID).
		Count(&count).
		Error
	return count, err
}
