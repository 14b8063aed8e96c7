package favorites

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skycasthq/skycast-backend/internal/cities"
	"github.com/skycasthq/skycast-backend/pkg/db/models"
	"github.com/skycasthq/skycast-backend/pkg/pagination"
)

// ErrAlreadyFavorited signals the (user, city) pair already exists.
var ErrAlreadyFavorited = errors.New("city already in favorites")

// Repository encapsulates favorites persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a favorite and reports ErrAlreadyFavorited on a duplicate.
func (r *Repository) Add(ctx context.Context, userID, cityID uuid.UUID) (*models.FavoriteCity, error) {
	if userID == uuid.Nil || cityID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}

	favorite := &models.FavoriteCity{
		ID:        uuid.New(),
		UserID:    userID,
		CityID:    cityID,
		CreatedAt: time.Now().UTC(),
	}

	result := r.db.WithContext(ctx).
		Exec(`INSERT INTO favorite_cities (id, user_id, city_id, created_at) VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, city_id) DO NOTHING`,
			favorite.ID, favorite.UserID, favorite.CityID, favorite.CreatedAt)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyFavorited
	}
	return favorite, nil
}

// List returns one cursor page of favorites, oldest first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error) {
	if userID == uuid.Nil {
		return PageDTO{}, gorm.ErrInvalidValue
	}

	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	cursorValue := strings.TrimSpace(cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return PageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Table("favorite_cities fc").
		Select("fc.id AS favorite_id, fc.created_at AS favorite_created_at, c.id AS city_id, c.name AS city_name, c.latitude, c.longitude, c.created_at AS city_created_at").
		Joins("JOIN cities c ON c.id = fc.city_id").
		Where("fc.user_id = ?", userID)

	if decodedCursor != nil {
		query = query.Where("(fc.created_at > ?) OR (fc.created_at = ? AND fc.id > ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	query = query.Order("fc.created_at ASC").Order("fc.id ASC").Limit(limitWithBuffer)

	var records []favoriteCityRecord
	if err := query.Scan(&records).Error; err != nil {
		return PageDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.FavoriteCreatedAt,
			ID:        last.FavoriteID,
		})
	}

	items := make([]FavoriteDTO, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, record.toDTO())
	}

	total, err := r.countForUser(ctx, userID)
	if err != nil {
		return PageDTO{}, err
	}

	return PageDTO{
		Items:      items,
		Total:      total,
		NextCursor: nextCursor,
	}, nil
}

func (r *Repository) countForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FavoriteCity{}).
		Where("user_id = ?", userID).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

type favoriteCityRecord struct {
	FavoriteID        uuid.UUID `gorm:"column:favorite_id"`
	FavoriteCreatedAt time.Time `gorm:"column:favorite_created_at"`
	CityID            uuid.UUID `gorm:"column:city_id"`
	CityName          string    `gorm:"column:city_name"`
	Latitude          float64   `gorm:"column:latitude"`
	Longitude         float64   `gorm:"column:longitude"`
	CityCreatedAt     time.Time `gorm:"column:city_created_at"`
}

func (r favoriteCityRecord) toDTO() FavoriteDTO {
	return FavoriteDTO{
		ID: r.FavoriteID,
		City: cities.CityDTO{
			ID:        r.CityID,
			Name:      r.CityName,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			CreatedAt: r.CityCreatedAt,
		},
		CreatedAt: r.FavoriteCreatedAt,
	}
}
