package cities

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skycasthq/skycast-backend/pkg/db"
	"github.com/skycasthq/skycast-backend/pkg/db/models"
)

const uniqueDescriptorConstraint = "cities_name_lat_lon_key"

// Repository encapsulates city directory persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a city repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Resolve returns the city matching the descriptor, creating it when absent.
// A concurrent insert of the same descriptor resolves to the surviving row.
func (r *Repository) Resolve(ctx context.Context, name string, latitude, longitude float64) (*models.City, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, gorm.ErrInvalidValue
	}

	existing, err := r.findByDescriptor(ctx, trimmed, latitude, longitude)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &models.City{
		ID:        uuid.New(),
		Name:      trimmed,
		Latitude:  latitude,
		Longitude: longitude,
	}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		if db.IsUniqueViolation(err, uniqueDescriptorConstraint) {
			return r.findByDescriptor(ctx, trimmed, latitude, longitude)
		}
		return nil, err
	}
	return created, nil
}

// FindByID loads a city by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.City, error) {
	if id == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}
	var city models.City
	if err := r.db.WithContext(ctx).First(&city, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

// FindByName returns the oldest directory entry carrying the name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.City, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, gorm.ErrInvalidValue
	}
	var city models.City
	err := r.db.WithContext(ctx).
		Where("name = ?", trimmed).
		Order("created_at ASC, id ASC").
		First(&city).
		Error
	if err != nil {
		return nil, err
	}
	return &city, nil
}

// FindByCoordinates returns the oldest directory entry at the exact coordinates.
func (r *Repository) FindByCoordinates(ctx context.Context, latitude, longitude float64) (*models.City, error) {
	var city models.City
	err := r.db.WithContext(ctx).
		Where("latitude = ? AND longitude = ?", latitude, longitude).
		Order("created_at ASC, id ASC").
		First(&city).
		Error
	if err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *Repository) findByDescriptor(ctx context.Context, name string, latitude, longitude float64) (*models.City, error) {
	var city models.City
	err := r.db.WithContext(ctx).
		Where("name = ? AND latitude = ? AND longitude = ?", name, latitude, longitude).
		First(&city).
		Error
	if err != nil {
		return nil, err
	}
	return &city, nil
}
