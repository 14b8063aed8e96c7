package models

import (
	"time"

	"github.com/google/uuid"
)

// City is a shared location row referenced by favorites and search history.
// The composite unique index lets concurrent find-or-create calls fall back
// to a re-fetch instead of inserting duplicates.
type City struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:cities_name_lat_lon_key"`
	Latitude  float64   `gorm:"column:latitude;not null;uniqueIndex:cities_name_lat_lon_key"`
	Longitude float64   `gorm:"column:longitude;not null;uniqueIndex:cities_name_lat_lon_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
