package models

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteCity links a user to a saved city.
type FavoriteCity struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:favorite_cities_user_id_idx;uniqueIndex:favorite_cities_user_city_key"`
	CityID    uuid.UUID `gorm:"column:city_id;type:uuid;not null;index:favorite_cities_city_id_idx;uniqueIndex:favorite_cities_user_city_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
