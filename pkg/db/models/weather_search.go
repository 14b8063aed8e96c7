package models

import (
	"time"

	"github.com/google/uuid"
)

// WeatherSearch records the latest weather lookup a user made for a city.
// One row per (user, city); repeated searches refresh SearchedAt.
type WeatherSearch struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:weather_searches_user_id_idx;uniqueIndex:weather_searches_user_city_key"`
	CityID     uuid.UUID `gorm:"column:city_id;type:uuid;not null;uniqueIndex:weather_searches_user_city_key"`
	SearchedAt time.Time `gorm:"column:searched_at;not null;autoCreateTime"`
}
