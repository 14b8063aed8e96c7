package favorites

import (
	"time"

	"github.com/google/uuid"

	"github.com/skycasthq/skycast-backend/internal/cities"
	"github.com/skycasthq/skycast-backend/internal/weather"
)

// FavoriteDTO is one saved city in a user's favorites.
type FavoriteDTO struct {
	ID        uuid.UUID      `json:"id"`
	City      cities.CityDTO `json:"city"`
	CreatedAt time.Time      `json:"created_at"`
}

// FavoriteWithWeatherDTO pairs a favorite with fresh conditions.
type FavoriteWithWeatherDTO struct {
	Favorite FavoriteDTO       `json:"favorite"`
	Weather  weather.ReportDTO `json:"weather"`
}

// PageDTO is one cursor page of favorites.
type PageDTO struct {
	Items      []FavoriteDTO `json:"items"`
	Total      int64         `json:"total"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// PageWithWeatherDTO is one cursor page of weather-decorated favorites.
type PageWithWeatherDTO struct {
	Items      []FavoriteWithWeatherDTO `json:"items"`
	Total      int64                    `json:"total"`
	NextCursor string                   `json:"next_cursor,omitempty"`
}

// AddFavoriteRequest identifies the city to save.
type AddFavoriteRequest struct {
	Name      string  `json:"name" validate:"required,min=1,max=120"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}
