package searches

import (
	"time"

	"github.com/google/uuid"

	"github.com/skycasthq/skycast-backend/internal/cities"
	"github.com/skycasthq/skycast-backend/internal/weather"
)

// SearchDTO is one entry of a user's search history.
type SearchDTO struct {
	ID         uuid.UUID      `json:"id"`
	City       cities.CityDTO `json:"city"`
	SearchedAt time.Time      `json:"searched_at"`
}

// SearchWithWeatherDTO pairs a history entry with fresh conditions.
type SearchWithWeatherDTO struct {
	Search  SearchDTO         `json:"search"`
	Weather weather.ReportDTO `json:"weather"`
}
