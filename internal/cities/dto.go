package cities

import (
	"time"

	"github.com/google/uuid"

	"github.com/skycasthq/skycast-backend/pkg/db/models"
)

// CityDTO is the API-facing shape of a directory city.
type CityDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCityDTO maps a city row to its DTO.
func NewCityDTO(city models.City) CityDTO {
	return CityDTO{
		ID:        city.ID,
		Name:      city.Name,
		Latitude:  city.Latitude,
		Longitude: city.Longitude,
		CreatedAt: city.CreatedAt,
	}
}
