package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/skycasthq/skycast-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Country     string     `json:"country"`
	State       string     `json:"state"`
	City        string     `json:"city"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Country      string
	State        string
	City         string
	Latitude     float64
	Longitude    float64
}

// UpdateProfileDTO captures the mutable profile fields; nil means unchanged.
type UpdateProfileDTO struct {
	Name      *string
	Country   *string
	State     *string
	City      *string
	Latitude  *float64
	Longitude *float64
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Country:     u.Country,
		State:       u.State,
		City:        u.City,
		Latitude:    u.Latitude,
		Longitude:   u.Longitude,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Country:      c.Country,
		State:        c.State,
		City:         c.City,
		Latitude:     c.Latitude,
		Longitude:    c.Longitude,
	}
}
