package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account together with its home location.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Country      string     `gorm:"column:country;not null"`
	State        string     `gorm:"column:state;not null"`
	City         string     `gorm:"column:city;not null"`
	Latitude     float64    `gorm:"column:latitude;not null"`
	Longitude    float64    `gorm:"column:longitude;not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
