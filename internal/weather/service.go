package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skycasthq/skycast-backend/internal/cities"
	"github.com/skycasthq/skycast-backend/pkg/db/models"
	pkgerrors "github.com/skycasthq/skycast-backend/pkg/errors"
	"github.com/skycasthq/skycast-backend/pkg/weatherapi"
)

// Service orchestrates weather lookups against the upstream provider.
type Service interface {
	// Search fetches current conditions for the query, files the city in the
	// directory, and records the lookup in the user's search history.
	Search(ctx context.Context, userID uuid.UUID, query Query) (*SearchResultDTO, error)
	// ForUser fetches current conditions for the user's home city name
	// without touching the search history.
	ForUser(ctx context.Context, userID uuid.UUID) (*ReportDTO, error)
	// ForCity fetches current conditions for a directory city.
	ForCity(ctx context.Context, city models.City) (*ReportDTO, error)
}

type conditionsProvider interface {
	Current(ctx context.Context, req weatherapi.CurrentRequest) (*weatherapi.Observation, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type historyRecorder interface {
	Record(ctx context.Context, userID, cityID uuid.UUID, at time.Time) error
}

// ServiceParams bundles the dependencies for the weather service.
type ServiceParams struct {
	Provider          conditionsProvider
	CityRepo          *cities.Repository
	UserRepo          userLoader
	History           historyRecorder
	IncludeAirQuality bool
}

type service struct {
	provider   conditionsProvider
	cityRepo   *cities.Repository
	users      userLoader
	history    historyRecorder
	includeAQI bool
}

// NewService constructs a weather service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Provider == nil {
		return nil, fmt.Errorf("weather provider is required")
	}
	if params.CityRepo == nil {
		return nil, fmt.Errorf("city repository is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.History == nil {
		return nil, fmt.Errorf("history recorder is required")
	}
	return &service{
		provider:   params.Provider,
		cityRepo:   params.CityRepo,
		users:      params.UserRepo,
		history:    params.History,
		includeAQI: params.IncludeAirQuality,
	}, nil
}

func (s *service) Search(ctx context.Context, userID uuid.UUID, query Query) (*SearchResultDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	query.Name = strings.TrimSpace(query.Name)
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	obs, err := s.fetch(ctx, query.providerQuery())
	if err != nil {
		return nil, err
	}

	city, err := s.fileCity(ctx, query, obs)
	if err != nil {
		return nil, err
	}

	searchedAt := time.Now().UTC()
	if err := s.history.Record(ctx, userID, city.ID, searchedAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record search history")
	}

	return &SearchResultDTO{
		City:       cities.NewCityDTO(*city),
		Report:     ReportFromObservation(obs),
		SearchedAt: searchedAt,
	}, nil
}

func (s *service) ForUser(ctx context.Context, userID uuid.UUID) (*ReportDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	obs, err := s.fetch(ctx, user.City)
	if err != nil {
		return nil, err
	}

	report := ReportFromObservation(obs)
	return &report, nil
}

func (s *service) ForCity(ctx context.Context, city models.City) (*ReportDTO, error) {
	obs, err := s.fetch(ctx, city.Name)
	if err != nil {
		return nil, err
	}
	report := ReportFromObservation(obs)
	return &report, nil
}

func (s *service) fetch(ctx context.Context, providerQuery string) (*weatherapi.Observation, error) {
	obs, err := s.provider.Current(ctx, weatherapi.CurrentRequest{
		Query:             providerQuery,
		IncludeAirQuality: s.includeAQI,
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch current conditions")
	}
	return obs, nil
}

// fileCity stores the lookup target in the directory. By-name lookups keep the
// supplied name with the provider's resolved coordinates; by-coordinate
// lookups keep the requested pair under the provider's resolved name, so the
// same place can appear once per addressing style.
func (s *service) fileCity(ctx context.Context, query Query, obs *weatherapi.Observation) (*models.City, error) {
	name := query.Name
	latitude := obs.Location.Latitude
	longitude := obs.Location.Longitude
	if query.Kind == QueryByCoordinates {
		name = obs.Location.Name
		latitude = query.Latitude
		longitude = query.Longitude
	}

	city, err := s.cityRepo.Resolve(ctx, name, latitude, longitude)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "file city")
	}
	return city, nil
}
