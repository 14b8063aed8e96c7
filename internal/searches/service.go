package searches

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skycasthq/skycast-backend/internal/weather"
	"github.com/skycasthq/skycast-backend/pkg/db/models"
	pkgerrors "github.com/skycasthq/skycast-backend/pkg/errors"
	"github.com/skycasthq/skycast-backend/pkg/weatherapi"
)

// Service exposes read access to a user's search history.
type Service interface {
	Recent(ctx context.Context, userID uuid.UUID) ([]SearchDTO, error)
	// RecentWithWeather decorates the history with fresh conditions. A single
	// failed provider call fails the whole request.
	RecentWithWeather(ctx context.Context, userID uuid.UUID) ([]SearchWithWeatherDTO, error)
}

type conditionsProvider interface {
	Current(ctx context.Context, req weatherapi.CurrentRequest) (*weatherapi.Observation, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ServiceParams bundles the dependencies for the search history service.
type ServiceParams struct {
	SearchRepo        *Repository
	UserRepo          userLoader
	Provider          conditionsProvider
	IncludeAirQuality bool
}

type service struct {
	searches   *Repository
	users      userLoader
	provider   conditionsProvider
	includeAQI bool
}

// NewService constructs a search history service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.SearchRepo == nil {
		return nil, fmt.Errorf("search repository is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Provider == nil {
		return nil, fmt.Errorf("weather provider is required")
	}
	return &service{
		searches:   params.SearchRepo,
		users:      params.UserRepo,
		provider:   params.Provider,
		includeAQI: params.IncludeAirQuality,
	}, nil
}

func (s *service) Recent(ctx context.Context, userID uuid.UUID) ([]SearchDTO, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	items, err := s.searches.Recent(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load search history")
	}
	return items, nil
}

func (s *service) RecentWithWeather(ctx context.Context, userID uuid.UUID) ([]SearchWithWeatherDTO, error) {
	items, err := s.Recent(ctx, userID)
	if err != nil {
		return nil, err
	}

	decorated := make([]SearchWithWeatherDTO, 0, len(items))
	for _, item := range items {
		obs, err := s.provider.Current(ctx, weatherapi.CurrentRequest{
			Query:             item.City.Name,
			IncludeAirQuality: s.includeAQI,
		})
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil {
				return nil, err
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch conditions for history entry")
		}
		decorated = append(decorated, SearchWithWeatherDTO{
			Search:  item,
			Weather: weather.ReportFromObservation(obs),
		})
	}
	return decorated, nil
}

func (s *service) ensureUser(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return nil
}
