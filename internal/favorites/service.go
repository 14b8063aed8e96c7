package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skycasthq/skycast-backend/internal/cities"
	"github.com/skycasthq/skycast-backend/internal/weather"
	"github.com/skycasthq/skycast-backend/pkg/db/models"
	pkgerrors "github.com/skycasthq/skycast-backend/pkg/errors"
	"github.com/skycasthq/skycast-backend/pkg/weatherapi"
)

// Service exposes business rules for favorite city management.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, req AddFavoriteRequest) (*FavoriteDTO, error)
	List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error)
	// ListWithWeather decorates the page with fresh conditions. A single
	// failed provider call fails the whole request.
	ListWithWeather(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageWithWeatherDTO, error)
}

type conditionsProvider interface {
	Current(ctx context.Context, req weatherapi.CurrentRequest) (*weatherapi.Observation, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ServiceParams bundles the dependencies for the favorites service.
type ServiceParams struct {
	FavoriteRepo      *Repository
	CityRepo          *cities.Repository
	UserRepo          userLoader
	Provider          conditionsProvider
	IncludeAirQuality bool
}

type service struct {
	favorites  *Repository
	cityRepo   *cities.Repository
	users      userLoader
	provider   conditionsProvider
	includeAQI bool
}

// NewService constructs a favorites service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FavoriteRepo == nil {
		return nil, fmt.Errorf("favorites repository is required")
	}
	if params.CityRepo == nil {
		return nil, fmt.Errorf("city repository is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Provider == nil {
		return nil, fmt.Errorf("weather provider is required")
	}
	return &service{
		favorites:  params.FavoriteRepo,
		cityRepo:   params.CityRepo,
		users:      params.UserRepo,
		provider:   params.Provider,
		includeAQI: params.IncludeAirQuality,
	}, nil
}

// Add files the city in the directory and saves it as a favorite.
func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddFavoriteRequest) (*FavoriteDTO, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city name is required")
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "latitude must be between -90 and 90")
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "longitude must be between -180 and 180")
	}

	city, err := s.cityRepo.Resolve(ctx, name, req.Latitude, req.Longitude)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "file city")
	}

	favorite, err := s.favorites.Add(ctx, userID, city.ID)
	if err != nil {
		if errors.Is(err, ErrAlreadyFavorited) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "city already in favorites")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save favorite")
	}

	return &FavoriteDTO{
		ID:        favorite.ID,
		City:      cities.NewCityDTO(*city),
		CreatedAt: favorite.CreatedAt,
	}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return PageDTO{}, err
	}
	page, err := s.favorites.List(ctx, userID, cursor, limit)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load favorites")
	}
	return page, nil
}

func (s *service) ListWithWeather(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageWithWeatherDTO, error) {
	page, err := s.List(ctx, userID, cursor, limit)
	if err != nil {
		return PageWithWeatherDTO{}, err
	}

	items := make([]FavoriteWithWeatherDTO, 0, len(page.Items))
	for _, item := range page.Items {
		obs, err := s.provider.Current(ctx, weatherapi.CurrentRequest{
			Query:             item.City.Name,
			IncludeAirQuality: s.includeAQI,
		})
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil {
				return PageWithWeatherDTO{}, err
			}
			return PageWithWeatherDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch conditions for favorite")
		}
		items = append(items, FavoriteWithWeatherDTO{
			Favorite: item,
			Weather:  weather.ReportFromObservation(obs),
		})
	}

	return PageWithWeatherDTO{
		Items:      items,
		Total:      page.Total,
		NextCursor: page.NextCursor,
	}, nil
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
