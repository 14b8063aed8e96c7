package favorites

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skycasthq/skycast-backend/internal/cities"
	"github.com/skycasthq/skycast-backend/pkg/db/models"
	pkgerrors "github.com/skycasthq/skycast-backend/pkg/errors"
	"github.com/skycasthq/skycast-backend/pkg/weatherapi"
)

type stubUserLoader struct {
	users map[uuid.UUID]*models.User
}

func (s *stubUserLoader) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubProvider struct {
	queries []string
	err     error
}

func (s *stubProvider) Current(_ context.Context, req weatherapi.CurrentRequest) (*weatherapi.Observation, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.queries = append(s.queries, req.Query)
	return &weatherapi.Observation{
		Location: weatherapi.Location{Name: "Stub City"},
		Current:  weatherapi.Current{TempC: 22.0},
	}, nil
}

func newFavoritesService(t *testing.T, conn *gorm.DB, users *stubUserLoader, provider *stubProvider) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		FavoriteRepo: NewRepository(conn),
		CityRepo:     cities.NewRepository(conn),
		UserRepo:     users,
		Provider:     provider,
	})
	require.NoError(t, err)
	return svc
}

func knownUser() (*stubUserLoader, uuid.UUID) {
	userID := uuid.New()
	return &stubUserLoader{users: map[uuid.UUID]*models.User{userID: {ID: userID}}}, userID
}

func addRequest(name string) AddFavoriteRequest {
	return AddFavoriteRequest{
		Name:      fmt.Sprintf("%s-%s", name, uuid.NewString()[:8]),
		Latitude:  35.0116,
		Longitude: 135.7681,
	}
}

func TestAddCreatesCityAndFavorite(t *testing.T) {
	conn := setupFavoritesTestDB(t)
	users, userID := knownUser()
	svc := newFavoritesService(t, conn, users, &stubProvider{})
	ctx := context.Background()

	req := addRequest("Kyoto")
	favorite, err := svc.Add(ctx, userID, req)
	require.NoError(t, err)
	assert.Equal(t, req.Name, favorite.City.Name)

	_, err = svc.Add(ctx, userID, req)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestAddValidatesDescriptor(t *testing.T) {
	conn := setupFavoritesTestDB(t)
	users, userID := knownUser()
	svc := newFavoritesService(t, conn, users, &stubProvider{})
	ctx := context.Background()

	cases := []struct {
		name string
		req  AddFavoriteRequest
	}{
		{"blank name", AddFavoriteRequest{Name: "  ", Latitude: 1, Longitude: 2}},
		{"latitude out of range", AddFavoriteRequest{Name: "X", Latitude: 91, Longitude: 2}},
		{"longitude out of range", AddFavoriteRequest{Name: "X", Latitude: 1, Longitude: -181}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(ctx, userID, tc.req)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestAddRequiresKnownUser(t *testing.T) {
	conn := setupFavoritesTestDB(t)
	svc := newFavoritesService(t, conn, &stubUserLoader{users: map[uuid.UUID]*models.User{}}, &stubProvider{})

	_, err := svc.Add(context.Background(), uuid.New(), addRequest("Kyoto"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListWithWeatherDecoratesPage(t *testing.T) {
	conn := setupFavoritesTestDB(t)
	users, userID := knownUser()
	provider := &stubProvider{}
	svc := newFavoritesService(t, conn, users, provider)
	ctx := context.Background()

	first := addRequest("Kyoto")
	second := addRequest("Osaka")
	_, err := svc.Add(ctx, userID, first)
	require.NoError(t, err)
	_, err = svc.Add(ctx, userID, second)
	require.NoError(t, err)

	page, err := svc.ListWithWeather(ctx, userID, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 22.0, page.Items[0].Weather.Current.TempC)
	// Decoration queries the provider by stored city name, in list order.
	assert.Equal(t, []string{first.Name, second.Name}, provider.queries)
}

func TestListWithWeatherFailsFast(t *testing.T) {
	conn := setupFavoritesTestDB(t)
	users, userID := knownUser()
	svc := newFavoritesService(t, conn, users, &stubProvider{err: pkgerrors.New(pkgerrors.CodeDependency, "provider down")})
	ctx := context.Background()

	_, err := svc.Add(ctx, userID, addRequest("Kyoto"))
	require.NoError(t, err)

	_, err = svc.ListWithWeather(ctx, userID, "", 10)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
