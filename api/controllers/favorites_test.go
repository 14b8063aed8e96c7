package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/skycasthq/skycast-backend/internal/favorites"
	pkgerrors "github.com/skycasthq/skycast-backend/pkg/errors"
)

type stubFavoritesService struct {
	lastLimit  int
	lastCursor string

	favorite *favorites.FavoriteDTO
	page     favorites.PageDTO
	withWx   favorites.PageWithWeatherDTO
	err      error
}

func (s *stubFavoritesService) Add(ctx context.Context, userID uuid.UUID, req favorites.AddFavoriteRequest) (*favorites.FavoriteDTO, error) {
	return s.favorite, s.err
}

func (s *stubFavoritesService) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (favorites.PageDTO, error) {
	s.lastCursor = cursor
	s.lastLimit = limit
	return s.page, s.err
}

func (s *stubFavoritesService) ListWithWeather(ctx context.Context, userID uuid.UUID, cursor string, limit int) (favorites.PageWithWeatherDTO, error) {
	s.lastCursor = cursor
	s.lastLimit = limit
	return s.withWx, s.err
}

func TestFavoritesAddCreated(t *testing.T) {
	svc := &stubFavoritesService{favorite: &favorites.FavoriteDTO{ID: uuid.New()}}
	handler := FavoritesAdd(svc, nil)

	resp := httptest.NewRecorder()
	body := bytes.NewReader([]byte(`{"name":"Kyoto","latitude":35.0116,"longitude":135.7681}`))
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/favorites", uuid.New(), body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}

func TestFavoritesAddConflict(t *testing.T) {
	svc := &stubFavoritesService{err: pkgerrors.New(pkgerrors.CodeConflict, "city already in favorites")}
	handler := FavoritesAdd(svc, nil)

	resp := httptest.NewRecorder()
	body := bytes.NewReader([]byte(`{"name":"Kyoto","latitude":35.0116,"longitude":135.7681}`))
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/favorites", uuid.New(), body))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestFavoritesAddRejectsMissingName(t *testing.T) {
	handler := FavoritesAdd(&stubFavoritesService{}, nil)

	resp := httptest.NewRecorder()
	body := bytes.NewReader([]byte(`{"latitude":35.0116,"longitude":135.7681}`))
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/favorites", uuid.New(), body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestFavoritesListPassesPagination(t *testing.T) {
	svc := &stubFavoritesService{page: favorites.PageDTO{Items: []favorites.FavoriteDTO{}, Total: 0}}
	handler := FavoritesList(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/favorites?limit=10&cursor=abc", uuid.New(), nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastLimit != 10 || svc.lastCursor != "abc" {
		t.Fatalf("unexpected pagination limit=%d cursor=%s", svc.lastLimit, svc.lastCursor)
	}

	var envelope struct {
		Data favorites.PageDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestFavoritesListRejectsBadLimit(t *testing.T) {
	handler := FavoritesList(&stubFavoritesService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/favorites?limit=9999", uuid.New(), nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestFavoritesListWeatherOutage(t *testing.T) {
	svc := &stubFavoritesService{err: pkgerrors.New(pkgerrors.CodeDependency, "provider down")}
	handler := FavoritesListWeather(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/favorites/weather", uuid.New(), nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
