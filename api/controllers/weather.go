package controllers

import (
	"net/http"

	"github.com/skycasthq/skycast-backend/api/responses"
	"github.com/skycasthq/skycast-backend/api/validators"
	"github.com/skycasthq/skycast-backend/internal/weather"
	pkgerrors "github.com/skycasthq/skycast-backend/pkg/errors"
	"github.com/skycasthq/skycast-backend/pkg/logger"
)

type weatherSearchRequest struct {
	City      string   `json:"city" validate:"omitempty,max=120"`
	Latitude  *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
}

func (req weatherSearchRequest) toQuery() (weather.Query, error) {
	city := validators.SanitizeString(req.City, 120)
	hasCity := city != ""
	hasCoords := req.Latitude != nil || req.Longitude != nil

	switch {
	case hasCity && hasCoords:
		return weather.Query{}, pkgerrors.New(pkgerrors.CodeValidation, "provide either city or lat/lon, not both")
	case hasCity:
		return weather.NameQuery(city), nil
	case req.Latitude != nil && req.Longitude != nil:
		return weather.CoordinateQuery(*req.Latitude, *req.Longitude), nil
	default:
		return weather.Query{}, pkgerrors.New(pkgerrors.CodeValidation, "city or lat/lon is required")
	}
}

// WeatherMe returns current conditions for the user's home location.
func WeatherMe(svc weather.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.ForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// WeatherSearch looks up conditions by city name or coordinates and records
// the lookup in the user's search history.
func WeatherSearch(svc weather.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body weatherSearchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query, err := body.toQuery()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Search(r.Context(), userID, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
