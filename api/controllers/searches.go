package controllers

import (
	"net/http"

	"github.com/skycasthq/skycast-backend/api/responses"
	"github.com/skycasthq/skycast-backend/internal/searches"
	"github.com/skycasthq/skycast-backend/pkg/logger"
)

// SearchesRecent returns the user's most recent weather searches.
func SearchesRecent(svc searches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Recent(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// SearchesRecentWeather returns the recent searches decorated with current conditions.
func SearchesRecentWeather(svc searches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.RecentWithWeather(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}
