package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skycasthq/skycast-backend/api/controllers"
	"github.com/skycasthq/skycast-backend/api/middleware"
	"github.com/skycasthq/skycast-backend/internal/auth"
	"github.com/skycasthq/skycast-backend/internal/favorites"
	"github.com/skycasthq/skycast-backend/internal/searches"
	"github.com/skycasthq/skycast-backend/internal/users"
	"github.com/skycasthq/skycast-backend/internal/weather"
	"github.com/skycasthq/skycast-backend/pkg/auth/session"
	"github.com/skycasthq/skycast-backend/pkg/config"
	"github.com/skycasthq/skycast-backend/pkg/logger"
	"github.com/skycasthq/skycast-backend/pkg/metrics"
	pkgredis "github.com/skycasthq/skycast-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	dbPinger controllers.Pinger,
	redisClient *pkgredis.Client,
	sessionMgr sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	usersService users.Service,
	weatherService weather.Service,
	favoritesService favorites.Service,
	searchesService searches.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(),
	)

	var idemStore pkgredis.IdempotencyStore
	var rateStore middleware.RateLimitStore
	readyDeps := map[string]controllers.Pinger{"database": dbPinger}
	if redisClient != nil {
		idemStore = redisClient
		rateStore = redisClient
		readyDeps["redis"] = redisClient
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).
			Post("/login", controllers.AuthLogin(authService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, rateStore, logg),
			middleware.Idempotency(idemStore, logg),
		).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/logout", controllers.AuthLogout(sessionMgr, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionMgr, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionMgr, logg))

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", controllers.UsersMe(usersService, logg))
			r.Put("/", controllers.UsersUpdateMe(usersService, logg))
			r.Put("/password", controllers.UsersChangePassword(usersService, logg))
			r.Delete("/", controllers.UsersDeleteMe(usersService, logg))
		})

		r.Route("/weather", func(r chi.Router) {
			r.Get("/me", controllers.WeatherMe(weatherService, logg))
			r.Post("/search", controllers.WeatherSearch(weatherService, logg))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesList(favoritesService, logg))
			r.With(middleware.Idempotency(idemStore, logg)).
				Post("/", controllers.FavoritesAdd(favoritesService, logg))
			r.Get("/weather", controllers.FavoritesListWeather(favoritesService, logg))
		})

		r.Route("/searches", func(r chi.Router) {
			r.Get("/recent", controllers.SearchesRecent(searchesService, logg))
			r.Get("/recent/weather", controllers.SearchesRecentWeather(searchesService, logg))
		})
	})

	return r
}
