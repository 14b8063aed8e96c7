package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/skycasthq/skycast-backend/api/routes"
	"github.com/skycasthq/skycast-backend/internal/auth"
	"github.com/skycasthq/skycast-backend/internal/cities"
	"github.com/skycasthq/skycast-backend/internal/favorites"
	"github.com/skycasthq/skycast-backend/internal/searches"
	"github.com/skycasthq/skycast-backend/internal/users"
	"github.com/skycasthq/skycast-backend/internal/weather"
	"github.com/skycasthq/skycast-backend/pkg/auth/session"
	"github.com/skycasthq/skycast-backend/pkg/config"
	"github.com/skycasthq/skycast-backend/pkg/db"
	"github.com/skycasthq/skycast-backend/pkg/logger"
	"github.com/skycasthq/skycast-backend/pkg/metrics"
	"github.com/skycasthq/skycast-backend/pkg/migrate"
	"github.com/skycasthq/skycast-backend/pkg/redis"
	"github.com/skycasthq/skycast-backend/pkg/weatherapi"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	providerMetrics := metrics.NewProviderMetrics(registry)

	provider, err := weatherapi.NewClient(cfg.Weather.APIKey,
		weatherapi.WithBaseURL(cfg.Weather.BaseURL),
		weatherapi.WithTimeout(cfg.Weather.RequestTimeout),
		weatherapi.WithMetrics(providerMetrics),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create weather provider", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	cityRepo := cities.NewRepository(dbClient.DB())
	searchRepo := searches.NewRepository(dbClient.DB())
	favoriteRepo := favorites.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{
		UserRepo:    userRepo,
		DBClient:    dbClient,
		PasswordCfg: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	weatherService, err := weather.NewService(weather.ServiceParams{
		Provider:          provider,
		CityRepo:          cityRepo,
		UserRepo:          userRepo,
		History:           searchRepo,
		IncludeAirQuality: cfg.Weather.IncludeAirQuality,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create weather service", err)
		os.Exit(1)
	}

	favoritesService, err := favorites.NewService(favorites.ServiceParams{
		FavoriteRepo:      favoriteRepo,
		CityRepo:          cityRepo,
		UserRepo:          userRepo,
		Provider:          provider,
		IncludeAirQuality: cfg.Weather.IncludeAirQuality,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	searchesService, err := searches.NewService(searches.ServiceParams{
		SearchRepo:        searchRepo,
		UserRepo:          userRepo,
		Provider:          provider,
		IncludeAirQuality: cfg.Weather.IncludeAirQuality,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create searches service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			httpMetrics,
			registry,
			dbClient,
			redisClient,
			sessionManager,
			authService,
			registerService,
			usersService,
			weatherService,
			favoritesService,
			searchesService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
