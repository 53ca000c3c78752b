// Package main provides the entrypoint for the WanderPlan API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderplan/wanderplan/internal/api"
	"github.com/wanderplan/wanderplan/internal/api/middleware"
	"github.com/wanderplan/wanderplan/internal/assistant"
	"github.com/wanderplan/wanderplan/internal/assistant/groq"
	"github.com/wanderplan/wanderplan/internal/auth"
	"github.com/wanderplan/wanderplan/internal/database"
	"github.com/wanderplan/wanderplan/internal/featureflags"
	"github.com/wanderplan/wanderplan/internal/places"
	"github.com/wanderplan/wanderplan/internal/provider/resilience"
	"github.com/wanderplan/wanderplan/internal/telemetry"
	"github.com/wanderplan/wanderplan/internal/trip"
	"github.com/wanderplan/wanderplan/internal/weather"
	"github.com/wanderplan/wanderplan/internal/weather/openmeteo"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "wanderplan-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting WanderPlan API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryCfg := telemetry.ConfigFromEnv(serviceName, Version)

	tp, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryCfg.Enabled {
		log.Info().
			Str("otlp_endpoint", telemetryCfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize auth repositories and service
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	authService := auth.NewService(auth.ServiceConfig{
		JWTService: auth.NewJWTService(auth.JWTConfig{
			SigningKey: jwtSigningKey,
		}),
		UserRepo:    auth.NewPostgresUserRepository(pool),
		RefreshRepo: auth.NewPostgresRefreshTokenRepository(pool),
	})
	log.Info().Msg("auth service initialized")

	// Initialize trip repository and service
	tripService := trip.NewService(trip.NewPostgresRepository(pool))
	log.Info().Msg("trip service initialized")

	// Initialize feature flags repository and service
	ffService := featureflags.NewService(featureflags.ServiceConfig{
		Repository:   featureflags.NewPostgresRepository(pool),
		Logger:       log,
		CacheTTL:     1 * time.Minute,
		DefaultFlags: featureflags.DefaultFlags(),
	})
	log.Info().Msg("feature flags service initialized")

	// Provider registry surfaces circuit state on the status endpoint
	registry := resilience.NewRegistry()

	// Initialize weather provider and service
	weatherHTTP := resilience.NewClient(resilience.DefaultClientConfig(openmeteo.ProviderName))
	registry.Register(openmeteo.ProviderName, weatherHTTP)

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: openmeteo.NewClient(openmeteo.ClientConfig{
			HTTPClient: weatherHTTP,
			Logger:     log,
		}),
		Logger: log,
	})
	log.Info().Msg("weather service initialized")

	// Initialize assistant provider and service
	var assistantService *assistant.Service
	groqAPIKey := os.Getenv("GROQ_API_KEY")
	if groqAPIKey != "" {
		groqHTTP := resilience.NewClient(resilience.DefaultClientConfig(groq.ProviderName))
		registry.Register(groq.ProviderName, groqHTTP)

		groqClient, err := groq.NewClient(groq.ClientConfig{
			APIKey: groqAPIKey,
			Model:  os.Getenv("GROQ_MODEL"),
			ModelFunc: func() string {
				return ffService.AssistantModelOverride(context.Background())
			},
			HTTPClient: groqHTTP,
			Logger:     log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize groq client")
		}

		assistantService = assistant.NewService(assistant.ServiceConfig{
			Completer: groqClient,
			Logger:    log,
		})
		log.Info().Msg("assistant service initialized")
	} else {
		log.Warn().Msg("GROQ_API_KEY not set - assistant endpoints will fail")
		assistantService = assistant.NewService(assistant.ServiceConfig{
			Completer: unavailableCompleter{},
			Logger:    log,
		})
	}

	// Initialize place search providers and service
	geocodeHTTP := resilience.NewClient(resilience.DefaultClientConfig(places.GeocodeProviderName))
	registry.Register(places.GeocodeProviderName, geocodeHTTP)

	nominatimHTTP := resilience.NewClient(resilience.DefaultClientConfig(places.NominatimProviderName))
	registry.Register(places.NominatimProviderName, nominatimHTTP)

	placesService := places.NewService(places.ServiceConfig{
		Cities: places.NewGeocodeClient(places.GeocodeClientConfig{
			HTTPClient: geocodeHTTP,
			Logger:     log,
		}),
		Addresses: places.NewNominatimClient(places.NominatimClientConfig{
			HTTPClient: nominatimHTTP,
			Logger:     log,
		}),
		Logger: log,
	})
	log.Info().Msg("places service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		ShareBaseURL:       os.Getenv("SHARE_BASE_URL"),
		Metrics:            metrics,
		AuthService:        authService,
		TripService:        tripService,
		WeatherService:     weatherService,
		AssistantService:   assistantService,
		PlacesService:      placesService,
		FeatureFlagService: ffService,
		Database:           pool,
		Providers:          registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// unavailableCompleter stands in when no assistant provider is configured.
type unavailableCompleter struct{}

func (unavailableCompleter) Complete(context.Context, assistant.Request) (assistant.Completion, error) {
	return assistant.Completion{}, assistant.ErrUnavailable
}

func (unavailableCompleter) Name() string { return "unconfigured" }
