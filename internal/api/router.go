// Package api provides the HTTP API for WanderPlan.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/wanderplan/wanderplan/internal/api/handler"
	"github.com/wanderplan/wanderplan/internal/api/middleware"
	"github.com/wanderplan/wanderplan/internal/assistant"
	"github.com/wanderplan/wanderplan/internal/auth"
	"github.com/wanderplan/wanderplan/internal/featureflags"
	"github.com/wanderplan/wanderplan/internal/places"
	"github.com/wanderplan/wanderplan/internal/provider/resilience"
	"github.com/wanderplan/wanderplan/internal/trip"
	"github.com/wanderplan/wanderplan/internal/weather"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string

	// ShareBaseURL is the public site prefix used to build share URLs.
	ShareBaseURL string

	Metrics            *middleware.Metrics
	AuthService        *auth.Service
	TripService        *trip.Service
	WeatherService     *weather.Service
	AssistantService   *assistant.Service
	PlacesService      *places.Service
	FeatureFlagService *featureflags.Service

	// Database is pinged by the readiness endpoint; nil skips the check.
	Database handler.Pinger

	// Providers surfaces circuit breaker state on the status endpoint.
	Providers *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "wanderplan-api"
	}

	shareBaseURL := cfg.ShareBaseURL
	if shareBaseURL == "" {
		shareBaseURL = "https://wanderplan.app"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Database, cfg.Providers, cfg.FeatureFlagService)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	tripHandler := handler.NewTripHandler(cfg.TripService)
	itineraryHandler := handler.NewItineraryHandler(cfg.TripService)
	shareHandler := handler.NewShareHandler(cfg.TripService, cfg.FeatureFlagService, shareBaseURL)
	weatherHandler := handler.NewWeatherHandler(cfg.TripService, cfg.WeatherService, cfg.FeatureFlagService)
	assistantHandler := handler.NewAssistantHandler(cfg.TripService, cfg.AssistantService, cfg.FeatureFlagService)
	placesHandler := handler.NewPlacesHandler(cfg.PlacesService)
	featureFlagsHandler := handler.NewFeatureFlagsHandler(cfg.FeatureFlagService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			// logout-all and me require authentication
			r.With(authMiddleware).Post("/logout-all", authHandler.LogoutAll)
			r.With(authMiddleware).Get("/me", authHandler.Me)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Place search endpoints (public) - standard rate limiting
		r.Route("/places", func(r chi.Router) {
			r.With(standardRateLimit).Get("/cities", placesHandler.SearchCities)
			// Address search proxies a strictly rate limited upstream
			r.With(expensiveRateLimit).Get("/addresses", placesHandler.SearchAddresses)
		})

		// Shared trip view (public, token is the credential)
		r.With(standardRateLimit).Get("/shared/{token}", shareHandler.GetSharedTrip)

		// Trip endpoints (authenticated) - user-based rate limiting
		r.Route("/trips", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user

			r.Get("/", tripHandler.ListTrips)
			r.Post("/", tripHandler.CreateTrip)

			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", tripHandler.GetTrip)
				r.Patch("/", tripHandler.UpdateTrip)
				r.Delete("/", tripHandler.DeleteTrip)

				// Itinerary items
				r.Route("/items", func(r chi.Router) {
					r.Get("/", itineraryHandler.ListItems)
					r.Post("/", itineraryHandler.AddItems)
					r.Put("/{itemID}", itineraryHandler.UpdateItem)
					r.Delete("/{itemID}", itineraryHandler.DeleteItem)
				})

				// Share link
				r.Post("/share", shareHandler.CreateShareLink)
				r.Delete("/share", shareHandler.RevokeShareLink)

				// Trip weather
				r.Get("/weather", weatherHandler.GetTripWeather)

				// Itinerary assistant - expensive upstream call
				r.With(middleware.RateLimitByUser(middleware.ExpensiveRateLimit)).
					Post("/assistant", assistantHandler.Run)
			})
		})

		// Admin endpoints (authenticated) - for internal operations
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)

			// Feature flags management
			r.Route("/feature-flags", func(r chi.Router) {
				r.Get("/", featureFlagsHandler.ListFeatureFlags)
				r.Put("/", featureFlagsHandler.UpsertFeatureFlags)
				r.Post("/invalidate", featureFlagsHandler.InvalidateCache)
			})
		})
	})

	return r
}
