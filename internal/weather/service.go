package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Provider defines the interface for daily weather data providers.
type Provider interface {
	// FetchDaily fetches the daily series for a location and decision.
	FetchDaily(ctx context.Context, lat, lon float64, decision SourceDecision) (DailySeries, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache a trip's report (default: 30 minutes).
	// Daily aggregates change slowly, so a generous cache is acceptable.
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 6 hours).
	StaleIfErrorTTL time.Duration

	// Now reports the current time. Defaults to time.Now; overridable in tests.
	Now func() time.Time
}

// Service resolves and caches trip weather reports.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration
	now             func() time.Time

	mu    sync.RWMutex
	cache map[string]*cachedReport
}

type cachedReport struct {
	report    *TripReport
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 30 * time.Minute
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 6 * time.Hour
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		now:             now,
		cache:           make(map[string]*cachedReport),
	}
}

// GetTripWeather returns the per-day weather report for a trip window at the
// given destination. The data source and query range follow Decide, so the
// same call transparently serves forecasts, history, or last year's dates.
func (s *Service) GetTripWeather(ctx context.Context, lat, lon float64, window TripWindow) (*TripReport, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if window.End.Before(window.Start) {
		return nil, ErrInvalidWindow
	}

	decision := Decide(s.now(), window)
	key := s.cacheKey(lat, lon, decision)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && s.now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.report, nil
	}
	s.mu.RUnlock()

	return s.fetch(ctx, lat, lon, decision, key)
}

func (s *Service) fetch(ctx context.Context, lat, lon float64, decision SourceDecision, key string) (*TripReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.cache[key]; ok && s.now().Before(cached.expiresAt) {
		return cached.report, nil
	}

	s.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("source", string(decision.Kind)).
		Str("start", decision.QueryStart.Format(DateLayout)).
		Str("end", decision.QueryEnd.Format(DateLayout)).
		Bool("last_year", decision.LastYearSubstitute).
		Str("provider", s.provider.Name()).
		Msg("fetching trip weather from provider")

	series, err := s.provider.FetchDaily(ctx, lat, lon, decision)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("failed to fetch trip weather")

		if cached, ok := s.cache[key]; ok {
			if s.now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale trip weather due to provider error")
				return cached.report, nil
			}
		}

		return nil, ErrProviderUnavailable
	}

	days, err := Normalize(series)
	if err != nil {
		return nil, err
	}

	now := s.now()
	report := &TripReport{
		Days:         days,
		Historical:   decision.Historical,
		LastYearData: decision.LastYearSubstitute,
		FetchedAt:    now,
	}

	s.cache[key] = &cachedReport{
		report:    report,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	return report, nil
}

// CachedTripWeather returns the cached report for a trip window without
// contacting the provider. A report is usable until its stale-if-error
// deadline passes. The second return is false when nothing usable is cached.
func (s *Service) CachedTripWeather(lat, lon float64, window TripWindow) (*TripReport, bool) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, false
	}
	if window.End.Before(window.Start) {
		return nil, false
	}

	decision := Decide(s.now(), window)
	key := s.cacheKey(lat, lon, decision)

	s.mu.RLock()
	defer s.mu.RUnlock()

	cached, ok := s.cache[key]
	if !ok || !s.now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
		return nil, false
	}
	return cached.report, true
}

// cacheKey identifies one resolved query: location plus the effective range.
// Keying on the decision means the cache rolls over naturally when a trip
// crosses the forecast horizon or moves into the past.
func (s *Service) cacheKey(lat, lon float64, decision SourceDecision) string {
	return fmt.Sprintf("%.3f:%.3f:%s:%s:%s",
		lat, lon, decision.Kind,
		decision.QueryStart.Format(DateLayout),
		decision.QueryEnd.Format(DateLayout),
	)
}

// InvalidateCache clears all cached reports.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedReport)
}

// validateCoordinates checks if coordinates are valid.
func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
