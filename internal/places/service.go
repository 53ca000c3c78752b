package places

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// MinAddressQueryLength is the shortest address query worth sending upstream.
const MinAddressQueryLength = 2

// CitySearcher searches cities by name.
type CitySearcher interface {
	SearchCities(ctx context.Context, query, countryCode string) ([]City, error)
	Name() string
}

// AddressSearcher searches addresses by free-form query.
type AddressSearcher interface {
	SearchAddresses(ctx context.Context, query string) ([]Address, error)
	Name() string
}

// ServiceConfig holds configuration for the places service.
type ServiceConfig struct {
	Cities    CitySearcher
	Addresses AddressSearcher
	Logger    zerolog.Logger
}

// Service provides destination search on top of the search providers.
type Service struct {
	cities    CitySearcher
	addresses AddressSearcher
	logger    zerolog.Logger
}

// NewService creates a new places service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		cities:    cfg.Cities,
		addresses: cfg.Addresses,
		logger:    cfg.Logger,
	}
}

// SearchCities searches destination cities. countryCode optionally restricts
// results to one country.
func (s *Service) SearchCities(ctx context.Context, query, countryCode string) ([]City, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryTooShort
	}

	cities, err := s.cities.SearchCities(ctx, query, countryCode)
	if err != nil {
		s.logger.Error().Err(err).
			Str("provider", s.cities.Name()).
			Str("query", query).
			Msg("city search failed")
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return cities, nil
}

// SearchAddresses searches addresses and points of interest.
func (s *Service) SearchAddresses(ctx context.Context, query string) ([]Address, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinAddressQueryLength {
		return nil, ErrQueryTooShort
	}

	addresses, err := s.addresses.SearchAddresses(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).
			Str("provider", s.addresses.Name()).
			Str("query", query).
			Msg("address search failed")
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return addresses, nil
}
