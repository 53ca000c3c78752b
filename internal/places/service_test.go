package places_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderplan/wanderplan/internal/places"
)

type stubCitySearcher struct {
	cities []places.City
	err    error
	query  string
}

func (s *stubCitySearcher) SearchCities(_ context.Context, query, _ string) ([]places.City, error) {
	s.query = query
	return s.cities, s.err
}

func (s *stubCitySearcher) Name() string { return "stub-cities" }

type stubAddressSearcher struct {
	addresses []places.Address
	err       error
}

func (s *stubAddressSearcher) SearchAddresses(_ context.Context, _ string) ([]places.Address, error) {
	return s.addresses, s.err
}

func (s *stubAddressSearcher) Name() string { return "stub-addresses" }

func TestService_SearchCities_TrimsQuery(t *testing.T) {
	cities := &stubCitySearcher{cities: []places.City{{Name: "Lisbon"}}}
	service := places.NewService(places.ServiceConfig{Cities: cities, Addresses: &stubAddressSearcher{}})

	result, err := service.SearchCities(context.Background(), "  Lisbon  ", "PT")
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "Lisbon", cities.query)
}

func TestService_SearchCities_EmptyQuery(t *testing.T) {
	service := places.NewService(places.ServiceConfig{Cities: &stubCitySearcher{}, Addresses: &stubAddressSearcher{}})

	_, err := service.SearchCities(context.Background(), "   ", "")
	assert.ErrorIs(t, err, places.ErrQueryTooShort)
}

func TestService_SearchCities_ProviderFailure(t *testing.T) {
	cities := &stubCitySearcher{err: errors.New("boom")}
	service := places.NewService(places.ServiceConfig{Cities: cities, Addresses: &stubAddressSearcher{}})

	_, err := service.SearchCities(context.Background(), "Lisbon", "")
	assert.ErrorIs(t, err, places.ErrProviderUnavailable)
}

func TestService_SearchAddresses_ShortQuery(t *testing.T) {
	service := places.NewService(places.ServiceConfig{Cities: &stubCitySearcher{}, Addresses: &stubAddressSearcher{}})

	_, err := service.SearchAddresses(context.Background(), "a")
	assert.ErrorIs(t, err, places.ErrQueryTooShort)
}

func TestService_SearchAddresses(t *testing.T) {
	addresses := &stubAddressSearcher{addresses: []places.Address{{DisplayName: "Torre de Belem"}}}
	service := places.NewService(places.ServiceConfig{Cities: &stubCitySearcher{}, Addresses: addresses})

	result, err := service.SearchAddresses(context.Background(), "Torre")
	require.NoError(t, err)
	assert.Len(t, result, 1)
}
