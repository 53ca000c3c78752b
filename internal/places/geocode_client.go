package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/wanderplan/wanderplan/internal/provider/resilience"
)

const (
	// GeocodeProviderName identifies the city search provider.
	GeocodeProviderName = "openmeteo-geocoding"

	// DefaultGeocodeURL is the Open-Meteo geocoding API endpoint.
	DefaultGeocodeURL = "https://geocoding-api.open-meteo.com/v1/search"

	// geocodeResultCount is how many candidates we request per query.
	geocodeResultCount = 10
)

// GeocodeClientConfig holds configuration for the city search client.
type GeocodeClientConfig struct {
	// BaseURL overrides the geocoding endpoint (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// GeocodeClient searches cities via the Open-Meteo geocoding API.
// Open-Meteo requires no API key.
type GeocodeClient struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewGeocodeClient creates a new city search client.
func NewGeocodeClient(cfg GeocodeClientConfig) *GeocodeClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultGeocodeURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(GeocodeProviderName))
	}

	return &GeocodeClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *GeocodeClient) Name() string {
	return GeocodeProviderName
}

type geocodeResponse struct {
	Results []struct {
		Name        string  `json:"name"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		Country     string  `json:"country"`
		CountryCode string  `json:"country_code"`
		Admin1      string  `json:"admin1"`
	} `json:"results"`
}

// SearchCities searches for cities matching the query. When countryCode is
// non-empty, results from other countries are dropped: the upstream country
// parameter is only a ranking hint, so the filter is applied here.
func (c *GeocodeClient) SearchCities(ctx context.Context, query, countryCode string) ([]City, error) {
	q := url.Values{}
	q.Set("name", query)
	q.Set("count", strconv.Itoa(geocodeResultCount))
	if countryCode != "" {
		q.Set("country", countryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	cities := make([]City, 0, len(payload.Results))
	for _, r := range payload.Results {
		if countryCode != "" && r.CountryCode != countryCode {
			continue
		}
		cities = append(cities, City{
			Name:        r.Name,
			Lat:         r.Latitude,
			Lon:         r.Longitude,
			Country:     r.Country,
			CountryCode: r.CountryCode,
			Admin1:      r.Admin1,
		})
	}

	return cities, nil
}
