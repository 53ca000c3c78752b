// Package openmeteo provides an Open-Meteo daily weather client.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/wanderplan/wanderplan/internal/provider/resilience"
	"github.com/wanderplan/wanderplan/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openmeteo"

	// DefaultForecastURL is the Open-Meteo forecast API endpoint.
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	// DefaultArchiveURL is the Open-Meteo historical archive API endpoint.
	DefaultArchiveURL = "https://archive-api.open-meteo.com/v1/archive"

	// dailyParams selects the daily aggregates the resolver consumes.
	dailyParams = "temperature_2m_max,temperature_2m_min,precipitation_sum"
)

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// ForecastURL overrides the forecast endpoint (optional).
	ForecastURL string

	// ArchiveURL overrides the archive endpoint (optional).
	ArchiveURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an Open-Meteo API client. Open-Meteo requires no API key.
type Client struct {
	forecastURL string
	archiveURL  string
	httpClient  *resilience.Client
	logger      zerolog.Logger
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	forecastURL := cfg.ForecastURL
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}

	archiveURL := cfg.ArchiveURL
	if archiveURL == "" {
		archiveURL = DefaultArchiveURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		forecastURL: forecastURL,
		archiveURL:  archiveURL,
		httpClient:  httpClient,
		logger:      cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// dailyResponse is the Open-Meteo payload shape. The daily object holds
// parallel arrays aligned by index.
type dailyResponse struct {
	Daily struct {
		Time             []string  `json:"time"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// FetchDaily fetches the daily series for a location and source decision.
// The decision's kind selects the forecast or archive endpoint, and its
// query range bounds the request.
func (c *Client) FetchDaily(ctx context.Context, lat, lon float64, decision weather.SourceDecision) (weather.DailySeries, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(lat, lon, decision), http.NoBody)
	if err != nil {
		return weather.DailySeries{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.DailySeries{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return weather.DailySeries{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload dailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.DailySeries{}, fmt.Errorf("decoding response: %w", err)
	}

	return weather.DailySeries{
		Dates:           payload.Daily.Time,
		TempMaxC:        payload.Daily.TemperatureMax,
		TempMinC:        payload.Daily.TemperatureMin,
		PrecipitationMm: payload.Daily.PrecipitationSum,
	}, nil
}

// requestURL builds the endpoint URL for a decision.
func (c *Client) requestURL(lat, lon float64, decision weather.SourceDecision) string {
	base := c.forecastURL
	if decision.Kind == weather.SourceArchive {
		base = c.archiveURL
	}

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.6f", lat))
	q.Set("longitude", fmt.Sprintf("%.6f", lon))
	q.Set("daily", dailyParams)
	q.Set("timezone", "auto")
	q.Set("start_date", decision.QueryStart.Format(weather.DateLayout))
	q.Set("end_date", decision.QueryEnd.Format(weather.DateLayout))

	return base + "?" + q.Encode()
}
