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
	// NominatimProviderName identifies the address search provider.
	NominatimProviderName = "nominatim"

	// DefaultNominatimURL is the OSM Nominatim search endpoint.
	DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

	// nominatimResultLimit is how many candidates we request per query.
	nominatimResultLimit = 10

	// nominatimUserAgent identifies this application to Nominatim, which
	// rejects requests without a distinctive User-Agent.
	nominatimUserAgent = "wanderplan/1.0 (https://github.com/wanderplan/wanderplan)"
)

// NominatimClientConfig holds configuration for the address search client.
type NominatimClientConfig struct {
	// BaseURL overrides the search endpoint (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// NominatimClient searches addresses via the OSM Nominatim API.
type NominatimClient struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewNominatimClient creates a new address search client.
func NewNominatimClient(cfg NominatimClientConfig) *NominatimClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(NominatimProviderName))
	}

	return &NominatimClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *NominatimClient) Name() string {
	return NominatimProviderName
}

// nominatimResult is one Nominatim search hit. Coordinates arrive as
// strings.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Type        string `json:"type"`
}

// SearchAddresses searches for addresses matching the free-form query.
// Results whose coordinates fail to parse are dropped rather than failing
// the whole search.
func (c *NominatimClient) SearchAddresses(ctx context.Context, query string) ([]Address, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	q.Set("limit", strconv.Itoa(nominatimResultLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("User-Agent", nominatimUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	addresses := make([]Address, 0, len(payload))
	for _, r := range payload {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			c.logger.Warn().
				Str("display_name", r.DisplayName).
				Msg("dropping address result with unparseable coordinates")
			continue
		}
		addresses = append(addresses, Address{
			DisplayName: r.DisplayName,
			Lat:         lat,
			Lon:         lon,
			Type:        r.Type,
		})
	}

	return addresses, nil
}
