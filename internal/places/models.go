// Package places provides destination city and address search.
package places

import "errors"

// Service errors.
var (
	// ErrQueryTooShort indicates the search query is too short to be useful.
	ErrQueryTooShort = errors.New("query too short")

	// ErrProviderUnavailable indicates the upstream search provider failed.
	ErrProviderUnavailable = errors.New("places provider unavailable")
)

// City is a geocoded city result.
type City struct {
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Admin1      string  `json:"admin1,omitempty"`
}

// Address is a free-form address search result.
type Address struct {
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Type        string  `json:"type,omitempty"`
}
