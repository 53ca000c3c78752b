package models

// CityResult is one city match from a place search.
type CityResult struct {
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"countryCode,omitempty"`
	Admin1      string  `json:"admin1,omitempty"`
}

// AddressResult is one address match from a free-text address search.
type AddressResult struct {
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Type        string  `json:"type,omitempty"`
}

// CitiesResponse wraps city search results.
type CitiesResponse struct {
	Results []CityResult `json:"results"`
}

// AddressesResponse wraps address search results.
type AddressesResponse struct {
	Results []AddressResult `json:"results"`
}
