package models

// WeatherDay is one per-day weather record in a trip forecast.
type WeatherDay struct {
	Date            string  `json:"date"`
	TempMinC        float64 `json:"tempMinC"`
	TempMaxC        float64 `json:"tempMaxC"`
	PrecipitationMm float64 `json:"precipitationMm"`
	Glyph           string  `json:"glyph"`
}

// TripWeatherResponse is the weather summary for a trip's date range.
type TripWeatherResponse struct {
	Days         []WeatherDay `json:"days"`
	Historical   bool         `json:"historical"`
	LastYearData bool         `json:"lastYearData"`
	FetchedAt    Timestamp    `json:"fetchedAt"`
}
