// Package weather provides trip weather resolution and normalization.
package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrMalformedSeries     = errors.New("malformed daily weather series")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
	ErrInvalidWindow       = errors.New("trip window start is after end")
)

// DateLayout is the calendar date format used throughout the weather domain.
// All comparisons are date-only; time of day is never significant.
const DateLayout = "2006-01-02"

// ForecastHorizonDays is how far ahead short-range forecasts are available.
// Trips ending beyond this horizon fall back to last year's archive data.
const ForecastHorizonDays = 16

// TripWindow is the date span of a trip, normalized to calendar dates.
type TripWindow struct {
	Start time.Time
	End   time.Time
}

// SourceKind identifies which weather data source to query.
type SourceKind string

const (
	// SourceForecast is the short-range forecast API.
	SourceForecast SourceKind = "FORECAST"

	// SourceArchive is the historical archive API.
	SourceArchive SourceKind = "ARCHIVE"
)

// SourceDecision is the outcome of choosing a data source and query range
// for a trip window. It is derived purely from the current date and the
// window, and is recomputed on every request.
type SourceDecision struct {
	// Kind is the data source to query.
	Kind SourceKind

	// QueryStart and QueryEnd bound the date range to request.
	// They equal the trip window except on the last-year fallback path.
	QueryStart time.Time
	QueryEnd   time.Time

	// Historical is true when the archive source is used.
	Historical bool

	// LastYearSubstitute is true when the trip is beyond the forecast
	// horizon and last year's dates are queried as a stand-in.
	LastYearSubstitute bool
}

// Glyph classifies a day's weather for display.
type Glyph string

const (
	GlyphSun    Glyph = "SUN"
	GlyphPartly Glyph = "PARTLY"
	GlyphRain   Glyph = "RAIN"
)

// DailySeries is the raw parallel-array daily payload as returned by the
// provider. All four slices are aligned by index.
type DailySeries struct {
	Dates           []string
	TempMaxC        []float64
	TempMinC        []float64
	PrecipitationMm []float64
}

// DailyWeather is one normalized per-day record.
type DailyWeather struct {
	// Date is the calendar date in YYYY-MM-DD form, as reported by the source.
	Date string

	TempMinC        float64
	TempMaxC        float64
	PrecipitationMm float64

	Glyph Glyph
}

// TripReport is the weather summary for one trip, as served to callers.
type TripReport struct {
	Days []DailyWeather

	// Historical is true when the data came from the archive source.
	Historical bool

	// LastYearData is true when the days cover last year's equivalent dates.
	LastYearData bool

	FetchedAt time.Time
}
