package weather

import "time"

// Decide chooses a weather data source and query range for a trip window.
//
// The rules, evaluated against calendar dates only:
//   - the trip already ended: query the archive for the trip's own dates
//   - the trip ends within the forecast horizon: query the forecast
//   - otherwise: query the archive for the same dates one year earlier,
//     as an indicative substitute
//
// Decide is pure; the fetch itself happens elsewhere.
func Decide(today time.Time, window TripWindow) SourceDecision {
	today = toDate(today)
	start := toDate(window.Start)
	end := toDate(window.End)

	if end.Before(today) {
		return SourceDecision{
			Kind:       SourceArchive,
			QueryStart: start,
			QueryEnd:   end,
			Historical: true,
		}
	}

	horizon := today.AddDate(0, 0, ForecastHorizonDays)
	if !end.After(horizon) {
		return SourceDecision{
			Kind:       SourceForecast,
			QueryStart: start,
			QueryEnd:   end,
		}
	}

	return SourceDecision{
		Kind:               SourceArchive,
		QueryStart:         shiftBackOneYear(start),
		QueryEnd:           shiftBackOneYear(end),
		Historical:         true,
		LastYearSubstitute: true,
	}
}

// Normalize zips the provider's parallel daily arrays into per-day records.
// Input order is preserved; the source already returns ascending dates.
// An empty series yields an empty slice. Any length mismatch between the
// four arrays returns ErrMalformedSeries.
func Normalize(series DailySeries) ([]DailyWeather, error) {
	n := len(series.Dates)
	if len(series.TempMaxC) != n || len(series.TempMinC) != n || len(series.PrecipitationMm) != n {
		return nil, ErrMalformedSeries
	}

	days := make([]DailyWeather, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, DailyWeather{
			Date:            series.Dates[i],
			TempMaxC:        series.TempMaxC[i],
			TempMinC:        series.TempMinC[i],
			PrecipitationMm: series.PrecipitationMm[i],
			Glyph:           glyphFor(series.PrecipitationMm[i]),
		})
	}
	return days, nil
}

// glyphFor classifies a day by its precipitation sum in millimeters.
func glyphFor(precipMm float64) Glyph {
	switch {
	case precipMm == 0:
		return GlyphSun
	case precipMm < 1:
		return GlyphPartly
	default:
		return GlyphRain
	}
}

// shiftBackOneYear moves a date to the same month and day one year earlier.
// Feb 29 is clamped to Feb 28 when the target year is not a leap year.
func shiftBackOneYear(t time.Time) time.Time {
	year, month, day := t.Date()
	year--
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// toDate strips the time of day, keeping only the calendar date.
// Inputs arrive in mixed locations (parsed trip dates are UTC, the clock
// is server-local), so the date is rebuilt in UTC to keep comparisons
// purely calendar-based.
func toDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
