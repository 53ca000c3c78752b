package weather_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderplan/wanderplan/internal/weather"
)

func date(s string) time.Time {
	t, err := time.Parse(weather.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDecide_PastTrip(t *testing.T) {
	decision := weather.Decide(date("2025-07-01"), weather.TripWindow{
		Start: date("2025-06-01"),
		End:   date("2025-06-10"),
	})

	assert.Equal(t, weather.SourceArchive, decision.Kind)
	assert.Equal(t, date("2025-06-01"), decision.QueryStart)
	assert.Equal(t, date("2025-06-10"), decision.QueryEnd)
	assert.True(t, decision.Historical)
	assert.False(t, decision.LastYearSubstitute)
}

func TestDecide_WithinForecastHorizon(t *testing.T) {
	tests := []struct {
		name  string
		today string
		start string
		end   string
	}{
		{"trip in progress", "2025-06-05", "2025-06-01", "2025-06-10"},
		{"ends today", "2025-06-10", "2025-06-01", "2025-06-10"},
		{"ends exactly at horizon", "2025-06-01", "2025-06-10", "2025-06-17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := weather.Decide(date(tt.today), weather.TripWindow{
				Start: date(tt.start),
				End:   date(tt.end),
			})

			assert.Equal(t, weather.SourceForecast, decision.Kind)
			assert.Equal(t, date(tt.start), decision.QueryStart)
			assert.Equal(t, date(tt.end), decision.QueryEnd)
			assert.False(t, decision.Historical)
			assert.False(t, decision.LastYearSubstitute)
		})
	}
}

func TestDecide_BeyondHorizonUsesLastYear(t *testing.T) {
	decision := weather.Decide(date("2025-01-01"), weather.TripWindow{
		Start: date("2025-06-01"),
		End:   date("2025-06-10"),
	})

	assert.Equal(t, weather.SourceArchive, decision.Kind)
	assert.Equal(t, date("2024-06-01"), decision.QueryStart)
	assert.Equal(t, date("2024-06-10"), decision.QueryEnd)
	assert.True(t, decision.Historical)
	assert.True(t, decision.LastYearSubstitute)
}

func TestDecide_OneDayPastHorizon(t *testing.T) {
	// Horizon is today+16; a trip ending on day 17 must fall back.
	decision := weather.Decide(date("2025-06-01"), weather.TripWindow{
		Start: date("2025-06-15"),
		End:   date("2025-06-18"),
	})

	assert.Equal(t, weather.SourceArchive, decision.Kind)
	assert.True(t, decision.LastYearSubstitute)
	assert.Equal(t, date("2024-06-15"), decision.QueryStart)
	assert.Equal(t, date("2024-06-18"), decision.QueryEnd)
}

func TestDecide_LeapDayClamped(t *testing.T) {
	decision := weather.Decide(date("2023-06-01"), weather.TripWindow{
		Start: date("2024-02-29"),
		End:   date("2024-03-05"),
	})

	require.True(t, decision.LastYearSubstitute)
	assert.Equal(t, date("2023-02-28"), decision.QueryStart)
	assert.Equal(t, date("2023-03-05"), decision.QueryEnd)
}

func TestDecide_LeapDayKeptWhenTargetIsLeapYear(t *testing.T) {
	// 2021 -> 2020 is a leap year, so Feb 29 survives.
	decision := weather.Decide(date("2020-06-01"), weather.TripWindow{
		Start: date("2021-02-27"),
		End:   date("2021-03-05"),
	})

	require.True(t, decision.LastYearSubstitute)
	assert.Equal(t, date("2020-02-27"), decision.QueryStart)
}

func TestDecide_IgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2025, 6, 11, 23, 30, 0, 0, time.UTC)
	end := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	decision := weather.Decide(today, weather.TripWindow{
		Start: date("2025-06-01"),
		End:   end,
	})

	// End date is the day before today regardless of clock times.
	assert.Equal(t, weather.SourceArchive, decision.Kind)
	assert.True(t, decision.Historical)
	assert.False(t, decision.LastYearSubstitute)
}

func TestDecide_IgnoresTimeZone(t *testing.T) {
	// Trip dates parse as UTC midnight while the clock carries the
	// server's zone. A trip ending today must stay a forecast even when
	// the server sits west of UTC, where local midnight is after 00:00Z.
	chicago := time.FixedZone("CST", -5*60*60)
	today := time.Date(2025, 6, 10, 0, 30, 0, 0, chicago)

	decision := weather.Decide(today, weather.TripWindow{
		Start: date("2025-06-01"),
		End:   date("2025-06-10"),
	})

	assert.Equal(t, weather.SourceForecast, decision.Kind)
	assert.False(t, decision.Historical)

	// East of UTC the skew runs the other way at the horizon boundary.
	tokyo := time.FixedZone("JST", 9*60*60)
	decision = weather.Decide(time.Date(2025, 6, 1, 23, 0, 0, 0, tokyo), weather.TripWindow{
		Start: date("2025-06-10"),
		End:   date("2025-06-17"),
	})
	assert.Equal(t, weather.SourceForecast, decision.Kind)
}

func TestNormalize(t *testing.T) {
	days, err := weather.Normalize(weather.DailySeries{
		Dates:           []string{"2025-01-01", "2025-01-02", "2025-01-03"},
		TempMaxC:        []float64{20, 18, 15},
		TempMinC:        []float64{10, 9, 7},
		PrecipitationMm: []float64{0, 0.5, 5},
	})
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, "2025-01-01", days[0].Date)
	assert.Equal(t, 20.0, days[0].TempMaxC)
	assert.Equal(t, 10.0, days[0].TempMinC)
	assert.Equal(t, weather.GlyphSun, days[0].Glyph)
	assert.Equal(t, weather.GlyphPartly, days[1].Glyph)
	assert.Equal(t, weather.GlyphRain, days[2].Glyph)
}

func TestNormalize_Empty(t *testing.T) {
	days, err := weather.Normalize(weather.DailySeries{})
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestNormalize_PreservesSourceOrder(t *testing.T) {
	days, err := weather.Normalize(weather.DailySeries{
		Dates:           []string{"2025-01-02", "2025-01-01"},
		TempMaxC:        []float64{1, 2},
		TempMinC:        []float64{0, 0},
		PrecipitationMm: []float64{0, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-02", days[0].Date)
	assert.Equal(t, "2025-01-01", days[1].Date)
}

func TestNormalize_LengthMismatch(t *testing.T) {
	tests := []struct {
		name   string
		series weather.DailySeries
	}{
		{
			"missing precipitation entry",
			weather.DailySeries{
				Dates:           []string{"2025-01-01", "2025-01-02"},
				TempMaxC:        []float64{20, 18},
				TempMinC:        []float64{10, 9},
				PrecipitationMm: []float64{0},
			},
		},
		{
			"extra temperature entry",
			weather.DailySeries{
				Dates:           []string{"2025-01-01"},
				TempMaxC:        []float64{20, 18},
				TempMinC:        []float64{10},
				PrecipitationMm: []float64{0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := weather.Normalize(tt.series)
			assert.ErrorIs(t, err, weather.ErrMalformedSeries)
		})
	}
}

func TestGlyphBoundaries(t *testing.T) {
	days, err := weather.Normalize(weather.DailySeries{
		Dates:           []string{"a", "b", "c"},
		TempMaxC:        []float64{0, 0, 0},
		TempMinC:        []float64{0, 0, 0},
		PrecipitationMm: []float64{0, 0.99, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, weather.GlyphSun, days[0].Glyph)
	assert.Equal(t, weather.GlyphPartly, days[1].Glyph)
	assert.Equal(t, weather.GlyphRain, days[2].Glyph)
}
