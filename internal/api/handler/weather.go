package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wanderplan/wanderplan/internal/api/models"
	"github.com/wanderplan/wanderplan/internal/api/response"
	"github.com/wanderplan/wanderplan/internal/featureflags"
	"github.com/wanderplan/wanderplan/internal/trip"
	"github.com/wanderplan/wanderplan/internal/weather"
)

// WeatherHandler handles trip weather endpoints.
type WeatherHandler struct {
	trips   *trip.Service
	weather *weather.Service
	flags   *featureflags.Service
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(trips *trip.Service, weatherSvc *weather.Service, flags *featureflags.Service) *WeatherHandler {
	return &WeatherHandler{
		trips:   trips,
		weather: weatherSvc,
		flags:   flags,
	}
}

// GetTripWeather handles GET /v1/trips/{tripID}/weather - the per-day
// weather report for the trip's dates at its destination.
func (h *WeatherHandler) GetTripWeather(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	tripID := chi.URLParam(r, "tripID")

	t, err := h.trips.Get(r.Context(), userID, tripID)
	if err != nil {
		writeTripError(w, r, err)
		return
	}

	window, err := tripWindow(t)
	if err != nil {
		response.InternalError(w, r, "trip has invalid dates")
		return
	}

	var report *weather.TripReport
	if h.flags.IsCachedOnlyWeather(r.Context()) {
		cached, ok := h.weather.CachedTripWeather(t.Destination.Lat, t.Destination.Lon, window)
		if !ok {
			response.ServiceUnavailable(w, r, "weather data temporarily unavailable")
			return
		}
		report = cached
	} else {
		report, err = h.weather.GetTripWeather(r.Context(), t.Destination.Lat, t.Destination.Lon, window)
		if err != nil {
			if errors.Is(err, weather.ErrProviderUnavailable) {
				response.ServiceUnavailable(w, r, "weather provider unavailable")
				return
			}
			response.InternalError(w, r, "failed to fetch trip weather")
			return
		}
	}

	response.JSON(w, r, http.StatusOK, toWeatherModel(report))
}

// tripWindow converts a trip's date strings to a weather query window.
func tripWindow(t *trip.Trip) (weather.TripWindow, error) {
	start, err := time.Parse(weather.DateLayout, t.StartDate)
	if err != nil {
		return weather.TripWindow{}, err
	}
	end, err := time.Parse(weather.DateLayout, t.EndDate)
	if err != nil {
		return weather.TripWindow{}, err
	}
	return weather.TripWindow{Start: start, End: end}, nil
}

// toWeatherModel converts a weather report to its API representation.
func toWeatherModel(report *weather.TripReport) models.TripWeatherResponse {
	days := make([]models.WeatherDay, 0, len(report.Days))
	for _, d := range report.Days {
		days = append(days, models.WeatherDay{
			Date:            d.Date,
			TempMinC:        d.TempMinC,
			TempMaxC:        d.TempMaxC,
			PrecipitationMm: d.PrecipitationMm,
			Glyph:           string(d.Glyph),
		})
	}
	return models.TripWeatherResponse{
		Days:         days,
		Historical:   report.Historical,
		LastYearData: report.LastYearData,
		FetchedAt:    models.Timestamp(report.FetchedAt),
	}
}
