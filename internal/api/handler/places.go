package handler

import (
	"errors"
	"net/http"

	"github.com/wanderplan/wanderplan/internal/api/models"
	"github.com/wanderplan/wanderplan/internal/api/response"
	"github.com/wanderplan/wanderplan/internal/places"
)

// PlacesHandler handles place search endpoints.
type PlacesHandler struct {
	places *places.Service
}

// NewPlacesHandler creates a new PlacesHandler.
func NewPlacesHandler(placesSvc *places.Service) *PlacesHandler {
	return &PlacesHandler{places: placesSvc}
}

// SearchCities handles GET /v1/places/cities?q=...&country=... - city
// search for picking a trip destination.
func (h *PlacesHandler) SearchCities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	country := r.URL.Query().Get("country")

	cities, err := h.places.SearchCities(r.Context(), query, country)
	if err != nil {
		writePlacesError(w, r, err)
		return
	}

	out := models.CitiesResponse{Results: make([]models.CityResult, 0, len(cities))}
	for _, c := range cities {
		out.Results = append(out.Results, models.CityResult{
			Name:        c.Name,
			Lat:         c.Lat,
			Lon:         c.Lon,
			Country:     c.Country,
			CountryCode: c.CountryCode,
			Admin1:      c.Admin1,
		})
	}

	response.JSON(w, r, http.StatusOK, out)
}

// SearchAddresses handles GET /v1/places/addresses?q=... - free-text
// address search for placing itinerary items.
func (h *PlacesHandler) SearchAddresses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	addresses, err := h.places.SearchAddresses(r.Context(), query)
	if err != nil {
		writePlacesError(w, r, err)
		return
	}

	out := models.AddressesResponse{Results: make([]models.AddressResult, 0, len(addresses))}
	for _, a := range addresses {
		out.Results = append(out.Results, models.AddressResult{
			DisplayName: a.DisplayName,
			Lat:         a.Lat,
			Lon:         a.Lon,
			Type:        a.Type,
		})
	}

	response.JSON(w, r, http.StatusOK, out)
}

// writePlacesError maps place search errors onto problem responses.
func writePlacesError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, places.ErrQueryTooShort):
		response.BadRequest(w, r, "query is too short", nil)
	case errors.Is(err, places.ErrProviderUnavailable):
		response.ServiceUnavailable(w, r, "place search provider unavailable")
	default:
		response.InternalError(w, r, "place search failed")
	}
}
