package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wanderplan/wanderplan/internal/api/models"
	"github.com/wanderplan/wanderplan/internal/api/response"
	"github.com/wanderplan/wanderplan/internal/trip"
)

// defaultTripPageLimit caps trip list pages when the client does not ask
// for a specific size.
const defaultTripPageLimit = 50

// TripHandler handles trip CRUD endpoints.
type TripHandler struct {
	trips *trip.Service
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(trips *trip.Service) *TripHandler {
	return &TripHandler{trips: trips}
}

// ListTrips handles GET /v1/trips - list the user's trips.
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	limit := defaultTripPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, r, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	result, err := h.trips.List(r.Context(), userID, trip.ListOptions{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	})
	if err != nil {
		response.InternalError(w, r, "failed to list trips")
		return
	}

	out := models.PagedTrips{
		Items: make([]models.Trip, 0, len(result.Items)),
		Meta:  models.PagedResponseMeta{Limit: limit},
	}
	for _, t := range result.Items {
		out.Items = append(out.Items, toTripModel(t))
	}
	if result.NextCursor != "" {
		cursor := result.NextCursor
		out.Meta.NextCursor = &cursor
	}

	response.JSON(w, r, http.StatusOK, out)
}

// CreateTrip handles POST /v1/trips - create a trip.
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req models.TripCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.trips.Create(r.Context(), userID, &trip.CreateTripInput{
		Name: req.Name,
		Destination: trip.Destination{
			Name: req.Destination.Name,
			Lat:  req.Destination.Lat,
			Lon:  req.Destination.Lon,
		},
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		CoverPhoto: req.CoverPhoto,
	})
	if err != nil {
		writeTripError(w, r, err)
		return
	}

	location := fmt.Sprintf("/v1/trips/%s", created.ID)
	response.Created(w, r, location, toTripModel(created))
}

// GetTrip handles GET /v1/trips/{tripID} - fetch one trip.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	tripID := chi.URLParam(r, "tripID")

	t, err := h.trips.Get(r.Context(), userID, tripID)
	if err != nil {
		writeTripError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toTripModel(t))
}

// UpdateTrip handles PATCH /v1/trips/{tripID} - partially update a trip.
func (h *TripHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	tripID := chi.URLParam(r, "tripID")

	var req models.TripUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	input := &trip.UpdateTripInput{
		Name:       req.Name,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		CoverPhoto: req.CoverPhoto,
	}
	if req.Destination != nil {
		input.Destination = &trip.Destination{
			Name: req.Destination.Name,
			Lat:  req.Destination.Lat,
			Lon:  req.Destination.Lon,
		}
	}

	updated, err := h.trips.Update(r.Context(), userID, tripID, input)
	if err != nil {
		writeTripError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toTripModel(updated))
}

// DeleteTrip handles DELETE /v1/trips/{tripID} - delete a trip and its
// itinerary.
func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	tripID := chi.URLParam(r, "tripID")

	if err := h.trips.Delete(r.Context(), userID, tripID); err != nil {
		writeTripError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// toTripModel converts a domain trip to its API representation. The share
// token itself is never exposed on the trip resource, only whether one
// exists.
func toTripModel(t *trip.Trip) models.Trip {
	return models.Trip{
		ID:   t.ID,
		Name: t.Name,
		Destination: models.Destination{
			Name: t.Destination.Name,
			Lat:  t.Destination.Lat,
			Lon:  t.Destination.Lon,
		},
		StartDate:  t.StartDate,
		EndDate:    t.EndDate,
		CoverPhoto: t.CoverPhoto,
		Shared:     t.ShareToken != nil && *t.ShareToken != "",
		CreatedAt:  models.Timestamp(t.CreatedAt),
		UpdatedAt:  models.Timestamp(t.UpdatedAt),
	}
}

// writeTripError maps trip service errors onto problem responses.
func writeTripError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *trip.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(w, r, "validation error", tripFieldErrors(validationErr.Errors))
	case trip.IsNotFound(err):
		response.NotFound(w, r, "trip not found")
	default:
		response.InternalError(w, r, "trip operation failed")
	}
}

// tripFieldErrors converts trip validation errors to API field errors.
func tripFieldErrors(errs []trip.FieldError) []models.FieldError {
	out := make([]models.FieldError, len(errs))
	for i, e := range errs {
		out[i] = models.FieldError{
			Field:   e.Field,
			Message: e.Message,
		}
	}
	return out
}
