package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderplan/wanderplan/internal/api/models"
	"github.com/wanderplan/wanderplan/internal/api/response"
	"github.com/wanderplan/wanderplan/internal/trip"
)

// ItineraryHandler handles itinerary item endpoints under a trip.
type ItineraryHandler struct {
	trips *trip.Service
}

// NewItineraryHandler creates a new ItineraryHandler.
func NewItineraryHandler(trips *trip.Service) *ItineraryHandler {
	return &ItineraryHandler{trips: trips}
}

// ListItems handles GET /v1/trips/{tripID}/items - the trip's itinerary in
// schedule order.
func (h *ItineraryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	tripID := chi.URLParam(r, "tripID")

	items, err := h.trips.ListItems(r.Context(), userID, tripID)
	if err != nil {
		writeItemError(w, r, err)
		return
	}

	out, err := toItemModels(items)
	if err != nil {
		response.InternalError(w, r, "failed to encode itinerary")
		return
	}

	response.JSON(w, r, http.StatusOK, models.ItineraryItems{Items: out})
}

// AddItems handles POST /v1/trips/{tripID}/items - add one or more items.
func (h *ItineraryHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	tripID := chi.URLParam(r, "tripID")

	var req models.ItineraryItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if len(req.Items) == 0 {
		response.BadRequest(w, r, "items must not be empty", nil)
		return
	}

	inputs := make([]*trip.ItemInput, 0, len(req.Items))
	for _, in := range req.Items {
		inputs = append(inputs, toItemInput(in))
	}

	created, err := h.trips.AddItems(r.Context(), userID, tripID, inputs)
	if err != nil {
		writeItemError(w, r, err)
		return
	}

	out, err := toItemModels(created)
	if err != nil {
		response.InternalError(w, r, "failed to encode itinerary")
		return
	}

	response.JSON(w, r, http.StatusCreated, models.ItineraryItems{Items: out})
}

// UpdateItem handles PUT /v1/trips/{tripID}/items/{itemID} - replace an item.
func (h *ItineraryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	tripID := chi.URLParam(r, "tripID")
	itemID := chi.URLParam(r, "itemID")

	var req models.ItineraryItemInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.trips.UpdateItem(r.Context(), userID, tripID, itemID, toItemInput(req))
	if err != nil {
		writeItemError(w, r, err)
		return
	}

	out, err := toItemModel(updated)
	if err != nil {
		response.InternalError(w, r, "failed to encode itinerary")
		return
	}

	response.JSON(w, r, http.StatusOK, out)
}

// DeleteItem handles DELETE /v1/trips/{tripID}/items/{itemID}.
func (h *ItineraryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	tripID := chi.URLParam(r, "tripID")
	itemID := chi.URLParam(r, "itemID")

	if err := h.trips.DeleteItem(r.Context(), userID, tripID, itemID); err != nil {
		writeItemError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// toItemInput converts an API item payload to a service input.
func toItemInput(in models.ItineraryItemInput) *trip.ItemInput {
	input := &trip.ItemInput{
		Type:      trip.ItemType(in.Type),
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Title:     in.Title,
		Details:   in.Details,
		Notes:     in.Notes,
	}
	if in.Location != nil {
		input.Location = trip.Geo{Lat: in.Location.Lat, Lon: in.Location.Lon}
	}
	return input
}

// toItemModel converts a domain item to its API representation.
func toItemModel(item *trip.ItineraryItem) (models.ItineraryItem, error) {
	details, err := trip.EncodeDetails(item.Details)
	if err != nil {
		return models.ItineraryItem{}, err
	}

	out := models.ItineraryItem{
		ID:        item.ID,
		Type:      string(item.Type),
		Date:      item.Date,
		StartTime: item.StartTime,
		EndTime:   item.EndTime,
		Title:     item.Title,
		Details:   details,
		Notes:     item.Notes,
		CreatedAt: models.Timestamp(item.CreatedAt),
		UpdatedAt: models.Timestamp(item.UpdatedAt),
	}
	if item.Location != (trip.Geo{}) {
		out.Location = &models.Point{Lat: item.Location.Lat, Lon: item.Location.Lon}
	}
	return out, nil
}

func toItemModels(items []*trip.ItineraryItem) ([]models.ItineraryItem, error) {
	out := make([]models.ItineraryItem, 0, len(items))
	for _, item := range items {
		m, err := toItemModel(item)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// writeItemError maps itinerary errors onto problem responses.
func writeItemError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *trip.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(w, r, "validation error", tripFieldErrors(validationErr.Errors))
	case errors.Is(err, trip.ErrItemNotFound):
		response.NotFound(w, r, "itinerary item not found")
	case errors.Is(err, trip.ErrTripNotFound):
		response.NotFound(w, r, "trip not found")
	default:
		response.InternalError(w, r, "itinerary operation failed")
	}
}
